// Package config loads and validates the lookpub configuration file. The TOML
// file defines the project root, data and log directories, the named path
// templates used to locate work and publish files, and publish behavior.
package config
