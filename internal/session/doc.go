// Package session persists publish-session state in SQLite: the per-node task
// settings (candidate work paths and the selected version) carried between the
// accept, validate, and publish phases, plus the registry of completed
// publishes.
package session
