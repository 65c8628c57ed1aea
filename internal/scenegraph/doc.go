// Package scenegraph reads the exported scene document: the saved scene path
// and the node graph with per-node string parameters. It stands in for the
// host application's node graph API.
package scenegraph
