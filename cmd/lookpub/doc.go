// Package main hosts the lookpub CLI entrypoint and command graph.
//
// The Cobra-based command tree drives the publish lifecycle from the
// terminal: scanning scene documents, accepting publish candidates into a
// session, selecting versions, validating against current disk state, and
// copying files to their publish locations. It centralizes configuration
// resolution and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
