// Package logging wraps log/slog with the handlers and attribute helpers the
// publish pipeline uses: a console handler for interactive runs, a JSON
// handler for log files, and component-scoped loggers.
package logging
