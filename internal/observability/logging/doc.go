// Package logging builds the slog loggers used by the CLI.
//
// Logs are written to stderr so that rendered articles on stdout stay clean.
// LOG_LEVEL=debug enables debug output; LOG_FORMAT=json switches the handler
// from text to JSON.
package logging
