// Package logging constructs slog loggers with recut's console and JSON
// output formats and the shared attribute vocabulary.
package logging
