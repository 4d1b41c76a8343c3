// Package logging builds slog loggers with console and JSON handlers and
// provides standardized attribute helpers shared across the pipeline.
package logging
