// Package logging assembles the structured slog loggers used across
// vobscribe.
//
// It owns the console and JSON handlers, centralizes level parsing, and
// defines the standardized attribute keys (run ID, event index) so every
// component logs data with the same shape. Log output always goes to
// stderr: stdout is reserved for subtitle output when no file is given.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
