package logging

import (
	"log/slog"

	"github.com/google/uuid"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for the per-run correlation identifier.
	FieldRunID = "run_id"
	// FieldEventIndex is the standardized structured logging key for a subtitle event's input position.
	FieldEventIndex = "event_index"
	// FieldInput is the standardized structured logging key for the source file path.
	FieldInput = "input"
)

// WithRun tags a logger with a freshly minted run correlation ID so every
// line from one invocation can be grouped.
func WithRun(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldRunID, uuid.NewString()))
}

// WithComponent tags a logger with a component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}
