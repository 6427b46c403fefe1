// Package log wraps log/slog with the component and field conventions the
// rest of the repository logs with.
package log

import (
	"log/slog"
	"os"
)

// Logger carries a fixed component attribute on every record.
type Logger struct {
	*slog.Logger
}

// New creates a text-handler logger at the given level.
func New(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// WithComponent returns a logger tagging every record with the component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With(FieldComponent, component)}
}

// With returns a logger with extra attributes attached.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// SetDefault installs the logger as the process-wide slog default, so
// packages logging via slog.InfoContext share the same handler.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
