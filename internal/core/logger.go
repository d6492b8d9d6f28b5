package core

import (
	"context"
	"log/slog"
)

// Logger is the minimal structured logging surface used by the service.
// Arguments are alternating key/value pairs, slog style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() Logger { return noopLogger{} }

type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger adapts a *slog.Logger to the service Logger interface.
// A nil argument falls back to slog.Default().
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return slogLogger{l: l}
}

func (s slogLogger) Debug(msg string, args ...any) {
	s.l.LogAttrs(context.Background(), slog.LevelDebug, msg, argsToAttrs(args)...)
}

func (s slogLogger) Info(msg string, args ...any) {
	s.l.LogAttrs(context.Background(), slog.LevelInfo, msg, argsToAttrs(args)...)
}

func (s slogLogger) Warn(msg string, args ...any) {
	s.l.LogAttrs(context.Background(), slog.LevelWarn, msg, argsToAttrs(args)...)
}

func (s slogLogger) Error(msg string, args ...any) {
	s.l.LogAttrs(context.Background(), slog.LevelError, msg, argsToAttrs(args)...)
}

func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "arg"
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
