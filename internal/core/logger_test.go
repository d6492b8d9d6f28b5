package core

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNoopLoggerDoesNothing(t *testing.T) {
	logger := NewNoopLogger()
	logger.Debug("a", "k", 1)
	logger.Info("b")
	logger.Warn("c", "k", "v")
	logger.Error("d")
}

func TestSlogLoggerWritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Info("operation complete", "operation", "create_project", "entity_id", "p-1")
	out := buf.String()
	if !strings.Contains(out, "operation complete") {
		t.Fatalf("missing message: %s", out)
	}
	if !strings.Contains(out, "operation=create_project") || !strings.Contains(out, "entity_id=p-1") {
		t.Fatalf("missing attributes: %s", out)
	}

	buf.Reset()
	logger.Error("operation failed", "error", "boom", "dangling")
	out = buf.String()
	if !strings.Contains(out, "error=boom") {
		t.Fatalf("missing error attribute: %s", out)
	}
	// Odd trailing argument is dropped, not rendered half-formed.
	if strings.Contains(out, "dangling") {
		t.Fatalf("dangling argument should be dropped: %s", out)
	}
}

func TestSlogLoggerNilFallback(t *testing.T) {
	logger := NewSlogLogger(nil)
	logger.Debug("quiet")
}
