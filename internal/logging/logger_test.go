package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"subfetch/internal/services"
)

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))
	logger = NewComponentLogger(logger, "scheduler")

	logger.Info("job finished", String("target", "/lib/movie.mkv"), Int("found", 2))

	line := buf.String()
	if !strings.Contains(line, "INFO scheduler: job finished") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "target=/lib/movie.mkv") || !strings.Contains(line, "found=2") {
		t.Fatalf("missing attrs in line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Warn("classify", String("reason", "no subtitles available"))

	if !strings.Contains(buf.String(), `reason="no subtitles available"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestWithContextAddsRunAndTarget(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := services.WithTarget(services.WithRunID(context.Background(), "run-1"), "/m/a.mkv")
	WithContext(ctx, logger).Info("probe")

	line := buf.String()
	if !strings.Contains(line, "run_id=run-1") || !strings.Contains(line, "target=/m/a.mkv") {
		t.Fatalf("missing context attrs: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("nonsense"); got != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", got)
	}
	if got := parseLevel("debug"); got != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", got)
	}
}
