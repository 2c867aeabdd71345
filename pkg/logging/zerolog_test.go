package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/corpora-ai/go-corpora/pkg/corpora"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var fields map[string]any
	if err := json.Unmarshal(buf.Bytes(), &fields); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	return fields
}

func TestHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewZerologHandler(&buf, slog.LevelInfo))

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record emitted below the minimum level: %s", buf.String())
	}

	logger.Warn("visible")
	fields := logLine(t, &buf)
	if fields["level"] != "warn" || fields["message"] != "visible" {
		t.Errorf("fields = %v", fields)
	}
}

func TestHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewZerologHandler(&buf, slog.LevelDebug))

	logger.Info("indexed",
		slog.String("document", "report.pdf"),
		slog.Int("chunks", 12),
		slog.Bool("replaced", true),
	)

	fields := logLine(t, &buf)
	if fields["document"] != "report.pdf" {
		t.Errorf("document = %v", fields["document"])
	}
	if fields["chunks"] != float64(12) {
		t.Errorf("chunks = %v", fields["chunks"])
	}
	if fields["replaced"] != true {
		t.Errorf("replaced = %v", fields["replaced"])
	}
}

func TestHandlerWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := NewZerologHandler(&buf, slog.LevelDebug)
	logger := slog.New(base).With(slog.String("component", "engine")).WithGroup("query")

	logger.Info("done", slog.Int("results", 3))

	fields := logLine(t, &buf)
	if fields["component"] != "engine" {
		t.Errorf("component = %v", fields["component"])
	}
	if fields["query.results"] != float64(3) {
		t.Errorf("query.results = %v", fields["query.results"])
	}
}

func TestContextLoggerFlowsThroughHandler(t *testing.T) {
	var buf bytes.Buffer
	ctx := corpora.WithLogger(context.Background(), slog.New(NewZerologHandler(&buf, slog.LevelDebug)))

	corpora.LogInfo(ctx, "document received", slog.String("document", "a.txt"))

	if !strings.Contains(buf.String(), "document received") {
		t.Errorf("context logger did not reach the zerolog writer: %s", buf.String())
	}
}
