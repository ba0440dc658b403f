package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelsmith/internal/config"
	"reelsmith/internal/services"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger = NewComponentLogger(logger, "segmenter")
	logger.Info("blocks created", slog.Int("count", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO segmenter: blocks created") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "count=3") {
		t.Fatalf("missing attribute in line: %q", line)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("indexing chunk", slog.String("block_id", "block_001"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if record["msg"] != "indexing chunk" {
		t.Fatalf("unexpected msg %v", record["msg"])
	}
	if record["level"] != "debug" {
		t.Fatalf("unexpected level %v", record["level"])
	}
	if record["block_id"] != "block_001" {
		t.Fatalf("unexpected block_id %v", record["block_id"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Fatalf("info line leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithRequestID(context.Background(), "req-1234")
	ctx = services.WithConcept(ctx, "concept_01")
	ctx = services.WithStage(ctx, "indexing")

	WithContext(ctx, logger).Info("stage done")

	line := buf.String()
	for _, want := range []string{"correlation_id=req-1234", "concept=concept_01", "stage=indexing"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in log line %q", want, line)
		}
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Server.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("daemon ready")

	data, err := os.ReadFile(filepath.Join(cfg.Server.LogDir, "reelsmithd.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "daemon ready") {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("goes nowhere")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}
