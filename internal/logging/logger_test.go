package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/user/capturesort/internal/logging"
)

func TestConsoleLoggerLineShape(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("copying to", "destination", "/out/SM_3/02-01-2023/IMG_1.jpg")

	line := strings.TrimSpace(buf.String())
	pattern := regexp.MustCompile(`^\[\d{8} \d{2}:\d{2}:\d{2}\] INFO copying to destination=/out/SM_3/02-01-2023/IMG_1.jpg$`)
	if !pattern.MatchString(line) {
		t.Fatalf("unexpected console line: %q", line)
	}
}

func TestConsoleLoggerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("progress", "count", "3/10 (30%)")
	logger.Error("copy failed", "error", errors.New("disk full"))

	out := buf.String()
	if !strings.Contains(out, `count="3/10 (30%)"`) {
		t.Fatalf("expected quoted progress value, got %q", out)
	}
	if !strings.Contains(out, `ERROR copy failed error="disk full"`) {
		t.Fatalf("expected quoted error value, got %q", out)
	}
}

func TestConsoleLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "WARN shown") {
		t.Fatalf("expected warn record, got %q", out)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("with caller")

	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller annotation in debug output, got %q", buf.String())
	}
}

func TestConsoleLoggerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.WithGroup("job").With("partition", "SM_1").Info("queued", "index", 4)

	out := buf.String()
	if !strings.Contains(out, "job.partition=SM_1") || !strings.Contains(out, "job.index=4") {
		t.Fatalf("expected grouped keys, got %q", out)
	}
}

func TestJSONLoggerKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("metadata", "date", "02/01/2023", "source", "original-capture")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json record: %v", err)
	}
	if record["msg"] != "metadata" || record["level"] != "info" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if record["source"] != "original-capture" {
		t.Fatalf("expected source attribute, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if logging.ValidFormat("xml") {
		t.Fatal("ValidFormat accepted xml")
	}
	if !logging.ValidFormat("JSON") {
		t.Fatal("ValidFormat rejected JSON")
	}
}
