package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, err := NewLogger(Config{Level: "info", Format: "json", OutputPath: path, Service: "agenthub", Version: "1.2.3"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	log.Debug("hidden")
	log.Info("agent created")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (debug filtered), got %d: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not json: %v", err)
	}
	if entry["msg"] != "agent created" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("expected timestamp key")
	}
	if entry["service"] != "agenthub" || entry["version"] != "1.2.3" {
		t.Errorf("missing initial fields: %v", entry)
	}
}

func TestNewLogger_FallbackDefaults(t *testing.T) {
	log, err := NewLogger(Config{Level: "nonsense", Format: "xml"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !log.Core().Enabled(0) { // info
		t.Error("unknown level should fall back to info")
	}
	if log.Core().Enabled(-1) { // debug
		t.Error("debug must be disabled at info level")
	}
}
