package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fidelity.log")
	l, err := New(Options{Level: "debug", Path: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("case created", zap.String("caseId", "c-1"))
	_ = l.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(b))
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("expected a JSON log line; got %q: %v", line, err)
	}
	if rec["msg"] != "case created" || rec["caseId"] != "c-1" || rec["level"] != "debug" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zap.DebugLevel,
		"WARN":  zap.WarnLevel,
		"error": zap.ErrorLevel,
		"":      zap.InfoLevel,
		"loud":  zap.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}
