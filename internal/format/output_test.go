package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteData_Envelope(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteData(&buf, map[string]int{"overall": 75}, nil, false); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	if got != `{"data":{"overall":75}}` {
		t.Fatalf("unexpected output: %s", got)
	}
}

func TestWriteError_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteError(&buf, "not_found", "case not found", true); err != nil {
		t.Fatalf("WriteError: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatalf("expected indented output: %q", buf.String())
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Error.Code != "not_found" || env.Error.Message != "case not found" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
