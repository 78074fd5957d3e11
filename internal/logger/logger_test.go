package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestReleaseModeLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	newWithWriter(&buf, "release").Info("server started", "port", "8080")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("release output is not JSON: %q", buf.String())
	}
	if entry["msg"] != "server started" || entry["port"] != "8080" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestDebugModeLogsText(t *testing.T) {
	var buf bytes.Buffer
	newWithWriter(&buf, "debug").Debug("sync", "messages", 3)

	if out := buf.String(); !strings.Contains(out, "msg=sync") || !strings.Contains(out, "messages=3") {
		t.Fatalf("unexpected output %q", out)
	}
}
