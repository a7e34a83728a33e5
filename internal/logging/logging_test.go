package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "mtdash.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogApply("s1", "sample", "rendered", map[string]int{"epochs": 15})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, `[APPLY] session=s1 source=sample outcome=rendered payload={"epochs":15}`) {
		t.Fatalf("expected LogApply content, got: %s", content)
	}
}

func TestBuildApplyMessageDefaults(t *testing.T) {
	msg := buildApplyMessage(" ", " ", " REJECTED ", nil)
	if strings.Contains(msg, "session=") {
		t.Fatalf("expected session to be omitted, got: %s", msg)
	}
	if !strings.Contains(msg, "source=unknown") {
		t.Fatalf("expected default source, got: %s", msg)
	}
	if !strings.Contains(msg, "outcome=rejected") {
		t.Fatalf("expected lowercased outcome, got: %s", msg)
	}
	if !strings.HasSuffix(msg, "payload=null") {
		t.Fatalf("expected null payload, got: %s", msg)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
	if got := formatPayload(errors.New("boom")); got != "boom" {
		t.Fatalf("error payload: %s", got)
	}
}
