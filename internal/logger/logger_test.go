package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func capture(t *testing.T, isVerbose bool) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	SetVerbose(isVerbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	if IsVerbose() {
		t.Fatal("expected verbose off")
	}
	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("expected verbose on")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("chunks=%d", 12)
	Info("indexed %s", "doc-1")
	Warn("batch %d retried", 2)
	Section("Ask")

	want := []string{
		"[DEBUG] chunks=12\n",
		"[INFO] indexed doc-1\n",
		"[WARN] batch 2 retried\n",
		"\n=== Ask ===\n",
	}
	got := buf.String()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output %q missing %q", got, w)
		}
	}
}

func TestLevels_WhenQuiet(t *testing.T) {
	buf := capture(t, false)

	Debug("a")
	Info("b")
	Warn("c")
	Section("d")
	Step("e")()

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestStep_ReportsElapsed(t *testing.T) {
	buf := capture(t, true)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	now = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(1500 * time.Millisecond)
	}
	defer func() { now = time.Now }()

	done := Step("embed")
	done()

	if got := buf.String(); got != "[TIME] embed took 1.5s\n" {
		t.Errorf("unexpected output %q", got)
	}
}
