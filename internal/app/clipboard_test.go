package app

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestWriteOSC52SequenceEncodesPayload(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var buf bytes.Buffer
	if err := writeOSC52Sequence(&buf, "hello"); err != nil {
		t.Fatalf("writeOSC52Sequence: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b]52;") {
		t.Fatalf("expected an OSC52 sequence, got %q", out)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte("hello"))
	if !strings.Contains(out, encoded) {
		t.Fatalf("expected base64 payload %q in %q", encoded, out)
	}
}

func TestWriteOSC52SequenceTmuxEmitsBothForms(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	t.Setenv("TERM", "tmux-256color")

	var buf bytes.Buffer
	if err := writeOSC52Sequence(&buf, "hi"); err != nil {
		t.Fatalf("writeOSC52Sequence: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1bPtmux;") {
		t.Fatalf("expected a tmux-wrapped sequence, got %q", out)
	}
	if strings.Count(out, "]52;") < 2 {
		t.Fatalf("expected plain and wrapped sequences, got %q", out)
	}
}

func TestShouldAttemptOSC52Disabled(t *testing.T) {
	t.Setenv("PARLEY_DISABLE_OSC52", "1")
	t.Setenv("TERM", "xterm-256color")
	if shouldAttemptOSC52() {
		t.Fatalf("disable flag should turn OSC52 off")
	}
}

func TestShouldAttemptOSC52DumbTerminal(t *testing.T) {
	t.Setenv("PARLEY_DISABLE_OSC52", "")
	t.Setenv("TERM", "dumb")
	if shouldAttemptOSC52() {
		t.Fatalf("dumb terminals should not get OSC52")
	}
}
