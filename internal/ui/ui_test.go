package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestColorAppliesANSICodes(t *testing.T) {
	Init(false)
	got := Color("hello", FgGreen)
	want := FgGreen + "hello" + Reset
	if got != want {
		t.Fatalf("Color() = %q, want %q", got, want)
	}
}

func TestColorWithEmptyString(t *testing.T) {
	Init(false)
	got := Color("", FgRed)
	want := FgRed + "" + Reset
	if got != want {
		t.Fatalf("Color(\"\") = %q, want %q", got, want)
	}
}

func TestColorDisabled(t *testing.T) {
	Init(true)
	defer Init(false)
	if got := Color("plain", FgCyan); got != "plain" {
		t.Fatalf("Color() with color disabled = %q", got)
	}
}

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		status string
		icon   string
	}{
		{"success", "✓"},
		{"error", "✗"},
		{"warning", "⚠"},
		{"info", "ℹ"},
		{"other", "•"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := FormatStatus(tt.status, "Server is waking up")
			if !strings.Contains(got, tt.icon) || !strings.HasSuffix(got, " Server is waking up") {
				t.Errorf("FormatStatus(%q) = %q", tt.status, got)
			}
		})
	}
}

// lockedBuffer lets the spinner goroutine and the test share a buffer.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSimpleSpinner(t *testing.T) {
	var out lockedBuffer
	s := NewSimpleSpinner(&out, "Classifying bridge.jpg")
	s.interval = time.Millisecond
	s.Start()
	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "Classifying bridge.jpg") {
		if time.Now().After(deadline) {
			t.Fatalf("spinner never drew its message")
		}
		time.Sleep(time.Millisecond)
	}
	s.UpdateMessage("Server is waking up")
	s.Stop(true, "Classified bridge.jpg")
	s.Stop(false, "ignored")

	got := out.String()
	if !strings.HasSuffix(got, "Classified bridge.jpg\n") {
		t.Fatalf("unexpected final line in %q", got)
	}
	if strings.Contains(got, "ignored") {
		t.Fatalf("second Stop must be a no-op")
	}
}

func TestSimpleSpinner_StopFailure(t *testing.T) {
	var out lockedBuffer
	s := NewSimpleSpinner(&out, "x")
	s.Start()
	s.Stop(false, "request timed out")
	if !strings.Contains(out.String(), "request timed out") {
		t.Fatalf("missing failure message in %q", out.String())
	}
}
