package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelWarn)
	log.SetOutput(&buf)

	log.Debug("quiet")
	log.Info("quiet")
	log.Warn("loud")
	log.Error("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("output contains filtered lines:\n%s", out)
	}
	if strings.Count(out, "loud") != 2 {
		t.Errorf("expected 2 lines, got:\n%s", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelInfo)
	log.SetOutput(&buf)

	sub := log.With("horizons")
	sub.Info("cache miss")
	if !strings.Contains(buf.String(), "horizons: cache miss") {
		t.Errorf("missing component tag:\n%s", buf.String())
	}

	// Sub-loggers follow the parent's level changes.
	buf.Reset()
	log.SetLevel(LevelError)
	sub.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("sub-logger ignored parent level change:\n%s", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("nothing happens") // Must not panic or print
	log.With("sub").Warn("still nothing")
}
