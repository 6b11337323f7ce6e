package verbose

import (
	"bytes"
	"strings"
	"testing"
)

// TestLoggerFiltersByLevel verifies lines below the threshold are dropped.
func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: LevelWarn})
	logger.Debugf("debug %d", 1)
	logger.Infof("info")
	logger.Warnf("geolocation unavailable for %s", "q1")
	logger.Errorf("boom")

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info\n") {
		t.Fatalf("expected debug and info filtered, got %q", out)
	}
	if !strings.Contains(out, "[selfeval] WARN geolocation unavailable for q1\n") {
		t.Fatalf("expected plain warn line, got %q", out)
	}
	if !strings.Contains(out, "[selfeval] ERROR boom\n") {
		t.Fatalf("expected error line, got %q", out)
	}
}

// TestNilLoggerIsSafe verifies a nil logger discards output.
func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Infof("ignored")
	if logger.Enabled(LevelError) {
		t.Fatalf("expected nil logger disabled")
	}
	Discard().Errorf("ignored")
}

// TestParseLevel verifies config spellings.
func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, "off": LevelOff}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil || got != want {
			t.Fatalf("parse %q: expected %v, got %v (%v)", raw, want, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

// TestShouldUseStylingIgnoresBuffers verifies non-terminals are never styled.
func TestShouldUseStylingIgnoresBuffers(t *testing.T) {
	if ShouldUseStyling(&bytes.Buffer{}) {
		t.Fatalf("expected buffers to be unstyled")
	}
}
