package testutil

import (
	"testing"
	"time"
)

// PollInterval is how often Eventually re-checks its condition.
const PollInterval = 5 * time.Millisecond

// Eventually polls fn until it returns true or timeout elapses.
func Eventually(t testing.TB, timeout time.Duration, fn func() bool, format string, args ...any) {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		if fn() {
			return
		}
		select {
		case <-deadline.C:
			if format == "" {
				t.Fatalf("condition not met within %s", timeout)
			}
			t.Fatalf(format, args...)
		case <-ticker.C:
		}
	}
}
