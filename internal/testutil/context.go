package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds unit tests that do not pick their own limit.
const DefaultTimeout = 5 * time.Second

// Context returns a context cancelled at timeout or when the test ends,
// whichever comes first. The test deadline, if any, wins when it is sooner.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := t.Deadline(); ok {
		if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
