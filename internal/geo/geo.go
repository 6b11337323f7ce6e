// Package geo provides best-effort device positioning.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned by locators that cannot produce a fix.
var ErrUnavailable = errors.New("geolocation unavailable")

// Fix is a single position reading.
type Fix struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// String formats the fix as "lat, lon (±acc m)".
func (f Fix) String() string {
	if f.Accuracy > 0 {
		return fmt.Sprintf("%.6f, %.6f (±%.0f m)", f.Latitude, f.Longitude, f.Accuracy)
	}
	return fmt.Sprintf("%.6f, %.6f", f.Latitude, f.Longitude)
}

// Locator produces a position fix.
type Locator interface {
	Locate(ctx context.Context) (Fix, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Fix, error)

// Locate calls f.
func (f LocatorFunc) Locate(ctx context.Context) (Fix, error) {
	return f(ctx)
}

// Within waits at most timeout for a fix. The first of fix, failure, timeout or
// ctx cancellation wins; a late fix is discarded. ok is false whenever no fix
// was obtained.
func Within(ctx context.Context, locator Locator, timeout time.Duration) (Fix, bool) {
	if locator == nil {
		return Fix{}, false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	type result struct {
		fix Fix
		err error
	}
	results := make(chan result, 1)
	go func() {
		fix, err := locator.Locate(ctx)
		results <- result{fix: fix, err: err}
	}()

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}
	select {
	case res := <-results:
		if res.err != nil {
			return Fix{}, false
		}
		return res.fix, true
	case <-timer:
		return Fix{}, false
	case <-ctx.Done():
		return Fix{}, false
	}
}

// Pending starts a bounded lookup in the background and returns a function that
// waits for its outcome. Capture code uses it to overlap positioning with other
// work.
func Pending(ctx context.Context, locator Locator, timeout time.Duration) func() (Fix, bool) {
	type outcome struct {
		fix Fix
		ok  bool
	}
	done := make(chan outcome, 1)
	go func() {
		fix, ok := Within(ctx, locator, timeout)
		done <- outcome{fix: fix, ok: ok}
	}()
	return func() (Fix, bool) {
		res := <-done
		done <- res
		return res.fix, res.ok
	}
}

// Static always returns the configured fix.
type Static struct {
	Fix Fix
}

// Locate returns the static fix.
func (s Static) Locate(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	return s.Fix, nil
}

// Unavailable never produces a fix.
type Unavailable struct{}

// Locate always fails.
func (Unavailable) Locate(context.Context) (Fix, error) {
	return Fix{}, ErrUnavailable
}
