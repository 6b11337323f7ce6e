package geo

import (
	"context"
	"testing"
	"time"
)

// TestWithinReturnsFix verifies a prompt locator wins the race.
func TestWithinReturnsFix(t *testing.T) {
	fix, ok := Within(context.Background(), Static{Fix: Fix{Latitude: 1, Longitude: 2, Accuracy: 5}}, time.Second)
	if !ok {
		t.Fatalf("expected fix")
	}
	if fix.Latitude != 1 || fix.Longitude != 2 {
		t.Fatalf("unexpected fix %+v", fix)
	}
}

// TestWithinTimesOut verifies a slow locator is abandoned after the timeout.
func TestWithinTimesOut(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	slow := LocatorFunc(func(ctx context.Context) (Fix, error) {
		<-release
		return Fix{Latitude: 9}, nil
	})
	start := time.Now()
	_, ok := Within(context.Background(), slow, 20*time.Millisecond)
	if ok {
		t.Fatalf("expected timeout to win")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected prompt timeout, took %s", elapsed)
	}
}

// TestWithinDegradesOnFailure verifies locator errors are not surfaced.
func TestWithinDegradesOnFailure(t *testing.T) {
	if _, ok := Within(context.Background(), Unavailable{}, time.Second); ok {
		t.Fatalf("expected no fix from unavailable locator")
	}
	if _, ok := Within(context.Background(), nil, time.Second); ok {
		t.Fatalf("expected no fix from nil locator")
	}
}

// TestWithinHonorsCancellation verifies a cancelled context ends the wait.
func TestWithinHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked := LocatorFunc(func(ctx context.Context) (Fix, error) {
		<-ctx.Done()
		return Fix{}, ctx.Err()
	})
	if _, ok := Within(ctx, blocked, time.Minute); ok {
		t.Fatalf("expected cancellation to win")
	}
}

// TestPendingCanBeReadTwice verifies the deferred result is stable.
func TestPendingCanBeReadTwice(t *testing.T) {
	wait := Pending(context.Background(), Static{Fix: Fix{Latitude: 3}}, time.Second)
	first, ok := wait()
	second, ok2 := wait()
	if !ok || !ok2 || first != second {
		t.Fatalf("expected stable result, got %+v/%v and %+v/%v", first, ok, second, ok2)
	}
}

// TestFixString verifies coordinate formatting used in watermarks.
func TestFixString(t *testing.T) {
	got := Fix{Latitude: -12.5, Longitude: 45.25, Accuracy: 8}.String()
	want := "-12.500000, 45.250000 (±8 m)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
