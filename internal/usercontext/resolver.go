// Package usercontext maps a host identity to the backend contact, client and
// assignable locations.
package usercontext

import (
	"context"
	"errors"
	"fmt"

	"selfeval/internal/backend"
)

var (
	// ErrNotLinked means the backend does not recognise the host identity.
	ErrNotLinked = errors.New("host user is not linked to a contact")
	// ErrNoLocationsAssigned means the contact resolved but has nothing to evaluate.
	ErrNoLocationsAssigned = errors.New("no locations assigned")
)

// TransientError wraps network, server and decoding failures.
type TransientError struct {
	Err error
}

// Error describes the underlying failure.
func (e *TransientError) Error() string {
	return fmt.Sprintf("resolve user context: %v", e.Err)
}

// Unwrap returns the underlying failure.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies resolution failures for display.
type ErrorKind string

const (
	KindNone        ErrorKind = ""
	KindNotLinked   ErrorKind = "not_linked"
	KindTransient   ErrorKind = "transient"
	KindNoLocations ErrorKind = "no_locations"
)

// Kind classifies err. Unknown errors are treated as transient.
func Kind(err error) ErrorKind {
	var transient *TransientError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotLinked):
		return KindNotLinked
	case errors.Is(err, ErrNoLocationsAssigned):
		return KindNoLocations
	case errors.As(err, &transient):
		return KindTransient
	}
	return KindTransient
}

// Message returns the user-facing text for err's kind.
func Message(err error) string {
	switch Kind(err) {
	case KindNone:
		return ""
	case KindNotLinked:
		return "Your account is not linked yet. Ask your supervisor for a link code and open the app again."
	case KindNoLocations:
		return "No points of sale are assigned to you. Contact your supervisor."
	}
	return "We could not load your information. Check your connection and try again."
}

// Fetcher retrieves a user context from the backend.
type Fetcher interface {
	UserContext(ctx context.Context, hostUserID int64) (backend.UserContext, error)
}

// Resolver performs a single lookup per call; it never retries.
type Resolver struct {
	fetcher Fetcher
}

// New returns a resolver backed by fetcher.
func New(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve fetches the context for hostUserID and classifies failures.
func (r *Resolver) Resolve(ctx context.Context, hostUserID int64) (backend.UserContext, error) {
	if r == nil || r.fetcher == nil {
		return backend.UserContext{}, &TransientError{Err: errors.New("no backend configured")}
	}
	uc, err := r.fetcher.UserContext(ctx, hostUserID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return backend.UserContext{}, ErrNotLinked
		}
		return backend.UserContext{}, &TransientError{Err: err}
	}
	if len(uc.Locations) == 0 {
		return uc, ErrNoLocationsAssigned
	}
	return uc, nil
}
