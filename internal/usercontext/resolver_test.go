package usercontext

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"selfeval/internal/backend"
	"selfeval/internal/testutil"
)

type fetchFunc func(ctx context.Context, id int64) (backend.UserContext, error)

func (f fetchFunc) UserContext(ctx context.Context, id int64) (backend.UserContext, error) {
	return f(ctx, id)
}

// TestResolveClassifiesErrors verifies each failure maps to a distinct kind and message.
func TestResolveClassifiesErrors(t *testing.T) {
	cases := []struct {
		name  string
		fetch fetchFunc
		kind  ErrorKind
	}{
		{
			name:  "not_linked",
			fetch: func(context.Context, int64) (backend.UserContext, error) { return backend.UserContext{}, backend.ErrNotFound },
			kind:  KindNotLinked,
		},
		{
			name: "server_error",
			fetch: func(context.Context, int64) (backend.UserContext, error) {
				return backend.UserContext{}, &backend.HTTPError{Status: 503}
			},
			kind: KindTransient,
		},
		{
			name:  "no_locations",
			fetch: func(context.Context, int64) (backend.UserContext, error) { return backend.UserContext{Name: "Ana"}, nil },
			kind:  KindNoLocations,
		},
	}
	messages := map[string]bool{}
	for _, tc := range cases {
		_, err := New(tc.fetch).Resolve(context.Background(), 1)
		if got := Kind(err); got != tc.kind {
			t.Fatalf("%s: expected kind %q, got %q (%v)", tc.name, tc.kind, got, err)
		}
		messages[Message(err)] = true
	}
	if len(messages) != len(cases) {
		t.Fatalf("expected distinct messages per kind, got %v", messages)
	}
}

// TestResolveDoesNotRetry verifies a failure results in exactly one fetch.
func TestResolveDoesNotRetry(t *testing.T) {
	calls := 0
	resolver := New(fetchFunc(func(context.Context, int64) (backend.UserContext, error) {
		calls++
		return backend.UserContext{}, errors.New("connection refused")
	}))
	_, err := resolver.Resolve(context.Background(), 1)
	var transient *TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

// TestResolveAgainstHTTPBackend verifies the resolver works with the HTTP client.
func TestResolveAgainstHTTPBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user-context/404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"contact_id":1,"name":"Ana","locations":[{"id":7,"name":"Store 7"}]}`))
	}))
	defer server.Close()

	resolver := New(backend.New(server.URL))
	ctx := testutil.Context(t, 2*time.Second)
	uc, err := resolver.Resolve(ctx, 12)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(uc.Locations) != 1 || uc.Locations[0].ID != 7 {
		t.Fatalf("unexpected context %+v", uc)
	}
	if _, err := resolver.Resolve(ctx, 404); !errors.Is(err, ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}
}
