package ports

import (
	"context"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

// SessionKV is the durable key-value storage backing the session store. The
// session store is its only writer; no other component touches these keys.
type SessionKV interface {
	// Get returns the value for key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// SetAll writes every entry in a single atomic operation, so a failure
	// can never leave some of the entries written and others not.
	SetAll(ctx context.Context, entries map[string]string) error
	Del(ctx context.Context, keys ...string) error
}

// SessionStore is the single source of truth for "who is logged in right now".
type SessionStore interface {
	// Restore loads the persisted session, if any. It runs exactly once per
	// process; later calls are no-ops. Malformed persisted state degrades to
	// an empty store rather than an error.
	Restore(ctx context.Context)
	// Loading reports true until Restore has completed. Consumers must not
	// make redirect decisions while it is true.
	Loading() bool
	Set(ctx context.Context, identity domain.Identity, token string) error
	Clear(ctx context.Context) error
	// Current returns the active session or nil, without blocking.
	Current() *domain.Session
}
