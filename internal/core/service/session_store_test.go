package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

// fakeKV is an in-memory stand-in for the Redis-backed session storage.
type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
	failSet bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return "", false, errors.New("storage unavailable")
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) SetAll(_ context.Context, entries map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("storage unavailable")
	}
	for k, v := range entries {
		f.data[k] = v
	}
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func testIdentity() domain.Identity {
	return domain.Identity{
		ID:          "2",
		DisplayName: "Dr. Michael Chen",
		Email:       "practitioner@therapy.com",
		Role:        domain.RolePractitioner,
	}
}

func TestSessionStore_LoadingUntilRestore(t *testing.T) {
	store := NewSessionStore(newFakeKV(), zerolog.Nop())

	if !store.Loading() {
		t.Fatalf("store should report loading before Restore")
	}

	store.Restore(context.Background())
	if store.Loading() {
		t.Fatalf("store should not report loading after Restore")
	}
	if store.Current() != nil {
		t.Fatalf("empty storage should restore to no session")
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	kv := newFakeKV()
	store := NewSessionStore(kv, zerolog.Nop())
	store.Restore(context.Background())

	identity := testIdentity()
	if err := store.Set(context.Background(), identity, "tok-123"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	// Simulated process restart: a fresh store over the same storage.
	restarted := NewSessionStore(kv, zerolog.Nop())
	restarted.Restore(context.Background())

	session := restarted.Current()
	if session == nil {
		t.Fatalf("expected restored session, got none")
	}
	if session.Token != "tok-123" {
		t.Fatalf("token not round-tripped: %q", session.Token)
	}
	if session.Identity.ID != identity.ID ||
		session.Identity.Email != identity.Email ||
		session.Identity.Role != identity.Role ||
		session.Identity.DisplayName != identity.DisplayName {
		t.Fatalf("identity not round-tripped: %+v", session.Identity)
	}
}

func TestSessionStore_ClearThenRestore(t *testing.T) {
	kv := newFakeKV()
	store := NewSessionStore(kv, zerolog.Nop())
	store.Restore(context.Background())

	if err := store.Set(context.Background(), testIdentity(), "tok-123"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if store.Current() != nil {
		t.Fatalf("Current should be nil after Clear")
	}

	restarted := NewSessionStore(kv, zerolog.Nop())
	restarted.Restore(context.Background())
	if restarted.Current() != nil {
		t.Fatalf("restore after Clear should find no session")
	}
}

func TestSessionStore_MalformedPersistedState(t *testing.T) {
	kv := newFakeKV()
	_ = kv.SetAll(context.Background(), map[string]string{
		sessionTokenKey:    "tok-123",
		sessionIdentityKey: "{not json",
	})

	store := NewSessionStore(kv, zerolog.Nop())
	store.Restore(context.Background())

	if store.Loading() {
		t.Fatalf("restore should complete even on malformed state")
	}
	if store.Current() != nil {
		t.Fatalf("malformed identity must degrade to anonymous")
	}
}

func TestSessionStore_UnknownSchemaOrRole(t *testing.T) {
	cases := map[string]string{
		"wrong schema": `{"schema":99,"id":"1","name":"x","email":"x@y.com","role":"admin"}`,
		"bad role":     `{"schema":1,"id":"1","name":"x","email":"x@y.com","role":"superuser"}`,
	}

	for name, raw := range cases {
		kv := newFakeKV()
		_ = kv.SetAll(context.Background(), map[string]string{
			sessionTokenKey:    "tok-123",
			sessionIdentityKey: raw,
		})

		store := NewSessionStore(kv, zerolog.Nop())
		store.Restore(context.Background())
		if store.Current() != nil {
			t.Fatalf("%s: expected anonymous, got session", name)
		}
	}
}

func TestSessionStore_LoneTokenIsNoSession(t *testing.T) {
	kv := newFakeKV()
	_ = kv.SetAll(context.Background(), map[string]string{sessionTokenKey: "tok-123"})

	store := NewSessionStore(kv, zerolog.Nop())
	store.Restore(context.Background())
	if store.Current() != nil {
		t.Fatalf("token without identity must be treated as absent")
	}
}

func TestSessionStore_StorageErrorDegrades(t *testing.T) {
	kv := newFakeKV()
	kv.failGet = true

	store := NewSessionStore(kv, zerolog.Nop())
	store.Restore(context.Background())
	if store.Loading() {
		t.Fatalf("restore should complete despite storage error")
	}
	if store.Current() != nil {
		t.Fatalf("storage error must degrade to anonymous")
	}
}

func TestSessionStore_FailedSetLeavesPriorSessionIntact(t *testing.T) {
	kv := newFakeKV()
	store := NewSessionStore(kv, zerolog.Nop())
	store.Restore(context.Background())

	first := testIdentity()
	if err := store.Set(context.Background(), first, "tok-1"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	kv.failSet = true
	second := testIdentity()
	second.ID = "9"
	if err := store.Set(context.Background(), second, "tok-2"); err == nil {
		t.Fatalf("Set should surface the storage error")
	}

	// Memory still holds the first session.
	current := store.Current()
	if current == nil || current.Token != "tok-1" || current.Identity.ID != first.ID {
		t.Fatalf("failed Set must not touch the in-memory session, got %+v", current)
	}

	// Storage was written atomically, so a restart restores the first session
	// whole. A partial write would pair tok-2 with the old identity record.
	kv.failSet = false
	restarted := NewSessionStore(kv, zerolog.Nop())
	restarted.Restore(context.Background())
	session := restarted.Current()
	if session == nil || session.Token != "tok-1" || session.Identity.ID != first.ID {
		t.Fatalf("restore after failed Set must yield the prior session, got %+v", session)
	}
}

func TestSessionStore_RestoreRunsOnce(t *testing.T) {
	kv := newFakeKV()
	store := NewSessionStore(kv, zerolog.Nop())
	store.Restore(context.Background())

	// A session written after the first restore must not be picked up by a
	// second Restore call on the same store.
	_ = kv.SetAll(context.Background(), map[string]string{
		sessionTokenKey:    "tok-123",
		sessionIdentityKey: `{"schema":1,"id":"1","name":"x","email":"x@y.com","role":"admin"}`,
	})

	store.Restore(context.Background())
	if store.Current() != nil {
		t.Fatalf("Restore must run exactly once per process")
	}
}
