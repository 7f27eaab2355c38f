package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/therapyplatform/practice-system/internal/api/metrics"
	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

// Durable keys owned exclusively by the session store. Both must be present
// together; a lone key is treated as no session.
const (
	sessionTokenKey    = "auth:token"
	sessionIdentityKey = "auth:identity"
)

// SessionStore holds the single active session, or none, and persists it so a
// process restart does not log the user out.
type SessionStore struct {
	kv  ports.SessionKV
	log zerolog.Logger

	mu      sync.RWMutex
	current *domain.Session

	restoreOnce sync.Once
	loading     atomic.Bool
}

// NewSessionStore creates a store that reports Loading until Restore runs.
func NewSessionStore(kv ports.SessionKV, log zerolog.Logger) *SessionStore {
	s := &SessionStore{kv: kv, log: log}
	s.loading.Store(true)
	return s
}

// Restore reads the persisted session. It runs exactly once per process; any
// malformed or partial persisted state degrades to an empty store.
func (s *SessionStore) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		defer s.loading.Store(false)

		session, result := s.readPersisted(ctx)
		metrics.SessionRestoresTotal.WithLabelValues(result).Inc()
		if session == nil {
			return
		}

		s.mu.Lock()
		s.current = session
		s.mu.Unlock()

		s.log.Info().
			Str("identity_id", session.Identity.ID).
			Str("role", session.Identity.Role.String()).
			Msg("session restored")
	})
}

// readPersisted returns the persisted session and a metric label: "restored",
// "empty" (no keys), or "failed" (unreadable or unparsable state).
func (s *SessionStore) readPersisted(ctx context.Context) (*domain.Session, string) {
	token, ok, err := s.kv.Get(ctx, sessionTokenKey)
	if err != nil {
		return nil, s.degrade(err, sessionTokenKey)
	}
	if !ok || token == "" {
		return nil, "empty"
	}

	raw, ok, err := s.kv.Get(ctx, sessionIdentityKey)
	if err != nil {
		return nil, s.degrade(err, sessionIdentityKey)
	}
	if !ok {
		return nil, "empty"
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, s.degrade(err, sessionIdentityKey)
	}
	if identity.Schema != domain.IdentitySchemaVersion || !identity.Role.Valid() {
		return nil, s.degrade(nil, sessionIdentityKey)
	}

	return &domain.Session{Identity: identity, Token: token}, "restored"
}

func (s *SessionStore) degrade(err error, key string) string {
	s.log.Warn().Err(err).Str("key", key).Msg("session restore degraded to anonymous")
	return "failed"
}

// Loading reports true until Restore has completed.
func (s *SessionStore) Loading() bool {
	return s.loading.Load()
}

// Set installs a new session, overwriting any prior one. Both keys go to
// storage in one atomic write, so a failure can never pair a new token with a
// stale identity record; memory is only updated once the write succeeds.
func (s *SessionStore) Set(ctx context.Context, identity domain.Identity, token string) error {
	identity.Schema = domain.IdentitySchemaVersion

	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	if err := s.kv.SetAll(ctx, map[string]string{
		sessionTokenKey:    token,
		sessionIdentityKey: string(raw),
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = &domain.Session{Identity: identity, Token: token}
	s.mu.Unlock()
	return nil
}

// Clear removes the in-memory session and deletes both persisted keys.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	return s.kv.Del(ctx, sessionTokenKey, sessionIdentityKey)
}

// Current returns a snapshot of the active session, or nil. Never blocks.
func (s *SessionStore) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	snapshot := *s.current
	return &snapshot
}
