package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/therapyplatform/practice-system/internal/api/metrics"
	"github.com/therapyplatform/practice-system/internal/core/domain"
	"github.com/therapyplatform/practice-system/internal/core/ports"
)

const defaultAuthTimeout = 10 * time.Second

// AuthService validates credentials against the identity directory and
// installs the resulting session in the session store.
type AuthService struct {
	directory  ports.Directory
	store      ports.SessionStore
	audit      ports.AuditSink
	signingKey []byte
	timeout    time.Duration
	log        zerolog.Logger

	// group collapses duplicate submissions: a second login with the same
	// credential pair while one is in flight shares the first result instead
	// of racing a second Set into the session store. Attempts with a
	// different password never share a key, so a wrong-password caller can
	// never be handed another caller's session.
	group singleflight.Group
}

func NewAuthService(directory ports.Directory, store ports.SessionStore, audit ports.AuditSink, signingKey string, timeout time.Duration, log zerolog.Logger) *AuthService {
	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}
	return &AuthService{
		directory:  directory,
		store:      store,
		audit:      audit,
		signingKey: []byte(signingKey),
		timeout:    timeout,
		log:        log,
	}
}

// Login authenticates the pair and, on success, installs the session. The
// failure is always domain.ErrInvalidCredentials regardless of whether the
// email exists, except for domain.ErrAuthTimeout when the directory is slow.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	v, err, _ := s.group.Do(loginKey(email, password), func() (any, error) {
		return s.login(ctx, email, password)
	})
	if err != nil {
		result := "rejected"
		if errors.Is(err, domain.ErrAuthTimeout) {
			result = "timeout"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		s.recordAudit(domain.AuditEvent{
			ActorID: email,
			Action:  domain.AuditActionLogin,
			Result:  domain.AuditResultRejected,
		})
		return nil, err
	}

	session := v.(*domain.Session)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.recordAudit(domain.AuditEvent{
		ActorID:   session.Identity.ID,
		ActorRole: session.Identity.Role,
		Action:    domain.AuditActionLogin,
		Result:    domain.AuditResultSuccess,
	})
	return session, nil
}

func (s *AuthService) login(ctx context.Context, email, password string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	identity, err := s.directory.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrAuthTimeout
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		// Storage or transport faults must not leak directory details either.
		s.log.Error().Err(err).Msg("directory lookup failed")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.mintToken(identity)
	if err != nil {
		return nil, err
	}

	identity.Schema = domain.IdentitySchemaVersion
	if err := s.store.Set(ctx, *identity, token); err != nil {
		return nil, err
	}

	return &domain.Session{Identity: *identity, Token: token}, nil
}

// Logout clears the session store. Idempotent.
func (s *AuthService) Logout(ctx context.Context) error {
	if current := s.store.Current(); current != nil {
		s.recordAudit(domain.AuditEvent{
			ActorID:   current.Identity.ID,
			ActorRole: current.Identity.Role,
			Action:    domain.AuditActionLogout,
			Result:    domain.AuditResultSuccess,
		})
	}
	return s.store.Clear(ctx)
}

// mintToken produces the opaque session token. It happens to be an HS256 JWT
// bound to the identity, but nothing in this system inspects its claims: the
// session store is the authority on who is logged in, so the token is not a
// security primitive here.
func (s *AuthService) mintToken(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"role":  identity.Role.String(),
		"iat":   time.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.signingKey)
}

// loginKey identifies a credential pair for duplicate-submission collapse.
// The password is hashed into the key so it never sits in the group's map as
// plaintext.
func loginKey(email, password string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(email)))
	h.Write([]byte{0})
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *AuthService) recordAudit(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	s.audit.Record(event)
}
