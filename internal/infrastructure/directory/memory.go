// Package directory provides the fixed in-memory identity directory used by
// demo deployments. Production replaces it with the MongoDB-backed directory;
// the ports.Directory contract is identical.
package directory

import (
	"context"
	"strings"
	"time"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

// sharedPassword is the single demo password for every account, compared by
// exact string equality. This is a demo placeholder, not a credential scheme;
// any real deployment must use the MongoDB directory with per-identity hashes.
const sharedPassword = "password"

// DemoIdentities returns the three fixed accounts of the reference deployment.
func DemoIdentities() []domain.Identity {
	return []domain.Identity{
		{
			ID:          "1",
			DisplayName: "Dr. Sarah Johnson",
			Email:       "admin@therapy.com",
			Role:        domain.RoleAdmin,
			Avatar:      "https://images.unsplash.com/photo-1559839734-2b71ea197ec2?w=400",
		},
		{
			ID:          "2",
			DisplayName: "Dr. Michael Chen",
			Email:       "practitioner@therapy.com",
			Role:        domain.RolePractitioner,
			Avatar:      "https://images.unsplash.com/photo-1612349317150-e413f6a5b16d?w=400",
		},
		{
			ID:          "3",
			DisplayName: "Emily Rodriguez",
			Email:       "patient@therapy.com",
			Role:        domain.RolePatient,
			Avatar:      "https://images.unsplash.com/photo-1494790108755-2616b85639c4?w=400",
		},
	}
}

// Memory is a fixed directory with optional simulated upstream latency.
type Memory struct {
	byEmail map[string]domain.Identity
	latency time.Duration
}

// NewMemory builds a directory over the given identities. latency, when
// positive, delays every lookup to mimic the reference backend's response
// time; the delay respects context cancellation.
func NewMemory(identities []domain.Identity, latency time.Duration) *Memory {
	m := &Memory{
		byEmail: make(map[string]domain.Identity, len(identities)),
		latency: latency,
	}
	for _, id := range identities {
		m.byEmail[strings.ToLower(id.Email)] = id
	}
	return m
}

// Authenticate matches by exact email and the shared demo password. The error
// never distinguishes an unknown email from a wrong password.
func (m *Memory) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	identity, ok := m.byEmail[strings.ToLower(email)]
	if !ok || password != sharedPassword {
		return nil, domain.ErrInvalidCredentials
	}

	snapshot := identity
	return &snapshot, nil
}
