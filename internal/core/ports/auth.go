package ports

import (
	"context"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

// Directory resolves credentials to identities. The demo deployment uses a
// fixed in-memory directory; production swaps in the MongoDB adapter without
// changing the AuthService contract.
type Directory interface {
	// Authenticate returns the identity matching email and password, or
	// domain.ErrInvalidCredentials. Implementations must not reveal whether
	// the email exists.
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)
}

// AuthService turns credentials into an installed session, or rejects them.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context) error
}
