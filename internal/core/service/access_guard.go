package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

// Guard authorizes bearer credentials for protected routes.
type Guard struct {
	issuer      ports.SessionIssuer
	users       ports.UserRepository
	revocations ports.RevocationStore
}

// NewAccessGuard returns a Guard. revocations may be nil, in which case
// logged-out credentials stay valid until they expire.
func NewAccessGuard(issuer ports.SessionIssuer, users ports.UserRepository, revocations ports.RevocationStore) *Guard {
	return &Guard{issuer: issuer, users: users, revocations: revocations}
}

// Authorize verifies the credential and loads its user. A bad credential or a
// user that no longer exists is domain.ErrUnauthorized; store failures are
// returned as is.
func (g *Guard) Authorize(ctx context.Context, token string) (*domain.User, *domain.CredentialClaims, error) {
	claims, err := g.issuer.Verify(token)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}

	if g.revocations != nil && claims.ID != "" {
		revoked, err := g.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, nil, domain.ErrUnauthorized
		}
	}

	user, err := g.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, err
	}
	return user, claims, nil
}
