package ports

import (
	"context"
	"time"

	"github.com/todo-notify/todo-api/internal/core/domain"
)

// IdentityResolver reconciles external Google identities with stored users.
type IdentityResolver interface {
	ResolveFromOAuthProfile(ctx context.Context, profile domain.OAuthProfile) (*domain.User, error)
	ResolveFromVerifiedIdentity(ctx context.Context, identity domain.VerifiedIdentity) (*domain.User, error)
}

// SessionIssuer signs and verifies access credentials.
type SessionIssuer interface {
	Issue(userID string) (*domain.AccessCredential, error)
	// Verify returns domain.ErrInvalidCredential for expired, malformed or
	// mis-signed tokens.
	Verify(token string) (*domain.CredentialClaims, error)
}

// AccessGuard authorizes a bearer credential and resolves its user.
type AccessGuard interface {
	Authorize(ctx context.Context, token string) (*domain.User, *domain.CredentialClaims, error)
}

// AuthService orchestrates the sign-in flows exposed over HTTP.
type AuthService interface {
	BeginOAuth(ctx context.Context) (string, error)
	CompleteOAuth(ctx context.Context, state, code string) (*domain.AccessCredential, *domain.User, error)
	SignInWithIDToken(ctx context.Context, idToken string) (*domain.AccessCredential, *domain.User, error)
	Logout(ctx context.Context, claims *domain.CredentialClaims) error
}

// OAuthProvider is the external Google OAuth 2.0 web flow.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error)
}

// IDTokenVerifier validates a Google-issued ID token presented by a mobile client.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.VerifiedIdentity, error)
}

// StateStore keeps single-use OAuth state nonces.
type StateStore interface {
	Save(ctx context.Context, state string) error
	// Consume reports whether the state existed and removes it.
	Consume(ctx context.Context, state string) (bool, error)
}

// RevocationStore remembers logged-out credentials until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, credentialID string, until time.Time) error
	IsRevoked(ctx context.Context, credentialID string) (bool, error)
}
