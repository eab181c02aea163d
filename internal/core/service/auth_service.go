package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

// AuthService drives the Google web flow, Android sign-in and logout.
type AuthService struct {
	resolver    ports.IdentityResolver
	issuer      ports.SessionIssuer
	oauth       ports.OAuthProvider
	idTokens    ports.IDTokenVerifier
	states      ports.StateStore
	revocations ports.RevocationStore
	log         zerolog.Logger
}

// AuthDeps groups the collaborators of AuthService.
type AuthDeps struct {
	Resolver    ports.IdentityResolver
	Issuer      ports.SessionIssuer
	OAuth       ports.OAuthProvider
	IDTokens    ports.IDTokenVerifier
	States      ports.StateStore
	Revocations ports.RevocationStore
}

func NewAuthService(deps AuthDeps, log zerolog.Logger) *AuthService {
	return &AuthService{
		resolver:    deps.Resolver,
		issuer:      deps.Issuer,
		oauth:       deps.OAuth,
		idTokens:    deps.IDTokens,
		states:      deps.States,
		revocations: deps.Revocations,
		log:         log,
	}
}

// BeginOAuth stores a fresh state nonce and returns Google's consent URL.
func (s *AuthService) BeginOAuth(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.states.Save(ctx, state); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

// CompleteOAuth consumes the state, exchanges the code and issues a credential.
func (s *AuthService) CompleteOAuth(ctx context.Context, state, code string) (*domain.AccessCredential, *domain.User, error) {
	if state == "" {
		return nil, nil, domain.ErrInvalidOAuthState
	}
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, nil, fmt.Errorf("consume oauth state: %w", err)
	}
	if !ok {
		return nil, nil, domain.ErrInvalidOAuthState
	}
	if code == "" {
		return nil, nil, domain.Invalid("authorization code is required")
	}

	profile, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("exchange oauth code: %w", err)
	}

	user, err := s.resolver.ResolveFromOAuthProfile(ctx, *profile)
	if err != nil {
		return nil, nil, err
	}
	return s.issue(user)
}

// SignInWithIDToken verifies an Android ID token and issues a credential.
func (s *AuthService) SignInWithIDToken(ctx context.Context, idToken string) (*domain.AccessCredential, *domain.User, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, nil, domain.Invalid("idToken is required")
	}

	identity, err := s.idTokens.Verify(ctx, idToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("id token rejected")
		return nil, nil, domain.ErrUnauthorized
	}
	if identity.Email == "" {
		return nil, nil, domain.Invalid("id token carries no email")
	}

	user, err := s.resolver.ResolveFromVerifiedIdentity(ctx, *identity)
	if err != nil {
		return nil, nil, err
	}
	return s.issue(user)
}

// Logout revokes the credential until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *domain.CredentialClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}
	s.log.Info().Str("user_id", claims.UserID).Msg("user logged out")
	return nil
}

func (s *AuthService) issue(user *domain.User) (*domain.AccessCredential, *domain.User, error) {
	cred, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("issue credential: %w", err)
	}
	return cred, user, nil
}
