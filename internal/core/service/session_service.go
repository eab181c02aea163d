package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/todo-notify/todo-api/internal/core/domain"
)

// DefaultTokenTTL is the fixed session window.
const DefaultTokenTTL = 30 * 24 * time.Hour

// ErrMissingSecret is returned at construction when no signing secret is set.
var ErrMissingSecret = errors.New("jwt secret is not configured")

// SessionService issues and verifies HS256 access credentials. Verification is
// stateless: signature and expiry only.
type SessionService struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewSessionService(jwtSecret string, tokenTTL time.Duration) (*SessionService, error) {
	if jwtSecret == "" {
		return nil, ErrMissingSecret
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &SessionService{secret: []byte(jwtSecret), tokenTTL: tokenTTL, now: time.Now}, nil
}

// Issue signs a credential for userID.
func (s *SessionService) Issue(userID string) (*domain.AccessCredential, error) {
	now := s.now()
	cred := &domain.AccessCredential{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.tokenTTL).Truncate(time.Second),
	}

	claims := jwt.RegisteredClaims{
		ID:        cred.ID,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(cred.ExpiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	cred.Token = signed
	return cred, nil
}

// Verify validates signature and expiry. Any failure yields
// domain.ErrInvalidCredential.
func (s *SessionService) Verify(token string) (*domain.CredentialClaims, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidCredential
	}

	return &domain.CredentialClaims{
		ID:        claims.ID,
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
