package googleauth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/todo-notify/todo-api/internal/core/domain"
)

// ErrNoAudiences is returned when no client IDs are configured to accept.
var ErrNoAudiences = errors.New("no ID token audiences configured")

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// IDTokenVerifier checks Google-signed ID tokens presented by mobile clients.
// A token is accepted when it validates for any configured audience.
type IDTokenVerifier struct {
	audiences []string
	validate  validateFunc
}

// NewIDTokenVerifier creates a verifier backed by Google's public certs.
func NewIDTokenVerifier(ctx context.Context, audiences []string, opts ...option.ClientOption) (*IDTokenVerifier, error) {
	v, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("id token validator: %w", err)
	}
	return &IDTokenVerifier{audiences: audiences, validate: v.Validate}, nil
}

func (v *IDTokenVerifier) Verify(ctx context.Context, token string) (*domain.VerifiedIdentity, error) {
	if len(v.audiences) == 0 {
		return nil, ErrNoAudiences
	}

	var lastErr error
	for _, aud := range v.audiences {
		payload, err := v.validate(ctx, token, aud)
		if err != nil {
			lastErr = err
			continue
		}
		return identityFrom(payload)
	}
	return nil, fmt.Errorf("validate id token: %w", lastErr)
}

func identityFrom(p *idtoken.Payload) (*domain.VerifiedIdentity, error) {
	if verified, ok := p.Claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("id token email is not verified")
	}
	return &domain.VerifiedIdentity{
		Subject: p.Subject,
		Email:   claimString(p.Claims, "email"),
		Name:    claimString(p.Claims, "name"),
		Picture: claimString(p.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
