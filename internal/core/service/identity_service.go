package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
	"github.com/todo-notify/todo-api/internal/metrics"
)

// IdentityService reconciles Google identities against the user store.
//
// The two flows deliberately match on different keys: the web OAuth flow looks
// users up by Google id, the Android flow by email because the subject seen on
// a device may differ across installs. Both refresh the stored profile on
// every sign-in.
type IdentityService struct {
	users ports.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewIdentityService(users ports.UserRepository, log zerolog.Logger) *IdentityService {
	return &IdentityService{users: users, log: log, now: time.Now}
}

// ResolveFromOAuthProfile finds the user by Google id and overwrites its
// profile, or creates it.
func (s *IdentityService) ResolveFromOAuthProfile(ctx context.Context, p domain.OAuthProfile) (*domain.User, error) {
	existing, err := s.users.FindByGoogleID(ctx, p.ProviderID)
	switch {
	case err == nil:
		existing.Name = p.Name
		existing.Avatar = p.Avatar
		existing.Email = p.Email
		return s.update(ctx, existing, "oauth")
	case errors.Is(err, domain.ErrUserNotFound):
		return s.create(ctx, &domain.User{
			GoogleID: p.ProviderID,
			Email:    p.Email,
			Name:     p.Name,
			Avatar:   p.Avatar,
		}, "oauth")
	default:
		return nil, err
	}
}

// ResolveFromVerifiedIdentity finds the user by email and overwrites its Google
// id and profile, or creates it.
func (s *IdentityService) ResolveFromVerifiedIdentity(ctx context.Context, id domain.VerifiedIdentity) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if existing.GoogleID != id.Subject {
			s.log.Info().Str("user_id", existing.ID).Msg("google id changed, updating in place")
		}
		existing.GoogleID = id.Subject
		existing.Name = id.Name
		existing.Avatar = id.Picture
		return s.update(ctx, existing, "android")
	case errors.Is(err, domain.ErrUserNotFound):
		return s.create(ctx, &domain.User{
			GoogleID: id.Subject,
			Email:    id.Email,
			Name:     id.Name,
			Avatar:   id.Picture,
		}, "android")
	default:
		return nil, err
	}
}

func (s *IdentityService) update(ctx context.Context, u *domain.User, flow string) (*domain.User, error) {
	u.UpdatedAt = s.now().UTC()
	updated, err := s.users.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	metrics.SignInsTotal.WithLabelValues(flow, "updated").Inc()
	s.log.Info().Str("user_id", updated.ID).Str("flow", flow).Msg("existing user signed in")
	return updated, nil
}

func (s *IdentityService) create(ctx context.Context, u *domain.User, flow string) (*domain.User, error) {
	now := s.now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	metrics.SignInsTotal.WithLabelValues(flow, "created").Inc()
	s.log.Info().Str("user_id", created.ID).Str("flow", flow).Msg("new user created")
	return created, nil
}
