package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

// UserService handles push-address registration and admin messaging.
type UserService struct {
	users    ports.UserRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, notifier ports.Notifier, log zerolog.Logger) *UserService {
	return &UserService{users: users, notifier: notifier, log: log}
}

// RegisterFCMToken replaces the user's single push address.
func (s *UserService) RegisterFCMToken(ctx context.Context, userID, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.Invalid("FCM token is required")
	}

	user, err := s.users.SetFCMToken(ctx, userID, token)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("recipient", RecipientID(token)).Msg("fcm token updated")
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Broadcast sends n to every user with a push address.
func (s *UserService) Broadcast(ctx context.Context, n domain.Notification) (*ports.BroadcastResult, error) {
	if err := validateNotification(n); err != nil {
		return nil, err
	}

	users, err := s.users.ListWithFCMToken(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrNoPushRecipients
	}

	tokens := make([]string, 0, len(users))
	for _, u := range users {
		tokens = append(tokens, u.FCMToken)
	}

	n.Data = withData(n.Data, map[string]string{"type": "admin_broadcast"})
	delivery, err := s.notifier.SendToMany(ctx, tokens, n)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("users", len(users)).Int("succeeded", delivery.SuccessCount).Msg("broadcast sent")
	return &ports.BroadcastResult{TotalUsers: len(users), Delivery: delivery}, nil
}

// NotifyUser sends n to one user selected by id or email.
func (s *UserService) NotifyUser(ctx context.Context, target ports.UserTarget, n domain.Notification) (*domain.User, error) {
	if err := validateNotification(n); err != nil {
		return nil, err
	}
	if target.ID == "" && target.Email == "" {
		return nil, domain.Invalid("Either userId or email is required")
	}

	var (
		user *domain.User
		err  error
	)
	if target.ID != "" {
		user, err = s.users.FindByID(ctx, target.ID)
	} else {
		user, err = s.users.FindByEmail(ctx, target.Email)
	}
	if err != nil {
		return nil, err
	}
	if !user.HasPushAddress() {
		return nil, domain.ErrNoPushAddress
	}

	n.Data = withData(n.Data, map[string]string{"type": "admin_message", "userId": user.ID})
	out := s.notifier.Send(ctx, user.FCMToken, n)
	switch out.Status {
	case domain.OutcomeSucceeded:
		s.log.Info().Str("user_id", user.ID).Str("message_id", out.MessageID).Msg("notification sent to user")
		return user, nil
	case domain.OutcomeSkipped:
		return nil, domain.ErrPushDisabled
	default:
		return nil, domain.ErrDeliveryFailed
	}
}

func validateNotification(n domain.Notification) error {
	if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Body) == "" {
		return domain.Invalid("Title and body are required")
	}
	return nil
}

func withData(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
