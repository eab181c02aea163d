package ports

import (
	"context"

	"github.com/todo-notify/todo-api/internal/core/domain"
)

// UserRepository defines persistence operations for users. Lookups that find
// nothing return domain.ErrUserNotFound.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update overwrites the profile fields (google id, email, name, avatar).
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	SetFCMToken(ctx context.Context, id, token string) (*domain.User, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	// ListWithFCMToken returns users that registered a push address.
	ListWithFCMToken(ctx context.Context) ([]*domain.User, error)
}
