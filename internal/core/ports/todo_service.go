package ports

import (
	"context"

	"github.com/todo-notify/todo-api/internal/core/domain"
)

// CreateTodoInput carries the fields accepted on creation.
type CreateTodoInput struct {
	UserID      string
	Title       string
	Description string
}

// TodoService is the todo lifecycle manager. Every operation on an existing
// todo fails with domain.ErrUnauthorized when userID is not the owner.
type TodoService interface {
	List(ctx context.Context, userID string) ([]*domain.Todo, error)
	Get(ctx context.Context, userID, id string) (*domain.Todo, error)
	Create(ctx context.Context, in CreateTodoInput) (*domain.Todo, error)
	Update(ctx context.Context, userID, id string, patch domain.TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, userID, id string) error
}

// UserService covers push-address registration and the admin notification
// endpoints.
type UserService interface {
	RegisterFCMToken(ctx context.Context, userID, token string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	Broadcast(ctx context.Context, n domain.Notification) (*BroadcastResult, error)
	NotifyUser(ctx context.Context, target UserTarget, n domain.Notification) (*domain.User, error)
}

// UserTarget selects a user by id or, when ID is empty, by email.
type UserTarget struct {
	ID    string
	Email string
}

// BroadcastResult summarises a send-to-all call.
type BroadcastResult struct {
	TotalUsers int
	Delivery   *domain.DeliveryResult
}
