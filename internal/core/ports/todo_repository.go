package ports

import (
	"context"

	"github.com/todo-notify/todo-api/internal/core/domain"
)

// TodoRepository defines persistence operations for todos. Lookups that find
// nothing return domain.ErrTodoNotFound.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	// FindByOwner returns the user's todos, newest first.
	FindByOwner(ctx context.Context, userID string) ([]*domain.Todo, error)
	Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, id string) error
}
