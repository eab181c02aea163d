package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
	"github.com/todo-notify/todo-api/internal/metrics"
)

const (
	taskNotifyCreated = "notify_todo_created"
	taskNotifyDeleted = "notify_todo_deleted"
)

// TodoService is the todo lifecycle manager. Creates and deletes schedule a
// push to the owner as detached work; delivery never affects the result of
// the operation that triggered it.
type TodoService struct {
	todos    ports.TodoRepository
	users    ports.UserRepository
	notifier ports.Notifier
	tasks    ports.TaskSubmitter
	log      zerolog.Logger
	now      func() time.Time
}

func NewTodoService(
	todos ports.TodoRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	tasks ports.TaskSubmitter,
	log zerolog.Logger,
) *TodoService {
	return &TodoService{
		todos:    todos,
		users:    users,
		notifier: notifier,
		tasks:    tasks,
		log:      log,
		now:      time.Now,
	}
}

func (s *TodoService) List(ctx context.Context, userID string) ([]*domain.Todo, error) {
	return s.todos.FindByOwner(ctx, userID)
}

func (s *TodoService) Get(ctx context.Context, userID, id string) (*domain.Todo, error) {
	return s.owned(ctx, userID, id)
}

func (s *TodoService) Create(ctx context.Context, in ports.CreateTodoInput) (*domain.Todo, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Invalid("Title is required")
	}

	now := s.now().UTC()
	todo, err := s.todos.Create(ctx, &domain.Todo{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	metrics.TodoMutationsTotal.WithLabelValues("create").Inc()
	s.log.Info().Str("todo_id", todo.ID).Str("user_id", todo.UserID).Msg("todo created")

	s.notifyOwner(taskNotifyCreated, todo.UserID, domain.Notification{
		Title: "Todo Created",
		Body:  todo.Title,
		Data:  map[string]string{"type": "todo_created", "todoId": todo.ID},
	})
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, userID, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.Invalid("Title cannot be empty")
	}

	current, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return current, nil
	}

	updated, err := s.todos.Update(ctx, current.ID, patch)
	if err != nil {
		return nil, err
	}
	metrics.TodoMutationsTotal.WithLabelValues("update").Inc()
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	todo, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.todos.Delete(ctx, todo.ID); err != nil {
		return err
	}

	metrics.TodoMutationsTotal.WithLabelValues("delete").Inc()
	s.log.Info().Str("todo_id", todo.ID).Str("user_id", userID).Msg("todo deleted")

	s.notifyOwner(taskNotifyDeleted, todo.UserID, domain.Notification{
		Title: "Todo Deleted",
		Body:  todo.Title,
		Data:  map[string]string{"type": "todo_deleted", "todoId": todo.ID},
	})
	return nil
}

// owned loads a todo and enforces ownership. A missing todo is
// ErrTodoNotFound, someone else's is ErrUnauthorized.
func (s *TodoService) owned(ctx context.Context, userID, id string) (*domain.Todo, error) {
	todo, err := s.todos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !todo.OwnedBy(userID) {
		return nil, domain.ErrUnauthorized
	}
	return todo, nil
}

// notifyOwner submits a detached push to the owner's current push address,
// read at execution time rather than cached.
func (s *TodoService) notifyOwner(name, userID string, n domain.Notification) {
	task := func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("load owner %s: %w", userID, err)
		}
		if !user.HasPushAddress() {
			return nil
		}
		out := s.notifier.Send(ctx, user.FCMToken, n)
		if out.Status == domain.OutcomeFailed {
			return fmt.Errorf("%w: %s", domain.ErrDeliveryFailed, out.Error)
		}
		return nil
	}

	if !s.tasks.Submit(userID, name, task) {
		s.log.Warn().Str("task", name).Str("user_id", userID).Msg("notification dropped, background queue full")
	}
}
