package ports

import (
	"context"

	"github.com/todo-notify/todo-api/internal/core/domain"
)

// PushSender is the external push provider boundary. Only single sends are
// relied upon; fan-out is built on top of them.
type PushSender interface {
	Send(ctx context.Context, msg *domain.PushMessage) (messageID string, err error)
}

// Notifier is the notification dispatcher.
type Notifier interface {
	// Send delivers to one push address. It never returns an error: an empty
	// address yields a skipped outcome and provider errors a failed one.
	Send(ctx context.Context, token string, n domain.Notification) domain.Outcome
	// SendToMany fans out to many push addresses. It only fails before any
	// attempt, e.g. with domain.ErrPushDisabled.
	SendToMany(ctx context.Context, tokens []string, n domain.Notification) (*domain.DeliveryResult, error)
}

// Task is a unit of detached work.
type Task func(ctx context.Context) error

// TaskSubmitter schedules detached work outside the request lifecycle. Tasks
// sharing a key run in submission order. Submit never blocks; it reports false
// when the task was dropped.
type TaskSubmitter interface {
	Submit(key, name string, task Task) bool
}
