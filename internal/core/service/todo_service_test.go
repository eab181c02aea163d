package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

type todoFixture struct {
	svc    *TodoService
	todos  *stubTodoRepo
	users  *stubUserRepo
	sender *stubSender
	tasks  *syncSubmitter
}

func newTodoFixture(todos ...*domain.Todo) *todoFixture {
	f := &todoFixture{
		todos: newStubTodoRepo(todos...),
		users: newStubUserRepo(
			&domain.User{ID: "alice", Email: "alice@example.com", FCMToken: "alice-device"},
			&domain.User{ID: "bob", Email: "bob@example.com"},
		),
		sender: &stubSender{failFor: map[string]error{}},
		tasks:  &syncSubmitter{},
	}
	notifier := NewNotificationService(f.sender, NotificationConfig{}, discardLogger)
	f.svc = NewTodoService(f.todos, f.users, notifier, f.tasks, discardLogger)
	return f
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTodoService_Create_NotifiesOwner(t *testing.T) {
	f := newTodoFixture()

	todo, err := f.svc.Create(context.Background(), ports.CreateTodoInput{UserID: "alice", Title: "Buy milk", Description: "2l"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.ID == "" || todo.Title != "Buy milk" || todo.UserID != "alice" || todo.Completed {
		t.Fatalf("unexpected todo: %+v", todo)
	}

	if len(f.tasks.names) != 1 || f.tasks.names[0] != taskNotifyCreated {
		t.Fatalf("expected one created-notification task, got %v", f.tasks.names)
	}
	if f.sender.calls() != 1 {
		t.Fatalf("expected one push, got %d", f.sender.calls())
	}
	msg := f.sender.sent[0]
	if msg.Token != "alice-device" || msg.Title != "Todo Created" || msg.Body != "Buy milk" || msg.Data["todoId"] != todo.ID {
		t.Fatalf("unexpected push: %+v", msg)
	}
}

func TestTodoService_Create_DeliveryFailureDoesNotFailCreate(t *testing.T) {
	f := newTodoFixture()
	f.sender.failFor["alice-device"] = errProvider

	todo, err := f.svc.Create(context.Background(), ports.CreateTodoInput{UserID: "alice", Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create must succeed despite push failure: %v", err)
	}
	if todo == nil || len(f.todos.todos) != 1 {
		t.Fatalf("todo not stored")
	}
	if !errors.Is(f.tasks.errs[0], domain.ErrDeliveryFailed) {
		t.Fatalf("expected task to report delivery failure to its sink, got %v", f.tasks.errs[0])
	}
}

func TestTodoService_Create_ReadsPushAddressAtExecution(t *testing.T) {
	f := newTodoFixture()
	deferred := &deferredSubmitter{}
	f.svc.tasks = deferred

	if _, err := f.svc.Create(context.Background(), ports.CreateTodoInput{UserID: "alice", Title: "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = f.users.SetFCMToken(context.Background(), "alice", "alice-new-device")
	deferred.run()

	if f.sender.sent[0].Token != "alice-new-device" {
		t.Fatalf("expected fresh push address, got %q", f.sender.sent[0].Token)
	}
}

func TestTodoService_Create_NoPushAddressSkipsSend(t *testing.T) {
	f := newTodoFixture()

	if _, err := f.svc.Create(context.Background(), ports.CreateTodoInput{UserID: "bob", Title: "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.sender.calls() != 0 || f.tasks.errs[0] != nil {
		t.Fatalf("expected silent skip, calls=%d err=%v", f.sender.calls(), f.tasks.errs[0])
	}
}

func TestTodoService_Create_QueueFullStillSucceeds(t *testing.T) {
	f := newTodoFixture()
	full := &fullSubmitter{}
	f.svc.tasks = full

	if _, err := f.svc.Create(context.Background(), ports.CreateTodoInput{UserID: "alice", Title: "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if full.attempts != 1 {
		t.Fatalf("expected one submit attempt")
	}
}

func TestTodoService_Create_StoresTitleAsSent(t *testing.T) {
	f := newTodoFixture()

	todo, err := f.svc.Create(context.Background(), ports.CreateTodoInput{UserID: "alice", Title: "  Buy milk "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.Title != "  Buy milk " || f.todos.todos[todo.ID].Title != "  Buy milk " {
		t.Fatalf("title must be stored unchanged, got %q", todo.Title)
	}
}

func TestTodoService_Create_MissingTitle(t *testing.T) {
	f := newTodoFixture()

	for _, title := range []string{"", "   "} {
		if _, err := f.svc.Create(context.Background(), ports.CreateTodoInput{UserID: "alice", Title: title}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", title, err)
		}
	}
	if len(f.todos.todos) != 0 || len(f.tasks.names) != 0 {
		t.Fatalf("nothing should be stored or notified")
	}
}

func TestTodoService_OwnershipChecks(t *testing.T) {
	f := newTodoFixture(&domain.Todo{ID: "t1", UserID: "alice", Title: "mine"})
	ctx := context.Background()

	if _, err := f.svc.Get(ctx, "bob", "t1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("get: expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.svc.Update(ctx, "bob", "t1", domain.TodoPatch{Completed: boolPtr(true)}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("update: expected ErrUnauthorized, got %v", err)
	}
	if err := f.svc.Delete(ctx, "bob", "t1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("delete: expected ErrUnauthorized, got %v", err)
	}
	if _, ok := f.todos.todos["t1"]; !ok {
		t.Fatalf("todo must not be deleted by a non-owner")
	}
	if _, err := f.svc.Get(ctx, "alice", "missing"); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoService_Update_Partial(t *testing.T) {
	f := newTodoFixture(&domain.Todo{ID: "t1", UserID: "alice", Title: "old", Description: "keep"})

	updated, err := f.svc.Update(context.Background(), "alice", "t1", domain.TodoPatch{Completed: boolPtr(true), Title: strPtr(" new ")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed || updated.Title != " new " || updated.Description != "keep" {
		t.Fatalf("unexpected todo: %+v", updated)
	}

	if _, err := f.svc.Update(context.Background(), "alice", "t1", domain.TodoPatch{Title: strPtr(" ")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank title, got %v", err)
	}
}

func TestTodoService_Delete_NotifiesOwner(t *testing.T) {
	f := newTodoFixture(&domain.Todo{ID: "t1", UserID: "alice", Title: "Buy milk"})

	if err := f.svc.Delete(context.Background(), "alice", "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.todos.todos["t1"]; ok {
		t.Fatalf("todo not deleted")
	}
	if len(f.sender.sent) != 1 || f.sender.sent[0].Title != "Todo Deleted" || f.sender.sent[0].Body != "Buy milk" {
		t.Fatalf("unexpected pushes: %+v", f.sender.sent)
	}
}

func TestTodoService_List_NewestFirst(t *testing.T) {
	now := time.Now()
	f := newTodoFixture(
		&domain.Todo{ID: "t1", UserID: "alice", CreatedAt: now.Add(-time.Hour)},
		&domain.Todo{ID: "t2", UserID: "alice", CreatedAt: now},
		&domain.Todo{ID: "t3", UserID: "bob", CreatedAt: now},
	)

	todos, err := f.svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != "t2" {
		t.Fatalf("unexpected list: %+v", todos)
	}
}

// deferredSubmitter holds tasks until run is called.
type deferredSubmitter struct {
	tasks []ports.Task
}

func (d *deferredSubmitter) Submit(_, _ string, task ports.Task) bool {
	d.tasks = append(d.tasks, task)
	return true
}

func (d *deferredSubmitter) run() {
	for _, task := range d.tasks {
		_ = task(context.Background())
	}
}
