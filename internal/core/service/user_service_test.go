package service

import (
	"context"
	"errors"
	"testing"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
)

func newUserFixture(stub *stubSender, users ...*domain.User) (*UserService, *stubUserRepo) {
	repo := newStubUserRepo(users...)
	var sender ports.PushSender
	if stub != nil {
		sender = stub
	}
	notifier := NewNotificationService(sender, NotificationConfig{}, discardLogger)
	return NewUserService(repo, notifier, discardLogger), repo
}

func TestUserService_RegisterFCMToken(t *testing.T) {
	svc, repo := newUserFixture(&stubSender{}, &domain.User{ID: "u1"})

	if _, err := svc.RegisterFCMToken(context.Background(), "u1", " "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.RegisterFCMToken(context.Background(), "ghost", "tok"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := svc.RegisterFCMToken(context.Background(), "u1", "tok-1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.RegisterFCMToken(context.Background(), "u1", "tok-2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	u, _ := repo.FindByID(context.Background(), "u1")
	if u.FCMToken != "tok-2" {
		t.Fatalf("expected latest token to replace the previous one, got %q", u.FCMToken)
	}
}

func TestUserService_Broadcast(t *testing.T) {
	sender := &stubSender{failFor: map[string]error{"tok-b": errProvider}}
	svc, _ := newUserFixture(sender,
		&domain.User{ID: "a", FCMToken: "tok-a"},
		&domain.User{ID: "b", FCMToken: "tok-b"},
		&domain.User{ID: "c", FCMToken: "tok-c"},
		&domain.User{ID: "d"},
	)

	res, err := svc.Broadcast(context.Background(), domain.Notification{Title: "Hi", Body: "All"})
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if res.TotalUsers != 3 || res.Delivery.SuccessCount != 2 || res.Delivery.FailureCount != 1 {
		t.Fatalf("unexpected result: %+v %+v", res, res.Delivery)
	}
	for _, m := range sender.sent {
		if m.Data["type"] != "admin_broadcast" {
			t.Fatalf("expected broadcast metadata, got %v", m.Data)
		}
	}
}

func TestUserService_Broadcast_Errors(t *testing.T) {
	svc, _ := newUserFixture(&stubSender{}, &domain.User{ID: "a"})

	if _, err := svc.Broadcast(context.Background(), domain.Notification{Title: "Hi"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Broadcast(context.Background(), domain.Notification{Title: "Hi", Body: "x"}); !errors.Is(err, domain.ErrNoPushRecipients) {
		t.Fatalf("expected ErrNoPushRecipients, got %v", err)
	}

	disabled, _ := newUserFixture(nil, &domain.User{ID: "a", FCMToken: "tok"})
	if _, err := disabled.Broadcast(context.Background(), domain.Notification{Title: "Hi", Body: "x"}); !errors.Is(err, domain.ErrPushDisabled) {
		t.Fatalf("expected ErrPushDisabled, got %v", err)
	}
}

func TestUserService_NotifyUser(t *testing.T) {
	sender := &stubSender{failFor: map[string]error{"tok-fail": errProvider}}
	svc, _ := newUserFixture(sender,
		&domain.User{ID: "a", Email: "a@example.com", FCMToken: "tok-a"},
		&domain.User{ID: "b", Email: "b@example.com"},
		&domain.User{ID: "f", Email: "f@example.com", FCMToken: "tok-fail"},
	)
	ctx := context.Background()
	note := domain.Notification{Title: "Hi", Body: "You"}

	user, err := svc.NotifyUser(ctx, ports.UserTarget{Email: "a@example.com"}, note)
	if err != nil || user.ID != "a" {
		t.Fatalf("notify by email: %v %+v", err, user)
	}
	if sender.sent[0].Data["userId"] != "a" || sender.sent[0].Data["type"] != "admin_message" {
		t.Fatalf("unexpected metadata %v", sender.sent[0].Data)
	}

	cases := []struct {
		name   string
		target ports.UserTarget
		note   domain.Notification
		want   error
	}{
		{"missing fields", ports.UserTarget{ID: "a"}, domain.Notification{Title: "Hi"}, domain.ErrValidation},
		{"missing target", ports.UserTarget{}, note, domain.ErrValidation},
		{"unknown user", ports.UserTarget{ID: "zz"}, note, domain.ErrUserNotFound},
		{"no push address", ports.UserTarget{ID: "b"}, note, domain.ErrNoPushAddress},
		{"delivery failed", ports.UserTarget{ID: "f"}, note, domain.ErrDeliveryFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.NotifyUser(ctx, tc.target, tc.note); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
