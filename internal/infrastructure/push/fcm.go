package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/todo-notify/todo-api/internal/core/domain"
)

// Credentials selects how the Firebase app authenticates. JSON takes
// precedence over File.
type Credentials struct {
	JSON      string
	File      string
	ProjectID string
}

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender delivers push messages through Firebase Cloud Messaging.
type FCMSender struct {
	client messagingClient
}

// NewFCMSender initialises a Firebase app and its messaging client.
func NewFCMSender(ctx context.Context, creds Credentials) (*FCMSender, error) {
	var opts []option.ClientOption
	switch {
	case creds.JSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(creds.JSON)))
	case creds.File != "":
		opts = append(opts, option.WithCredentialsFile(creds.File))
	default:
		return nil, errors.New("firebase credentials are not configured")
	}

	var conf *firebase.Config
	if creds.ProjectID != "" {
		conf = &firebase.Config{ProjectID: creds.ProjectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return &FCMSender{client: client}, nil
}

// Send delivers a single message and returns the provider's message ID.
func (s *FCMSender) Send(ctx context.Context, msg *domain.PushMessage) (string, error) {
	id, err := s.client.Send(ctx, toMessage(msg))
	if err != nil {
		if messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) {
			return "", fmt.Errorf("%w: %v", domain.ErrStalePushAddress, err)
		}
		return "", err
	}
	return id, nil
}

func toMessage(msg *domain.PushMessage) *messaging.Message {
	m := &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
	}
	if len(msg.Data) > 0 {
		m.Data = make(map[string]string, len(msg.Data))
		for k, v := range msg.Data {
			m.Data[k] = v
		}
	}
	return m
}
