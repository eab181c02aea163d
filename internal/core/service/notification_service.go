package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/todo-notify/todo-api/internal/core/domain"
	"github.com/todo-notify/todo-api/internal/core/ports"
	"github.com/todo-notify/todo-api/internal/metrics"
)

const (
	defaultMaxConcurrency = 8
	defaultSendTimeout    = 10 * time.Second
	recipientIDLength     = 12

	outcomeStale = "stale"
)

// NotificationConfig tunes the dispatcher.
type NotificationConfig struct {
	MaxConcurrency int
	SendTimeout    time.Duration
}

// NotificationService dispatches push messages and accounts for every
// recipient. Provider failures are converted to outcomes, never returned as
// errors.
//
// With a nil sender the service is a no-op: Send reports every recipient as
// skipped and SendToMany fails fast with domain.ErrPushDisabled.
type NotificationService struct {
	sender         ports.PushSender
	maxConcurrency int
	sendTimeout    time.Duration
	log            zerolog.Logger
}

func NewNotificationService(sender ports.PushSender, cfg NotificationConfig, log zerolog.Logger) *NotificationService {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultMaxConcurrency
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	return &NotificationService{
		sender:         sender,
		maxConcurrency: cfg.MaxConcurrency,
		sendTimeout:    cfg.SendTimeout,
		log:            log,
	}
}

// Enabled reports whether a push provider is configured.
func (s *NotificationService) Enabled() bool {
	return s.sender != nil
}

// Send delivers n to a single push address.
func (s *NotificationService) Send(ctx context.Context, token string, n domain.Notification) domain.Outcome {
	token = strings.TrimSpace(token)
	if token == "" {
		metrics.PushDeliveriesTotal.WithLabelValues(string(domain.OutcomeSkipped)).Inc()
		return domain.Outcome{Status: domain.OutcomeSkipped}
	}
	if s.sender == nil {
		metrics.PushDeliveriesTotal.WithLabelValues(string(domain.OutcomeSkipped)).Inc()
		s.log.Debug().Str("recipient", RecipientID(token)).Msg("push disabled, notification skipped")
		return domain.Outcome{
			Recipient: RecipientID(token),
			Status:    domain.OutcomeSkipped,
			Error:     domain.ErrPushDisabled.Error(),
		}
	}

	start := time.Now()
	out := s.deliver(ctx, token, n)
	metrics.PushDispatchDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())
	return out
}

// SendToMany fans n out to every distinct non-blank address with bounded
// concurrency. successCount + failureCount always equals the number of
// distinct addresses attempted.
func (s *NotificationService) SendToMany(ctx context.Context, tokens []string, n domain.Notification) (*domain.DeliveryResult, error) {
	if s.sender == nil {
		return nil, domain.ErrPushDisabled
	}

	recipients := distinctTokens(tokens)
	if len(recipients) == 0 {
		return &domain.DeliveryResult{}, nil
	}

	// a dispatch that has started runs to completion even if the caller goes
	// away; every send keeps its own timeout
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	result := &domain.DeliveryResult{
		BatchID:   uuid.NewString(),
		State:     domain.DeliveryPreparing,
		Attempted: len(recipients),
	}
	outcomes := make([]domain.Outcome, len(recipients))

	result.State = domain.DeliverySending
	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, token := range recipients {
		// each goroutine owns outcomes[i]; nothing else is shared
		g.Go(func() error {
			outcomes[i] = s.deliver(ctx, token, n)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.Delivered() {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}
	result.Outcomes = outcomes
	result.State = result.TerminalState()

	metrics.PushDispatchDuration.WithLabelValues("fanout").Observe(time.Since(start).Seconds())
	s.log.Info().
		Str("batch_id", result.BatchID).
		Str("state", string(result.State)).
		Int("attempted", result.Attempted).
		Int("succeeded", result.SuccessCount).
		Int("failed", result.FailureCount).
		Msg("push fan-out finished")

	return result, nil
}

// deliver performs one provider call and converts any failure, including a
// panic inside the provider client, into a failed outcome.
func (s *NotificationService) deliver(ctx context.Context, token string, n domain.Notification) (out domain.Outcome) {
	out.Recipient = RecipientID(token)

	defer func() {
		if r := recover(); r != nil {
			out.Status = domain.OutcomeFailed
			out.MessageID = ""
			out.Error = fmt.Sprintf("push provider panic: %v", r)
		}
		label := string(out.Status)
		if out.Stale {
			label = outcomeStale
		}
		metrics.PushDeliveriesTotal.WithLabelValues(label).Inc()
		if out.Status == domain.OutcomeFailed {
			s.log.Warn().
				Str("recipient", out.Recipient).
				Bool("stale", out.Stale).
				Str("error", out.Error).
				Msg("push delivery failed")
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	id, err := s.sender.Send(sendCtx, n.To(token))
	if err != nil {
		out.Status = domain.OutcomeFailed
		out.Error = err.Error()
		out.Stale = errors.Is(err, domain.ErrStalePushAddress)
		return out
	}
	out.Status = domain.OutcomeSucceeded
	out.MessageID = id
	return out
}

// RecipientID derives the opaque identifier used in logs and results in place
// of a raw push address.
func RecipientID(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return "rcpt_" + hex.EncodeToString(sum[:])[:recipientIDLength]
}

func distinctTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
