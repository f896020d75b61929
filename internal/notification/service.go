package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"almastore-be/internal/logger"
	"almastore-be/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultChunkSize matches the store's per-call payload ceiling.
const DefaultChunkSize = 100

// RecipientDirectory resolves the users a broadcast targets.
type RecipientDirectory interface {
	ListCustomerIDs(ctx context.Context) ([]uuid.UUID, error)
}

type Service interface {
	// Notify persists one notification per recipient and returns how many
	// rows were written. Delivery is triggered by the store, not by Notify.
	Notify(ctx context.Context, target Target, p Payload) (int, error)
}

type service struct {
	repo       Repository
	recipients RecipientDirectory
	chunkSize  int
	now        func() time.Time
}

type Option func(*service)

func WithChunkSize(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(repo Repository, recipients RecipientDirectory, opts ...Option) Service {
	s := &service{
		repo:       repo,
		recipients: recipients,
		chunkSize:  DefaultChunkSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func validatePayload(p Payload) error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Message) == "" {
		return fmt.Errorf("%w: title and message are required", ErrInvalidPayload)
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	return nil
}

func (s *service) build(recipient uuid.UUID, p Payload, at time.Time) *Notification {
	return &Notification{
		ID:          uuid.New(),
		RecipientID: recipient,
		Title:       p.Title,
		Message:     p.Message,
		Category:    p.Category,
		ActionURL:   p.ActionURL,
		IsRead:      false,
		CreatedAt:   at,
	}
}

func (s *service) Notify(ctx context.Context, target Target, p Payload) (int, error) {
	if err := validatePayload(p); err != nil {
		return 0, err
	}

	if target.IsBroadcast() {
		return s.broadcast(ctx, p)
	}

	if *target.RecipientID == uuid.Nil {
		return 0, fmt.Errorf("%w: recipient id is empty", ErrInvalidPayload)
	}

	n := s.build(*target.RecipientID, p, s.now().UTC())
	if err := s.repo.Insert(ctx, n); err != nil {
		return 0, err
	}

	metrics.NotificationsCreatedTotal.WithLabelValues("single").Inc()
	return 1, nil
}

func (s *service) broadcast(ctx context.Context, p Payload) (int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "broadcast"),
		zap.String("category", string(p.Category)),
	)

	// 1. Recipients are resolved at call time; later sign-ups get nothing
	recipients, err := s.recipients.ListCustomerIDs(ctx)
	if err != nil {
		log.Error("failed to resolve broadcast recipients", zap.Error(err))
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	total := len(recipients)
	if total == 0 {
		log.Info("broadcast has no eligible recipients")
		return 0, nil
	}

	createdAt := s.now().UTC()
	sent := 0

	// 2. Write in fixed-size chunks, in resolution order. The first failing
	// chunk aborts the broadcast; earlier chunks stay written.
	for start := 0; start < total; start += s.chunkSize {
		end := min(start+s.chunkSize, total)

		chunk := make([]*Notification, 0, end-start)
		for _, id := range recipients[start:end] {
			chunk = append(chunk, s.build(id, p, createdAt))
		}

		if err := s.repo.InsertBatch(ctx, chunk); err != nil {
			metrics.FanoutChunkFailuresTotal.Inc()
			log.Error("broadcast chunk failed, aborting",
				zap.Int("chunk_start", start),
				zap.Int("sent", sent),
				zap.Int("total", total),
				zap.Error(err),
			)
			return sent, &PartialFanoutError{Sent: sent, Total: total, Err: err}
		}

		sent += len(chunk)
		metrics.NotificationsCreatedTotal.WithLabelValues("broadcast").Add(float64(len(chunk)))
	}

	log.Info("broadcast persisted", zap.Int("sent", sent))
	return sent, nil
}
