package order

import (
	"context"
	"errors"
	"time"

	"almastore-be/internal/logger"
	"almastore-be/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher receives committed transitions. Publishing is best effort:
// a failure is logged and never undoes the status change.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, totalAmount int64) (*Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	UpdateStatus(
		ctx context.Context,
		orderID uuid.UUID,
		target OrderStatus,
		actor Actor,
		shipping *ShippingInfo,
	) (*Order, error)
}

type service struct {
	repo      Repository
	publisher EventPublisher
	now       func() time.Time
}

type Option func(*service)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(repo Repository, publisher EventPublisher, opts ...Option) Service {
	s := &service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, totalAmount int64) (*Order, error) {
	if userID == uuid.Nil {
		return nil, errors.New("order owner is required")
	}

	now := s.now().UTC()
	o := &Order{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      StatusPending,
		TotalAmount: totalAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) UpdateStatus(
	ctx context.Context,
	orderID uuid.UUID,
	target OrderStatus,
	actor Actor,
	shipping *ShippingInfo,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", orderID.String()),
		zap.String("target", string(target)),
		zap.String("actor", string(actor)),
	)

	// the automatic edge belongs to the reconciliation worker only
	if actor == ActorSystem {
		metrics.OrderTransitionRejectionsTotal.WithLabelValues("system_actor").Inc()
		return nil, &InvalidTransitionError{To: target, Actor: actor}
	}

	// 1. Load current state; status is never cached across calls
	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		log.Warn("failed to load order", zap.Error(err))
		return nil, err
	}

	// 2. Shipping metadata travels with the SHIPPED transition
	base := *current
	if target == StatusShipped && shipping != nil {
		if shipping.Courier != nil {
			base.Courier = shipping.Courier
		}
		if shipping.TrackingNumber != nil {
			base.TrackingNumber = shipping.TrackingNumber
		}
	}

	// 3. Validate edge
	next, ev, err := Transition(base, target, actor, s.now().UTC())
	if err != nil {
		metrics.OrderTransitionRejectionsTotal.WithLabelValues("invalid_edge").Inc()
		log.Warn("transition rejected",
			zap.String("from", string(current.Status)),
			zap.Error(err),
		)
		return nil, err
	}

	// 4. Conditional write guarded by the status we validated against
	if err := s.repo.CompareAndSetStatus(ctx, &next, current.Status); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			metrics.OrderTransitionRejectionsTotal.WithLabelValues("conflict").Inc()
		}
		log.Error("failed to persist transition", zap.Error(err))
		return nil, err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(ev.From), string(ev.To), string(actor)).Inc()
	log.Info("order transitioned", zap.String("from", string(ev.From)))

	// 5. Notify after commit
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ev); err != nil {
			log.Warn("failed to publish order event", zap.Error(err))
		}
	}

	return &next, nil
}
