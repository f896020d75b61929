package reconcile

import (
	"context"
	"time"

	"almastore-be/internal/logger"
	"almastore-be/internal/metrics"
	"almastore-be/internal/order"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultWindow is how long a SHIPPED order waits for the customer to
// confirm receipt before it is completed automatically.
const DefaultWindow = 72 * time.Hour

// Summary describes one reconciliation run.
type Summary struct {
	CompletedCount      int         `json:"completed_count"`
	OrderIDs            []uuid.UUID `json:"order_ids"`
	CheckedAt           time.Time   `json:"checked_at"`
	Cutoff              time.Time   `json:"cutoff_date"`
	NotificationsFailed int         `json:"notifications_failed"`
}

// Worker advances SHIPPED orders whose window has elapsed to COMPLETED.
// It holds no state between runs and is safe to invoke concurrently.
type Worker struct {
	orders    order.Repository
	publisher order.EventPublisher
	window    time.Duration
	now       func() time.Time
}

type Option func(*Worker)

func WithWindow(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.window = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

func NewWorker(orders order.Repository, publisher order.EventPublisher, opts ...Option) *Worker {
	w := &Worker{
		orders:    orders,
		publisher: publisher,
		window:    DefaultWindow,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Run(ctx context.Context) (*Summary, error) {
	timer := metrics.StartTimer()
	defer timer.ObserveSeconds(metrics.ReconcileDuration)

	now := w.now().UTC()
	cutoff := now.Add(-w.window)

	// every repository and notification log line of this sweep carries run_id
	ctx = logger.WithFields(ctx, zap.String("run_id", uuid.NewString()))
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "worker"),
		zap.String("method", "reconcile"),
		zap.Time("cutoff", cutoff),
	)

	summary := &Summary{
		OrderIDs:  []uuid.UUID{},
		CheckedAt: now,
		Cutoff:    cutoff,
	}

	// 1. Snapshot of candidates; the write below re-checks the predicate
	candidates, err := w.orders.ListShippedBefore(ctx, cutoff)
	if err != nil {
		metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
		log.Error("failed to list eligible orders", zap.Error(err))
		return nil, err
	}

	if len(candidates) == 0 {
		metrics.ReconcileRunsTotal.WithLabelValues("noop").Inc()
		log.Info("no orders eligible for auto-completion")
		return summary, nil
	}

	// 2. Validate every candidate against the automatic edge
	ids := make([]uuid.UUID, 0, len(candidates))
	events := make(map[uuid.UUID]order.Event, len(candidates))
	for _, o := range candidates {
		_, ev, err := order.Transition(*o, order.StatusCompleted, order.ActorSystem, now)
		if err != nil {
			log.Warn("skipping order", zap.String("order_id", o.ID.String()), zap.Error(err))
			continue
		}
		ids = append(ids, o.ID)
		events[o.ID] = ev
	}

	// 3. One conditional bulk write; rows moved by someone else drop out
	completed, err := w.orders.CompleteShipped(ctx, ids, cutoff, now)
	if err != nil {
		metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
		log.Error("bulk auto-complete failed", zap.Int("candidates", len(ids)), zap.Error(err))
		return nil, err
	}

	summary.CompletedCount = len(completed)
	if len(completed) > 0 {
		summary.OrderIDs = completed
	}
	metrics.ReconcileCompletedOrdersTotal.Add(float64(len(completed)))

	// 4. Best-effort notifications, only for rows this run actually moved
	for _, id := range completed {
		metrics.OrderTransitionsTotal.WithLabelValues(
			string(order.StatusShipped), string(order.StatusCompleted), string(order.ActorSystem),
		).Inc()

		if w.publisher == nil {
			continue
		}
		if err := w.publisher.Publish(ctx, events[id]); err != nil {
			summary.NotificationsFailed++
			log.Warn("failed to notify auto-completed order",
				zap.String("order_id", id.String()),
				zap.Error(err),
			)
		}
	}

	metrics.ReconcileRunsTotal.WithLabelValues("success").Inc()
	log.Info("auto-completion finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("completed", summary.CompletedCount),
		zap.Int("notifications_failed", summary.NotificationsFailed),
	)

	return summary, nil
}
