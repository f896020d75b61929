package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)

	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order status transitions applied, by edge and actor",
		},
		[]string{"from", "to", "actor"},
	)

	OrderTransitionRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transition_rejections_total",
			Help: "Order status transitions rejected, by reason",
		},
		[]string{"reason"},
	)

	ReconcileRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_runs_total",
			Help: "Reconciliation runs, by outcome",
		},
		[]string{"outcome"},
	)

	ReconcileCompletedOrdersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_completed_orders_total",
			Help: "Orders moved to COMPLETED by the reconciliation worker",
		},
	)

	ReconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reconcile_duration_seconds",
			Help:    "Duration of a reconciliation run",
			Buckets: prometheus.DefBuckets,
		},
	)

	NotificationsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notification rows persisted, by target kind",
		},
		[]string{"target"},
	)

	FanoutChunkFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_fanout_chunk_failures_total",
			Help: "Broadcast chunks whose write failed and aborted the fan-out",
		},
	)

	PushMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_messages_total",
			Help: "Push messages submitted to the gateway, by result",
		},
		[]string{"result"},
	)

	PushBatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "push_batch_duration_seconds",
			Help:    "Time taken by one push gateway batch call",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		OrderTransitionsTotal,
		OrderTransitionRejectionsTotal,
		ReconcileRunsTotal,
		ReconcileCompletedOrdersTotal,
		ReconcileDuration,
		NotificationsCreatedTotal,
		FanoutChunkFailuresTotal,
		PushMessagesTotal,
		PushBatchDuration,
	)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveSeconds records the elapsed time on h.
func (t *Timer) ObserveSeconds(h prometheus.Observer) {
	h.Observe(t.Duration().Seconds())
}
