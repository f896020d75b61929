package push

import (
	"context"
	"errors"
	"sync/atomic"

	"almastore-be/internal/logger"
	"almastore-be/internal/metrics"
	"almastore-be/internal/notification"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Dispatcher delivers one persisted notification to every active device of
// its recipient.
type Dispatcher struct {
	tokens      TokenRepository
	gateway     Gateway
	batchSize   int
	concurrency int
}

type Option func(*Dispatcher)

// WithBatchSize caps messages per gateway request. Values outside
// (0, MaxBatchSize] are ignored.
func WithBatchSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 && n <= MaxBatchSize {
			d.batchSize = n
		}
	}
}

func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

func NewDispatcher(tokens TokenRepository, gateway Gateway, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		tokens:      tokens,
		gateway:     gateway,
		batchSize:   MaxBatchSize,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func buildMessages(n notification.Notification, tokens []Token) []Message {
	msgs := make([]Message, 0, len(tokens))
	for _, t := range tokens {
		msgs = append(msgs, Message{
			To:    t.Token,
			Sound: defaultSound,
			Title: n.Title,
			Body:  n.Message,
			Data: MessageData{
				Category:        string(n.Category),
				ActionReference: n.ActionURL,
				NotificationID:  n.ID.String(),
			},
		})
	}
	return msgs
}

// Deliver fans the notification out to the recipient's active tokens. A
// failed batch is counted in the result and does not fail the call; an
// error is returned only when nothing could be attempted.
func (d *Dispatcher) Deliver(ctx context.Context, n notification.Notification) (*Result, error) {
	if d.gateway == nil {
		return nil, ErrNotConfigured
	}

	ctx = logger.WithFields(ctx,
		zap.String("notification_id", n.ID.String()),
		zap.String("recipient_id", n.RecipientID.String()),
	)
	log := logger.FromCtx(ctx).With(zap.String("layer", "dispatcher"))

	tokens, err := d.tokens.ListActiveByUser(ctx, n.RecipientID)
	if err != nil {
		return nil, err
	}

	if len(tokens) == 0 {
		log.Info("no active push tokens for recipient")
		return &Result{}, nil
	}

	msgs := buildMessages(n, tokens)

	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for start := 0; start < len(msgs); start += d.batchSize {
		batch := msgs[start:min(start+d.batchSize, len(msgs))]

		g.Go(func() error {
			timer := metrics.StartTimer()
			err := d.gateway.Send(gctx, batch)
			timer.ObserveSeconds(metrics.PushBatchDuration)

			if errors.Is(err, ErrNotConfigured) {
				return err
			}
			if err != nil {
				failed.Add(int64(len(batch)))
				log.Warn("push batch failed",
					zap.Int("batch_size", len(batch)),
					zap.Error(errors.Join(ErrBatchFailed, err)),
				)
				return nil
			}

			succeeded.Add(int64(len(batch)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Attempted: len(msgs),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
	}

	metrics.PushMessagesTotal.WithLabelValues("succeeded").Add(float64(res.Succeeded))
	metrics.PushMessagesTotal.WithLabelValues("failed").Add(float64(res.Failed))

	log.Info("push delivery finished",
		zap.Int("attempted", res.Attempted),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed),
	)

	return res, nil
}
