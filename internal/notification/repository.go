package notification

import (
	"context"
	"database/sql"
	"fmt"

	"almastore-be/internal/logger"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	// InsertBatch writes all rows in a single statement.
	InsertBatch(ctx context.Context, ns []*Notification) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, n *Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (
			id, user_id, title, message, type, action_url, is_read, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		n.ID,
		n.RecipientID,
		n.Title,
		n.Message,
		n.Category,
		n.ActionURL,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert notification",
			zap.String("notification_id", n.ID.String()),
			zap.String("recipient_id", n.RecipientID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return nil
}

func (r *repository) InsertBatch(ctx context.Context, ns []*Notification) error {
	if len(ns) == 0 {
		return nil
	}

	b := sq.Insert("notifications").
		Columns("id", "user_id", "title", "message", "type", "action_url", "is_read", "created_at").
		PlaceholderFormat(sq.Dollar)

	for _, n := range ns {
		b = b.Values(
			n.ID.String(),
			n.RecipientID.String(),
			n.Title,
			n.Message,
			n.Category,
			n.ActionURL,
			n.IsRead,
			n.CreatedAt,
		)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert notification batch",
			zap.Int("batch_size", len(ns)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return nil
}
