package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"almastore-be/internal/logger"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// CompareAndSetStatus persists o only if the stored status still equals
	// expected. A lost race returns ErrStatusConflict; a row that no longer
	// exists returns ErrOrderNotFound.
	CompareAndSetStatus(ctx context.Context, o *Order, expected OrderStatus) error

	// ListShippedBefore returns SHIPPED orders whose shipped_at is at or
	// before cutoff.
	ListShippedBefore(ctx context.Context, cutoff time.Time) ([]*Order, error)

	// CompleteShipped moves the given orders to COMPLETED in one statement.
	// Rows that are no longer SHIPPED are left untouched; only the ids that
	// were actually advanced are returned.
	CompleteShipped(ctx context.Context, ids []uuid.UUID, cutoff, now time.Time) ([]uuid.UUID, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, user_id, status, total_amount, courier, tracking_number,
	created_at, updated_at, shipped_at, completed_at, cancelled_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.TotalAmount,
		&o.Courier,
		&o.TrackingNumber,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.ShippedAt,
		&o.CompletedAt,
		&o.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_id", o.ID.String()),
	)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, status, total_amount, courier, tracking_number,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		o.ID,
		o.UserID,
		o.Status,
		o.TotalAmount,
		o.Courier,
		o.TrackingNumber,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return storeError("insert order", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+orderColumns+`FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, storeError("get order", err)
	}

	return o, nil
}

func (r *repository) CompareAndSetStatus(ctx context.Context, o *Order, expected OrderStatus) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CompareAndSetStatus"),
		zap.String("order_id", o.ID.String()),
		zap.String("expected", string(expected)),
		zap.String("target", string(o.Status)),
	)

	// Timestamps are only ever filled, never overwritten.
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET
			status = $1,
			courier = COALESCE($2, courier),
			tracking_number = COALESCE($3, tracking_number),
			shipped_at = COALESCE(shipped_at, $4),
			completed_at = COALESCE(completed_at, $5),
			cancelled_at = COALESCE(cancelled_at, $6),
			updated_at = $7
		WHERE id = $8
		  AND status = $9
	`,
		o.Status,
		o.Courier,
		o.TrackingNumber,
		o.ShippedAt,
		o.CompletedAt,
		o.CancelledAt,
		o.UpdatedAt,
		o.ID,
		expected,
	)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return storeError("update order status", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeError("update order status", err)
	}
	if affected == 0 {
		// no row matched: either the order is gone or its status moved on
		var exists bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, o.ID,
		).Scan(&exists)
		if err != nil {
			return storeError("check order existence", err)
		}
		if !exists {
			log.Warn("order disappeared before status update")
			return ErrOrderNotFound
		}

		log.Warn("conditional status update lost")
		return ErrStatusConflict
	}

	return nil
}

func (r *repository) ListShippedBefore(ctx context.Context, cutoff time.Time) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListShippedBefore"),
		zap.Time("cutoff", cutoff),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders
		WHERE status = $1
		  AND shipped_at <= $2
		ORDER BY shipped_at ASC, id ASC
	`, StatusShipped, cutoff)
	if err != nil {
		log.Error("failed to query shipped orders", zap.Error(err))
		return nil, storeError("list shipped orders", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, storeError("scan order", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, storeError("list shipped orders", err)
	}

	log.Debug("shipped orders fetched", zap.Int("count", len(orders)))

	return orders, nil
}

func (r *repository) CompleteShipped(ctx context.Context, ids []uuid.UUID, cutoff, now time.Time) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CompleteShipped"),
		zap.Int("candidate_count", len(ids)),
	)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	// status and shipped_at are re-checked at write time so an overlapping
	// run, or a manual transition that happened after the scan, wins.
	// The id set is bound as a single array parameter, so the statement
	// stays within the bind-parameter limit however large the backlog is.
	query, args, err := sq.Update("orders").
		Set("status", StatusCompleted).
		Set("completed_at", now).
		Set("updated_at", now).
		Where("id = ANY(?::uuid[])", pq.Array(keys)).
		Where(sq.Eq{"status": StatusShipped}).
		Where(sq.LtOrEq{"shipped_at": cutoff}).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, storeError("build completion query", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to complete shipped orders", zap.Error(err))
		return nil, storeError("complete shipped orders", err)
	}
	defer rows.Close()

	var completed []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, storeError("scan completed id", err)
		}
		completed = append(completed, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("complete shipped orders", err)
	}

	log.Info("shipped orders completed", zap.Int("completed_count", len(completed)))

	return completed, nil
}
