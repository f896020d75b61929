package push

import (
	"context"
	"database/sql"
	"fmt"

	"almastore-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TokenRepository interface {
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]Token, error)
}

type tokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]Token, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListActiveByUser"),
		zap.String("user_id", userID.String()),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, token, platform, is_active, created_at, updated_at
		FROM push_tokens
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at
	`, userID)
	if err != nil {
		log.Error("failed to query push tokens", zap.Error(err))
		return nil, fmt.Errorf("failed to query push tokens: %w", err)
	}
	defer rows.Close()

	var tokens []Token
	for rows.Next() {
		var t Token
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Token, &t.Platform, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			log.Error("failed to scan push token", zap.Error(err))
			return nil, fmt.Errorf("failed to scan push token: %w", err)
		}
		tokens = append(tokens, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tokens, nil
}
