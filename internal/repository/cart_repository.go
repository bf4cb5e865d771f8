package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/cart"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresCartRepository implements cart.Repository using PostgreSQL.
type postgresCartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresCartRepository creates a new PostgreSQL-backed cart repository.
func NewPostgresCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) cart.Repository {
	return &postgresCartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart-postgres").Logger(),
	}
}

// Load retrieves the session's product id list.
func (r *postgresCartRepository) Load(ctx context.Context, sessionID string) ([]string, error) {
	query := `
		SELECT product_ids
		FROM carts
		WHERE session_id = $1
	`

	var ids []string
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&ids)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("session_id", sessionID).Msg("no cart stored for session")
			return []string{}, nil
		}
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

// Save replaces the session's product id list in a single statement.
func (r *postgresCartRepository) Save(ctx context.Context, sessionID string, ids []string) error {
	query := `
		INSERT INTO carts (session_id, product_ids, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET product_ids = EXCLUDED.product_ids, updated_at = NOW()
	`

	if ids == nil {
		ids = []string{}
	}

	if _, err := r.pool.Exec(ctx, query, sessionID, ids); err != nil {
		r.logger.Error().Err(err).
			Str("session_id", sessionID).
			Int("units", len(ids)).
			Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}
