package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cart"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisCartRepository implements cart.Repository with one JSON value per session.
type redisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCartRepository creates a redis-backed cart repository. Carts expire
// ttl after their last write; a zero ttl keeps them forever.
func NewRedisCartRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) cart.Repository {
	return &redisCartRepository{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "cart-redis").Logger(),
	}
}

// Load retrieves the session's product id list.
func (r *redisCartRepository) Load(ctx context.Context, sessionID string) ([]string, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("redis GET failed")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode cart for session %s: %w", sessionID, err)
	}
	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

// Save replaces the session's product id list and refreshes its expiry.
func (r *redisCartRepository) Save(ctx context.Context, sessionID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(sessionID), data, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).
			Str("session_id", sessionID).
			Int("units", len(ids)).
			Msg("redis SET failed")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}
