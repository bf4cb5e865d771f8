package main

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// newStoreFactory builds the per-request cart store selected by CART_STORE.
// The returned function releases any connection the stores share.
func newStoreFactory(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (handler.StoreFactory, func(), error) {
	switch cfg.Cart.Store {
	case config.CartStoreRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewRedisCartRepository(client, cfg.Cart.TTL, logger)
		return sessionStores(repo, cfg.Cart, logger), func() { client.Close() }, nil

	case config.CartStorePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureCartSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		repo := repository.NewPostgresCartRepository(pool, logger)
		return sessionStores(repo, cfg.Cart, logger), pool.Close, nil

	case config.CartStoreCookie:
		opts := cart.CookieOptions{
			Name:   cfg.Cart.CookieName,
			Path:   cfg.Cart.CookiePath,
			MaxAge: cfg.Cart.CookieMaxAge,
		}
		return func(w http.ResponseWriter, r *http.Request) cart.Store {
			return cart.NewCookieStore(w, r, opts, logger)
		}, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported cart store: %s", cfg.Cart.Store)
	}
}

// sessionStores keys server-side carts by a session cookie.
func sessionStores(repo cart.Repository, cfg config.CartConfig, logger zerolog.Logger) handler.StoreFactory {
	return func(w http.ResponseWriter, r *http.Request) cart.Store {
		sid := cart.SessionID(w, r, cfg.SessionCookieName, cfg.CookieMaxAge)
		return cart.NewSessionStore(repo, sid, logger)
	}
}
