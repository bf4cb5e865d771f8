// Package thumbnail turns stored thumbnail keys into URLs a browser can load.
package thumbnail

import (
	"context"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Resolver maps a thumbnail key, as stored by the backend, to a URL.
type Resolver interface {
	Resolve(ctx context.Context, key string) (string, error)
}

// backendResolver serves thumbnails straight from the backend's public origin.
type backendResolver struct {
	publicURL string
}

// NewBackendResolver creates a resolver producing publicURL + "/" + key.
func NewBackendResolver(publicURL string) Resolver {
	return &backendResolver{publicURL: strings.TrimRight(publicURL, "/")}
}

func (r *backendResolver) Resolve(_ context.Context, key string) (string, error) {
	return r.publicURL + "/" + strings.TrimLeft(key, "/"), nil
}

// Decorate fills ThumbnailURL on every product that has a thumbnail key.
// A key that fails to resolve is logged and left without a URL.
func Decorate(ctx context.Context, r Resolver, logger zerolog.Logger, products ...*model.Product) {
	if r == nil {
		return
	}

	for _, p := range products {
		if p == nil || p.Thumbnail == nil || *p.Thumbnail == "" {
			continue
		}

		u, err := r.Resolve(ctx, *p.Thumbnail)
		if err != nil {
			logger.Warn().Err(err).
				Str("product_id", p.ID).
				Str("thumbnail", *p.Thumbnail).
				Msg("failed to resolve thumbnail")
			continue
		}
		p.ThumbnailURL = u
	}
}
