package cart

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ProductLookup fetches the current record of one product.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

// Reconciler turns an IDList into cart lines, one per distinct product.
type Reconciler struct {
	lookup      ProductLookup
	concurrency int
	logger      zerolog.Logger
}

// NewReconciler creates a reconciler. A concurrency of zero or less runs one
// lookup per distinct id at once.
func NewReconciler(lookup ProductLookup, concurrency int, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		lookup:      lookup,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "cart-reconciler").Logger(),
	}
}

// Reconcile fetches every distinct product in ids concurrently and pairs each
// with its unit count. Lines come out in first-occurrence order. A single
// failed lookup fails the whole call and no lines are returned.
func (r *Reconciler) Reconcile(ctx context.Context, ids IDList) ([]model.CartLine, error) {
	if len(ids) == 0 {
		return []model.CartLine{}, nil
	}

	distinct, counts := tally(ids)
	products := make([]*model.Product, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}

	for i, id := range distinct {
		g.Go(func() error {
			product, err := r.lookup.GetProduct(gctx, id)
			if err != nil {
				return fmt.Errorf("failed to look up product %s: %w", id, err)
			}
			if product == nil || product.ID == "" {
				return fmt.Errorf("failed to look up product %s: %w", id, model.ErrProductNotFound)
			}
			products[i] = product
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.logger.Warn().Err(err).
			Int("units", len(ids)).
			Int("products", len(distinct)).
			Msg("cart reconciliation failed")
		return nil, err
	}

	lines := make([]model.CartLine, len(distinct))
	for i, id := range distinct {
		lines[i] = model.CartLine{
			Product: *products[i],
			Count:   counts[id],
		}
	}

	r.logger.Debug().
		Int("units", len(ids)).
		Int("products", len(distinct)).
		Msg("cart reconciled")

	return lines, nil
}

// tally returns the distinct ids in first-occurrence order and their counts.
func tally(ids IDList) ([]string, map[string]int) {
	counts := make(map[string]int, len(ids))
	distinct := make([]string, 0, len(ids))
	for _, id := range ids {
		if counts[id] == 0 {
			distinct = append(distinct, id)
		}
		counts[id]++
	}
	return distinct, counts
}
