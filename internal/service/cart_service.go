package service

import (
	"context"
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/thumbnail"

	"github.com/rs/zerolog"
)

// cartService implements CartService on top of a cart.Container per call.
type cartService struct {
	reconciler cart.LineReconciler
	thumbnails thumbnail.Resolver
	logger     zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(reconciler cart.LineReconciler, thumbnails thumbnail.Resolver, logger zerolog.Logger) CartService {
	return &cartService{
		reconciler: reconciler,
		thumbnails: thumbnails,
		logger:     logger.With().Str("service", "cart").Logger(),
	}
}

// View reconciles the stored cart without changing it.
func (s *cartService) View(ctx context.Context, store cart.Store) (*model.CartSummary, error) {
	return s.run(ctx, store, func(c *cart.Container) error {
		return c.Refresh()
	})
}

// Add puts one unit of the product in the cart.
func (s *cartService) Add(ctx context.Context, store cart.Store, productID string) (*model.CartSummary, error) {
	return s.dispatch(ctx, store, cart.IntentAdd, productID)
}

// Remove takes every unit of the product out of the cart.
func (s *cartService) Remove(ctx context.Context, store cart.Store, productID string) (*model.CartSummary, error) {
	return s.dispatch(ctx, store, cart.IntentRemove, productID)
}

// Increase puts one more unit of the product in the cart.
func (s *cartService) Increase(ctx context.Context, store cart.Store, productID string) (*model.CartSummary, error) {
	return s.dispatch(ctx, store, cart.IntentIncrease, productID)
}

// Decrease takes one unit of the product out of the cart.
func (s *cartService) Decrease(ctx context.Context, store cart.Store, productID string) (*model.CartSummary, error) {
	return s.dispatch(ctx, store, cart.IntentDecrease, productID)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, store cart.Store) (*model.CartSummary, error) {
	return s.dispatch(ctx, store, cart.IntentClear, "")
}

func (s *cartService) dispatch(ctx context.Context, store cart.Store, intent cart.Intent, productID string) (*model.CartSummary, error) {
	if intent != cart.IntentClear && productID == "" {
		return nil, model.ErrProductNotFound
	}

	return s.run(ctx, store, func(c *cart.Container) error {
		changed, err := c.Dispatch(intent, productID)
		if err != nil {
			return err
		}
		if !changed {
			// Nothing was scheduled; publish the stored cart as it is.
			return c.Refresh()
		}
		return nil
	})
}

// run drives one container through op and waits for the view it produces.
func (s *cartService) run(ctx context.Context, store cart.Store, op func(c *cart.Container) error) (*model.CartSummary, error) {
	c := cart.NewContainer(ctx, store, s.reconciler, s.logger)
	defer c.Close()

	if err := op(c); err != nil {
		s.logger.Error().Err(err).Msg("failed to update cart")
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}

	view, err := c.Await(ctx)
	if err != nil {
		s.logger.Warn().Err(err).
			Uint64("generation", view.Generation).
			Msg("cart could not be reconciled")
		return nil, fmt.Errorf("%w: %w", model.ErrCartUnavailable, err)
	}

	lines := make([]model.CartLine, len(view.Lines))
	copy(lines, view.Lines)
	for i := range lines {
		thumbnail.Decorate(ctx, s.thumbnails, s.logger, &lines[i].Product)
	}

	return model.NewCartSummary(lines), nil
}
