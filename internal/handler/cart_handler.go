package handler

import (
	"context"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// StoreFactory returns the cart store of the shopper making the request.
type StoreFactory func(w http.ResponseWriter, r *http.Request) cart.Store

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	stores  StoreFactory
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, stores StoreFactory, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		stores:  stores,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type itemOp func(ctx context.Context, store cart.Store, productID string) (*model.CartSummary, error)

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(store cart.Store) (*model.CartSummary, error) {
		return h.service.View(r.Context(), store)
	})
}

// Add handles POST /api/cart/items/{id} requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.item(w, r, h.service.Add)
}

// Remove handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.item(w, r, h.service.Remove)
}

// Increase handles POST /api/cart/items/{id}/increase requests.
func (h *CartHandler) Increase(w http.ResponseWriter, r *http.Request) {
	h.item(w, r, h.service.Increase)
}

// Decrease handles POST /api/cart/items/{id}/decrease requests.
func (h *CartHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	h.item(w, r, h.service.Decrease)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(store cart.Store) (*model.CartSummary, error) {
		return h.service.Clear(r.Context(), store)
	})
}

func (h *CartHandler) item(w http.ResponseWriter, r *http.Request, op itemOp) {
	productID := chi.URLParam(r, "id")
	h.respond(w, r, func(store cart.Store) (*model.CartSummary, error) {
		return op(r.Context(), store, productID)
	})
}

// respond runs op against the shopper's store. Store cookies are set by op,
// before any part of the response is written.
func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, op func(store cart.Store) (*model.CartSummary, error)) {
	summary, err := op(h.stores(w, r))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
