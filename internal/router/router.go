package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> Logging -> CORS -> RequestID
	r.Use(
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.CORS,
		middleware.RequestID,
	)

	r.NotFound(handler.NotFound(logger))
	r.MethodNotAllowed(handler.MethodNotAllowed(logger))

	r.Get("/health", handler.Health)

	r.Route("/api", func(api chi.Router) {
		registerProductRoutes(api, productHandler)
		registerCartRoutes(api, cartHandler)
	})

	return r
}

func registerProductRoutes(router chi.Router, h *handler.ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.GetAll)
		pr.Post("/", h.Create)
		pr.Get("/{id}", h.GetByID)
		pr.Patch("/{id}", h.Update)
		pr.Patch("/{id}/thumbnail", h.UpdateThumbnail)
		pr.Delete("/{id}", h.Delete)
	})
}

func registerCartRoutes(router chi.Router, h *handler.CartHandler) {
	router.Route("/cart", func(cr chi.Router) {
		cr.Get("/", h.Get)
		cr.Delete("/", h.Clear)
		cr.Post("/items/{id}", h.Add)
		cr.Delete("/items/{id}", h.Remove)
		cr.Post("/items/{id}/increase", h.Increase)
		cr.Post("/items/{id}/decrease", h.Decrease)
	})
}
