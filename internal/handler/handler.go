package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/backend"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response carrying the request's correlation id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	correlationID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Str("request_id", correlationID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps an error returned by a service to a response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	var statusErr *backend.StatusError

	switch {
	case errors.Is(err, model.ErrCartUnavailable):
		writeError(w, r, http.StatusBadGateway, model.ErrCodeCartUnavailable, model.ErrCartUnavailable.Message, logger)
	case errors.Is(err, model.ErrProductNotFound):
		writeError(w, r, http.StatusNotFound, model.ErrCodeProductNotFound, model.ErrProductNotFound.Message, logger)
	case errors.As(err, &domainErr):
		writeError(w, r, http.StatusBadRequest, domainErr.Code, domainErr.Message, logger)
	case errors.As(err, &statusErr):
		writeError(w, r, http.StatusBadGateway, model.ErrCodeBackendFailure, "Product backend request failed", logger)
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected service error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error", logger)
	}
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// NotFound answers requests that match no route.
func NotFound(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "route not found", logger)
	}
}

// MethodNotAllowed answers requests whose route exists under another method.
func MethodNotAllowed(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", logger)
	}
}
