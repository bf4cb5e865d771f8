package handler

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// maxUploadSize bounds multipart product forms.
	maxUploadSize = 10 << 20
	// maxFormMemory is how much of a form is held in memory; larger files
	// spill to temp files.
	maxFormMemory = 1 << 20
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.ProductListResponse{Products: products})
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.ProductResponse{Product: *product})
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, upload, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	defer h.closeUpload(upload)

	product, err := h.service.Create(r.Context(), in, upload)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.ProductResponse{Product: *product})
}

// Update handles PATCH /api/products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, upload, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	defer h.closeUpload(upload)

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in, upload)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.ProductResponse{Product: *product})
}

// UpdateThumbnail handles PATCH /api/products/{id}/thumbnail requests.
func (h *ProductHandler) UpdateThumbnail(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidForm, "invalid multipart form", h.logger)
		return
	}

	upload, ok := h.formThumbnail(w, r)
	if !ok {
		return
	}
	if upload == nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "Thumbnail file is required", h.logger)
		return
	}
	defer h.closeUpload(upload)

	product, err := h.service.UpdateThumbnail(r.Context(), chi.URLParam(r, "id"), *upload)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.ProductResponse{Product: *product})
}

// Delete handles DELETE /api/products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeProduct reads a product from a JSON body or a multipart form. Only
// the multipart form can carry a thumbnail.
func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (model.ProductInput, *service.ThumbnailUpload, bool) {
	var in model.ProductInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return in, nil, false
		}
		return in, nil, true
	}

	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidForm, "invalid multipart form", h.logger)
		return in, nil, false
	}

	in.Name = r.FormValue("name")
	in.Explanation = r.FormValue("explanation")

	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidPrice, "price must be a number", h.logger)
		return in, nil, false
	}
	in.Price = price

	upload, ok := h.formThumbnail(w, r)
	return in, upload, ok
}

// parseForm parses a multipart body of at most maxUploadSize bytes.
func (h *ProductHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	return r.ParseMultipartForm(maxFormMemory)
}

// closeUpload releases the form file behind an upload.
func (h *ProductHandler) closeUpload(upload *service.ThumbnailUpload) {
	if upload == nil {
		return
	}
	if c, ok := upload.File.(io.Closer); ok {
		if err := c.Close(); err != nil {
			h.logger.Warn().Err(err).Str("filename", upload.Filename).Msg("failed to close thumbnail upload")
		}
	}
}

// formThumbnail returns the optional "thumbnail" file of a parsed multipart form.
func (h *ProductHandler) formThumbnail(w http.ResponseWriter, r *http.Request) (*service.ThumbnailUpload, bool) {
	file, header, err := r.FormFile("thumbnail")
	if err == http.ErrMissingFile {
		return nil, true
	}
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidForm, "invalid thumbnail file", h.logger)
		return nil, false
	}

	return &service.ThumbnailUpload{Filename: header.Filename, File: file}, true
}
