// Package backend is the HTTP client for the product REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// maxErrorBody bounds how much of a failed response body is kept for diagnostics.
const maxErrorBody = 4 << 10

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// Is lets a 404 match model.ErrProductNotFound.
func (e *StatusError) Is(target error) bool {
	return target == model.ErrProductNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the product backend. It neither caches nor retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a backend client from configuration.
func NewClient(cfg config.BackendConfig, logger zerolog.Logger) *Client {
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewClientWithHTTP creates a backend client using the given http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With().Str("component", "backend-client").Logger(),
	}
}

// ListProducts calls GET /product.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var resp model.ProductListResponse
	if err := c.do(ctx, http.MethodGet, "/product", nil, "", &resp); err != nil {
		return nil, err
	}

	if resp.Products == nil {
		resp.Products = []model.Product{}
	}

	return resp.Products, nil
}

// GetProduct calls GET /product/{id}.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var resp model.ProductResponse
	if err := c.do(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, "", &resp); err != nil {
		return nil, err
	}

	return &resp.Product, nil
}

// CreateProduct calls POST /product.
func (c *Client) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product: %w", err)
	}

	var resp model.ProductResponse
	if err := c.do(ctx, http.MethodPost, "/product", bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}

	return &resp.Product, nil
}

// UpdateProduct calls PATCH /product/{id}.
func (c *Client) UpdateProduct(ctx context.Context, id string, in model.ProductInput) (*model.Product, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product: %w", err)
	}

	var resp model.ProductResponse
	path := "/product/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}

	return &resp.Product, nil
}

// UpdateThumbnail calls PATCH /product/thumbnail/{id} with the file in the
// multipart field "thumbnail".
func (c *Client) UpdateThumbnail(ctx context.Context, id, filename string, file io.Reader) (*model.Product, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("thumbnail", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail form field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read thumbnail: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish thumbnail form: %w", err)
	}

	var resp model.ProductResponse
	path := "/product/thumbnail/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, &buf, form.FormDataContentType(), &resp); err != nil {
		return nil, err
	}

	return &resp.Product, nil
}

// DeleteProduct calls DELETE /product/{id}.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/product/"+url.PathEscape(id), nil, "", nil)
}

// do performs a request and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build backend request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("path", path).
			Msg("backend request failed")
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("backend returned error status")
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("path", path).
			Msg("failed to decode backend response")
		return fmt.Errorf("failed to decode backend response for %s %s: %w", method, path, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("backend request completed")

	return nil
}
