package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/thumbnail"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	backend    ProductBackend
	thumbnails thumbnail.Resolver
	logger     zerolog.Logger
}

// NewProductService creates a new product service. thumbnails may be nil, in
// which case products carry no thumbnail URL.
func NewProductService(backend ProductBackend, thumbnails thumbnail.Resolver, logger zerolog.Logger) ProductService {
	return &productService{
		backend:    backend,
		thumbnails: thumbnails,
		logger:     logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves every product.
func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	for i := range products {
		thumbnail.Decorate(ctx, s.thumbnails, s.logger, &products[i])
	}

	s.logger.Debug().
		Int("count", len(products)).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.backend.GetProduct(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	thumbnail.Decorate(ctx, s.thumbnails, s.logger, product)

	return product, nil
}

// Create creates a product, then uploads its thumbnail when one is given.
func (s *productService) Create(ctx context.Context, in model.ProductInput, upload *ThumbnailUpload) (*model.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	product, err := s.backend.CreateProduct(ctx, in)
	if err != nil {
		s.logger.Error().Err(err).Str("name", in.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product created")

	if upload != nil {
		return s.UpdateThumbnail(ctx, product.ID, *upload)
	}

	thumbnail.Decorate(ctx, s.thumbnails, s.logger, product)

	return product, nil
}

// Update replaces a product's fields, then its thumbnail when one is given.
func (s *productService) Update(ctx context.Context, id string, in model.ProductInput, upload *ThumbnailUpload) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	product, err := s.backend.UpdateProduct(ctx, id, in)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if upload != nil {
		return s.UpdateThumbnail(ctx, id, *upload)
	}

	thumbnail.Decorate(ctx, s.thumbnails, s.logger, product)

	return product, nil
}

// UpdateThumbnail replaces a product's thumbnail.
func (s *productService) UpdateThumbnail(ctx context.Context, id string, upload ThumbnailUpload) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}
	if upload.File == nil || upload.Filename == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Thumbnail file is required")
	}

	product, err := s.backend.UpdateThumbnail(ctx, id, upload.Filename, upload.File)
	if err != nil {
		s.logger.Error().Err(err).
			Str("product_id", id).
			Str("filename", upload.Filename).
			Msg("failed to upload thumbnail")
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	thumbnail.Decorate(ctx, s.thumbnails, s.logger, product)

	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrProductNotFound
	}

	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")

	return nil
}
