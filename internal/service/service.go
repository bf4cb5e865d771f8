package service

import (
	"context"
	"io"

	"storefront/internal/cart"
	"storefront/internal/model"
)

// ProductBackend is the product REST backend as seen by the services.
type ProductBackend interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in model.ProductInput) (*model.Product, error)
	UpdateThumbnail(ctx context.Context, id, filename string, file io.Reader) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ThumbnailUpload is an image file sent along with a product.
type ThumbnailUpload struct {
	Filename string
	File     io.Reader
}

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves every product.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create creates a product and, when upload is non-nil, attaches its thumbnail.
	Create(ctx context.Context, in model.ProductInput, upload *ThumbnailUpload) (*model.Product, error)

	// Update replaces a product's fields and, when upload is non-nil, its thumbnail.
	Update(ctx context.Context, id string, in model.ProductInput, upload *ThumbnailUpload) (*model.Product, error)

	// UpdateThumbnail replaces a product's thumbnail.
	UpdateThumbnail(ctx context.Context, id string, upload ThumbnailUpload) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error
}

// CartService defines operations on a shopper's cart. Every call works on the
// given store and answers with the cart reconciled after the call.
type CartService interface {
	// View reconciles the stored cart without changing it.
	View(ctx context.Context, store cart.Store) (*model.CartSummary, error)

	// Add puts one unit of the product in the cart.
	Add(ctx context.Context, store cart.Store, productID string) (*model.CartSummary, error)

	// Remove takes every unit of the product out of the cart.
	Remove(ctx context.Context, store cart.Store, productID string) (*model.CartSummary, error)

	// Increase puts one more unit of the product in the cart.
	Increase(ctx context.Context, store cart.Store, productID string) (*model.CartSummary, error)

	// Decrease takes one unit of the product out of the cart.
	Decrease(ctx context.Context, store cart.Store, productID string) (*model.CartSummary, error)

	// Clear empties the cart.
	Clear(ctx context.Context, store cart.Store) (*model.CartSummary, error)
}
