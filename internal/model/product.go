package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend and the browser exchange prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalogue entry owned by the product backend.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Explanation string          `json:"explanation"`
	Price       decimal.Decimal `json:"price"`
	Thumbnail   *string         `json:"thumbnail,omitempty"`
	// ThumbnailURL is resolved by the storefront; the backend never sends it.
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// ProductInput is the body of product create and update requests.
type ProductInput struct {
	Name        string          `json:"name"`
	Explanation string          `json:"explanation"`
	Price       decimal.Decimal `json:"price"`
}

// Validate reports the first invalid field as a domain error.
func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewDomainError(ErrCodeMissingField, "Product name is required")
	}
	if strings.TrimSpace(in.Explanation) == "" {
		return NewDomainError(ErrCodeMissingField, "Product explanation is required")
	}
	if in.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// ProductListResponse is the backend envelope for GET /product.
type ProductListResponse struct {
	Products []Product `json:"products"`
}

// ProductResponse is the backend envelope for single-product responses.
type ProductResponse struct {
	Product Product `json:"product"`
}
