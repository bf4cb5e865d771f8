package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeInvalidForm      = "INVALID_FORM"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeInvalidPrice     = "INVALID_PRICE"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeBackendFailure   = "BACKEND_FAILURE"
	ErrCodeCartUnavailable  = "CART_UNAVAILABLE"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInvalidPrice    = NewDomainError(ErrCodeInvalidPrice, "Price must not be negative")
	ErrCartUnavailable = NewDomainError(ErrCodeCartUnavailable, "Cart could not be loaded")
)
