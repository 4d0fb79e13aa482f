package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	ErrCodeUnitNotFound      = "UNIT_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeAddressNotFound   = "ADDRESS_NOT_FOUND"
	ErrCodeCartItemNotFound  = "CART_ITEM_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInvalidDelivery   = "INVALID_DELIVERY_TYPE"
	ErrCodeAddressRequired   = "ADDRESS_REQUIRED"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidPrice      = "INVALID_PRICE"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodePriceUnavailable  = "PRICE_UNAVAILABLE"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a typed business-rule failure carried up to the transport
// boundary, which maps the code to a client-facing status.
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
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCategoryNotFound = NewDomainError(ErrCodeCategoryNotFound, "Category not found")
	ErrUnitNotFound     = NewDomainError(ErrCodeUnitNotFound, "Unit of measure not found")
	ErrUserNotFound     = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrAddressNotFound  = NewDomainError(ErrCodeAddressNotFound, "Address not found or not owned by user")
	ErrCartItemNotFound = NewDomainError(ErrCodeCartItemNotFound, "Product is not in the cart")
	ErrOrderNotFound    = NewDomainError(ErrCodeOrderNotFound, "Order not found")

	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidDeliveryType = NewDomainError(ErrCodeInvalidDelivery, "Delivery type must be 'delivery' or 'pickup'")
	ErrAddressRequired     = NewDomainError(ErrCodeAddressRequired, "Delivery requires an address")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPrice        = NewDomainError(ErrCodeInvalidPrice, "Price must not be negative")
	ErrInsufficientStock   = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock for one or more products")
	ErrPriceUnavailable    = NewDomainError(ErrCodePriceUnavailable, "No current price for one or more products")

	ErrUnauthorized = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrForbidden    = NewDomainError(ErrCodeForbidden, "Insufficient privileges")
)
