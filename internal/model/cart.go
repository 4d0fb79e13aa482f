package model

import "time"

// Cart is the per-user shopping cart. One cart per user; it is cleared, not
// deleted, after a successful checkout.
type Cart struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is one (product, quantity) line. Lines are unique per
// (cart, product); repeated adds accumulate quantity.
type CartItem struct {
	ID        int64 `json:"-" db:"id"`
	CartID    int64 `json:"-" db:"cart_id"`
	ProductID int64 `json:"productId" db:"product_id"`
	Quantity  int   `json:"quantity" db:"quantity"`
}

// CartLine is a cart line joined with live catalogue data at read time.
// Price is always the current price, never a snapshot; it is nil for
// unpriced products, and LineTotal is nil whenever Price is.
type CartLine struct {
	ProductID  int64    `json:"productId"`
	Quantity   int      `json:"quantity"`
	Name       string   `json:"name"`
	UnitSymbol string   `json:"unitSymbol"`
	Price      *float64 `json:"price"`
	LineTotal  *float64 `json:"lineTotal"`
}

// CartView is the detailed cart as served to clients. Total sums only the
// lines whose price is present; unpriced lines are listed but excluded.
type CartView struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

// CartItemRequest is the payload for adding or updating a cart line.
type CartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequest is the payload for checking out the cart.
type CheckoutRequest struct {
	DeliveryType  string  `json:"deliveryType"`
	AddressID     *int64  `json:"addressId,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
}
