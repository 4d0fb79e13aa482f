package service

import (
	"context"

	"green-basket/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines operations for catalogue management.
type CatalogService interface {
	// ListProducts retrieves all products with their current price.
	ListProducts(ctx context.Context) ([]model.ProductView, error)

	CreateProduct(ctx context.Context, data model.ProductCreate) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, data model.ProductUpdate) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// SetCurrentPrice appends a new current price to the product's ledger.
	// The returned record carries the previous amount as OldPrice.
	SetCurrentPrice(ctx context.Context, productID int64, price float64) (*model.Price, error)

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, data model.CategoryCreate) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, data model.CategoryUpdate) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListUnits(ctx context.Context) ([]model.Unit, error)
}

// CartService defines operations for the per-user shopping cart.
type CartService interface {
	// GetCart returns the detailed cart with live prices. The total sums
	// only priced lines; unpriced lines are listed with a nil line total.
	GetCart(ctx context.Context, userID int64) (*model.CartView, error)

	// AddItem accumulates quantity onto the (cart, product) line.
	AddItem(ctx context.Context, userID, productID int64, qty int) error

	// UpdateItem sets absolute quantity; qty <= 0 removes the line.
	UpdateItem(ctx context.Context, userID, productID int64, qty int) error

	RemoveItem(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error

	// Checkout places an order from the current cart contents and clears
	// the cart, strictly after the order transaction has committed.
	Checkout(ctx context.Context, user model.AuthUser, req model.CheckoutRequest) (*model.OrderResponse, error)
}

// OrderService defines order placement and retrieval.
type OrderService interface {
	// PlaceOrder validates delivery and lines, then atomically prices,
	// reserves stock and persists the order.
	PlaceOrder(ctx context.Context, user model.AuthUser, lines []model.OrderLine, deliveryType string, addressID *int64, paymentMethod *string) (*model.OrderResponse, error)

	// GetByID retrieves an order; callers only see their own orders unless
	// they hold at least the manager role.
	GetByID(ctx context.Context, user model.AuthUser, id uuid.UUID) (*model.OrderResponse, error)

	// ListByUser retrieves the caller's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
}

// UserService defines identity resolution and address management.
type UserService interface {
	// GetOrCreateByTelegram resolves the internal user for an external
	// Telegram identity, creating a customer on first contact and merging
	// non-nil profile fields on subsequent ones.
	GetOrCreateByTelegram(ctx context.Context, telegramID int64, profile model.UserProfile) (*model.User, error)

	ListAddresses(ctx context.Context, userID int64) ([]model.Address, error)
	CreateAddress(ctx context.Context, userID int64, data model.AddressCreate) (*model.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID int64, data model.AddressUpdate) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID int64) error
}
