package repository

import (
	"context"

	"green-basket/internal/model"

	"github.com/google/uuid"
)

// ProductRepository defines data access for the catalogue and the price ledger.
type ProductRepository interface {
	// List retrieves all products joined with their current price and unit symbol.
	List(ctx context.Context) ([]model.ProductView, error)

	// GetByID retrieves a single product. Returns model.ErrProductNotFound if missing.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create inserts a product after validating its category and unit references.
	Create(ctx context.Context, data model.ProductCreate) (*model.Product, error)

	// Update applies the non-nil fields of data to the product.
	Update(ctx context.Context, id int64, data model.ProductUpdate) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error

	// CurrentPrice returns the current price of a product, or nil when the
	// product has no current price. Absence is not a zero price.
	CurrentPrice(ctx context.Context, productID int64) (*float64, error)

	// SetCurrentPrice appends a new current price to the product's price
	// history, flipping the previous current entry to non-current and
	// capturing its amount as OldPrice, all within one transaction.
	SetCurrentPrice(ctx context.Context, productID int64, newPrice float64) (*model.Price, error)
}

// CatalogRepository defines data access for categories and units of measure.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, data model.CategoryCreate) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, data model.CategoryUpdate) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListUnits(ctx context.Context) ([]model.Unit, error)
	CreateUnit(ctx context.Context, name, symbol string) (*model.Unit, error)
}

// CartRepository defines data access for per-user shopping carts. A cart is
// created lazily on first use.
type CartRepository interface {
	// AddItem accumulates qty onto the (cart, product) line, creating it if absent.
	AddItem(ctx context.Context, userID, productID int64, qty int) error

	// UpdateItem sets the absolute quantity of an existing line; qty <= 0
	// removes the line. Returns model.ErrCartItemNotFound if no such line.
	UpdateItem(ctx context.Context, userID, productID int64, qty int) error

	// RemoveItem deletes a line; no-op if absent.
	RemoveItem(ctx context.Context, userID, productID int64) error

	// Clear deletes all lines of the user's cart; the cart row itself survives.
	Clear(ctx context.Context, userID int64) error

	// FetchDetailed returns the cart lines joined with live catalogue data.
	FetchDetailed(ctx context.Context, userID int64) ([]model.CartLine, error)
}

// OrderRepository defines data access for orders. CreateOrder owns the whole
// validate-price-reserve-persist transaction.
type OrderRepository interface {
	// CreateOrder validates every line against live stock and pricing, then
	// persists the order header, its item snapshots and the stock decrements
	// atomically. Touched product rows are locked for the duration of the
	// transaction. On any validation or persistence failure nothing is
	// committed.
	CreateOrder(ctx context.Context, userID int64, lines []model.OrderLine, deliveryType string, addressID *int64, paymentMethod *string) (*model.Order, []model.OrderItem, error)

	// GetByID retrieves an order with its items. Returns model.ErrOrderNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves all orders of a user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
}

// UserRepository defines data access for users and their addresses.
type UserRepository interface {
	// GetByTelegramID resolves a user by external Telegram ID. Returns
	// model.ErrUserNotFound if missing.
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)

	// GetByID retrieves a user by internal ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// Create inserts a new customer for the given Telegram ID.
	Create(ctx context.Context, telegramID int64, profile model.UserProfile) (*model.User, error)

	// Update applies the non-nil profile fields to the user.
	Update(ctx context.Context, id int64, profile model.UserProfile) (*model.User, error)

	ListAddresses(ctx context.Context, userID int64) ([]model.Address, error)

	// GetAddress retrieves an address owned by the user. Returns
	// model.ErrAddressNotFound when missing or owned by someone else.
	GetAddress(ctx context.Context, userID, addressID int64) (*model.Address, error)

	CreateAddress(ctx context.Context, userID int64, data model.AddressCreate) (*model.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID int64, data model.AddressUpdate) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID int64) error
}
