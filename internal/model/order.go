package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the order state machine. Orders are created in
// StatusCreated; transitions beyond creation are handled elsewhere.
type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusAssembling OrderStatus = "assembling"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Delivery types accepted at order placement.
const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

// Order is a customer order. Immutable once created except for status and
// the payment flag.
type Order struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	UserID        int64       `json:"userId" db:"user_id"`
	OrderDate     time.Time   `json:"orderDate" db:"order_date"`
	Status        OrderStatus `json:"status" db:"status"`
	IsPaid        bool        `json:"isPaid" db:"is_paid"`
	PaymentMethod *string     `json:"paymentMethod,omitempty" db:"payment_method"`
	DeliveryType  string      `json:"deliveryType" db:"delivery_type"`
	AddressID     *int64      `json:"addressId,omitempty" db:"address_id"`
	TotalAmount   float64     `json:"totalAmount" db:"total_amount"`
}

// OrderItem is a frozen snapshot of one order line. Price is the unit price
// captured at order time and is never recomputed from the live price ledger.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

// OrderLine is one requested (product, quantity) pair.
type OrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is the payload for placing an order directly.
type OrderRequest struct {
	Items         []OrderLine `json:"items"`
	DeliveryType  string      `json:"deliveryType"`
	AddressID     *int64      `json:"addressId,omitempty"`
	PaymentMethod *string     `json:"paymentMethod,omitempty"`
}

// OrderResponse is an order with its line items.
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
}
