package service

import (
	"context"

	"green-basket/internal/model"
	"green-basket/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, users repository.UserRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orders: orders,
		users:  users,
		logger: logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates the request shape, then delegates the atomic
// price-reserve-persist sequence to the repository. Stock and pricing are
// checked inside the repository transaction against locked rows, never here.
func (s *orderService) PlaceOrder(
	ctx context.Context,
	user model.AuthUser,
	lines []model.OrderLine,
	deliveryType string,
	addressID *int64,
	paymentMethod *string,
) (*model.OrderResponse, error) {
	if deliveryType != model.DeliveryTypeDelivery && deliveryType != model.DeliveryTypePickup {
		return nil, model.ErrInvalidDeliveryType
	}
	if deliveryType == model.DeliveryTypeDelivery {
		if addressID == nil {
			return nil, model.ErrAddressRequired
		}
		// Ownership check doubles as an existence check.
		if _, err := s.users.GetAddress(ctx, user.ID, *addressID); err != nil {
			return nil, err
		}
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}
	for _, ln := range lines {
		if ln.Quantity < 1 {
			return nil, model.ErrInvalidQuantity
		}
	}

	order, items, err := s.orders.CreateOrder(ctx, user.ID, lines, deliveryType, addressID, paymentMethod)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int64("user_id", user.ID).
		Float64("total_amount", order.TotalAmount).
		Msg("order placed")

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// GetByID retrieves an order. Customers only see their own orders; staff see
// every order.
func (s *orderService) GetByID(ctx context.Context, user model.AuthUser, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.UserID != user.ID && !user.Role.AtMost(model.RoleManager) {
		// Hide the order's existence from other customers.
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
