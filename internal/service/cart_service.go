package service

import (
	"context"

	"green-basket/internal/model"
	"green-basket/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	carts  repository.CartRepository
	orders OrderService
	logger zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts repository.CartRepository, orders OrderService, logger zerolog.Logger) CartService {
	return &cartService{
		carts:  carts,
		orders: orders,
		logger: logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart returns the detailed cart. The total sums priced lines only;
// unpriced lines stay in the response with nil price and nil line total.
func (s *cartService) GetCart(ctx context.Context, userID int64) (*model.CartView, error) {
	lines, err := s.carts.FetchDetailed(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &model.CartView{Items: lines}
	for _, ln := range lines {
		if ln.LineTotal != nil {
			view.Total += *ln.LineTotal
		}
	}
	if view.Items == nil {
		view.Items = []model.CartLine{}
	}

	return view, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, productID int64, qty int) error {
	if qty < 1 {
		return model.ErrInvalidQuantity
	}
	return s.carts.AddItem(ctx, userID, productID, qty)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, productID int64, qty int) error {
	return s.carts.UpdateItem(ctx, userID, productID, qty)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID int64) error {
	return s.carts.RemoveItem(ctx, userID, productID)
}

func (s *cartService) Clear(ctx context.Context, userID int64) error {
	return s.carts.Clear(ctx, userID)
}

// Checkout turns the cart contents into an order. The cart is cleared only
// after the order transaction has committed; if clearing fails the order
// stands and the leftover cart is logged, not surfaced.
func (s *cartService) Checkout(ctx context.Context, user model.AuthUser, req model.CheckoutRequest) (*model.OrderResponse, error) {
	cartLines, err := s.carts.FetchDetailed(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(cartLines) == 0 {
		return nil, model.ErrEmptyCart
	}

	lines := make([]model.OrderLine, len(cartLines))
	for i, ln := range cartLines {
		lines[i] = model.OrderLine{ProductID: ln.ProductID, Quantity: ln.Quantity}
	}

	resp, err := s.orders.PlaceOrder(ctx, user, lines, req.DeliveryType, req.AddressID, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).
			Int64("user_id", user.ID).
			Str("order_id", resp.ID.String()).
			Msg("failed to clear cart after checkout")
	}

	return resp, nil
}
