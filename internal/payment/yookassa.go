package payment

import (
	"context"
	"fmt"

	"green-basket/internal/config"
	"green-basket/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Payment is the provider-side payment record for one order.
type Payment struct {
	ID              string  `json:"id"`
	OrderID         string  `json:"orderId"`
	Amount          float64 `json:"amount"`
	Status          string  `json:"status"`
	ConfirmationURL string  `json:"confirmationUrl"`
}

// Provider creates payments for placed orders. The current implementation is
// a stub that fabricates a confirmation URL without calling YooKassa; the
// real integration slots in behind the same method.
type Provider struct {
	cfg    config.YooKassaConfig
	logger zerolog.Logger
}

// NewProvider creates a payment provider.
func NewProvider(cfg config.YooKassaConfig, logger zerolog.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		logger: logger.With().Str("component", "yookassa").Logger(),
	}
}

// CreatePayment registers a pending payment for the order and returns the
// URL the customer should be redirected to.
func (p *Provider) CreatePayment(ctx context.Context, order *model.Order) (*Payment, error) {
	paymentID := uuid.NewString()

	payment := &Payment{
		ID:              paymentID,
		OrderID:         order.ID.String(),
		Amount:          order.TotalAmount,
		Status:          "pending",
		ConfirmationURL: fmt.Sprintf("https://yookassa.ru/checkout/payments/%s?return_url=%s", paymentID, p.cfg.ReturnURL),
	}

	p.logger.Info().
		Str("payment_id", paymentID).
		Str("order_id", payment.OrderID).
		Float64("amount", payment.Amount).
		Msg("payment created")

	return payment, nil
}
