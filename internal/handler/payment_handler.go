package handler

import (
	"encoding/json"
	"net/http"

	"green-basket/internal/payment"
	"green-basket/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentHandler handles payment HTTP requests.
type PaymentHandler struct {
	provider *payment.Provider
	orders   service.OrderService
	logger   zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(provider *payment.Provider, orders service.OrderService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		provider: provider,
		orders:   orders,
		logger:   logger.With().Str("handler", "payment").Logger(),
	}
}

type createPaymentRequest struct {
	OrderID uuid.UUID `json:"orderId"`
}

// Create handles POST /api/payments requests, registering a payment for one
// of the caller's orders.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == uuid.Nil {
		writeBadRequest(w, r, "orderId is required")
		return
	}

	order, err := h.orders.GetByID(r.Context(), user, req.OrderID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	p, err := h.provider.CreatePayment(r.Context(), &order.Order)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Callback handles POST /api/payments/yookassa/callback requests. The
// provider notification is acknowledged and logged; marking orders paid from
// it comes with the real integration.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var notification map[string]any
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		writeBadRequest(w, r, "invalid notification body")
		return
	}

	h.logger.Info().Interface("notification", notification).Msg("payment callback received")
	w.WriteHeader(http.StatusOK)
}
