package handler

import (
	"encoding/json"
	"net/http"

	"green-basket/internal/model"
	"green-basket/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests, placing an order directly from
// the request payload rather than the stored cart.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), user, req.Items, req.DeliveryType, req.AddressID, req.PaymentMethod)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// List handles GET /api/orders requests, returning the caller's orders
// newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.service.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, r, "invalid order ID format")
		return
	}

	order, err := h.service.GetByID(r.Context(), user, orderID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
