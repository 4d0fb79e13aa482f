package handler

import (
	"encoding/json"
	"net/http"

	"green-basket/internal/model"
	"green-basket/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. All endpoints act on the caller's
// own cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests. Repeated adds of the same
// product accumulate quantity on one line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	if err := h.service.AddItem(r.Context(), user.ID, req.ProductID, req.Quantity); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// UpdateItem handles PATCH /api/cart/items/{productId} requests. A quantity
// of zero or less removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	if err := h.service.UpdateItem(r.Context(), user.ID, productID, req.Quantity); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{productId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	if err := h.service.RemoveItem(r.Context(), user.ID, productID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), user.ID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/cart/checkout requests.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	order, err := h.service.Checkout(r.Context(), user, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
