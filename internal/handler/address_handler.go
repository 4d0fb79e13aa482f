package handler

import (
	"encoding/json"
	"net/http"

	"green-basket/internal/model"
	"green-basket/internal/service"

	"github.com/rs/zerolog"
)

// AddressHandler handles delivery-address HTTP requests. All endpoints act
// on the caller's own addresses.
type AddressHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(service service.UserService, logger zerolog.Logger) *AddressHandler {
	return &AddressHandler{
		service: service,
		logger:  logger.With().Str("handler", "address").Logger(),
	}
}

// List handles GET /api/addresses requests.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	addresses, err := h.service.ListAddresses(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if addresses == nil {
		addresses = []model.Address{}
	}
	writeJSON(w, http.StatusOK, addresses)
}

// Create handles POST /api/addresses requests.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddressCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	if req.AddressLine == "" {
		writeBadRequest(w, r, "address line is required")
		return
	}

	address, err := h.service.CreateAddress(r.Context(), user.ID, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, address)
}

// Update handles PATCH /api/addresses/{id} requests.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.AddressUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	address, err := h.service.UpdateAddress(r.Context(), user.ID, id, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, address)
}

// Delete handles DELETE /api/addresses/{id} requests.
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := callerOrFail(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAddress(r.Context(), user.ID, id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
