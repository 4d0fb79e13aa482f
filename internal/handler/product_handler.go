package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"green-basket/internal/model"
	"green-basket/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.CatalogService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests. Public; no caller required.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if products == nil {
		products = []model.ProductView{}
	}
	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /api/products requests. Manager role required.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, model.RoleManager, h.logger); !ok {
		return
	}

	var req model.ProductCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, r, "product name is required")
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update handles PATCH /api/products/{id} requests. Manager role required.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, model.RoleManager, h.logger); !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} requests. Manager role required.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, model.RoleManager, h.logger); !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setPriceRequest struct {
	Price float64 `json:"price"`
}

// SetPrice handles PUT /api/products/{id}/price requests. Manager role
// required. The new price becomes current; the previous amount survives in
// the ledger as history.
func (h *ProductHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, model.RoleManager, h.logger); !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req setPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	price, err := h.service.SetCurrentPrice(r.Context(), id, req.Price)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, price)
}

// ListUnits handles GET /api/units requests.
func (h *ProductHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.ListUnits(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if units == nil {
		units = []model.Unit{}
	}
	writeJSON(w, http.StatusOK, units)
}

// pathID parses an int64 path value, failing the request on garbage.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		writeBadRequest(w, r, "invalid "+name)
		return 0, false
	}
	return id, true
}
