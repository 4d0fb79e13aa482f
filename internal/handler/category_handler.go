package handler

import (
	"encoding/json"
	"net/http"

	"green-basket/internal/model"
	"green-basket/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler handles category HTTP requests.
type CategoryHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service service.CatalogService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/categories requests.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/categories requests. Manager role required.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, model.RoleManager, h.logger); !ok {
		return
	}

	var req model.CategoryCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, r, "category name is required")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// Update handles PATCH /api/categories/{id} requests. Manager role required.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, model.RoleManager, h.logger); !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id} requests. Manager role required.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireRole(w, r, model.RoleManager, h.logger); !ok {
		return
	}

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
