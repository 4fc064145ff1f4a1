package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/supakit/supakit/internal/auth"
	"github.com/supakit/supakit/internal/handler/dto"
	"github.com/supakit/supakit/internal/service"
	"github.com/supakit/supakit/internal/supabase"
)

// ItemHandler handles HTTP requests for item operations.
type ItemHandler struct {
	svc    *service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	p := auth.MustPrincipalFromContext(r.Context())

	item, err := h.svc.Create(r.Context(), p, service.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("item_created",
		"item_id", item.ID,
		"user_id", p.User.ID,
	)

	writeJSON(w, http.StatusCreated, dto.ToItemResponse(item))
}

// List handles GET /api/v1/items. It returns only the caller's items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	p := auth.MustPrincipalFromContext(r.Context())

	items, err := h.svc.List(r.Context(), p)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToItemListResponse(items))
}

// ListAll handles GET /api/v1/admin/items. The admin role gate runs
// before this handler.
func (h *ItemHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	p := auth.MustPrincipalFromContext(r.Context())

	items, err := h.svc.ListAll(r.Context(), p)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToItemListResponse(items))
}

// Get handles GET /api/v1/items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Item ID is required")
		return
	}

	p := auth.MustPrincipalFromContext(r.Context())

	item, err := h.svc.Get(r.Context(), p, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToItemResponse(item))
}

// Update handles PUT /api/v1/items/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Item ID is required")
		return
	}

	var req dto.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	p := auth.MustPrincipalFromContext(r.Context())

	item, err := h.svc.Update(r.Context(), p, id, service.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("item_updated",
		"item_id", item.ID,
		"user_id", p.User.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToItemResponse(item))
}

// Delete handles DELETE /api/v1/items/{id}. It returns the deleted
// record's last-known values.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Item ID is required")
		return
	}

	p := auth.MustPrincipalFromContext(r.Context())

	item, err := h.svc.Delete(r.Context(), p, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("item_deleted",
		"item_id", id,
		"user_id", p.User.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToItemResponse(item))
}

// handleServiceError maps service errors to HTTP responses.
// Ownership failures deliberately share the permission shape so callers
// cannot tell "not yours" apart from role rejections.
func (h *ItemHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found")
	case errors.Is(err, service.ErrNotItemOwner):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not have access to this item")
	case errors.Is(err, service.ErrTitleMissing):
		writeError(w, http.StatusUnprocessableEntity, "TITLE_REQUIRED", "Title is required")
	case errors.Is(err, service.ErrTitleTooLong):
		writeError(w, http.StatusUnprocessableEntity, "TITLE_TOO_LONG", "Title exceeds maximum length")
	case errors.Is(err, service.ErrNoFieldsSet):
		writeError(w, http.StatusUnprocessableEntity, "NO_FIELDS", "No fields to update")
	default:
		if apiErr, ok := supabase.AsAPIError(err); ok {
			h.logger.Error("upstream_error", "error", err)
			writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", apiErr.Message)
			return
		}
		if supabase.IsTransportError(err) {
			h.logger.Error("upstream_unreachable", "error", err)
			writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Storage backend unavailable")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
