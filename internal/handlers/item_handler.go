package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nareo/internal/logger"
	"nareo/internal/models"
	"nareo/internal/service"
)

// ItemHandler handles reviewable item HTTP requests
type ItemHandler struct {
	reviews *service.ReviewService
	log     *logger.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(reviews *service.ReviewService, log *logger.Logger) *ItemHandler {
	return &ItemHandler{reviews: reviews, log: log}
}

type itemDetail struct {
	Item    *models.ReviewableItem `json:"item"`
	Preview map[models.Rating]int  `json:"preview,omitempty"`
}

type reviewRequest struct {
	Rating string `json:"rating"`
}

// CreateItem registers a new item
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in service.CreateItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: ErrInvalidJSON})
		return
	}

	item, err := h.reviews.CreateItem(r.Context(), GetUserIDFromContext(r.Context()), in)
	if err != nil {
		respondWithServiceError(w, h.log, "Error creating item", err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// ListItems lists all items, or the due ones with ?due=true
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	dueOnly, _ := strconv.ParseBool(r.URL.Query().Get("due"))
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	items, err := h.reviews.ListItems(r.Context(), GetUserIDFromContext(r.Context()), dueOnly, limit)
	if err != nil {
		respondWithServiceError(w, h.log, "Error listing items", err)
		return
	}
	if items == nil {
		items = []models.ReviewableItem{}
	}
	respondJSON(w, http.StatusOK, items)
}

// GetItem returns one item with the interval each rating would give it
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.reviews.GetItem(r.Context(), GetUserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.log, "Error loading item", err)
		return
	}

	preview, err := h.reviews.Preview(*item)
	if err != nil {
		respondWithServiceError(w, h.log, "Error previewing item", err)
		return
	}
	respondJSON(w, http.StatusOK, itemDetail{Item: item, Preview: preview})
}

// DeleteItem removes an item
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.DeleteItem(r.Context(), GetUserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, h.log, "Error deleting item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Review records a rating for an item
func (h *ItemHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: ErrInvalidJSON})
		return
	}

	result, err := h.reviews.Review(r.Context(), GetUserIDFromContext(r.Context()), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		respondWithServiceError(w, h.log, "Error recording review", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Archive marks an item as acquired by the user
func (h *ItemHandler) Archive(w http.ResponseWriter, r *http.Request) {
	item, err := h.reviews.Archive(r.Context(), GetUserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.log, "Error archiving item", err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Unarchive puts an item back into rotation
func (h *ItemHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	item, err := h.reviews.Unarchive(r.Context(), GetUserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.log, "Error unarchiving item", err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// parseLimit reads an optional non-negative ?limit= and writes a 400 when it is malformed
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a non-negative integer", Code: "invalid_input", Field: "limit"})
		return 0, false
	}
	return limit, true
}
