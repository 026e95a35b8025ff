package handlers

import (
	"net/http"

	"nareo/internal/logger"
	"nareo/internal/models"
	"nareo/internal/service"
)

// ActivityHandler handles daily activity HTTP requests
type ActivityHandler struct {
	activity *service.ActivityService
	log      *logger.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activity *service.ActivityService, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{activity: activity, log: log}
}

type activityRequest struct {
	Date string `json:"date"`
	models.ActivityDelta
}

// Record adds an activity delta to today's record in the user's timezone.
// An explicit date naming any other day is rejected.
func (h *ActivityHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: ErrInvalidJSON})
		return
	}

	result, err := h.activity.RecordActivity(r.Context(), GetUserIDFromContext(r.Context()), req.Date, req.ActivityDelta)
	if err != nil {
		respondWithServiceError(w, h.log, "Error recording activity", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Today returns today's record
func (h *ActivityHandler) Today(w http.ResponseWriter, r *http.Request) {
	rec, err := h.activity.Today(r.Context(), GetUserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.log, "Error loading today's activity", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// History returns the records between ?from= and ?to=
func (h *ActivityHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.activity.History(r.Context(), GetUserIDFromContext(r.Context()), q.Get("from"), q.Get("to"))
	if err != nil {
		respondWithServiceError(w, h.log, "Error loading activity history", err)
		return
	}
	if records == nil {
		records = []models.DailyActivityRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}
