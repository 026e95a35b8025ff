package handlers

import (
	"net/http"

	"nareo/internal/logger"
	"nareo/internal/service"
)

// StreakHandler handles streak, freeze and milestone requests
type StreakHandler struct {
	streaks *service.StreakService
	log     *logger.Logger
}

// NewStreakHandler creates a new streak handler
func NewStreakHandler(streaks *service.StreakService, log *logger.Logger) *StreakHandler {
	return &StreakHandler{streaks: streaks, log: log}
}

type freezeRequest struct {
	Date string `json:"date"`
}

// GetStreak returns the current streak state
func (h *StreakHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	st, err := h.streaks.CheckStreak(r.Context(), GetUserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.log, "Error checking streak", err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// UseFreeze spends a freeze on a missed day, yesterday by default
func (h *StreakHandler) UseFreeze(w http.ResponseWriter, r *http.Request) {
	var req freezeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: ErrInvalidJSON})
		return
	}

	result, err := h.streaks.UseFreeze(r.Context(), GetUserIDFromContext(r.Context()), req.Date)
	if err != nil {
		respondWithServiceError(w, h.log, "Error using streak freeze", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ClaimMilestones reports milestones reached since the last claim
func (h *StreakHandler) ClaimMilestones(w http.ResponseWriter, r *http.Request) {
	result, err := h.streaks.ClaimMilestones(r.Context(), GetUserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.log, "Error claiming milestones", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
