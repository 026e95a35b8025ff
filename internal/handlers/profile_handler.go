package handlers

import (
	"net/http"

	"nareo/internal/logger"
	"nareo/internal/models"
	"nareo/internal/service"
)

// ProfileHandler handles study profile requests
type ProfileHandler struct {
	profiles *service.ProfileService
	log      *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: log}
}

// GetProfile returns the profile, creating it with defaults on first use
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), GetUserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.log, "Error loading profile", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// UpdateProfile applies the fields present in the body
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: ErrInvalidJSON})
		return
	}

	p, err := h.profiles.Update(r.Context(), GetUserIDFromContext(r.Context()), upd)
	if err != nil {
		respondWithServiceError(w, h.log, "Error updating profile", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
