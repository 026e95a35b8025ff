package handlers

import (
	"net/http"

	"nareo/internal/logger"
	"nareo/internal/models"
	"nareo/internal/service"
)

// StatsHandler serves priorities and the dashboard overview
type StatsHandler struct {
	priorities *service.PriorityService
	overview   *service.OverviewService
	log        *logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(priorities *service.PriorityService, overview *service.OverviewService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{priorities: priorities, overview: overview, log: log}
}

// Priorities ranks what to review next, grouped by ?group=item|chapter|course
func (h *StatsHandler) Priorities(w http.ResponseWriter, r *http.Request) {
	scope, err := models.ParsePriorityScope(r.URL.Query().Get("group"))
	if err != nil {
		respondWithServiceError(w, h.log, "Error parsing priority group", err)
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	ranked, err := h.priorities.Priorities(r.Context(), GetUserIDFromContext(r.Context()), scope, limit)
	if err != nil {
		respondWithServiceError(w, h.log, "Error ranking priorities", err)
		return
	}
	respondJSON(w, http.StatusOK, ranked)
}

// Overview returns the dashboard summary
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.overview.Overview(r.Context(), GetUserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.log, "Error building overview", err)
		return
	}
	respondJSON(w, http.StatusOK, ov)
}
