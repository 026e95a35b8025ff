package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"nareo/internal/logger"
	"nareo/internal/models"
	"nareo/internal/repository"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// errorKinds maps domain errors to a status and a stable client code
var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{models.ErrInvalidRating, http.StatusBadRequest, "invalid_rating"},
	{models.ErrInvalidGoalLevel, http.StatusBadRequest, "invalid_goal_level"},
	{models.ErrInvalidDelta, http.StatusBadRequest, "invalid_delta"},
	{models.ErrInvalidDate, http.StatusBadRequest, "invalid_date"},
	{models.ErrInvalidTimezone, http.StatusBadRequest, "invalid_timezone"},
	{models.ErrInvalidItemState, http.StatusUnprocessableEntity, "invalid_item_state"},
	{models.ErrItemNotFound, http.StatusNotFound, "item_not_found"},
	{repository.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"},
	{models.ErrNoFreezeAvailable, http.StatusConflict, "no_freeze_available"},
	{models.ErrFreezeNotApplicable, http.StatusConflict, "freeze_not_applicable"},
	{models.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondWithError(w http.ResponseWriter, log *logger.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Error(logMsg, "status", status, "error", err)
	}

	respondJSON(w, status, errorBody{Error: userMsg})
}

// respondWithServiceError translates a service error into an HTTP response.
// Unknown errors are logged and hidden behind a 500.
func respondWithServiceError(w http.ResponseWriter, log *logger.Logger, logMsg string, err error) {
	body := errorBody{Error: err.Error()}

	var verr models.ValidationError
	if errors.As(err, &verr) {
		body.Field = verr.Field
		body.Code = "invalid_input"
	}

	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			body.Code = kind.code
			if kind.status == http.StatusUnprocessableEntity {
				log.Warn(logMsg, "code", kind.code, "error", err)
			}
			respondJSON(w, kind.status, body)
			return
		}
	}

	if body.Field != "" {
		respondJSON(w, http.StatusBadRequest, body)
		return
	}

	respondWithError(w, log, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
}

// decodeJSON reads a JSON request body into v. An empty body leaves v unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
