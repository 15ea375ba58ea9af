package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cfb-pickem/database"
	"cfb-pickem/logging"
	"cfb-pickem/models"
	"cfb-pickem/services"
)

// maxBodyBytes caps JSON and form bodies
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors onto HTTP status codes
func writeServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.Errorf("Internal error: %v", err)
		msg = "internal error"
	}
	writeError(w, status, msg)
}

func statusForError(err error) int {
	switch {
	case models.IsLocked(err),
		errors.Is(err, models.ErrResultFinalized),
		errors.Is(err, database.ErrUserExists):
		return http.StatusConflict
	case models.IsNotFound(err):
		return http.StatusNotFound
	case models.IsInvalidSelection(err), errors.Is(err, services.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}
