package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes so
// callers can distinguish "not your request" from "request already
// completed".
func writeError(w http.ResponseWriter, err error) {
	var (
		status int
		kind   string
	)
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, kind = http.StatusBadRequest, "validation"
	case errors.Is(err, domain.ErrInvalidInput):
		status, kind = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrForbidden):
		status, kind = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrInvalidState):
		status, kind = http.StatusConflict, "invalid_state"
	case errors.Is(err, domain.ErrConflict):
		status, kind = http.StatusConflict, "conflict"
	default:
		status, kind = http.StatusInternalServerError, "internal"
		logger.Error("Unhandled error in HTTP handler", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}
