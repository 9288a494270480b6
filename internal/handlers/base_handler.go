package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/photogallery/backend/internal/models"
	"go.uber.org/zap"
)

type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP statuses. Validation
// messages are safe to show as-is; everything unexpected stays in the logs.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidID):
		h.respondError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, models.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrStoreUnavailable):
		w.Header().Set("Retry-After", "5")
		h.respondError(w, http.StatusServiceUnavailable, "database unavailable, try again later")
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
