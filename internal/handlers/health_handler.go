package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger reports whether the metadata store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles readiness checks
type HealthHandler struct {
	BaseHandler
	db Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.Check)
}

// Check handles GET /api/health
// @Summary Health check
// @Description Report server and database status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/health [get]
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "error",
			"database": "disconnected",
		})
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "connected",
	})
}
