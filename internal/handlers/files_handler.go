package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/photogallery/backend/internal/services"
	"go.uber.org/zap"
)

// FilesHandler serves stored photo files
type FilesHandler struct {
	BaseHandler
	storage services.Storage
}

// NewFilesHandler creates a new file handler
func NewFilesHandler(storage services.Storage, logger *zap.Logger) *FilesHandler {
	return &FilesHandler{
		storage:     storage,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers the static file route
func (h *FilesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/uploads/{filename}", h.Serve)
}

// Serve handles GET /uploads/{filename}
// @Summary Serve a stored photo file
// @Tags files
// @Param filename path string true "Stored filename"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /uploads/{filename} [get]
func (h *FilesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	f, err := h.storage.OpenFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.respondError(w, http.StatusNotFound, "file not found")
			return
		}
		h.logger.Error("failed to open stored file", zap.String("filename", filename), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.logger.Error("failed to stat stored file", zap.String("filename", filename), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Stored names embed a timestamp and never get rewritten, so long-lived
	// caching is safe
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, filename, info.ModTime(), f)
}
