package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/photogallery/backend/internal/models"
	"github.com/photogallery/backend/internal/services"
	"github.com/photogallery/backend/internal/validation"
	"go.uber.org/zap"
)

// AlbumsService is the interface that wraps methods for album business logic.
type AlbumsService interface {
	// List retrieves all albums, newest first.
	List(ctx context.Context) ([]models.Album, error)
	// GetByID retrieves a single album.
	GetByID(ctx context.Context, id string) (*models.Album, error)
	// GetPhotos retrieves the embedded photos of an album.
	GetPhotos(ctx context.Context, id string) ([]models.AlbumPhoto, error)
	// Create persists a new empty album.
	Create(ctx context.Context, name string) (*models.Album, error)
	// Rename changes the album name.
	Rename(ctx context.Context, id string, name string) (*models.Album, error)
	// UploadPhotos associates freshly stored files with an album.
	UploadPhotos(ctx context.Context, id string, descriptors []models.FileDescriptor, titles []string, rb *services.Rollback) ([]models.AlbumPhoto, error)
	// AddExistingPhoto copies a standalone photo into the album.
	AddExistingPhoto(ctx context.Context, albumID, photoID string) (*models.Album, error)
	// RemovePhoto removes an embedded entry and its file.
	RemovePhoto(ctx context.Context, albumID, photoID string) error
	// Delete removes the album and, best-effort, its photos' files.
	Delete(ctx context.Context, id string) error
}

// AlbumsHandler handles HTTP requests for albums
type AlbumsHandler struct {
	BaseHandler
	service  AlbumsService
	uploader FileSaver
}

// NewAlbumsHandler creates a new album handler
func NewAlbumsHandler(svc AlbumsService, uploader FileSaver, logger *zap.Logger) *AlbumsHandler {
	return &AlbumsHandler{
		service:     svc,
		uploader:    uploader,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all album handler routes. requireAuth guards the
// mutating endpoints.
func (h *AlbumsHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/api/albums", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Get("/{id}/photos", h.GetPhotos)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Rename)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/photos", h.UploadPhotos)
			r.Post("/{id}/add", h.AddExistingPhoto)
			r.Delete("/{id}/photos/{photoId}", h.RemovePhoto)
		})
	})
}

// List handles GET /api/albums
// @Summary List albums
// @Tags albums
// @Produce json
// @Success 200 {array} models.Album
// @Failure 500 {object} map[string]string
// @Router /api/albums [get]
func (h *AlbumsHandler) List(w http.ResponseWriter, r *http.Request) {
	albums, err := h.service.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, albums)
}

// GetByID handles GET /api/albums/{id}
// @Summary Get album
// @Tags albums
// @Produce json
// @Param id path string true "Album ID"
// @Success 200 {object} models.Album
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/albums/{id} [get]
func (h *AlbumsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	album, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, album)
}

// GetPhotos handles GET /api/albums/{id}/photos
// @Summary Get album photos
// @Description Get the photos of an album in association order
// @Tags albums
// @Produce json
// @Param id path string true "Album ID"
// @Success 200 {array} models.AlbumPhoto
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/albums/{id}/photos [get]
func (h *AlbumsHandler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.service.GetPhotos(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, photos)
}

// Create handles POST /api/albums
// @Summary Create album
// @Tags albums
// @Accept json
// @Produce json
// @Param body body models.CreateAlbumRequest true "Album name"
// @Success 201 {object} models.Album
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/albums [post]
func (h *AlbumsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.Get().Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, validation.Describe(err))
		return
	}

	album, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, album)
}

// Rename handles PUT /api/albums/{id}
// @Summary Rename album
// @Tags albums
// @Accept json
// @Produce json
// @Param id path string true "Album ID"
// @Param body body models.RenameAlbumRequest true "New album name"
// @Success 200 {object} models.Album
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/albums/{id} [put]
func (h *AlbumsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req models.RenameAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.Get().Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, validation.Describe(err))
		return
	}

	album, err := h.service.Rename(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, album)
}

// UploadPhotos handles POST /api/albums/{id}/photos
// @Summary Upload photos into an album
// @Description Upload up to 10 image files in the "photos" multipart field directly into an album
// @Tags albums
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Album ID"
// @Param photos formData file true "Image files"
// @Success 201 {array} models.AlbumPhoto
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/albums/{id}/photos [post]
func (h *AlbumsHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	descriptors, rb, err := h.uploader.SaveAll(r.Context(), r.MultipartForm.File["photos"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	entries, err := h.service.UploadPhotos(r.Context(), chi.URLParam(r, "id"), descriptors, r.MultipartForm.Value["titles"], rb)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, entries)
}

// AddExistingPhoto handles POST /api/albums/{id}/add
// @Summary Add an existing photo to an album
// @Description Copy an already uploaded photo into the album; adding the same photo twice is a no-op
// @Tags albums
// @Accept json
// @Produce json
// @Param id path string true "Album ID"
// @Param body body models.AddPhotoRequest true "Photo to add"
// @Success 200 {object} models.Album
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/albums/{id}/add [post]
func (h *AlbumsHandler) AddExistingPhoto(w http.ResponseWriter, r *http.Request) {
	var req models.AddPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.Get().Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, validation.Describe(err))
		return
	}

	album, err := h.service.AddExistingPhoto(r.Context(), chi.URLParam(r, "id"), req.PhotoID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, album)
}

// RemovePhoto handles DELETE /api/albums/{id}/photos/{photoId}
// @Summary Remove a photo from an album
// @Tags albums
// @Produce json
// @Param id path string true "Album ID"
// @Param photoId path string true "Photo ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/albums/{id}/photos/{photoId} [delete]
func (h *AlbumsHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemovePhoto(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "photoId")); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "photo removed from album"})
}

// Delete handles DELETE /api/albums/{id}
// @Summary Delete album
// @Description Delete an album and, best-effort, its photos' files
// @Tags albums
// @Produce json
// @Param id path string true "Album ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/albums/{id} [delete]
func (h *AlbumsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "album deleted"})
}
