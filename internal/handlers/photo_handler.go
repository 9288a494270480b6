package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/photogallery/backend/internal/models"
	"github.com/photogallery/backend/internal/services"
	"github.com/photogallery/backend/internal/validation"
	"go.uber.org/zap"
)

// maxUploadMemory caps the in-memory portion of multipart parsing; larger
// parts spill to temp files.
const maxUploadMemory = 32 << 20

// FileSaver is the interface that wraps the multipart file store step of an
// upload. The returned rollback must be run when a later step of the request
// fails.
type FileSaver interface {
	SaveAll(ctx context.Context, files []*multipart.FileHeader) ([]models.FileDescriptor, *services.Rollback, error)
}

// PhotosService is the interface that wraps methods for photo business logic.
type PhotosService interface {
	// Upload persists one photo document per stored file, in arrival order.
	// titles and tags are parallel to the descriptors.
	Upload(ctx context.Context, descriptors []models.FileDescriptor, titles, tags []string, rb *services.Rollback) ([]models.Photo, error)
	// List retrieves a page of photos, newest first.
	List(ctx context.Context, page, limit int) ([]models.Photo, error)
	// Favorites retrieves all photos marked as favorite.
	Favorites(ctx context.Context) ([]models.Photo, error)
	// SearchByTags retrieves photos matching any of the comma-separated tags.
	SearchByTags(ctx context.Context, rawTags string) ([]models.Photo, error)
	// ToggleFavorite flips the favorite flag and returns the updated photo.
	ToggleFavorite(ctx context.Context, id string) (*models.Photo, error)
	// Update changes title, description and/or tags of a photo.
	Update(ctx context.Context, id string, req models.UpdatePhotoRequest) (*models.Photo, error)
	// Delete removes the photo's file and metadata document.
	Delete(ctx context.Context, id string) error
}

// PhotosHandler handles HTTP requests for photos
type PhotosHandler struct {
	BaseHandler
	service  PhotosService
	uploader FileSaver
}

// NewPhotosHandler creates a new photo handler
func NewPhotosHandler(svc PhotosService, uploader FileSaver, logger *zap.Logger) *PhotosHandler {
	return &PhotosHandler{
		service:     svc,
		uploader:    uploader,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all photo handler routes. listLimiter throttles the
// listing endpoints, requireAuth guards the mutating ones.
func (h *PhotosHandler) RegisterRoutes(r chi.Router, listLimiter, requireAuth func(http.Handler) http.Handler) {
	r.Route("/api/photos", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(listLimiter)
			r.Get("/", h.List)
			r.Get("/favorites", h.Favorites)
			r.Get("/search/tags", h.SearchByTags)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/upload", h.Upload)
			r.Put("/{id}", h.Update)
			r.Post("/{id}/favorite", h.ToggleFavorite)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /api/photos
// @Summary List photos
// @Description Get a page of photos, newest first
// @Tags photos
// @Produce json
// @Param page query int false "Page number, default 1"
// @Param limit query int false "Page size, default 20, max 100"
// @Success 200 {array} models.Photo
// @Failure 500 {object} map[string]string
// @Router /api/photos [get]
func (h *PhotosHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	photos, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, photos)
}

// Favorites handles GET /api/photos/favorites
// @Summary List favorite photos
// @Tags photos
// @Produce json
// @Success 200 {array} models.Photo
// @Failure 500 {object} map[string]string
// @Router /api/photos/favorites [get]
func (h *PhotosHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	photos, err := h.service.Favorites(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, photos)
}

// SearchByTags handles GET /api/photos/search/tags
// @Summary Search photos by tags
// @Description Get photos carrying any of the given comma-separated tags
// @Tags photos
// @Produce json
// @Param tags query string true "Comma-separated tags"
// @Success 200 {array} models.Photo
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/photos/search/tags [get]
func (h *PhotosHandler) SearchByTags(w http.ResponseWriter, r *http.Request) {
	photos, err := h.service.SearchByTags(r.Context(), r.URL.Query().Get("tags"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, photos)
}

// Upload handles POST /api/photos/upload
// @Summary Upload photos
// @Description Upload up to 10 image files (JPEG, PNG, GIF, WEBP, max 5 MiB each) in the "photos" multipart field, with optional parallel "titles" and "tags" form values
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param photos formData file true "Image files"
// @Success 201 {array} models.Photo
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/photos/upload [post]
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	titles := r.MultipartForm.Value["titles"]
	tags := r.MultipartForm.Value["tags"]

	photos, err := h.service.Upload(r.Context(), descriptors, titles, tags, rb)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, photos)
}

// Update handles PUT /api/photos/{id}
// @Summary Update photo metadata
// @Description Update title, description and/or tags of a photo
// @Tags photos
// @Accept json
// @Produce json
// @Param id path string true "Photo ID"
// @Param body body models.UpdatePhotoRequest true "Fields to update"
// @Success 200 {object} models.Photo
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/photos/{id} [put]
func (h *PhotosHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePhotoRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.Get().Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, validation.Describe(err))
		return
	}

	photo, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, photo)
}

// ToggleFavorite handles POST /api/photos/{id}/favorite
// @Summary Toggle favorite
// @Tags photos
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} models.Photo
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/photos/{id}/favorite [post]
func (h *PhotosHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	photo, err := h.service.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, photo)
}

// Delete handles DELETE /api/photos/{id}
// @Summary Delete photo
// @Description Delete a photo's file and metadata document
// @Tags photos
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/photos/{id} [delete]
func (h *PhotosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "photo deleted"})
}
