package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/photogallery/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PhotoRepository is the interface that wraps photo collection data access
type PhotoRepository interface {
	// InsertMany persists all photos as a single observable transition: either
	// every document is written or the call fails as a whole.
	InsertMany(ctx context.Context, photos []models.Photo) error
	// List retrieves a page of photos, newest first.
	List(ctx context.Context, page, limit int) ([]models.Photo, error)
	// Favorites retrieves all photos marked as favorite.
	Favorites(ctx context.Context) ([]models.Photo, error)
	// SearchByTags retrieves photos carrying any of the given tags.
	SearchByTags(ctx context.Context, tags []string) ([]models.Photo, error)
	// FindByID retrieves a single photo, models.ErrNotFound when absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error)
	// Update applies field changes and returns the updated document.
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Photo, error)
	// Delete removes the photo document, models.ErrNotFound when absent.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type photoService struct {
	repo    PhotoRepository
	storage Storage
	logger  *zap.Logger
	baseURL string
}

// NewPhotoService creates a new photo service
func NewPhotoService(repo PhotoRepository, storage Storage, logger *zap.Logger, baseURL string) *photoService {
	return &photoService{
		repo:    repo,
		storage: storage,
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// absoluteURL rewrites a storage-relative url to a fully-qualified address
func (s *photoService) absoluteURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return s.baseURL + url
}

func (s *photoService) withAbsoluteURLs(photos []models.Photo) []models.Photo {
	for i := range photos {
		photos[i].URL = s.absoluteURL(photos[i].URL)
	}
	return photos
}

// Upload builds one photo document per descriptor and persists them all at
// once, in arrival order. titles and tags are parallel to the descriptors;
// missing titles default to the original filename. When persistence fails the
// rollback removes every file written for this request before the error is
// returned.
func (s *photoService) Upload(ctx context.Context, descriptors []models.FileDescriptor, titles, tags []string, rb *Rollback) ([]models.Photo, error) {
	now := time.Now().UTC()
	photos := make([]models.Photo, 0, len(descriptors))

	for i, desc := range descriptors {
		title := desc.OriginalName
		if i < len(titles) && strings.TrimSpace(titles[i]) != "" {
			title = strings.TrimSpace(titles[i])
		}

		photoTags := []string{}
		if i < len(tags) {
			photoTags = ParseTagString(tags[i])
			if err := ValidateTags(photoTags); err != nil {
				rb.Run()
				return nil, err
			}
		}

		photos = append(photos, models.Photo{
			ID:           primitive.NewObjectID(),
			Filename:     desc.Filename,
			OriginalName: desc.OriginalName,
			MimeType:     desc.MimeType,
			Size:         desc.Size,
			URL:          "/uploads/" + desc.Filename,
			Title:        title,
			Tags:         photoTags,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := s.repo.InsertMany(ctx, photos); err != nil {
		s.logger.Error("failed to persist uploaded photos", zap.Error(err))
		rb.Run()
		return nil, err
	}

	return s.withAbsoluteURLs(photos), nil
}

// List retrieves a page of photos, newest first, with absolute URLs
func (s *photoService) List(ctx context.Context, page, limit int) ([]models.Photo, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	photos, err := s.repo.List(ctx, page, limit)
	if err != nil {
		s.logger.Error("failed to list photos", zap.Error(err))
		return nil, err
	}
	return s.withAbsoluteURLs(photos), nil
}

// Favorites retrieves all favorite photos with absolute URLs
func (s *photoService) Favorites(ctx context.Context) ([]models.Photo, error) {
	photos, err := s.repo.Favorites(ctx)
	if err != nil {
		s.logger.Error("failed to list favorite photos", zap.Error(err))
		return nil, err
	}
	return s.withAbsoluteURLs(photos), nil
}

// SearchByTags retrieves photos matching any of the comma-separated tags
func (s *photoService) SearchByTags(ctx context.Context, rawTags string) ([]models.Photo, error) {
	tags := ParseTagString(rawTags)
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no tags provided for search", models.ErrValidation)
	}

	photos, err := s.repo.SearchByTags(ctx, tags)
	if err != nil {
		s.logger.Error("failed to search photos by tags", zap.Error(err))
		return nil, err
	}
	return s.withAbsoluteURLs(photos), nil
}

// ToggleFavorite flips the favorite flag and returns the updated document.
// There is no optimistic concurrency check: concurrent toggles race and the
// last writer wins.
func (s *photoService) ToggleFavorite(ctx context.Context, id string) (*models.Photo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	photo, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, oid, bson.M{"favorite": !photo.Favorite})
	if err != nil {
		s.logger.Error("failed to toggle favorite", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated.URL = s.absoluteURL(updated.URL)
	return updated, nil
}

// Update changes title, description and tags; nothing else is mutable through
// this path. Tags are re-normalized on every update.
func (s *photoService) Update(ctx context.Context, id string, req models.UpdatePhotoRequest) (*models.Photo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	fields := bson.M{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Tags != nil {
		tags := NormalizeTags(*req.Tags)
		if err := ValidateTags(tags); err != nil {
			return nil, err
		}
		fields["tags"] = tags
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields provided", models.ErrValidation)
	}

	updated, err := s.repo.Update(ctx, oid, fields)
	if err != nil {
		s.logger.Error("failed to update photo", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated.URL = s.absoluteURL(updated.URL)
	return updated, nil
}

// Delete removes the photo's file and its metadata document. The file delete
// is best-effort: a failure is logged but never blocks document removal, since
// a stray file is tolerable while a document with no file is not.
func (s *photoService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}

	photo, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(photo.Filename); err != nil {
		s.logger.Warn("failed to delete photo file, removing metadata anyway",
			zap.String("filename", photo.Filename),
			zap.Error(err),
		)
	}

	return s.repo.Delete(ctx, oid)
}
