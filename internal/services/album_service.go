package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/photogallery/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AlbumRepository is the interface that wraps album collection data access
type AlbumRepository interface {
	// List retrieves all albums, newest first.
	List(ctx context.Context) ([]models.Album, error)
	// FindByID retrieves a single album, models.ErrNotFound when absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Album, error)
	// Insert persists a new album document.
	Insert(ctx context.Context, album *models.Album) error
	// Rename updates the album name and returns the updated document.
	Rename(ctx context.Context, id primitive.ObjectID, name string) (*models.Album, error)
	// PushPhotos appends embedded entries in one update.
	PushPhotos(ctx context.Context, id primitive.ObjectID, photos []models.AlbumPhoto) error
	// PullPhoto removes one embedded entry.
	PullPhoto(ctx context.Context, albumID, photoID primitive.ObjectID) error
	// Delete removes the album document, models.ErrNotFound when absent.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PhotoFinder looks up standalone photos for association into albums
type PhotoFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error)
}

type albumService struct {
	repo      AlbumRepository
	photoRepo PhotoFinder
	storage   Storage
	logger    *zap.Logger
	baseURL   string
}

// NewAlbumService creates a new album service
func NewAlbumService(repo AlbumRepository, photoRepo PhotoFinder, storage Storage, logger *zap.Logger, baseURL string) *albumService {
	return &albumService{
		repo:      repo,
		photoRepo: photoRepo,
		storage:   storage,
		logger:    logger,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (s *albumService) absoluteURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return s.baseURL + url
}

func (s *albumService) withAbsoluteURLs(album *models.Album) *models.Album {
	for i := range album.Photos {
		album.Photos[i].URL = s.absoluteURL(album.Photos[i].URL)
	}
	return album
}

// List retrieves all albums with absolute photo URLs
func (s *albumService) List(ctx context.Context) ([]models.Album, error) {
	albums, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list albums", zap.Error(err))
		return nil, err
	}
	for i := range albums {
		s.withAbsoluteURLs(&albums[i])
	}
	return albums, nil
}

// GetByID retrieves a single album with absolute photo URLs
func (s *albumService) GetByID(ctx context.Context, id string) (*models.Album, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	album, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	return s.withAbsoluteURLs(album), nil
}

// GetPhotos retrieves the embedded photos of an album, in association order
func (s *albumService) GetPhotos(ctx context.Context, id string) ([]models.AlbumPhoto, error) {
	album, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if album.Photos == nil {
		return []models.AlbumPhoto{}, nil
	}
	return album.Photos, nil
}

// Create persists a new empty album
func (s *albumService) Create(ctx context.Context, name string) (*models.Album, error) {
	now := time.Now().UTC()
	album := &models.Album{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(name),
		Photos:    []models.AlbumPhoto{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if album.Name == "" {
		return nil, fmt.Errorf("%w: album name is required", models.ErrValidation)
	}

	if err := s.repo.Insert(ctx, album); err != nil {
		s.logger.Error("failed to create album", zap.Error(err))
		return nil, err
	}
	return album, nil
}

// Rename changes the album name and returns the updated document
func (s *albumService) Rename(ctx context.Context, id string, name string) (*models.Album, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	album, err := s.repo.Rename(ctx, oid, strings.TrimSpace(name))
	if err != nil {
		s.logger.Error("failed to rename album", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.withAbsoluteURLs(album), nil
}

// UploadPhotos associates freshly uploaded files with an album. The album is
// resolved only after the files are on disk, so a missing album triggers the
// mandatory cleanup of every file written for this request: nothing references
// them and they would otherwise be unrecoverable garbage. All entries are
// pushed with a single update, in arrival order.
func (s *albumService) UploadPhotos(ctx context.Context, id string, descriptors []models.FileDescriptor, titles []string, rb *Rollback) ([]models.AlbumPhoto, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		rb.Run()
		return nil, models.ErrInvalidID
	}

	if _, err := s.repo.FindByID(ctx, oid); err != nil {
		rb.Run()
		return nil, err
	}

	now := time.Now().UTC()
	entries := make([]models.AlbumPhoto, 0, len(descriptors))
	for i, desc := range descriptors {
		title := desc.OriginalName
		if i < len(titles) && strings.TrimSpace(titles[i]) != "" {
			title = strings.TrimSpace(titles[i])
		}

		entries = append(entries, models.AlbumPhoto{
			ID:           primitive.NewObjectID(),
			Filename:     desc.Filename,
			OriginalName: desc.OriginalName,
			MimeType:     desc.MimeType,
			Size:         desc.Size,
			URL:          "/uploads/" + desc.Filename,
			Title:        title,
			UploadDate:   now,
		})
	}

	if err := s.repo.PushPhotos(ctx, oid, entries); err != nil {
		s.logger.Error("failed to persist album photos", zap.String("album_id", id), zap.Error(err))
		rb.Run()
		return nil, err
	}

	for i := range entries {
		entries[i].URL = s.absoluteURL(entries[i].URL)
	}
	return entries, nil
}

// AddExistingPhoto copies a standalone photo into the album as an embedded
// entry. Associating the same photo twice is a no-op.
func (s *albumService) AddExistingPhoto(ctx context.Context, albumID, photoID string) (*models.Album, error) {
	albumOID, err := primitive.ObjectIDFromHex(albumID)
	if err != nil {
		return nil, models.ErrInvalidID
	}
	photoOID, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	photo, err := s.photoRepo.FindByID(ctx, photoOID)
	if err != nil {
		return nil, err
	}

	album, err := s.repo.FindByID(ctx, albumOID)
	if err != nil {
		return nil, err
	}

	for _, entry := range album.Photos {
		if entry.ID == photo.ID {
			return s.withAbsoluteURLs(album), nil
		}
	}

	entry := models.AlbumPhoto{
		ID:           photo.ID,
		Filename:     photo.Filename,
		OriginalName: photo.OriginalName,
		MimeType:     photo.MimeType,
		Size:         photo.Size,
		URL:          "/uploads/" + photo.Filename,
		Title:        photo.Title,
		UploadDate:   time.Now().UTC(),
	}
	if err := s.repo.PushPhotos(ctx, albumOID, []models.AlbumPhoto{entry}); err != nil {
		s.logger.Error("failed to add photo to album", zap.String("album_id", albumID), zap.Error(err))
		return nil, err
	}

	album.Photos = append(album.Photos, entry)
	return s.withAbsoluteURLs(album), nil
}

// deleteFileUnlessShared removes the entry's file best-effort. Entries added
// from the photo collection keep the photo's id, so an id that still resolves
// to a standalone photo means the file is shared and must survive the album
// operation. The file is only deleted on a definitive not-found.
func (s *albumService) deleteFileUnlessShared(ctx context.Context, entry *models.AlbumPhoto) {
	if _, err := s.photoRepo.FindByID(ctx, entry.ID); err == nil || !errors.Is(err, models.ErrNotFound) {
		return
	}

	if err := s.storage.Delete(entry.Filename); err != nil {
		s.logger.Warn("failed to delete album photo file",
			zap.String("filename", entry.Filename),
			zap.Error(err),
		)
	}
}

// RemovePhoto pulls an embedded entry out of the album, then removes the
// underlying file unless a standalone photo still references it.
func (s *albumService) RemovePhoto(ctx context.Context, albumID, photoID string) error {
	albumOID, err := primitive.ObjectIDFromHex(albumID)
	if err != nil {
		return models.ErrInvalidID
	}
	photoOID, err := primitive.ObjectIDFromHex(photoID)
	if err != nil {
		return models.ErrInvalidID
	}

	album, err := s.repo.FindByID(ctx, albumOID)
	if err != nil {
		return err
	}

	var entry *models.AlbumPhoto
	for i := range album.Photos {
		if album.Photos[i].ID == photoOID {
			entry = &album.Photos[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("photo not in album: %w", models.ErrNotFound)
	}

	if err := s.repo.PullPhoto(ctx, albumOID, photoOID); err != nil {
		s.logger.Error("failed to remove photo from album",
			zap.String("album_id", albumID),
			zap.String("photo_id", photoID),
			zap.Error(err),
		)
		return err
	}

	s.deleteFileUnlessShared(ctx, entry)
	return nil
}

// Delete removes the album document and the files of those embedded photos
// that no standalone photo references.
func (s *albumService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}

	album, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, oid); err != nil {
		s.logger.Error("failed to delete album", zap.String("id", id), zap.Error(err))
		return err
	}

	for i := range album.Photos {
		s.deleteFileUnlessShared(ctx, &album.Photos[i])
	}
	return nil
}
