package services

import (
	"context"
	"errors"
	"testing"

	"github.com/photogallery/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// mockAlbumRepository is a mock implementation of AlbumRepository
type mockAlbumRepository struct {
	albums  []models.Album
	album   *models.Album
	renamed *models.Album
	err     error
	pushErr error

	inserted []*models.Album
	pushed   []models.AlbumPhoto
	pulled   []primitive.ObjectID
	deleted  []primitive.ObjectID
}

func (m *mockAlbumRepository) List(ctx context.Context) ([]models.Album, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.albums, nil
}

func (m *mockAlbumRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Album, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.album, nil
}

func (m *mockAlbumRepository) Insert(ctx context.Context, album *models.Album) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, album)
	return nil
}

func (m *mockAlbumRepository) Rename(ctx context.Context, id primitive.ObjectID, name string) (*models.Album, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.renamed, nil
}

func (m *mockAlbumRepository) PushPhotos(ctx context.Context, id primitive.ObjectID, photos []models.AlbumPhoto) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushed = append(m.pushed, photos...)
	return nil
}

func (m *mockAlbumRepository) PullPhoto(ctx context.Context, albumID, photoID primitive.ObjectID) error {
	if m.err != nil {
		return m.err
	}
	m.pulled = append(m.pulled, photoID)
	return nil
}

func (m *mockAlbumRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func newAlbumService(repo *mockAlbumRepository, photoRepo *mockPhotoRepository, store *mockStorage) *albumService {
	logger, _ := zap.NewDevelopment()
	return NewAlbumService(repo, photoRepo, store, logger, "http://localhost:9001")
}

func TestAlbumService_Create(t *testing.T) {
	tests := []struct {
		name          string
		albumName     string
		expectedName  string
		expectedError bool
	}{
		{name: "valid name", albumName: "Summer 2024", expectedName: "Summer 2024"},
		{name: "name is trimmed", albumName: "  Trips  ", expectedName: "Trips"},
		{name: "empty name", albumName: "", expectedError: true},
		{name: "whitespace only", albumName: "   ", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockAlbumRepository{}
			svc := newAlbumService(mockRepo, &mockPhotoRepository{}, &mockStorage{})

			album, err := svc.Create(context.Background(), tt.albumName)

			if tt.expectedError {
				assert.ErrorIs(t, err, models.ErrValidation)
				assert.Nil(t, album)
				assert.Empty(t, mockRepo.inserted)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedName, album.Name)
				assert.NotNil(t, album.Photos)
				assert.Empty(t, album.Photos)
				assert.False(t, album.ID.IsZero())
				assert.Len(t, mockRepo.inserted, 1)
			}
		})
	}
}

func TestAlbumService_UploadPhotos(t *testing.T) {
	albumID := primitive.NewObjectID()
	mockRepo := &mockAlbumRepository{
		album: &models.Album{ID: albumID, Name: "Trips", Photos: []models.AlbumPhoto{}},
	}
	svc := newAlbumService(mockRepo, &mockPhotoRepository{}, &mockStorage{})

	logger, _ := zap.NewDevelopment()
	rb := NewRollback(logger)

	descriptors := []models.FileDescriptor{
		{Filename: "1-000000001.jpg", OriginalName: "beach.jpg", MimeType: "image/jpeg", Size: 1024},
		{Filename: "1-000000002.png", OriginalName: "city.png", MimeType: "image/png", Size: 2048},
	}

	entries, err := svc.UploadPhotos(context.Background(), albumID.Hex(), descriptors, []string{"Beach day"}, rb)

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Len(t, mockRepo.pushed, 2)

	// arrival order preserved in the single push
	assert.Equal(t, "1-000000001.jpg", mockRepo.pushed[0].Filename)
	assert.Equal(t, "1-000000002.png", mockRepo.pushed[1].Filename)

	assert.Equal(t, "Beach day", entries[0].Title)
	assert.Equal(t, "city.png", entries[1].Title)
	assert.Equal(t, "http://localhost:9001/uploads/1-000000001.jpg", entries[0].URL)
}

func TestAlbumService_UploadPhotos_MissingAlbumRunsRollback(t *testing.T) {
	mockRepo := &mockAlbumRepository{err: models.ErrNotFound}
	store := &mockStorage{}
	svc := newAlbumService(mockRepo, &mockPhotoRepository{}, store)

	logger, _ := zap.NewDevelopment()
	rb := NewRollback(logger)
	rb.Add("delete file 1-000000001.jpg", func() error {
		return store.Delete("1-000000001.jpg")
	})

	descriptors := []models.FileDescriptor{
		{Filename: "1-000000001.jpg", OriginalName: "beach.jpg", MimeType: "image/jpeg", Size: 1024},
	}

	entries, err := svc.UploadPhotos(context.Background(), primitive.NewObjectID().Hex(), descriptors, nil, rb)

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, entries)
	// files written for a nonexistent album would be unreachable garbage
	assert.Equal(t, []string{"1-000000001.jpg"}, store.deleted)
	assert.Equal(t, 0, rb.Len())
}

func TestAlbumService_UploadPhotos_PushFailureRunsRollback(t *testing.T) {
	albumID := primitive.NewObjectID()
	mockRepo := &mockAlbumRepository{
		album:   &models.Album{ID: albumID, Name: "Trips"},
		pushErr: errors.New("database error"),
	}
	store := &mockStorage{}
	svc := newAlbumService(mockRepo, &mockPhotoRepository{}, store)

	logger, _ := zap.NewDevelopment()
	rb := NewRollback(logger)
	rb.Add("delete file 1-000000001.jpg", func() error {
		return store.Delete("1-000000001.jpg")
	})

	descriptors := []models.FileDescriptor{
		{Filename: "1-000000001.jpg", OriginalName: "beach.jpg", MimeType: "image/jpeg", Size: 1024},
	}

	entries, err := svc.UploadPhotos(context.Background(), albumID.Hex(), descriptors, nil, rb)

	assert.Error(t, err)
	assert.Nil(t, entries)
	assert.Equal(t, []string{"1-000000001.jpg"}, store.deleted)
}

func TestAlbumService_AddExistingPhoto(t *testing.T) {
	albumID := primitive.NewObjectID()
	photoID := primitive.NewObjectID()

	mockRepo := &mockAlbumRepository{
		album: &models.Album{ID: albumID, Name: "Trips", Photos: []models.AlbumPhoto{}},
	}
	mockPhotos := &mockPhotoRepository{
		photo: &models.Photo{
			ID:           photoID,
			Filename:     "a.jpg",
			OriginalName: "beach.jpg",
			MimeType:     "image/jpeg",
			Size:         1024,
			Title:        "Beach",
		},
	}
	svc := newAlbumService(mockRepo, mockPhotos, &mockStorage{})

	album, err := svc.AddExistingPhoto(context.Background(), albumID.Hex(), photoID.Hex())

	assert.NoError(t, err)
	assert.Len(t, mockRepo.pushed, 1)
	assert.Equal(t, photoID, mockRepo.pushed[0].ID)
	assert.Equal(t, "Beach", mockRepo.pushed[0].Title)
	assert.Len(t, album.Photos, 1)
}

func TestAlbumService_AddExistingPhoto_DuplicateIsNoop(t *testing.T) {
	albumID := primitive.NewObjectID()
	photoID := primitive.NewObjectID()

	mockRepo := &mockAlbumRepository{
		album: &models.Album{
			ID:   albumID,
			Name: "Trips",
			Photos: []models.AlbumPhoto{
				{ID: photoID, Filename: "a.jpg", URL: "/uploads/a.jpg"},
			},
		},
	}
	mockPhotos := &mockPhotoRepository{
		photo: &models.Photo{ID: photoID, Filename: "a.jpg"},
	}
	svc := newAlbumService(mockRepo, mockPhotos, &mockStorage{})

	album, err := svc.AddExistingPhoto(context.Background(), albumID.Hex(), photoID.Hex())

	assert.NoError(t, err)
	assert.Empty(t, mockRepo.pushed)
	assert.Len(t, album.Photos, 1)
}

func TestAlbumService_AddExistingPhoto_PhotoNotFound(t *testing.T) {
	mockRepo := &mockAlbumRepository{
		album: &models.Album{ID: primitive.NewObjectID()},
	}
	mockPhotos := &mockPhotoRepository{err: models.ErrNotFound}
	svc := newAlbumService(mockRepo, mockPhotos, &mockStorage{})

	album, err := svc.AddExistingPhoto(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, album)
	assert.Empty(t, mockRepo.pushed)
}

func TestAlbumService_RemovePhoto(t *testing.T) {
	albumID := primitive.NewObjectID()
	photoID := primitive.NewObjectID()

	mockRepo := &mockAlbumRepository{
		album: &models.Album{
			ID: albumID,
			Photos: []models.AlbumPhoto{
				{ID: photoID, Filename: "a.jpg"},
			},
		},
	}
	store := &mockStorage{}
	svc := newAlbumService(mockRepo, &mockPhotoRepository{}, store)

	err := svc.RemovePhoto(context.Background(), albumID.Hex(), photoID.Hex())

	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{photoID}, mockRepo.pulled)
	assert.Equal(t, []string{"a.jpg"}, store.deleted)
}

func TestAlbumService_RemovePhoto_KeepsSharedFile(t *testing.T) {
	albumID := primitive.NewObjectID()
	photoID := primitive.NewObjectID()

	mockRepo := &mockAlbumRepository{
		album: &models.Album{
			ID: albumID,
			Photos: []models.AlbumPhoto{
				{ID: photoID, Filename: "shared.jpg"},
			},
		},
	}
	// the entry was associated from the photo collection, where the
	// document still exists and points at the same file
	mockPhotos := &mockPhotoRepository{
		photo: &models.Photo{ID: photoID, Filename: "shared.jpg"},
	}
	store := &mockStorage{}
	svc := newAlbumService(mockRepo, mockPhotos, store)

	err := svc.RemovePhoto(context.Background(), albumID.Hex(), photoID.Hex())

	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{photoID}, mockRepo.pulled)
	assert.Empty(t, store.deleted)
}

func TestAlbumService_RemovePhoto_NotInAlbum(t *testing.T) {
	albumID := primitive.NewObjectID()
	mockRepo := &mockAlbumRepository{
		album: &models.Album{ID: albumID, Photos: []models.AlbumPhoto{}},
	}
	store := &mockStorage{}
	svc := newAlbumService(mockRepo, &mockPhotoRepository{}, store)

	err := svc.RemovePhoto(context.Background(), albumID.Hex(), primitive.NewObjectID().Hex())

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, mockRepo.pulled)
	assert.Empty(t, store.deleted)
}

func TestAlbumService_Delete(t *testing.T) {
	albumID := primitive.NewObjectID()
	mockRepo := &mockAlbumRepository{
		album: &models.Album{
			ID: albumID,
			Photos: []models.AlbumPhoto{
				{ID: primitive.NewObjectID(), Filename: "a.jpg"},
				{ID: primitive.NewObjectID(), Filename: "b.jpg"},
			},
		},
	}
	store := &mockStorage{}
	svc := newAlbumService(mockRepo, &mockPhotoRepository{}, store)

	err := svc.Delete(context.Background(), albumID.Hex())

	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{albumID}, mockRepo.deleted)
	assert.ElementsMatch(t, []string{"a.jpg", "b.jpg"}, store.deleted)
}

func TestAlbumService_Delete_KeepsSharedFiles(t *testing.T) {
	albumID := primitive.NewObjectID()
	sharedID := primitive.NewObjectID()

	mockRepo := &mockAlbumRepository{
		album: &models.Album{
			ID: albumID,
			Photos: []models.AlbumPhoto{
				{ID: sharedID, Filename: "shared.jpg"},
				{ID: primitive.NewObjectID(), Filename: "owned.jpg"},
			},
		},
	}
	mockPhotos := &mockPhotoRepository{
		photo: &models.Photo{ID: sharedID, Filename: "shared.jpg"},
	}
	store := &mockStorage{}
	svc := newAlbumService(mockRepo, mockPhotos, store)

	err := svc.Delete(context.Background(), albumID.Hex())

	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{albumID}, mockRepo.deleted)
	// only the file nothing else references goes away
	assert.Equal(t, []string{"owned.jpg"}, store.deleted)
}

func TestAlbumService_GetByID_InvalidID(t *testing.T) {
	svc := newAlbumService(&mockAlbumRepository{}, &mockPhotoRepository{}, &mockStorage{})

	album, err := svc.GetByID(context.Background(), "not-an-object-id")

	assert.ErrorIs(t, err, models.ErrInvalidID)
	assert.Nil(t, album)
}

func TestAlbumService_GetPhotos_EmptyAlbum(t *testing.T) {
	albumID := primitive.NewObjectID()
	mockRepo := &mockAlbumRepository{
		album: &models.Album{ID: albumID, Photos: nil},
	}
	svc := newAlbumService(mockRepo, &mockPhotoRepository{}, &mockStorage{})

	photos, err := svc.GetPhotos(context.Background(), albumID.Hex())

	assert.NoError(t, err)
	assert.NotNil(t, photos)
	assert.Empty(t, photos)
}
