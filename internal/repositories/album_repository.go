package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/photogallery/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// albumRepository implements album document access on the albums collection
type albumRepository struct {
	col *mongo.Collection
}

// NewAlbumRepository creates a new album repository
func NewAlbumRepository(db *mongo.Database) *albumRepository {
	return &albumRepository{col: db.Collection("albums")}
}

// List retrieves all albums, newest first
func (r *albumRepository) List(ctx context.Context) ([]models.Album, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", translate(err))
	}

	albums := make([]models.Album, 0)
	if err := cursor.All(ctx, &albums); err != nil {
		return nil, fmt.Errorf("failed to decode albums: %w", translate(err))
	}
	return albums, nil
}

// FindByID retrieves a single album by its id
func (r *albumRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Album, error) {
	var album models.Album
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&album)
	if err != nil {
		return nil, translate(err)
	}
	return &album, nil
}

// Insert persists a new album document
func (r *albumRepository) Insert(ctx context.Context, album *models.Album) error {
	_, err := r.col.InsertOne(ctx, album)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", translate(err))
	}
	return nil
}

// Rename updates the album name and returns the updated document
func (r *albumRepository) Rename(ctx context.Context, id primitive.ObjectID, name string) (*models.Album, error) {
	update := bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var album models.Album
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&album)
	if err != nil {
		return nil, translate(err)
	}
	return &album, nil
}

// PushPhotos appends the embedded entries to the album in one update, keeping
// the association a single observable transition.
func (r *albumRepository) PushPhotos(ctx context.Context, id primitive.ObjectID, photos []models.AlbumPhoto) error {
	update := bson.M{
		"$push": bson.M{"photos": bson.M{"$each": photos}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to push photos: %w", translate(err))
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// PullPhoto removes one embedded entry from the album
func (r *albumRepository) PullPhoto(ctx context.Context, albumID, photoID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"photos": bson.M{"_id": photoID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": albumID}, update)
	if err != nil {
		return fmt.Errorf("failed to pull photo: %w", translate(err))
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an album document
func (r *albumRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", translate(err))
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
