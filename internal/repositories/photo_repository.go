// Package repositories implements MongoDB data access for photos and albums.
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

// photoRepository implements photo document access on the photos collection
type photoRepository struct {
	col *mongo.Collection
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *mongo.Database) *photoRepository {
	return &photoRepository{col: db.Collection("photos")}
}

// InsertMany persists all photos with a single ordered insert. Either every
// document is written or the call fails as a whole.
func (r *photoRepository) InsertMany(ctx context.Context, photos []models.Photo) error {
	docs := make([]any, 0, len(photos))
	for _, p := range photos {
		docs = append(docs, p)
	}

	_, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("failed to insert photos: %w", translate(err))
	}
	return nil
}

// List retrieves a page of photos, newest first
func (r *photoRepository) List(ctx context.Context, page, limit int) ([]models.Photo, error) {
	skip := int64((page - 1) * limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", translate(err))
	}

	// Guarantee [] instead of null in JSON responses
	photos := make([]models.Photo, 0)
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, fmt.Errorf("failed to decode photos: %w", translate(err))
	}
	return photos, nil
}

// Favorites retrieves all photos marked as favorite
func (r *photoRepository) Favorites(ctx context.Context) ([]models.Photo, error) {
	cursor, err := r.col.Find(ctx, bson.M{"favorite": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", translate(err))
	}

	photos := make([]models.Photo, 0)
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", translate(err))
	}
	return photos, nil
}

// SearchByTags retrieves photos carrying any of the given tags
func (r *photoRepository) SearchByTags(ctx context.Context, tags []string) ([]models.Photo, error) {
	cursor, err := r.col.Find(ctx, bson.M{"tags": bson.M{"$in": tags}})
	if err != nil {
		return nil, fmt.Errorf("failed to search photos: %w", translate(err))
	}

	photos := make([]models.Photo, 0)
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, fmt.Errorf("failed to decode photos: %w", translate(err))
	}
	return photos, nil
}

// FindByID retrieves a single photo by its id
func (r *photoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	var photo models.Photo
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&photo)
	if err != nil {
		return nil, translate(err)
	}
	return &photo, nil
}

// Update applies the given field changes, bumps updatedAt and returns the
// updated document
func (r *photoRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Photo, error) {
	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var photo models.Photo
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&photo)
	if err != nil {
		return nil, translate(err)
	}
	return &photo, nil
}

// Delete removes a photo document
func (r *photoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", translate(err))
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
