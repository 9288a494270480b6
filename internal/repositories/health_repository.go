package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// healthRepository checks connectivity to the metadata store
type healthRepository struct {
	client *mongo.Client
}

// NewHealthRepository creates a new health repository
func NewHealthRepository(client *mongo.Client) *healthRepository {
	return &healthRepository{client: client}
}

// Ping verifies that a primary is reachable
func (r *healthRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}
