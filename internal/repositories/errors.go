package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/photogallery/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// translate maps driver errors onto the application's sentinel errors so that
// handlers can pick HTTP statuses without importing the driver.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return err
}
