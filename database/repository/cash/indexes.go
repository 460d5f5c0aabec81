// FILE: database/repository/cash/indexes.go
package cashRepo

import (
	"context"
	"fmt"
	"time"

	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the cash indexes. The partial unique index on
// OPEN sessions is what makes "at most one open session per business" hold
// under concurrent opens.
func (r *mongoCashRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sessionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{{Key: "businessId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.SessionOpen}).
				SetName("single_open_session"),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "status", Value: 1}, {Key: "openedAt", Value: -1}},
			Options: options.Index().SetName("business_status_opened_idx"),
		},
	}
	if _, err := r.sessions.Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("failed to create cash session indexes: %w", err)
	}

	entryIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "sessionId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("business_session_created_idx"),
		},
	}
	if _, err := r.entries.Indexes().CreateMany(ctx, entryIndexes); err != nil {
		return fmt.Errorf("failed to create cash entry indexes: %w", err)
	}
	return nil
}
