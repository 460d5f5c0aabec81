// File: database/repository/cash/entries.go
package cashRepo

import (
	"context"
	"fmt"
	"time"

	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoCashRepo) InsertEntry(ctx context.Context, entry models.CashEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.entries.InsertOne(ctx, entry)
	return err
}

func (r *mongoCashRepo) GetEntry(ctx context.Context, businessID, id string) (*models.CashEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := r.entries.FindOne(ctx, bson.M{"businessId": businessID, "id": id})
	return repository.DecodeOne[models.CashEntry](res, repository.CollCashEntries)
}

// UpdateEntry replaces the entry only if the stored history is exactly one
// record shorter than the one being written. A stale copy therefore can
// never truncate or fork the trail.
func (r *mongoCashRepo) UpdateEntry(ctx context.Context, entry models.CashEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"businessId": entry.BusinessID,
		"id":         entry.ID,
		"$expr": bson.M{"$eq": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$history", bson.A{}}}},
			len(entry.History) - 1,
		}},
	}
	res, err := r.entries.ReplaceOne(ctx, filter, entry)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCashRepo) ListEntries(ctx context.Context, businessID, sessionID string) ([]models.CashEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"businessId": businessID, "sessionId": sessionID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.entries.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cash entries: %w", err)
	}
	return repository.DecodeAll[models.CashEntry](ctx, cursor, repository.CollCashEntries)
}
