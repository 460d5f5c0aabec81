// File: database/repository/timeblock/crud.go
package timeblockRepo

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

func (r *mongoTimeBlockRepo) Create(ctx context.Context, block models.TimeBlock) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, block)
	return err
}

func (r *mongoTimeBlockRepo) DeleteByID(ctx context.Context, businessID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"businessId": businessID, "id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoTimeBlockRepo) List(ctx context.Context, businessID string) ([]models.TimeBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"businessId": businessID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time blocks: %w", err)
	}
	return repository.DecodeAll[models.TimeBlock](ctx, cursor, repository.CollTimeBlocks)
}

func (r *mongoTimeBlockRepo) ListStartingOnOrBefore(ctx context.Context, businessID, date string) ([]models.TimeBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// "YYYY-MM-DD" strings order the same way as the dates they encode.
	filter := bson.M{
		"businessId": businessID,
		"date":       bson.M{"$lte": date},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time blocks: %w", err)
	}
	return repository.DecodeAll[models.TimeBlock](ctx, cursor, repository.CollTimeBlocks)
}

// EnsureIndexes creates the necessary indexes on the timeBlocks collection.
func (r *mongoTimeBlockRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("business_date_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create time block indexes: %w", err)
	}
	return nil
}
