// File: database/repository/timeblock/interface.go
package timeblockRepo

import (
	"context"

	"salonbook/database"
	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type TimeBlockRepository interface {
	Create(ctx context.Context, block models.TimeBlock) error
	DeleteByID(ctx context.Context, businessID, id string) error
	List(ctx context.Context, businessID string) ([]models.TimeBlock, error)
	// ListStartingOnOrBefore returns every block whose base date is not
	// after date; only those can be active on date.
	ListStartingOnOrBefore(ctx context.Context, businessID, date string) ([]models.TimeBlock, error)
}

type mongoTimeBlockRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeBlockRepo constructs a new MongoDB TimeBlockRepository.
func NewMongoTimeBlockRepo() TimeBlockRepository {
	db := database.GetDatabase()
	return &mongoTimeBlockRepo{
		coll: db.Collection(repository.CollTimeBlocks),
	}
}
