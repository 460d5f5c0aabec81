// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"

	"salonbook/database"
	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepository stores the service catalogue and the work schedule.
type CatalogRepository interface {
	ListServices(ctx context.Context, businessID string) ([]models.Service, error)
	GetService(ctx context.Context, businessID, id string) (*models.Service, error)
	CreateService(ctx context.Context, svc models.Service) error
	UpdateService(ctx context.Context, svc models.Service) error
	DeleteService(ctx context.Context, businessID, id string) error

	// GetWorkConfig returns mongo.ErrNoDocuments when the business has not
	// configured its schedule yet.
	GetWorkConfig(ctx context.Context, businessID string) (*models.WorkConfig, error)
	PutWorkConfig(ctx context.Context, cfg models.WorkConfig) error
}

type mongoCatalogRepo struct {
	services *mongo.Collection
	config   *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.GetDatabase()
	return &mongoCatalogRepo{
		services: db.Collection(repository.CollServices),
		config:   db.Collection(repository.CollConfig),
	}
}
