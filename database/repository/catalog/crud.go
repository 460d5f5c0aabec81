// File: database/repository/catalog/crud.go
package catalogRepo

import (
	"context"
	"time"

	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// workScheduleDoc is the id of the singleton schedule document.
const workScheduleDoc = "work-schedule"

func (r *mongoCatalogRepo) ListServices(ctx context.Context, businessID string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.services.Find(ctx, bson.M{"businessId": businessID}, opts)
	if err != nil {
		return nil, err
	}
	return repository.DecodeAll[models.Service](ctx, cursor, repository.CollServices)
}

func (r *mongoCatalogRepo) GetService(ctx context.Context, businessID, id string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := r.services.FindOne(ctx, bson.M{"businessId": businessID, "id": id})
	return repository.DecodeOne[models.Service](res, repository.CollServices)
}

func (r *mongoCatalogRepo) CreateService(ctx context.Context, svc models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.services.InsertOne(ctx, svc)
	return err
}

func (r *mongoCatalogRepo) UpdateService(ctx context.Context, svc models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"businessId": svc.BusinessID, "id": svc.ID}
	res, err := r.services.ReplaceOne(ctx, filter, svc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCatalogRepo) DeleteService(ctx context.Context, businessID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.services.DeleteOne(ctx, bson.M{"businessId": businessID, "id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCatalogRepo) GetWorkConfig(ctx context.Context, businessID string) (*models.WorkConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := r.config.FindOne(ctx, bson.M{"businessId": businessID, "_id": businessID + "/" + workScheduleDoc})
	return repository.DecodeOne[models.WorkConfig](res, repository.CollConfig)
}

func (r *mongoCatalogRepo) PutWorkConfig(ctx context.Context, cfg models.WorkConfig) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": cfg.BusinessID + "/" + workScheduleDoc}
	_, err := r.config.ReplaceOne(ctx, filter, cfg, options.Replace().SetUpsert(true))
	return err
}
