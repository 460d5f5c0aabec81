// File: database/repository/crm/engagement.go
package crmRepo

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

func (r *mongoCRMRepo) InsertEvent(ctx context.Context, e models.CRMEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.events.InsertOne(ctx, e)
	return err
}

func (r *mongoCRMRepo) ListEvents(ctx context.Context, businessID, customerID string) ([]models.CRMEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"businessId": businessID, "customerId": customerID}
	cursor, err := r.events.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch crm events: %w", err)
	}
	return repository.DecodeAll[models.CRMEvent](ctx, cursor, repository.CollCRMEvents)
}

func (r *mongoCRMRepo) InsertTask(ctx context.Context, t models.CRMTask) error {
	return insert(ctx, r.tasks, t)
}

func (r *mongoCRMRepo) GetTask(ctx context.Context, businessID, id string) (*models.CRMTask, error) {
	return getOne[models.CRMTask](ctx, r.tasks, repository.CollCRMTasks, businessID, id)
}

func (r *mongoCRMRepo) UpdateTask(ctx context.Context, t models.CRMTask) error {
	return replace(ctx, r.tasks, t.BusinessID, t.ID, t)
}

func (r *mongoCRMRepo) ListTasks(ctx context.Context, businessID string) ([]models.CRMTask, error) {
	sort := bson.D{{Key: "done", Value: 1}, {Key: "dueDate", Value: 1}, {Key: "createdAt", Value: 1}}
	return list[models.CRMTask](ctx, r.tasks, repository.CollCRMTasks, businessID, sort)
}

func (r *mongoCRMRepo) InsertLead(ctx context.Context, l models.Lead) error {
	return insert(ctx, r.leads, l)
}

func (r *mongoCRMRepo) GetLead(ctx context.Context, businessID, id string) (*models.Lead, error) {
	return getOne[models.Lead](ctx, r.leads, repository.CollLeads, businessID, id)
}

func (r *mongoCRMRepo) UpdateLead(ctx context.Context, l models.Lead) error {
	return replace(ctx, r.leads, l.BusinessID, l.ID, l)
}

func (r *mongoCRMRepo) ListLeads(ctx context.Context, businessID string) ([]models.Lead, error) {
	return list[models.Lead](ctx, r.leads, repository.CollLeads, businessID, bson.D{{Key: "createdAt", Value: -1}})
}

func (r *mongoCRMRepo) InsertCampaign(ctx context.Context, c models.Campaign) error {
	return insert(ctx, r.campaigns, c)
}

func (r *mongoCRMRepo) GetCampaign(ctx context.Context, businessID, id string) (*models.Campaign, error) {
	return getOne[models.Campaign](ctx, r.campaigns, repository.CollCampaigns, businessID, id)
}

func (r *mongoCRMRepo) UpdateCampaign(ctx context.Context, c models.Campaign) error {
	return replace(ctx, r.campaigns, c.BusinessID, c.ID, c)
}

func (r *mongoCRMRepo) ListCampaigns(ctx context.Context, businessID string) ([]models.Campaign, error) {
	return list[models.Campaign](ctx, r.campaigns, repository.CollCampaigns, businessID, bson.D{{Key: "createdAt", Value: -1}})
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := coll.InsertOne(ctx, doc)
	return err
}

func getOne[T any](ctx context.Context, coll *mongo.Collection, name, businessID, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return repository.DecodeOne[T](coll.FindOne(ctx, bson.M{"businessId": businessID, "id": id}), name)
}

func replace(ctx context.Context, coll *mongo.Collection, businessID, id string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := coll.ReplaceOne(ctx, bson.M{"businessId": businessID, "id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func list[T any](ctx context.Context, coll *mongo.Collection, name, businessID string, sort bson.D) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := coll.Find(ctx, bson.M{"businessId": businessID}, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	return repository.DecodeAll[T](ctx, cursor, name)
}
