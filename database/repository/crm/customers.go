// File: database/repository/crm/customers.go
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

func (r *mongoCRMRepo) InsertCustomer(ctx context.Context, c models.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.customers.InsertOne(ctx, c)
	return err
}

func (r *mongoCRMRepo) GetCustomer(ctx context.Context, businessID, id string) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := r.customers.FindOne(ctx, bson.M{"businessId": businessID, "id": id})
	return repository.DecodeOne[models.Customer](res, repository.CollCustomers)
}

func (r *mongoCRMRepo) FindCustomerByPhone(ctx context.Context, businessID, phone string) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := r.customers.FindOne(ctx, bson.M{"businessId": businessID, "phone": phone})
	return repository.DecodeOne[models.Customer](res, repository.CollCustomers)
}

func (r *mongoCRMRepo) UpdateCustomer(ctx context.Context, c models.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.customers.ReplaceOne(ctx, bson.M{"businessId": c.BusinessID, "id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCRMRepo) ListCustomers(ctx context.Context, businessID, tag string) ([]models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"businessId": businessID}
	if tag != "" {
		filter["tags"] = tag
	}
	cursor, err := r.customers.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	return repository.DecodeAll[models.Customer](ctx, cursor, repository.CollCustomers)
}

func (r *mongoCRMRepo) AddTag(ctx context.Context, businessID, customerID, tag string) error {
	return r.updateTags(ctx, businessID, customerID, bson.M{"$addToSet": bson.M{"tags": tag}})
}

func (r *mongoCRMRepo) RemoveTag(ctx context.Context, businessID, customerID, tag string) error {
	return r.updateTags(ctx, businessID, customerID, bson.M{"$pull": bson.M{"tags": tag}})
}

func (r *mongoCRMRepo) updateTags(ctx context.Context, businessID, customerID string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update["$set"] = bson.M{"updatedAt": time.Now()}
	res, err := r.customers.UpdateOne(ctx, bson.M{"businessId": businessID, "id": customerID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// EnsureIndexes creates the CRM indexes. Phone is unique per business so
// two concurrent first bookings cannot create duplicate customers.
func (r *mongoCRMRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.customers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("business_phone_unique"),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "tags", Value: 1}},
			Options: options.Index().SetName("business_tags_idx"),
		},
	}); err != nil {
		return fmt.Errorf("failed to create customer indexes: %w", err)
	}

	if _, err := r.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("business_customer_created_idx"),
	}); err != nil {
		return fmt.Errorf("failed to create crm event indexes: %w", err)
	}
	return nil
}
