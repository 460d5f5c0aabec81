// File: database/repository/crm/interface.go
package crmRepo

import (
	"context"

	"salonbook/database"
	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type CRMRepository interface {
	InsertCustomer(ctx context.Context, c models.Customer) error
	GetCustomer(ctx context.Context, businessID, id string) (*models.Customer, error)
	// FindCustomerByPhone returns mongo.ErrNoDocuments when no customer
	// carries the normalised phone.
	FindCustomerByPhone(ctx context.Context, businessID, phone string) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, c models.Customer) error
	ListCustomers(ctx context.Context, businessID, tag string) ([]models.Customer, error)
	AddTag(ctx context.Context, businessID, customerID, tag string) error
	RemoveTag(ctx context.Context, businessID, customerID, tag string) error

	InsertEvent(ctx context.Context, e models.CRMEvent) error
	ListEvents(ctx context.Context, businessID, customerID string) ([]models.CRMEvent, error)

	InsertTask(ctx context.Context, t models.CRMTask) error
	GetTask(ctx context.Context, businessID, id string) (*models.CRMTask, error)
	UpdateTask(ctx context.Context, t models.CRMTask) error
	ListTasks(ctx context.Context, businessID string) ([]models.CRMTask, error)

	InsertLead(ctx context.Context, l models.Lead) error
	GetLead(ctx context.Context, businessID, id string) (*models.Lead, error)
	UpdateLead(ctx context.Context, l models.Lead) error
	ListLeads(ctx context.Context, businessID string) ([]models.Lead, error)

	InsertCampaign(ctx context.Context, c models.Campaign) error
	GetCampaign(ctx context.Context, businessID, id string) (*models.Campaign, error)
	UpdateCampaign(ctx context.Context, c models.Campaign) error
	ListCampaigns(ctx context.Context, businessID string) ([]models.Campaign, error)
}

type mongoCRMRepo struct {
	customers *mongo.Collection
	events    *mongo.Collection
	tasks     *mongo.Collection
	leads     *mongo.Collection
	campaigns *mongo.Collection
}

// NewMongoCRMRepo constructs a new MongoDB CRMRepository.
func NewMongoCRMRepo() CRMRepository {
	db := database.GetDatabase()
	return &mongoCRMRepo{
		customers: db.Collection(repository.CollCustomers),
		events:    db.Collection(repository.CollCRMEvents),
		tasks:     db.Collection(repository.CollCRMTasks),
		leads:     db.Collection(repository.CollLeads),
		campaigns: db.Collection(repository.CollCampaigns),
	}
}
