// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"

	"salonbook/database"
	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt models.Appointment) error
	GetByID(ctx context.Context, businessID, id string) (*models.Appointment, error)
	Update(ctx context.Context, appt models.Appointment) error
	DeleteByID(ctx context.Context, businessID, id string) error
	ListByDate(ctx context.Context, businessID, date string) ([]models.Appointment, error)
	// ListRange returns appointments with from <= date <= to, ordered by
	// date then start time.
	ListRange(ctx context.Context, businessID, from, to string) ([]models.Appointment, error)
	ListPaid(ctx context.Context, businessID string) ([]models.Appointment, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.GetDatabase()
	return &mongoAppointmentRepo{
		coll: db.Collection(repository.CollAppointments),
	}
}
