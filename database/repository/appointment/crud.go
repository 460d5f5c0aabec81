// File: database/repository/appointment/crud.go
package appointmentRepo

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

var byDateAndStart = bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}}

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, appt)
	return err
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, businessID, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := r.coll.FindOne(ctx, bson.M{"businessId": businessID, "id": id})
	return repository.DecodeOne[models.Appointment](res, repository.CollAppointments)
}

func (r *mongoAppointmentRepo) Update(ctx context.Context, appt models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"businessId": appt.BusinessID, "id": appt.ID}, appt)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoAppointmentRepo) DeleteByID(ctx context.Context, businessID, id string) error {
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

func (r *mongoAppointmentRepo) ListByDate(ctx context.Context, businessID, date string) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{"businessId": businessID, "date": date})
}

func (r *mongoAppointmentRepo) ListRange(ctx context.Context, businessID, from, to string) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{
		"businessId": businessID,
		"date":       bson.M{"$gte": from, "$lte": to},
	})
}

func (r *mongoAppointmentRepo) ListPaid(ctx context.Context, businessID string) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{"businessId": businessID, "isPaid": true})
}

func (r *mongoAppointmentRepo) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(byDateAndStart))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	return repository.DecodeAll[models.Appointment](ctx, cursor, repository.CollAppointments)
}

// EnsureIndexes creates the necessary indexes on the appointments collection.
func (r *mongoAppointmentRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary query pattern: the calendar and the slot generator read by date.
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("business_date_idx"),
		},
		// Two live bookings can never share a start time, whatever raced
		// past the availability check.
		{
			Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "date", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.AppointmentScheduled}).
				SetName("single_booking_per_start"),
		},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "isPaid", Value: 1}},
			Options: options.Index().SetName("business_paid_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
