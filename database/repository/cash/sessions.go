// File: database/repository/cash/sessions.go
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

func (r *mongoCashRepo) InsertSession(ctx context.Context, session models.CashSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.sessions.InsertOne(ctx, session)
	if mongo.IsDuplicateKeyError(err) {
		return ErrSessionAlreadyOpen
	}
	return err
}

func (r *mongoCashRepo) GetSession(ctx context.Context, businessID, id string) (*models.CashSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := r.sessions.FindOne(ctx, bson.M{"businessId": businessID, "id": id})
	return repository.DecodeOne[models.CashSession](res, repository.CollCashSessions)
}

func (r *mongoCashRepo) FindOpenSession(ctx context.Context, businessID string) (*models.CashSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := r.sessions.FindOne(ctx, bson.M{"businessId": businessID, "status": models.SessionOpen})
	return repository.DecodeOne[models.CashSession](res, repository.CollCashSessions)
}

func (r *mongoCashRepo) UpdateSession(ctx context.Context, session models.CashSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.sessions.ReplaceOne(ctx, bson.M{"businessId": session.BusinessID, "id": session.ID}, session)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoCashRepo) ListSessions(ctx context.Context, businessID string, status models.SessionStatus, limit int64) ([]models.CashSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"businessId": businessID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "openedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.sessions.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cash sessions: %w", err)
	}
	return repository.DecodeAll[models.CashSession](ctx, cursor, repository.CollCashSessions)
}
