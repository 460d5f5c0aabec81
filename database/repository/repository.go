package repository

import (
	"context"
	"errors"
	"fmt"

	"salonbook/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names, scoped per business through the businessId field.
const (
	CollServices     = "services"
	CollConfig       = "config"
	CollTimeBlocks   = "timeBlocks"
	CollAppointments = "appointments"
	CollCashSessions = "cashSessions"
	CollCashEntries  = "cashEntries"
	CollCustomers    = "customers"
	CollCRMEvents    = "crmEvents"
	CollCRMTasks     = "crmTasks"
	CollLeads        = "leads"
	CollCampaigns    = "campaigns"
)

// ErrDuplicateKey is returned by non-Mongo stores for unique-key violations.
var ErrDuplicateKey = errors.New("duplicate key")

// IsDuplicateKey reports a unique index violation from any store.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey) || mongo.IsDuplicateKeyError(err)
}

// Transactor runs fn so that every repository write made with the context
// it receives commits or aborts together.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoTransactor struct {
	client *mongo.Client
}

// NewMongoTransactor returns a Transactor backed by MongoDB multi-document
// transactions. The server must run as a replica set.
func NewMongoTransactor() Transactor {
	return &mongoTransactor{client: database.MongoClient}
}

func (t *mongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// IndexEnsurer is implemented by the Mongo repositories that declare
// indexes.
type IndexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureAllIndexes creates the indexes of every repo that declares any.
func EnsureAllIndexes(ctx context.Context, repos ...any) error {
	for _, r := range repos {
		ie, ok := r.(IndexEnsurer)
		if !ok {
			continue
		}
		if err := ie.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
