// File: database/repository/cash/interface.go
package cashRepo

import (
	"context"
	"errors"

	"salonbook/database"
	"salonbook/database/repository"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSessionAlreadyOpen is returned by InsertSession when the store already
// holds an OPEN session for the business.
var ErrSessionAlreadyOpen = errors.New("a cash session is already open")

type CashRepository interface {
	// InsertSession is a conditional write: it fails with
	// ErrSessionAlreadyOpen instead of creating a second OPEN session.
	InsertSession(ctx context.Context, session models.CashSession) error
	GetSession(ctx context.Context, businessID, id string) (*models.CashSession, error)
	// FindOpenSession returns mongo.ErrNoDocuments when no session is open.
	FindOpenSession(ctx context.Context, businessID string) (*models.CashSession, error)
	UpdateSession(ctx context.Context, session models.CashSession) error
	ListSessions(ctx context.Context, businessID string, status models.SessionStatus, limit int64) ([]models.CashSession, error)

	InsertEntry(ctx context.Context, entry models.CashEntry) error
	GetEntry(ctx context.Context, businessID, id string) (*models.CashEntry, error)
	// UpdateEntry persists an entry carrying exactly one new history record;
	// any other write returns mongo.ErrNoDocuments.
	UpdateEntry(ctx context.Context, entry models.CashEntry) error
	// ListEntries returns the entries of a session ordered by creation time.
	ListEntries(ctx context.Context, businessID, sessionID string) ([]models.CashEntry, error)
}

type mongoCashRepo struct {
	sessions *mongo.Collection
	entries  *mongo.Collection
}

// NewMongoCashRepo constructs a new MongoDB CashRepository.
func NewMongoCashRepo() CashRepository {
	db := database.GetDatabase()
	return &mongoCashRepo{
		sessions: db.Collection(repository.CollCashSessions),
		entries:  db.Collection(repository.CollCashEntries),
	}
}
