package cash

import (
	"context"
	"time"

	cashRepo "salonbook/database/repository/cash"
	"salonbook/models"
	"salonbook/utils"

	"go.uber.org/zap"
)

// CashService runs the cash-drawer session lifecycle and its ledger.
type CashService interface {
	Open(ctx context.Context, businessID string, initialBalance float64, actor string) (*models.CashSession, error)
	AddEntry(ctx context.Context, businessID, sessionID string, input EntryInput, actor string) (*models.CashEntry, error)
	Close(ctx context.Context, businessID, sessionID string, counted float64, notes, actor string) (*models.CashSession, error)
	// OpenSession returns the OPEN session or an InvalidStateError.
	OpenSession(ctx context.Context, businessID string) (*models.CashSession, error)
	Current(ctx context.Context, businessID string) (*SessionView, error)
	Get(ctx context.Context, businessID, sessionID string) (*SessionView, error)
	List(ctx context.Context, businessID string, status models.SessionStatus, limit int64) ([]models.CashSession, error)

	GetEntry(ctx context.Context, businessID, entryID string) (*models.CashEntry, error)
	Amend(ctx context.Context, businessID, entryID string, input AmendInput, actor string) (*models.CashEntry, error)
	Void(ctx context.Context, businessID, entryID, reason, actor string) (*models.CashEntry, error)
}

// EntryInput is a new ledger line as submitted by staff or produced by an
// appointment payment.
type EntryInput struct {
	Type          models.EntryType     `json:"type" binding:"required"`
	Amount        float64              `json:"amount" binding:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required"`
	Description   string               `json:"description"`
	Origin        models.EntryOrigin   `json:"-"`
	AppointmentID string               `json:"-"`
}

type AmendInput struct {
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
	Reason      string  `json:"reason" binding:"required"`
}

// SessionView is a session with its ledger and derived totals.
type SessionView struct {
	Session         models.CashSession `json:"session"`
	Entries         []models.CashEntry `json:"entries"`
	Summary         models.Summary     `json:"summary"`
	RunningBalances []float64          `json:"runningBalances"`
}

// DefaultCashService implements CashService.
type DefaultCashService struct {
	Repo     cashRepo.CashRepository
	Logger   *zap.Logger
	Now      func() time.Time
	Location *time.Location
}

func (s *DefaultCashService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultCashService) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}
