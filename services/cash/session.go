package cash

import (
	"context"
	"errors"
	"strings"

	cashRepo "salonbook/database/repository/cash"
	"salonbook/models"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Open starts a new session. At most one session per business is OPEN: the
// pre-check gives a clean error, the store's conditional insert closes the
// race between two concurrent opens.
func (s *DefaultCashService) Open(ctx context.Context, businessID string, initialBalance float64, actor string) (*models.CashSession, error) {
	if initialBalance < 0 || !hasAtMostCents(initialBalance) {
		return nil, utils.NewValidationError("initialBalance", "initial balance must be a non-negative amount in cents")
	}

	existing, err := s.Repo.FindOpenSession(ctx, businessID)
	switch {
	case err == nil:
		return nil, utils.NewConflictError("cash session %s is already open", existing.ID)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, utils.WrapStoreError("find open session", err)
	}

	now := s.now()
	session := models.CashSession{
		ID:             uuid.New().String(),
		BusinessID:     businessID,
		OpeningDate:    now.Format(utils.DateLayout),
		InitialBalance: initialBalance,
		Status:         models.SessionOpen,
		OpenedAt:       now,
		OpenedBy:       actor,
	}
	if err := s.Repo.InsertSession(ctx, session); err != nil {
		if errors.Is(err, cashRepo.ErrSessionAlreadyOpen) {
			return nil, utils.NewConflictError("a cash session is already open")
		}
		return nil, utils.WrapStoreError("insert session", err)
	}

	s.logger().Info("cash session opened",
		zap.String("sessionID", session.ID),
		zap.Float64("initialBalance", initialBalance),
		zap.String("actor", actor))
	return &session, nil
}

// AddEntry appends a CONFIRMED line to an OPEN session.
func (s *DefaultCashService) AddEntry(ctx context.Context, businessID, sessionID string, input EntryInput, actor string) (*models.CashEntry, error) {
	if err := validateEntry(input); err != nil {
		return nil, err
	}
	session, err := s.getSession(ctx, businessID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionOpen {
		return nil, utils.NewInvalidStateError("cash session %s is not open", sessionID)
	}

	origin := input.Origin
	if origin == "" {
		origin = models.OriginManual
	}
	entry := models.CashEntry{
		ID:            uuid.New().String(),
		BusinessID:    businessID,
		SessionID:     sessionID,
		Type:          input.Type,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Origin:        origin,
		Description:   strings.TrimSpace(input.Description),
		Status:        models.EntryConfirmed,
		AppointmentID: input.AppointmentID,
		CreatedAt:     s.now(),
		CreatedBy:     actor,
	}
	if err := s.Repo.InsertEntry(ctx, entry); err != nil {
		return nil, utils.WrapStoreError("insert entry", err)
	}
	return &entry, nil
}

func validateEntry(input EntryInput) error {
	if !input.Type.Valid() {
		return utils.NewValidationError("type", "unknown entry type %q", input.Type)
	}
	if !input.PaymentMethod.Valid() {
		return utils.NewValidationError("paymentMethod", "unknown payment method %q", input.PaymentMethod)
	}
	appointmentType := input.Type == models.EntryAppointmentIncome || input.Type == models.EntryAppointmentRefund
	if appointmentType != (input.Origin == models.OriginAppointment) {
		return utils.NewValidationError("type", "%s entries are only posted by appointment payments", input.Type)
	}
	if input.Amount <= 0 || !hasAtMostCents(input.Amount) {
		return utils.NewValidationError("amount", "amount must be positive with at most two decimals")
	}
	return nil
}

// Close reconciles the counted drawer against the ledger and freezes the
// session. A non-zero divergence must come with notes.
func (s *DefaultCashService) Close(ctx context.Context, businessID, sessionID string, counted float64, notes, actor string) (*models.CashSession, error) {
	if counted < 0 || !hasAtMostCents(counted) {
		return nil, utils.NewValidationError("countedBalance", "counted balance must be a non-negative amount in cents")
	}
	session, err := s.getSession(ctx, businessID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionOpen {
		return nil, utils.NewInvalidStateError("cash session %s is not open", sessionID)
	}

	entries, err := s.Repo.ListEntries(ctx, businessID, sessionID)
	if err != nil {
		return nil, utils.WrapStoreError("list entries", err)
	}
	expected := Summarize(session.InitialBalance, entries).CurrentBalance
	divergence := utils.RoundCents(counted - expected)
	notes = strings.TrimSpace(notes)
	if divergence != 0 && notes == "" {
		return nil, utils.NewValidationError("divergenceNotes", "divergence must be justified")
	}

	now := s.now()
	session.Status = models.SessionClosed
	session.ClosingDate = now.Format(utils.DateLayout)
	session.ClosedAt = &now
	session.ClosedBy = actor
	session.FinalBalance = &counted
	session.ExpectedBalance = &expected
	session.DivergenceAmount = &divergence
	session.DivergenceNotes = notes

	if err := s.Repo.UpdateSession(ctx, *session); err != nil {
		return nil, utils.WrapStoreError("close session", err)
	}

	log := s.logger().With(zap.String("sessionID", sessionID), zap.String("actor", actor))
	if divergence != 0 {
		log.Warn("cash session closed with divergence",
			zap.Float64("expected", expected),
			zap.Float64("counted", counted),
			zap.Float64("divergence", divergence))
	} else {
		log.Info("cash session closed", zap.Float64("balance", counted))
	}
	return session, nil
}

func (s *DefaultCashService) OpenSession(ctx context.Context, businessID string) (*models.CashSession, error) {
	session, err := s.Repo.FindOpenSession(ctx, businessID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewInvalidStateError("no cash session is open")
	}
	if err != nil {
		return nil, utils.WrapStoreError("find open session", err)
	}
	return session, nil
}

func (s *DefaultCashService) Current(ctx context.Context, businessID string) (*SessionView, error) {
	session, err := s.OpenSession(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *session)
}

func (s *DefaultCashService) Get(ctx context.Context, businessID, sessionID string) (*SessionView, error) {
	session, err := s.getSession(ctx, businessID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *session)
}

func (s *DefaultCashService) List(ctx context.Context, businessID string, status models.SessionStatus, limit int64) ([]models.CashSession, error) {
	if status != "" && status != models.SessionOpen && status != models.SessionClosed {
		return nil, utils.NewValidationError("status", "unknown session status %q", status)
	}
	sessions, err := s.Repo.ListSessions(ctx, businessID, status, limit)
	if err != nil {
		return nil, utils.WrapStoreError("list sessions", err)
	}
	return sessions, nil
}

func (s *DefaultCashService) view(ctx context.Context, session models.CashSession) (*SessionView, error) {
	entries, err := s.Repo.ListEntries(ctx, session.BusinessID, session.ID)
	if err != nil {
		return nil, utils.WrapStoreError("list entries", err)
	}
	return &SessionView{
		Session:         session,
		Entries:         entries,
		Summary:         Summarize(session.InitialBalance, entries),
		RunningBalances: RunningBalances(session.InitialBalance, entries),
	}, nil
}

func (s *DefaultCashService) getSession(ctx context.Context, businessID, sessionID string) (*models.CashSession, error) {
	session, err := s.Repo.GetSession(ctx, businessID, sessionID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewNotFoundError("cashSessions", sessionID)
	}
	if err != nil {
		return nil, utils.WrapStoreError("get session", err)
	}
	return session, nil
}
