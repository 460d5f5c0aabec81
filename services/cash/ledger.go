package cash

import (
	"context"
	"errors"
	"strings"

	"salonbook/models"
	"salonbook/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MinReasonLength is the shortest accepted justification for an edit.
const MinReasonLength = 5

// Amend replaces an entry's amount and description and appends the change
// to its history. The values at creation are captured once, on the first
// amendment. Submitting the current values is a no-op.
func (s *DefaultCashService) Amend(ctx context.Context, businessID, entryID string, input AmendInput, actor string) (*models.CashEntry, error) {
	reason, err := checkReason(input.Reason)
	if err != nil {
		return nil, err
	}
	if input.Amount <= 0 || !hasAtMostCents(input.Amount) {
		return nil, utils.NewValidationError("amount", "amount must be positive with at most two decimals")
	}
	description := strings.TrimSpace(input.Description)

	entry, err := s.GetEntry(ctx, businessID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == models.EntryVoided {
		return nil, utils.NewInvalidStateError("cash entry %s is voided", entryID)
	}
	if entry.Amount == input.Amount && entry.Description == description {
		return entry, nil
	}

	if entry.OriginalAmount == nil {
		amount, desc := entry.Amount, entry.Description
		entry.OriginalAmount = &amount
		entry.OriginalDescription = &desc
	}
	entry.History = append(entry.History, models.EntryEdit{
		Action:              models.EditAmend,
		PreviousAmount:      entry.Amount,
		NewAmount:           input.Amount,
		PreviousDescription: entry.Description,
		NewDescription:      description,
		Reason:              reason,
		Timestamp:           s.now(),
		ActorID:             actor,
	})
	entry.Amount = input.Amount
	entry.Description = description
	entry.IsEdited = true
	entry.LastEditReason = reason

	if err := s.saveEntry(ctx, entry); err != nil {
		return nil, err
	}
	s.logger().Info("cash entry amended",
		zap.String("entryID", entryID),
		zap.Float64("previousAmount", entry.History[len(entry.History)-1].PreviousAmount),
		zap.Float64("newAmount", input.Amount),
		zap.String("actor", actor))
	return entry, nil
}

// Void withdraws an entry from every total. The entry stays in the ledger
// with a void record in its history.
func (s *DefaultCashService) Void(ctx context.Context, businessID, entryID, reason, actor string) (*models.CashEntry, error) {
	reason, err := checkReason(reason)
	if err != nil {
		return nil, err
	}
	entry, err := s.GetEntry(ctx, businessID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == models.EntryVoided {
		return nil, utils.NewInvalidStateError("cash entry %s is already voided", entryID)
	}

	if entry.OriginalAmount == nil {
		amount, desc := entry.Amount, entry.Description
		entry.OriginalAmount = &amount
		entry.OriginalDescription = &desc
	}
	entry.History = append(entry.History, models.EntryEdit{
		Action:              models.EditVoid,
		PreviousAmount:      entry.Amount,
		NewAmount:           0,
		PreviousDescription: entry.Description,
		NewDescription:      entry.Description,
		Reason:              reason,
		Timestamp:           s.now(),
		ActorID:             actor,
	})
	entry.Status = models.EntryVoided
	entry.IsEdited = true
	entry.LastEditReason = reason

	if err := s.saveEntry(ctx, entry); err != nil {
		return nil, err
	}
	s.logger().Warn("cash entry voided",
		zap.String("entryID", entryID),
		zap.Float64("amount", entry.Amount),
		zap.String("reason", reason),
		zap.String("actor", actor))
	return entry, nil
}

func checkReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < MinReasonLength {
		return "", utils.NewValidationError("reason", "reason must be at least %d characters", MinReasonLength)
	}
	return reason, nil
}

func (s *DefaultCashService) GetEntry(ctx context.Context, businessID, entryID string) (*models.CashEntry, error) {
	entry, err := s.Repo.GetEntry(ctx, businessID, entryID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewNotFoundError("cashEntries", entryID)
	}
	if err != nil {
		return nil, utils.WrapStoreError("get entry", err)
	}
	return entry, nil
}

// saveEntry reports a concurrent edit as a conflict: the store refuses a
// write whose history is shorter than the stored one.
func (s *DefaultCashService) saveEntry(ctx context.Context, entry *models.CashEntry) error {
	err := s.Repo.UpdateEntry(ctx, *entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NewConflictError("cash entry %s was changed concurrently; reload and retry", entry.ID)
	}
	return utils.WrapStoreError("update entry", err)
}
