package cash

import (
	"context"
	"testing"

	"salonbook/models"
	"salonbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEntry(t *testing.T, svc *DefaultCashService) (*models.CashSession, *models.CashEntry) {
	t.Helper()
	ctx := context.Background()
	s, err := svc.Open(ctx, biz, 0, "alice")
	require.NoError(t, err)
	e, err := svc.AddEntry(ctx, biz, s.ID, EntryInput{Type: models.EntryIncome, Amount: 20, PaymentMethod: models.MethodCash, Description: "X"}, "alice")
	require.NoError(t, err)
	return s, e
}

func TestAmend_KeepsOriginalAndAppendsHistory(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, e := seedEntry(t, svc)

	first, err := svc.Amend(ctx, biz, e.ID, AmendInput{Amount: 25, Description: "X corrected", Reason: "price typo"}, "bob")
	require.NoError(t, err)
	require.NotNil(t, first.OriginalAmount)
	assert.Equal(t, 20.0, *first.OriginalAmount)
	assert.Equal(t, "X", *first.OriginalDescription)
	assert.True(t, first.IsEdited)
	assert.Equal(t, "price typo", first.LastEditReason)
	require.Len(t, first.History, 1)
	assert.Equal(t, models.EditAmend, first.History[0].Action)
	assert.Equal(t, 20.0, first.History[0].PreviousAmount)
	assert.Equal(t, 25.0, first.History[0].NewAmount)
	assert.Equal(t, "bob", first.History[0].ActorID)
	recorded := first.History[0]

	second, err := svc.Amend(ctx, biz, e.ID, AmendInput{Amount: 30, Description: "X corrected", Reason: "second look"}, "carol")
	require.NoError(t, err)
	assert.Equal(t, 20.0, *second.OriginalAmount, "original reflects creation, not the previous edit")
	require.Len(t, second.History, 2)
	assert.Equal(t, recorded, second.History[0], "earlier history records never change")
	assert.Equal(t, 25.0, second.History[1].PreviousAmount)
	assert.Equal(t, 30.0, second.Amount)
}

func TestAmend_ManyEdits(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, e := seedEntry(t, svc)

	var snapshots [][]models.EntryEdit
	for i := 1; i <= 6; i++ {
		got, err := svc.Amend(ctx, biz, e.ID, AmendInput{Amount: 20 + float64(i), Description: "X", Reason: "recount"}, "bob")
		require.NoError(t, err)
		require.Len(t, got.History, i)
		assert.Equal(t, 20.0, *got.OriginalAmount)
		for _, prev := range snapshots {
			assert.Equal(t, prev, got.History[:len(prev)])
		}
		snapshots = append(snapshots, append([]models.EntryEdit(nil), got.History...))
	}
}

func TestAmend_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, e := seedEntry(t, svc)

	_, err := svc.Amend(ctx, biz, e.ID, AmendInput{Amount: 25, Description: "X", Reason: " abc "}, "bob")
	assert.True(t, utils.IsValidation(err), "short reason: %v", err)

	_, err = svc.Amend(ctx, biz, e.ID, AmendInput{Amount: 0, Description: "X", Reason: "typo fix"}, "bob")
	assert.True(t, utils.IsValidation(err))

	_, err = svc.Amend(ctx, biz, "nope", AmendInput{Amount: 5, Reason: "typo fix"}, "bob")
	assert.True(t, utils.IsNotFound(err))
}

func TestAmend_NoChangeIsNoop(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, e := seedEntry(t, svc)

	got, err := svc.Amend(ctx, biz, e.ID, AmendInput{Amount: 20, Description: "X", Reason: "nothing really"}, "bob")
	require.NoError(t, err)
	assert.False(t, got.IsEdited)
	assert.Empty(t, got.History)
	assert.Nil(t, got.OriginalAmount)
}

func TestAmend_ClosedSessionStillAudited(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	s, e := seedEntry(t, svc)
	_, err := svc.Close(ctx, biz, s.ID, 20, "", "alice")
	require.NoError(t, err)

	got, err := svc.Amend(ctx, biz, e.ID, AmendInput{Amount: 18, Description: "X", Reason: "late correction"}, "bob")
	require.NoError(t, err)
	assert.Len(t, got.History, 1)
}

func TestAmend_StaleWriteRejected(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	_, e := seedEntry(t, svc)

	_, err := svc.Amend(ctx, biz, e.ID, AmendInput{Amount: 21, Description: "X", Reason: "first edit"}, "bob")
	require.NoError(t, err)

	// A writer holding the pre-edit copy must not overwrite the trail.
	stale := *e
	stale.Amount = 99
	stale.History = []models.EntryEdit{{Action: models.EditAmend, PreviousAmount: 20, NewAmount: 99, Reason: "stale"}}
	err = store.Cash().UpdateEntry(ctx, stale)
	assert.Error(t, err)

	got, err := store.Cash().GetEntry(ctx, biz, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 21.0, got.Amount)
	assert.Equal(t, "first edit", got.History[0].Reason)
}

func TestVoid(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	s, e := seedEntry(t, svc)

	_, err := svc.Void(ctx, biz, e.ID, "bad", "bob")
	assert.True(t, utils.IsValidation(err))

	got, err := svc.Void(ctx, biz, e.ID, "entered twice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.EntryVoided, got.Status)
	assert.Equal(t, 20.0, got.Amount, "the amount is kept for the record")
	require.Len(t, got.History, 1)
	assert.Equal(t, models.EditVoid, got.History[0].Action)
	assert.Equal(t, 0.0, got.History[0].NewAmount)
	assert.Equal(t, 20.0, *got.OriginalAmount)

	view, err := svc.Get(ctx, biz, s.ID)
	require.NoError(t, err)
	assert.Len(t, view.Entries, 1, "voided entries stay in the ledger")
	assert.Equal(t, 0.0, view.Summary.CurrentBalance)

	_, err = svc.Void(ctx, biz, e.ID, "entered twice", "bob")
	assert.True(t, utils.IsInvalidState(err))

	_, err = svc.Amend(ctx, biz, e.ID, AmendInput{Amount: 5, Description: "X", Reason: "revive it"}, "bob")
	assert.True(t, utils.IsInvalidState(err))
}
