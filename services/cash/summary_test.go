package cash

import (
	"math/rand"
	"testing"

	"salonbook/models"

	"github.com/stretchr/testify/assert"
)

func entry(t models.EntryType, amount float64, method models.PaymentMethod) models.CashEntry {
	return models.CashEntry{Type: t, Amount: amount, PaymentMethod: method, Status: models.EntryConfirmed}
}

func TestSummarize_OpeningScenario(t *testing.T) {
	entries := []models.CashEntry{
		entry(models.EntryIncome, 20.00, models.MethodCash),
		entry(models.EntryExpense, 5.50, models.MethodCash),
	}
	s := Summarize(50.00, entries)

	assert.Equal(t, 64.50, s.CurrentBalance)
	assert.Equal(t, 20.00, s.TotalIncome)
	assert.Equal(t, 5.50, s.TotalExpense)
	assert.Equal(t, 14.50, s.TotalByMethod[models.MethodCash])
}

func TestSummarize_Classification(t *testing.T) {
	entries := []models.CashEntry{
		entry(models.EntryIncome, 10, models.MethodCash),
		entry(models.EntryAppointmentIncome, 40, models.MethodCard),
		entry(models.EntryAdjustment, 1, models.MethodCash),
		entry(models.EntryExpense, 3, models.MethodCash),
		entry(models.EntryRefund, 2, models.MethodPix),
		entry(models.EntryAppointmentRefund, 40, models.MethodCard),
	}
	s := Summarize(0, entries)

	assert.Equal(t, 51.0, s.TotalIncome)
	assert.Equal(t, 45.0, s.TotalExpense)
	assert.Equal(t, 6.0, s.CurrentBalance)
	assert.Equal(t, 8.0, s.TotalByMethod[models.MethodCash])
	assert.Equal(t, 0.0, s.TotalByMethod[models.MethodCard])
	assert.Equal(t, -2.0, s.TotalByMethod[models.MethodPix])
}

func TestSummarize_SkipsVoided(t *testing.T) {
	voided := entry(models.EntryIncome, 100, models.MethodCash)
	voided.Status = models.EntryVoided
	s := Summarize(10, []models.CashEntry{voided, entry(models.EntryIncome, 5, models.MethodCash)})

	assert.Equal(t, 15.0, s.CurrentBalance)
	assert.Equal(t, 5.0, s.TotalIncome)
}

func TestSummarize_NoFloatNoise(t *testing.T) {
	s := Summarize(0, []models.CashEntry{
		entry(models.EntryIncome, 0.1, models.MethodCash),
		entry(models.EntryIncome, 0.2, models.MethodCash),
	})
	assert.Equal(t, 0.3, s.CurrentBalance)
	assert.Equal(t, 0.3, s.TotalByMethod[models.MethodCash])

	rng := rand.New(rand.NewSource(7))
	var entries []models.CashEntry
	for i := 0; i < 200; i++ {
		amount := float64(rng.Intn(100000)+1) / 100
		typ := models.EntryIncome
		if rng.Intn(3) == 0 {
			typ = models.EntryExpense
		}
		entries = append(entries, entry(typ, amount, models.MethodCard))
	}
	got := Summarize(12.34, entries)
	for _, v := range []float64{got.CurrentBalance, got.TotalIncome, got.TotalExpense, got.TotalByMethod[models.MethodCard]} {
		assert.True(t, hasAtMostCents(v), "%v has more than two decimals", v)
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	methods := []models.PaymentMethod{models.MethodCash, models.MethodCard, models.MethodPix}
	types := []models.EntryType{models.EntryIncome, models.EntryExpense, models.EntryAdjustment, models.EntryRefund}

	var entries []models.CashEntry
	for i := 0; i < 50; i++ {
		entries = append(entries, entry(types[rng.Intn(len(types))], float64(rng.Intn(10000)+1)/100, methods[rng.Intn(len(methods))]))
	}
	want := Summarize(100, entries)

	for i := 0; i < 20; i++ {
		shuffled := append([]models.CashEntry(nil), entries...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Summarize(100, shuffled))
	}
}

func TestRunningBalances(t *testing.T) {
	voided := entry(models.EntryExpense, 3, models.MethodCash)
	voided.Status = models.EntryVoided
	entries := []models.CashEntry{
		entry(models.EntryIncome, 20, models.MethodCash),
		voided,
		entry(models.EntryExpense, 5.5, models.MethodCash),
	}
	assert.Equal(t, []float64{70, 70, 64.5}, RunningBalances(50, entries))
	assert.Empty(t, RunningBalances(50, nil))
}
