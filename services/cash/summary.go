package cash

import (
	"salonbook/models"

	"github.com/shopspring/decimal"
)

// Summarize folds the CONFIRMED entries of a session into its balances.
// The result does not depend on the order of entries.
func Summarize(initialBalance float64, entries []models.CashEntry) models.Summary {
	income := decimal.Zero
	expense := decimal.Zero
	byMethod := map[models.PaymentMethod]decimal.Decimal{}

	for _, e := range entries {
		if e.Status != models.EntryConfirmed {
			continue
		}
		amt := decimal.NewFromFloat(e.Amount)
		switch {
		case e.Type.IsIncome():
			income = income.Add(amt)
			byMethod[e.PaymentMethod] = byMethod[e.PaymentMethod].Add(amt)
		case e.Type.IsExpense():
			expense = expense.Add(amt)
			byMethod[e.PaymentMethod] = byMethod[e.PaymentMethod].Sub(amt)
		}
	}

	balance := decimal.NewFromFloat(initialBalance).Add(income).Sub(expense)
	totals := make(map[models.PaymentMethod]float64, len(byMethod))
	for m, v := range byMethod {
		totals[m] = cents(v)
	}
	return models.Summary{
		CurrentBalance: cents(balance),
		TotalIncome:    cents(income),
		TotalExpense:   cents(expense),
		TotalByMethod:  totals,
	}
}

// RunningBalances returns the drawer balance after each entry, in the
// order given. Entries that are not CONFIRMED leave the balance unchanged.
func RunningBalances(initialBalance float64, entries []models.CashEntry) []float64 {
	out := make([]float64, len(entries))
	balance := decimal.NewFromFloat(initialBalance)
	for i, e := range entries {
		if e.Status == models.EntryConfirmed {
			amt := decimal.NewFromFloat(e.Amount)
			switch {
			case e.Type.IsIncome():
				balance = balance.Add(amt)
			case e.Type.IsExpense():
				balance = balance.Sub(amt)
			}
		}
		out[i] = cents(balance)
	}
	return out
}

// cents rounds half away from zero to two places.
func cents(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func hasAtMostCents(v float64) bool {
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(2))
}
