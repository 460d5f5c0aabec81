package crm

import (
	"context"
	"fmt"
	"time"

	"salonbook/models"
	"salonbook/utils"

	"github.com/shopspring/decimal"
)

// RecordPayment folds one paid visit into the customer's stats, clears the
// churn-risk tag and appends a payment event. Stats are only ever adjusted
// by the delta of the event.
func (s *DefaultCRMService) RecordPayment(ctx context.Context, businessID, customerID string, amount float64, visit time.Time, refID, actor string) error {
	c, err := s.GetCustomer(ctx, businessID, customerID)
	if err != nil {
		return err
	}

	total := decimal.NewFromFloat(c.Stats.TotalSpent).Add(decimal.NewFromFloat(amount))
	c.Stats.AppointmentsCount++
	setTotals(&c.Stats, total)
	if c.Stats.LastVisitDate == nil || visit.After(*c.Stats.LastVisitDate) {
		v := visit
		c.Stats.LastVisitDate = &v
	}
	c.Tags = without(c.Tags, models.TagChurnRisk)
	c.UpdatedAt = s.now()

	if err := s.Repo.UpdateCustomer(ctx, *c); err != nil {
		return utils.WrapStoreError("update customer stats", err)
	}
	return s.RecordEvent(ctx, businessID, customerID, models.EventPayment,
		fmt.Sprintf("Payment of %.2f", amount), refID, actor)
}

// RecordRefund reverses one paid visit.
func (s *DefaultCRMService) RecordRefund(ctx context.Context, businessID, customerID string, amount float64, refID, actor string) error {
	c, err := s.GetCustomer(ctx, businessID, customerID)
	if err != nil {
		return err
	}

	total := decimal.NewFromFloat(c.Stats.TotalSpent).Sub(decimal.NewFromFloat(amount))
	if total.IsNegative() {
		total = decimal.Zero
	}
	if c.Stats.AppointmentsCount > 0 {
		c.Stats.AppointmentsCount--
	}
	setTotals(&c.Stats, total)
	c.UpdatedAt = s.now()

	if err := s.Repo.UpdateCustomer(ctx, *c); err != nil {
		return utils.WrapStoreError("update customer stats", err)
	}
	return s.RecordEvent(ctx, businessID, customerID, models.EventRefund,
		fmt.Sprintf("Refund of %.2f", amount), refID, actor)
}

func (s *DefaultCRMService) RecordNoShow(ctx context.Context, businessID, customerID, refID, actor string) error {
	c, err := s.GetCustomer(ctx, businessID, customerID)
	if err != nil {
		return err
	}
	c.Stats.NoShowCount++
	c.UpdatedAt = s.now()
	if err := s.Repo.UpdateCustomer(ctx, *c); err != nil {
		return utils.WrapStoreError("update customer stats", err)
	}
	return s.RecordEvent(ctx, businessID, customerID, models.EventNoShow, "Missed appointment", refID, actor)
}

// setTotals stores total and the average ticket derived from it, both in
// cents.
func setTotals(stats *models.CustomerStats, total decimal.Decimal) {
	stats.TotalSpent, _ = total.Round(2).Float64()
	stats.AverageTicket = 0
	if stats.AppointmentsCount > 0 {
		stats.AverageTicket, _ = total.Div(decimal.NewFromInt(int64(stats.AppointmentsCount))).Round(2).Float64()
	}
}

func without(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}
