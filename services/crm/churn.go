package crm

import (
	"context"

	"salonbook/models"
	"salonbook/utils"

	"go.uber.org/zap"
)

// ScanChurn tags every customer without a visit inside the churn window
// and clears the tag from those who came back. Customers who never visited
// are measured from their creation date.
func (s *DefaultCRMService) ScanChurn(ctx context.Context, businessID string) (*ChurnReport, error) {
	window := s.ChurnWindowDays
	if window <= 0 {
		window = DefaultChurnWindowDays
	}
	customers, err := s.Repo.ListCustomers(ctx, businessID, "")
	if err != nil {
		return nil, utils.WrapStoreError("list customers", err)
	}

	now := s.now()
	report := &ChurnReport{Scanned: len(customers)}
	for _, c := range customers {
		since := c.CreatedAt
		if c.Stats.LastVisitDate != nil {
			since = *c.Stats.LastVisitDate
		}
		atRisk := utils.DaysBetween(since, now) > window

		switch {
		case atRisk && !c.HasTag(models.TagChurnRisk):
			if err := s.Repo.AddTag(ctx, businessID, c.ID, models.TagChurnRisk); err != nil {
				return nil, utils.WrapStoreError("tag customer", err)
			}
			report.Tagged++
		case !atRisk && c.HasTag(models.TagChurnRisk):
			if err := s.Repo.RemoveTag(ctx, businessID, c.ID, models.TagChurnRisk); err != nil {
				return nil, utils.WrapStoreError("untag customer", err)
			}
			report.Cleared++
		}
	}

	s.logger().Info("churn scan finished",
		zap.String("businessID", businessID),
		zap.Int("scanned", report.Scanned),
		zap.Int("tagged", report.Tagged),
		zap.Int("cleared", report.Cleared))
	return report, nil
}
