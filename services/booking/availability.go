package booking

import (
	"context"

	"salonbook/models"
	"salonbook/utils"
)

// Slots is GenerateSlots over the stored catalogue, schedule, bookings and
// blocks. Past dates have no slots and today's slots that already started
// are dropped.
func (s *DefaultBookingService) Slots(ctx context.Context, businessID, serviceID, date string) ([]string, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, err
	}
	svc, err := s.Catalog.GetService(ctx, businessID, serviceID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.workConfig(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if date < now.Format(utils.DateLayout) {
		return []string{}, nil
	}

	bookings, err := s.Appointments.ListByDate(ctx, businessID, date)
	if err != nil {
		return nil, utils.WrapStoreError("list appointments", err)
	}
	blocks, err := s.TimeBlocks.ListStartingOnOrBefore(ctx, businessID, date)
	if err != nil {
		return nil, utils.WrapStoreError("list time blocks", err)
	}

	slots, err := GenerateSlots(*svc, day, *cfg, bookings, blocks)
	if err != nil {
		return nil, err
	}
	return DropStarted(slots, day, now), nil
}

func (s *DefaultBookingService) workConfig(ctx context.Context, businessID string) (*models.WorkConfig, error) {
	cfg, err := s.Catalog.GetWorkConfig(ctx, businessID)
	if utils.IsNotFound(err) {
		return nil, utils.NewInvalidStateError("the work schedule has not been configured")
	}
	return cfg, err
}
