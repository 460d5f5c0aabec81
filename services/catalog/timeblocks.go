package catalog

import (
	"context"
	"errors"
	"strings"

	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *DefaultCatalogService) CreateTimeBlock(ctx context.Context, businessID string, input TimeBlockInput, actor string) (*models.TimeBlock, error) {
	if _, err := utils.ParseDate(input.Date); err != nil {
		return nil, err
	}
	start, err := utils.ParseClock(input.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseClock(input.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, utils.NewValidationError("endTime", "block must end after it starts")
	}

	var rec *models.Recurrence
	if r := input.Recurrence; r != nil && r.Type != "" {
		switch r.Type {
		case models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly:
		default:
			return nil, utils.NewValidationError("recurrence.type", "unknown recurrence %q", r.Type)
		}
		if r.RepeatCount < 0 {
			return nil, utils.NewValidationError("recurrence.repeatCount", "repeat count cannot be negative")
		}
		rec = &models.Recurrence{Type: r.Type, RepeatCount: r.RepeatCount}
	}

	block := models.TimeBlock{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Date:       input.Date,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Reason:     strings.TrimSpace(input.Reason),
		Recurrence: rec,
		CreatedAt:  s.now(),
		CreatedBy:  actor,
	}
	if err := s.TimeBlocks.Create(ctx, block); err != nil {
		return nil, utils.WrapStoreError("create time block", err)
	}
	return &block, nil
}

func (s *DefaultCatalogService) ListTimeBlocks(ctx context.Context, businessID string) ([]models.TimeBlock, error) {
	out, err := s.TimeBlocks.List(ctx, businessID)
	if err != nil {
		return nil, utils.WrapStoreError("list time blocks", err)
	}
	return out, nil
}

func (s *DefaultCatalogService) DeleteTimeBlock(ctx context.Context, businessID, id string) error {
	err := s.TimeBlocks.DeleteByID(ctx, businessID, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NewNotFoundError("timeBlocks", id)
	}
	return utils.WrapStoreError("delete time block", err)
}

// ActiveBlocks lists the blocks covering date, as the calendar shows them.
// It applies the same recurrence rule as slot generation.
func (s *DefaultCatalogService) ActiveBlocks(ctx context.Context, businessID, date string) ([]models.TimeBlock, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, err
	}
	candidates, err := s.TimeBlocks.ListStartingOnOrBefore(ctx, businessID, date)
	if err != nil {
		return nil, utils.WrapStoreError("list time blocks", err)
	}
	return booking.ActiveBlocks(candidates, day), nil
}
