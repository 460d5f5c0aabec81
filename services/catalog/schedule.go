package catalog

import (
	"context"
	"errors"
	"sort"

	"salonbook/models"
	"salonbook/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// GetWorkConfig returns the opening schedule, or NotFoundError until staff
// configure it. Served from cache.
func (s *DefaultCatalogService) GetWorkConfig(ctx context.Context, businessID string) (*models.WorkConfig, error) {
	cfg, err := cached(ctx, s, workConfigKey(businessID), func() (*models.WorkConfig, error) {
		cfg, err := s.Repo.GetWorkConfig(ctx, businessID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFoundError("config", "work-schedule")
		}
		return cfg, utils.WrapStoreError("get work config", err)
	})
	if err != nil {
		return nil, err
	}
	cfg.BusinessID = businessID
	return cfg, nil
}

func (s *DefaultCatalogService) PutWorkConfig(ctx context.Context, businessID string, input WorkConfigInput, actor string) (*models.WorkConfig, error) {
	daysOff, err := validateWorkConfig(input)
	if err != nil {
		return nil, err
	}
	cfg := models.WorkConfig{
		BusinessID: businessID,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		BreakStart: input.BreakStart,
		BreakEnd:   input.BreakEnd,
		DaysOff:    daysOff,
		UpdatedAt:  s.now(),
		UpdatedBy:  actor,
	}
	if err := s.Repo.PutWorkConfig(ctx, cfg); err != nil {
		return nil, utils.WrapStoreError("put work config", err)
	}
	s.invalidate(ctx, workConfigKey(businessID))
	s.logger().Info("work schedule updated",
		zap.String("open", cfg.StartTime),
		zap.String("close", cfg.EndTime),
		zap.Ints("daysOff", cfg.DaysOff),
		zap.String("actor", actor))
	return &cfg, nil
}

// validateWorkConfig checks the schedule and returns the sorted, distinct
// days off.
func validateWorkConfig(in WorkConfigInput) ([]int, error) {
	open, err := utils.ParseClock(in.StartTime)
	if err != nil {
		return nil, err
	}
	closing, err := utils.ParseClock(in.EndTime)
	if err != nil {
		return nil, err
	}
	if open >= closing {
		return nil, utils.NewValidationError("endTime", "closing time must be after opening time")
	}

	if (in.BreakStart == "") != (in.BreakEnd == "") {
		return nil, utils.NewValidationError("breakEnd", "break needs both a start and an end")
	}
	if in.BreakStart != "" {
		bs, err := utils.ParseClock(in.BreakStart)
		if err != nil {
			return nil, err
		}
		be, err := utils.ParseClock(in.BreakEnd)
		if err != nil {
			return nil, err
		}
		if bs >= be || bs < open || be > closing {
			return nil, utils.NewValidationError("breakStart", "break must be a window inside working hours")
		}
	}

	seen := map[int]bool{}
	days := []int{}
	for _, d := range in.DaysOff {
		if d < 0 || d > 6 {
			return nil, utils.NewValidationError("daysOff", "day %d is not 0 (Sunday) through 6 (Saturday)", d)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days, nil
}
