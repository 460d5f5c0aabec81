package catalog

import (
	"context"
	"errors"
	"strings"

	"salonbook/models"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ListServices returns the catalogue ordered by name. Served from cache.
func (s *DefaultCatalogService) ListServices(ctx context.Context, businessID string) ([]models.Service, error) {
	list, err := cached(ctx, s, servicesKey(businessID), func() ([]models.Service, error) {
		list, err := s.Repo.ListServices(ctx, businessID)
		return list, utils.WrapStoreError("list services", err)
	})
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].BusinessID = businessID
	}
	return list, nil
}

// GetService looks the service up in the cached catalogue.
func (s *DefaultCatalogService) GetService(ctx context.Context, businessID, id string) (*models.Service, error) {
	list, err := s.ListServices(ctx, businessID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, utils.NewNotFoundError("services", id)
}

func (s *DefaultCatalogService) CreateService(ctx context.Context, businessID string, input ServiceInput) (*models.Service, error) {
	if err := validateService(&input); err != nil {
		return nil, err
	}
	now := s.now()
	svc := models.Service{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		Name:        input.Name,
		Description: input.Description,
		Duration:    input.Duration,
		Price:       input.Price,
		Color:       input.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.CreateService(ctx, svc); err != nil {
		return nil, utils.WrapStoreError("create service", err)
	}
	s.invalidate(ctx, servicesKey(businessID))
	s.logger().Info("service created", zap.String("serviceID", svc.ID), zap.String("name", svc.Name))
	return &svc, nil
}

// UpdateService edits the catalogue entry. Appointments keep the name,
// colour and price they snapshotted when booked.
func (s *DefaultCatalogService) UpdateService(ctx context.Context, businessID, id string, input ServiceInput) (*models.Service, error) {
	if err := validateService(&input); err != nil {
		return nil, err
	}
	svc, err := s.Repo.GetService(ctx, businessID, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewNotFoundError("services", id)
	}
	if err != nil {
		return nil, utils.WrapStoreError("get service", err)
	}
	svc.Name = input.Name
	svc.Description = input.Description
	svc.Duration = input.Duration
	svc.Price = input.Price
	svc.Color = input.Color
	svc.UpdatedAt = s.now()

	if err := s.Repo.UpdateService(ctx, *svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.NewNotFoundError("services", id)
		}
		return nil, utils.WrapStoreError("update service", err)
	}
	s.invalidate(ctx, servicesKey(businessID))
	return svc, nil
}

func (s *DefaultCatalogService) DeleteService(ctx context.Context, businessID, id string) error {
	err := s.Repo.DeleteService(ctx, businessID, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return utils.NewNotFoundError("services", id)
	}
	if err != nil {
		return utils.WrapStoreError("delete service", err)
	}
	s.invalidate(ctx, servicesKey(businessID))
	return nil
}

func validateService(in *ServiceInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Color = strings.TrimSpace(in.Color)
	if in.Name == "" {
		return utils.NewValidationError("name", "name is required")
	}
	if in.Duration <= 0 || in.Duration >= utils.MinutesPerDay {
		return utils.NewValidationError("duration", "duration must be between 1 and %d minutes", utils.MinutesPerDay-1)
	}
	price, err := utils.ParseMoney(in.Price)
	if err != nil {
		return err
	}
	if price.IsNegative() {
		return utils.NewValidationError("price", "price cannot be negative")
	}
	in.Price = price.StringFixed(2)
	return nil
}
