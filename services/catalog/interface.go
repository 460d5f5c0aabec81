package catalog

import (
	"context"
	"time"

	catalogRepo "salonbook/database/repository/catalog"
	timeblockRepo "salonbook/database/repository/timeblock"
	"salonbook/models"
	"salonbook/utils"

	"go.uber.org/zap"
)

// CatalogService administers the service catalogue, the work schedule and
// time blocks. Reads used by public booking go through Cache.
type CatalogService interface {
	ListServices(ctx context.Context, businessID string) ([]models.Service, error)
	GetService(ctx context.Context, businessID, id string) (*models.Service, error)
	CreateService(ctx context.Context, businessID string, input ServiceInput) (*models.Service, error)
	UpdateService(ctx context.Context, businessID, id string, input ServiceInput) (*models.Service, error)
	DeleteService(ctx context.Context, businessID, id string) error

	GetWorkConfig(ctx context.Context, businessID string) (*models.WorkConfig, error)
	PutWorkConfig(ctx context.Context, businessID string, input WorkConfigInput, actor string) (*models.WorkConfig, error)

	CreateTimeBlock(ctx context.Context, businessID string, input TimeBlockInput, actor string) (*models.TimeBlock, error)
	ListTimeBlocks(ctx context.Context, businessID string) ([]models.TimeBlock, error)
	DeleteTimeBlock(ctx context.Context, businessID, id string) error
	ActiveBlocks(ctx context.Context, businessID, date string) ([]models.TimeBlock, error)
}

type ServiceInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Duration    int    `json:"duration" binding:"required,gt=0"`
	Price       string `json:"price" binding:"required"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
}

type WorkConfigInput struct {
	StartTime  string `json:"startTime" binding:"required"`
	EndTime    string `json:"endTime" binding:"required"`
	BreakStart string `json:"breakStart"`
	BreakEnd   string `json:"breakEnd"`
	DaysOff    []int  `json:"daysOff" binding:"dive,min=0,max=6"`
}

type TimeBlockInput struct {
	Date       string             `json:"date" binding:"required"`
	StartTime  string             `json:"startTime" binding:"required"`
	EndTime    string             `json:"endTime" binding:"required"`
	Reason     string             `json:"reason"`
	Recurrence *models.Recurrence `json:"recurrence"`
}

// DefaultCatalogService implements CatalogService.
type DefaultCatalogService struct {
	Repo       catalogRepo.CatalogRepository
	TimeBlocks timeblockRepo.TimeBlockRepository
	Cache      Cache
	CacheTTL   time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

func (s *DefaultCatalogService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultCatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
