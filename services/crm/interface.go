package crm

import (
	"context"
	"time"

	"salonbook/database/repository"
	crmRepo "salonbook/database/repository/crm"
	"salonbook/models"
	"salonbook/utils"

	"go.uber.org/zap"
)

// DefaultChurnWindowDays is the trailing window without a visit after
// which a customer is tagged churn-risk.
const DefaultChurnWindowDays = 60

type CRMService interface {
	UpsertByPhone(ctx context.Context, businessID, name, phone string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, businessID string, input CustomerInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, businessID, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context, businessID, tag string) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, businessID, id string, input CustomerInput) (*models.Customer, error)
	AddTag(ctx context.Context, businessID, id, tag string) (*models.Customer, error)
	RemoveTag(ctx context.Context, businessID, id, tag string) (*models.Customer, error)
	Timeline(ctx context.Context, businessID, id string) ([]models.CRMEvent, error)
	AddNote(ctx context.Context, businessID, id, note, actor string) (*models.CRMEvent, error)

	RecordEvent(ctx context.Context, businessID, customerID string, typ models.CRMEventType, description, refID, actor string) error
	RecordPayment(ctx context.Context, businessID, customerID string, amount float64, visit time.Time, refID, actor string) error
	RecordRefund(ctx context.Context, businessID, customerID string, amount float64, refID, actor string) error
	RecordNoShow(ctx context.Context, businessID, customerID, refID, actor string) error

	CreateTask(ctx context.Context, businessID string, input TaskInput, actor string) (*models.CRMTask, error)
	ListTasks(ctx context.Context, businessID string) ([]models.CRMTask, error)
	CompleteTask(ctx context.Context, businessID, id, actor string) (*models.CRMTask, error)

	CreateLead(ctx context.Context, businessID string, input LeadInput) (*models.Lead, error)
	ListLeads(ctx context.Context, businessID string) ([]models.Lead, error)
	SetLeadStatus(ctx context.Context, businessID, id string, status models.LeadStatus) (*models.Lead, error)
	ConvertLead(ctx context.Context, businessID, id, actor string) (*models.Customer, error)

	CreateCampaign(ctx context.Context, businessID string, input CampaignInput, actor string) (*models.Campaign, error)
	ListCampaigns(ctx context.Context, businessID string) ([]models.Campaign, error)
	SendCampaign(ctx context.Context, businessID, id, actor string) (*models.Campaign, error)

	ScanChurn(ctx context.Context, businessID string) (*ChurnReport, error)
}

type CustomerInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes"`
}

type TaskInput struct {
	Title      string `json:"title" binding:"required"`
	CustomerID string `json:"customerId"`
	DueDate    string `json:"dueDate"`
}

type LeadInput struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone" binding:"required"`
	Source string `json:"source"`
}

type CampaignInput struct {
	Name      string `json:"name" binding:"required"`
	Message   string `json:"message" binding:"required"`
	TargetTag string `json:"targetTag"`
}

// ChurnReport summarises one churn scan.
type ChurnReport struct {
	Scanned int `json:"scanned"`
	Tagged  int `json:"tagged"`
	Cleared int `json:"cleared"`
}

// DefaultCRMService implements CRMService. Tx is used by the operations
// that write several documents on their own (lead conversion, campaign
// send); the Record* methods join the caller's transaction instead.
type DefaultCRMService struct {
	Repo            crmRepo.CRMRepository
	Tx              repository.Transactor
	Logger          *zap.Logger
	Now             func() time.Time
	ChurnWindowDays int
}

func (s *DefaultCRMService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultCRMService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultCRMService) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.Tx == nil {
		return fn(ctx)
	}
	return s.Tx.WithTransaction(ctx, fn)
}
