package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonbook/models"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func (s *DefaultCRMService) CreateTask(ctx context.Context, businessID string, input TaskInput, actor string) (*models.CRMTask, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, utils.NewValidationError("title", "title is required")
	}
	if input.DueDate != "" {
		if _, err := utils.ParseDate(input.DueDate); err != nil {
			return nil, err
		}
	}
	if input.CustomerID != "" {
		if _, err := s.GetCustomer(ctx, businessID, input.CustomerID); err != nil {
			return nil, err
		}
	}

	t := models.CRMTask{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Title:      title,
		CustomerID: input.CustomerID,
		DueDate:    input.DueDate,
		CreatedAt:  s.now(),
		CreatedBy:  actor,
	}
	if err := s.Repo.InsertTask(ctx, t); err != nil {
		return nil, utils.WrapStoreError("insert task", err)
	}
	return &t, nil
}

// ListTasks returns open tasks first, each group by due date.
func (s *DefaultCRMService) ListTasks(ctx context.Context, businessID string) ([]models.CRMTask, error) {
	out, err := s.Repo.ListTasks(ctx, businessID)
	if err != nil {
		return nil, utils.WrapStoreError("list tasks", err)
	}
	return out, nil
}

func (s *DefaultCRMService) CompleteTask(ctx context.Context, businessID, id, actor string) (*models.CRMTask, error) {
	t, err := s.Repo.GetTask(ctx, businessID, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewNotFoundError("crmTasks", id)
	}
	if err != nil {
		return nil, utils.WrapStoreError("get task", err)
	}
	if t.Done {
		return t, nil
	}
	now := s.now()
	t.Done = true
	t.CompletedAt = &now
	if err := s.Repo.UpdateTask(ctx, *t); err != nil {
		return nil, utils.WrapStoreError("update task", err)
	}
	return t, nil
}

func (s *DefaultCRMService) CreateLead(ctx context.Context, businessID string, input LeadInput) (*models.Lead, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, utils.NewValidationError("name", "name is required")
	}
	digits, err := NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}
	now := s.now()
	l := models.Lead{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       name,
		Phone:      digits,
		Source:     strings.TrimSpace(input.Source),
		Status:     models.LeadNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.InsertLead(ctx, l); err != nil {
		return nil, utils.WrapStoreError("insert lead", err)
	}
	return &l, nil
}

func (s *DefaultCRMService) ListLeads(ctx context.Context, businessID string) ([]models.Lead, error) {
	out, err := s.Repo.ListLeads(ctx, businessID)
	if err != nil {
		return nil, utils.WrapStoreError("list leads", err)
	}
	return out, nil
}

// SetLeadStatus moves a lead between new, contacted and lost. Conversion
// goes through ConvertLead so the customer link is never missing.
func (s *DefaultCRMService) SetLeadStatus(ctx context.Context, businessID, id string, status models.LeadStatus) (*models.Lead, error) {
	if !status.Valid() {
		return nil, utils.NewValidationError("status", "unknown lead status %q", status)
	}
	if status == models.LeadConverted {
		return nil, utils.NewValidationError("status", "use the convert operation to convert a lead")
	}
	l, err := s.getLead(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if l.Status == models.LeadConverted {
		return nil, utils.NewInvalidStateError("lead %s is already converted", id)
	}
	l.Status = status
	l.UpdatedAt = s.now()
	if err := s.Repo.UpdateLead(ctx, *l); err != nil {
		return nil, utils.WrapStoreError("update lead", err)
	}
	return l, nil
}

// ConvertLead links the lead to a customer with the same phone, creating
// the customer if needed.
func (s *DefaultCRMService) ConvertLead(ctx context.Context, businessID, id, actor string) (*models.Customer, error) {
	var customer *models.Customer
	err := s.inTx(ctx, func(ctx context.Context) error {
		l, err := s.getLead(ctx, businessID, id)
		if err != nil {
			return err
		}
		if l.Status == models.LeadConverted {
			return utils.NewConflictError("lead %s is already converted", id)
		}
		customer, err = s.UpsertByPhone(ctx, businessID, l.Name, l.Phone)
		if err != nil {
			return err
		}
		l.Status = models.LeadConverted
		l.CustomerID = customer.ID
		l.UpdatedAt = s.now()
		if err := s.Repo.UpdateLead(ctx, *l); err != nil {
			return utils.WrapStoreError("update lead", err)
		}
		desc := "Converted from lead"
		if l.Source != "" {
			desc += " (" + l.Source + ")"
		}
		return s.RecordEvent(ctx, businessID, customer.ID, models.EventLeadConverted, desc, l.ID, actor)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *DefaultCRMService) getLead(ctx context.Context, businessID, id string) (*models.Lead, error) {
	l, err := s.Repo.GetLead(ctx, businessID, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewNotFoundError("leads", id)
	}
	if err != nil {
		return nil, utils.WrapStoreError("get lead", err)
	}
	return l, nil
}

func (s *DefaultCRMService) CreateCampaign(ctx context.Context, businessID string, input CampaignInput, actor string) (*models.Campaign, error) {
	name, message := strings.TrimSpace(input.Name), strings.TrimSpace(input.Message)
	if name == "" {
		return nil, utils.NewValidationError("name", "name is required")
	}
	if message == "" {
		return nil, utils.NewValidationError("message", "message is required")
	}
	c := models.Campaign{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       name,
		Message:    message,
		TargetTag:  strings.ToLower(strings.TrimSpace(input.TargetTag)),
		Status:     models.CampaignDraft,
		CreatedAt:  s.now(),
		CreatedBy:  actor,
	}
	if err := s.Repo.InsertCampaign(ctx, c); err != nil {
		return nil, utils.WrapStoreError("insert campaign", err)
	}
	return &c, nil
}

func (s *DefaultCRMService) ListCampaigns(ctx context.Context, businessID string) ([]models.Campaign, error) {
	out, err := s.Repo.ListCampaigns(ctx, businessID)
	if err != nil {
		return nil, utils.WrapStoreError("list campaigns", err)
	}
	return out, nil
}

// SendCampaign simulates delivery: every targeted customer gets a log
// line and a campaign event. Nothing leaves the process.
func (s *DefaultCRMService) SendCampaign(ctx context.Context, businessID, id, actor string) (*models.Campaign, error) {
	var sent *models.Campaign
	err := s.inTx(ctx, func(ctx context.Context) error {
		c, err := s.Repo.GetCampaign(ctx, businessID, id)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewNotFoundError("campaigns", id)
		}
		if err != nil {
			return utils.WrapStoreError("get campaign", err)
		}
		if c.Status == models.CampaignSent {
			return utils.NewConflictError("campaign %s was already sent", id)
		}

		recipients, err := s.Repo.ListCustomers(ctx, businessID, c.TargetTag)
		if err != nil {
			return utils.WrapStoreError("list customers", err)
		}
		log := s.logger().With(zap.String("campaignID", c.ID))
		for _, r := range recipients {
			log.Info("campaign message (simulated)",
				zap.String("customerID", r.ID),
				zap.String("phone", r.Phone),
				zap.String("message", c.Message))
			desc := fmt.Sprintf("Campaign %q sent", c.Name)
			if err := s.RecordEvent(ctx, businessID, r.ID, models.EventCampaign, desc, c.ID, actor); err != nil {
				return err
			}
		}

		now := s.now()
		c.Status = models.CampaignSent
		c.Recipients = len(recipients)
		c.SentAt = &now
		if err := s.Repo.UpdateCampaign(ctx, *c); err != nil {
			return utils.WrapStoreError("update campaign", err)
		}
		sent = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("campaign sent", zap.String("campaignID", id), zap.Int("recipients", sent.Recipients))
	return sent, nil
}
