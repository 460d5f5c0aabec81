package crm

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"salonbook/database/repository"
	"salonbook/models"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NormalizePhone keeps the digits of phone. Customers are deduplicated on
// the result.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 8 || len(digits) > 15 {
		return "", utils.NewValidationError("phone", "%q is not a valid phone number", phone)
	}
	return digits, nil
}

// UpsertByPhone returns the customer owning phone, creating it on first
// contact. A concurrent insert of the same phone is resolved by re-reading.
func (s *DefaultCRMService) UpsertByPhone(ctx context.Context, businessID, name, phone string) (*models.Customer, error) {
	digits, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.NewValidationError("name", "name is required")
	}

	existing, err := s.Repo.FindCustomerByPhone(ctx, businessID, digits)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.WrapStoreError("find customer", err)
	}

	c := s.newCustomer(businessID, name, digits)
	err = s.Repo.InsertCustomer(ctx, c)
	if repository.IsDuplicateKey(err) {
		existing, err = s.Repo.FindCustomerByPhone(ctx, businessID, digits)
		if err != nil {
			return nil, utils.WrapStoreError("find customer", err)
		}
		return existing, nil
	}
	if err != nil {
		return nil, utils.WrapStoreError("insert customer", err)
	}
	s.logger().Info("customer created", zap.String("customerID", c.ID))
	return &c, nil
}

func (s *DefaultCRMService) newCustomer(businessID, name, phone string) models.Customer {
	now := s.now()
	return models.Customer{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Tags:       []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CreateCustomer is the explicit staff entry; an existing phone is a
// conflict rather than a silent merge.
func (s *DefaultCRMService) CreateCustomer(ctx context.Context, businessID string, input CustomerInput) (*models.Customer, error) {
	digits, err := NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, utils.NewValidationError("name", "name is required")
	}

	c := s.newCustomer(businessID, name, digits)
	c.Email = strings.TrimSpace(input.Email)
	c.Notes = strings.TrimSpace(input.Notes)
	err = s.Repo.InsertCustomer(ctx, c)
	if repository.IsDuplicateKey(err) {
		return nil, utils.NewConflictError("a customer with phone %s already exists", digits)
	}
	if err != nil {
		return nil, utils.WrapStoreError("insert customer", err)
	}
	return &c, nil
}

func (s *DefaultCRMService) GetCustomer(ctx context.Context, businessID, id string) (*models.Customer, error) {
	c, err := s.Repo.GetCustomer(ctx, businessID, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewNotFoundError("customers", id)
	}
	if err != nil {
		return nil, utils.WrapStoreError("get customer", err)
	}
	return c, nil
}

func (s *DefaultCRMService) ListCustomers(ctx context.Context, businessID, tag string) ([]models.Customer, error) {
	out, err := s.Repo.ListCustomers(ctx, businessID, strings.TrimSpace(tag))
	if err != nil {
		return nil, utils.WrapStoreError("list customers", err)
	}
	return out, nil
}

func (s *DefaultCRMService) UpdateCustomer(ctx context.Context, businessID, id string, input CustomerInput) (*models.Customer, error) {
	c, err := s.GetCustomer(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	digits, err := NormalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		c.Name = name
	}
	c.Phone = digits
	c.Email = strings.TrimSpace(input.Email)
	c.Notes = strings.TrimSpace(input.Notes)
	c.UpdatedAt = s.now()

	err = s.Repo.UpdateCustomer(ctx, *c)
	if repository.IsDuplicateKey(err) {
		return nil, utils.NewConflictError("a customer with phone %s already exists", digits)
	}
	if err != nil {
		return nil, utils.WrapStoreError("update customer", err)
	}
	return c, nil
}

func (s *DefaultCRMService) AddTag(ctx context.Context, businessID, id, tag string) (*models.Customer, error) {
	return s.editTag(ctx, businessID, id, tag, s.Repo.AddTag)
}

func (s *DefaultCRMService) RemoveTag(ctx context.Context, businessID, id, tag string) (*models.Customer, error) {
	return s.editTag(ctx, businessID, id, tag, s.Repo.RemoveTag)
}

func (s *DefaultCRMService) editTag(ctx context.Context, businessID, id, tag string, apply func(context.Context, string, string, string) error) (*models.Customer, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil, utils.NewValidationError("tag", "tag is required")
	}
	err := apply(ctx, businessID, id, tag)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewNotFoundError("customers", id)
	}
	if err != nil {
		return nil, utils.WrapStoreError("update tags", err)
	}
	return s.GetCustomer(ctx, businessID, id)
}

// Timeline lists the customer's events, newest first.
func (s *DefaultCRMService) Timeline(ctx context.Context, businessID, id string) ([]models.CRMEvent, error) {
	if _, err := s.GetCustomer(ctx, businessID, id); err != nil {
		return nil, err
	}
	events, err := s.Repo.ListEvents(ctx, businessID, id)
	if err != nil {
		return nil, utils.WrapStoreError("list events", err)
	}
	return events, nil
}

func (s *DefaultCRMService) AddNote(ctx context.Context, businessID, id, note, actor string) (*models.CRMEvent, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, utils.NewValidationError("note", "note is required")
	}
	if _, err := s.GetCustomer(ctx, businessID, id); err != nil {
		return nil, err
	}
	e := s.event(businessID, id, models.EventNote, note, "", actor)
	if err := s.Repo.InsertEvent(ctx, e); err != nil {
		return nil, utils.WrapStoreError("insert event", err)
	}
	return &e, nil
}

func (s *DefaultCRMService) RecordEvent(ctx context.Context, businessID, customerID string, typ models.CRMEventType, description, refID, actor string) error {
	e := s.event(businessID, customerID, typ, description, refID, actor)
	return utils.WrapStoreError("insert event", s.Repo.InsertEvent(ctx, e))
}

func (s *DefaultCRMService) event(businessID, customerID string, typ models.CRMEventType, description, refID, actor string) models.CRMEvent {
	return models.CRMEvent{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		CustomerID:  customerID,
		Type:        typ,
		Description: description,
		RefID:       refID,
		CreatedAt:   s.now(),
		ActorID:     actor,
	}
}
