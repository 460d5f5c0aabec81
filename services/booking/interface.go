package booking

import (
	"context"
	"time"

	"salonbook/database/repository"
	appointmentRepo "salonbook/database/repository/appointment"
	timeblockRepo "salonbook/database/repository/timeblock"
	"salonbook/models"
	"salonbook/services/cash"
	"salonbook/utils"

	"go.uber.org/zap"
)

// BookingService computes availability and manages appointments,
// including their payment into the cash ledger.
type BookingService interface {
	Slots(ctx context.Context, businessID, serviceID, date string) ([]string, error)
	Book(ctx context.Context, businessID string, req BookingRequest) (*models.Appointment, error)

	Create(ctx context.Context, businessID string, req StaffAppointmentRequest, actor string) (*models.Appointment, error)
	Get(ctx context.Context, businessID, id string) (*models.Appointment, error)
	Update(ctx context.Context, businessID, id string, req UpdateAppointmentRequest, actor string) (*models.Appointment, error)
	Delete(ctx context.Context, businessID, id, actor string) error
	MarkPaid(ctx context.Context, businessID, id string, req PaymentRequest, actor string) (*models.Appointment, error)
	Refund(ctx context.Context, businessID, id, reason, actor string) (*models.Appointment, error)
	MarkNoShow(ctx context.Context, businessID, id, actor string) (*models.Appointment, error)
	ListByDate(ctx context.Context, businessID, date string) ([]models.Appointment, error)
	ListWeek(ctx context.Context, businessID, weekStart string) ([]models.Appointment, error)

	Reconcile(ctx context.Context, businessID string) (*ReconcileReport, error)
}

// Catalog supplies the service catalogue and the work schedule.
type Catalog interface {
	GetService(ctx context.Context, businessID, id string) (*models.Service, error)
	GetWorkConfig(ctx context.Context, businessID string) (*models.WorkConfig, error)
}

// CashRegister is the part of the cash service appointments post into.
type CashRegister interface {
	OpenSession(ctx context.Context, businessID string) (*models.CashSession, error)
	AddEntry(ctx context.Context, businessID, sessionID string, input cash.EntryInput, actor string) (*models.CashEntry, error)
	GetEntry(ctx context.Context, businessID, entryID string) (*models.CashEntry, error)
}

// CustomerLedger links appointments to CRM customers and keeps their
// stats and timeline.
type CustomerLedger interface {
	UpsertByPhone(ctx context.Context, businessID, name, phone string) (*models.Customer, error)
	RecordEvent(ctx context.Context, businessID, customerID string, typ models.CRMEventType, description, refID, actor string) error
	RecordPayment(ctx context.Context, businessID, customerID string, amount float64, visit time.Time, refID, actor string) error
	RecordRefund(ctx context.Context, businessID, customerID string, amount float64, refID, actor string) error
	RecordNoShow(ctx context.Context, businessID, customerID, refID, actor string) error
	Timeline(ctx context.Context, businessID, id string) ([]models.CRMEvent, error)
}

// BookingRequest is a public booking.
type BookingRequest struct {
	ServiceID   string `json:"serviceId" binding:"required"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	ClientName  string `json:"clientName" binding:"required"`
	ClientPhone string `json:"clientPhone" binding:"required"`
	Notes       string `json:"notes"`
}

// StaffAppointmentRequest may carry a payment, in which case the
// appointment is created paid.
type StaffAppointmentRequest struct {
	BookingRequest
	Payment *PaymentRequest `json:"payment"`
}

// UpdateAppointmentRequest fields left empty keep their current value.
type UpdateAppointmentRequest struct {
	ServiceID   string `json:"serviceId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	Notes       string `json:"notes"`
	Status      string `json:"status" binding:"omitempty,oneof=scheduled cancelled"`
}

// PaymentRequest settles an appointment. A zero Amount charges the price
// snapshot minus Discount.
type PaymentRequest struct {
	Method   models.PaymentMethod `json:"method" binding:"required"`
	Amount   float64              `json:"amount"`
	Discount float64              `json:"discount"`
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Catalog      Catalog
	TimeBlocks   timeblockRepo.TimeBlockRepository
	Appointments appointmentRepo.AppointmentRepository
	Cash         CashRegister
	CRM          CustomerLedger
	Tx           repository.Transactor
	Logger       *zap.Logger
	Now          func() time.Time
	Location     *time.Location
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

// now is the current time in the business time zone.
func (s *DefaultBookingService) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}

func (s *DefaultBookingService) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.Tx == nil {
		return fn(ctx)
	}
	return s.Tx.WithTransaction(ctx, fn)
}
