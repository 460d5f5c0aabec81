package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook/database/repository"
	"salonbook/models"
	"salonbook/services/crm"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	SourcePublic = "public"
	SourceStaff  = "staff"
)

// Book creates a public appointment. The requested start must be one of
// the slots currently offered for the service and date.
func (s *DefaultBookingService) Book(ctx context.Context, businessID string, req BookingRequest) (*models.Appointment, error) {
	if err := validateClient(req.ClientName, req.ClientPhone); err != nil {
		return nil, err
	}
	if _, err := utils.ParseClock(req.StartTime); err != nil {
		return nil, err
	}
	slots, err := s.Slots(ctx, businessID, req.ServiceID, req.Date)
	if err != nil {
		return nil, err
	}
	if !contains(slots, req.StartTime) {
		return nil, utils.NewConflictError("the %s slot on %s is no longer available", req.StartTime, req.Date)
	}
	svc, err := s.Catalog.GetService(ctx, businessID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	appt, err := s.newAppointment(businessID, svc, req, SourcePublic, "")
	if err != nil {
		return nil, err
	}

	if err := s.inTx(ctx, func(ctx context.Context) error {
		return s.insertAppointment(ctx, appt, "")
	}); err != nil {
		return nil, err
	}
	s.logger().Info("appointment booked",
		zap.String("appointmentID", appt.ID),
		zap.String("date", appt.Date),
		zap.String("start", appt.StartTime))
	return appt, nil
}

// Create is the staff path: it only refuses overlaps with other bookings,
// so staff can book outside offered slots. With a payment the appointment
// and its cash entry are written together.
func (s *DefaultBookingService) Create(ctx context.Context, businessID string, req StaffAppointmentRequest, actor string) (*models.Appointment, error) {
	if err := validateClient(req.ClientName, req.ClientPhone); err != nil {
		return nil, err
	}
	if _, err := utils.ParseDate(req.Date); err != nil {
		return nil, err
	}
	svc, err := s.Catalog.GetService(ctx, businessID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	appt, err := s.newAppointment(businessID, svc, req.BookingRequest, SourceStaff, actor)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, appt); err != nil {
		return nil, err
	}

	var session *models.CashSession
	if req.Payment != nil {
		if session, err = s.Cash.OpenSession(ctx, businessID); err != nil {
			return nil, err
		}
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.insertAppointment(ctx, appt, actor); err != nil {
			return err
		}
		if req.Payment == nil {
			return nil
		}
		return s.pay(ctx, appt, *req.Payment, session, actor)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, businessID, id string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, businessID, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NewNotFoundError("appointments", id)
	}
	if err != nil {
		return nil, utils.WrapStoreError("get appointment", err)
	}
	return appt, nil
}

// Update applies the non-empty fields of req. The end time is recomputed
// only when the service or the start time changes.
func (s *DefaultBookingService) Update(ctx context.Context, businessID, id string, req UpdateAppointmentRequest, actor string) (*models.Appointment, error) {
	appt, err := s.Get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	retime := false
	duration := 0
	if req.ServiceID != "" && req.ServiceID != appt.ServiceID {
		svc, err := s.Catalog.GetService(ctx, businessID, req.ServiceID)
		if err != nil {
			return nil, err
		}
		appt.ServiceID = svc.ID
		appt.ServiceName = svc.Name
		appt.ServiceColor = svc.Color
		if !appt.IsPaid {
			if appt.BasePriceSnapshot, err = priceOf(svc); err != nil {
				return nil, err
			}
		}
		duration = svc.Duration
		retime = true
	}
	if req.StartTime != "" && req.StartTime != appt.StartTime {
		if _, err := utils.ParseClock(req.StartTime); err != nil {
			return nil, err
		}
		appt.StartTime = req.StartTime
		retime = true
	}
	moved := retime
	if req.Date != "" && req.Date != appt.Date {
		if _, err := utils.ParseDate(req.Date); err != nil {
			return nil, err
		}
		appt.Date = req.Date
		moved = true
	}
	if retime {
		if duration == 0 {
			if duration, err = s.currentDuration(ctx, appt); err != nil {
				return nil, err
			}
		}
		if appt.EndTime, err = endTime(appt.StartTime, duration); err != nil {
			return nil, err
		}
	}

	switch req.Status {
	case "":
	case models.AppointmentCancelled:
		if appt.IsPaid {
			return nil, utils.NewInvalidStateError("refund appointment %s before cancelling it", id)
		}
		appt.Status = req.Status
	case models.AppointmentScheduled:
		if appt.Status != models.AppointmentScheduled {
			moved = true
		}
		appt.Status = req.Status
	default:
		return nil, utils.NewValidationError("status", "status %q cannot be set directly", req.Status)
	}
	if moved && appt.Status == models.AppointmentScheduled {
		if err := s.checkOverlap(ctx, appt); err != nil {
			return nil, err
		}
	}

	if name := strings.TrimSpace(req.ClientName); name != "" {
		appt.ClientName = name
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		appt.Notes = notes
	}
	relink := false
	if req.ClientPhone != "" {
		digits, err := crm.NormalizePhone(req.ClientPhone)
		if err != nil {
			return nil, err
		}
		relink = digits != appt.ClientPhone
		appt.ClientPhone = digits
	}
	appt.UpdatedAt = s.now()

	err = s.inTx(ctx, func(ctx context.Context) error {
		if relink {
			c, err := s.CRM.UpsertByPhone(ctx, businessID, appt.ClientName, appt.ClientPhone)
			if err != nil {
				return err
			}
			appt.CustomerID = c.ID
		}
		return s.saveAppointment(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// Delete removes the appointment. A cash entry it already produced stays
// in the ledger; staff correct it there with a void.
func (s *DefaultBookingService) Delete(ctx context.Context, businessID, id, actor string) error {
	appt, err := s.Get(ctx, businessID, id)
	if err != nil {
		return err
	}
	if err := s.Appointments.DeleteByID(ctx, businessID, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return utils.NewNotFoundError("appointments", id)
		}
		return utils.WrapStoreError("delete appointment", err)
	}

	log := s.logger().With(zap.String("appointmentID", id), zap.String("actor", actor))
	if appt.CashEntryID != "" {
		log.Warn("deleted a paid appointment; its cash entry is left in the ledger",
			zap.String("cashEntryID", appt.CashEntryID),
			zap.Float64("paidAmount", appt.PaidAmount))
	} else {
		log.Info("appointment deleted")
	}
	return nil
}

func (s *DefaultBookingService) ListByDate(ctx context.Context, businessID, date string) ([]models.Appointment, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, err
	}
	out, err := s.Appointments.ListByDate(ctx, businessID, date)
	if err != nil {
		return nil, utils.WrapStoreError("list appointments", err)
	}
	return out, nil
}

// ListWeek returns the seven days starting at weekStart.
func (s *DefaultBookingService) ListWeek(ctx context.Context, businessID, weekStart string) ([]models.Appointment, error) {
	start, err := utils.ParseDate(weekStart)
	if err != nil {
		return nil, err
	}
	end := start.AddDate(0, 0, 6).Format(utils.DateLayout)
	out, err := s.Appointments.ListRange(ctx, businessID, weekStart, end)
	if err != nil {
		return nil, utils.WrapStoreError("list appointments", err)
	}
	return out, nil
}

func (s *DefaultBookingService) newAppointment(businessID string, svc *models.Service, req BookingRequest, source, actor string) (*models.Appointment, error) {
	end, err := endTime(req.StartTime, svc.Duration)
	if err != nil {
		return nil, err
	}
	price, err := priceOf(svc)
	if err != nil {
		return nil, err
	}
	phone, err := crm.NormalizePhone(req.ClientPhone)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &models.Appointment{
		ID:                uuid.New().String(),
		BusinessID:        businessID,
		ServiceID:         svc.ID,
		ServiceName:       svc.Name,
		ServiceColor:      svc.Color,
		BasePriceSnapshot: price,
		ClientName:        strings.TrimSpace(req.ClientName),
		ClientPhone:       phone,
		Date:              req.Date,
		StartTime:         req.StartTime,
		EndTime:           end,
		Status:            models.AppointmentScheduled,
		Notes:             strings.TrimSpace(req.Notes),
		Source:            source,
		CreatedAt:         now,
		CreatedBy:         actor,
		UpdatedAt:         now,
	}, nil
}

// insertAppointment links the customer, stores the appointment and opens
// its timeline entry. Callers run it inside a transaction.
func (s *DefaultBookingService) insertAppointment(ctx context.Context, appt *models.Appointment, actor string) error {
	c, err := s.CRM.UpsertByPhone(ctx, appt.BusinessID, appt.ClientName, appt.ClientPhone)
	if err != nil {
		return err
	}
	appt.CustomerID = c.ID

	err = s.Appointments.Create(ctx, *appt)
	if repository.IsDuplicateKey(err) {
		return utils.NewConflictError("the %s slot on %s is no longer available", appt.StartTime, appt.Date)
	}
	if err != nil {
		return utils.WrapStoreError("create appointment", err)
	}
	desc := fmt.Sprintf("%s booked for %s %s", appt.ServiceName, appt.Date, appt.StartTime)
	return s.CRM.RecordEvent(ctx, appt.BusinessID, c.ID, models.EventAppointmentCreated, desc, appt.ID, actor)
}

func (s *DefaultBookingService) saveAppointment(ctx context.Context, appt *models.Appointment) error {
	err := s.Appointments.Update(ctx, *appt)
	switch {
	case repository.IsDuplicateKey(err):
		return utils.NewConflictError("the %s slot on %s is already booked", appt.StartTime, appt.Date)
	case errors.Is(err, mongo.ErrNoDocuments):
		return utils.NewNotFoundError("appointments", appt.ID)
	}
	return utils.WrapStoreError("update appointment", err)
}

// checkOverlap refuses appt when it intersects another live booking on
// its date.
func (s *DefaultBookingService) checkOverlap(ctx context.Context, appt *models.Appointment) error {
	start, err := utils.ParseClock(appt.StartTime)
	if err != nil {
		return err
	}
	end, err := utils.ParseClock(appt.EndTime)
	if err != nil {
		return err
	}
	existing, err := s.Appointments.ListByDate(ctx, appt.BusinessID, appt.Date)
	if err != nil {
		return utils.WrapStoreError("list appointments", err)
	}
	for _, other := range existing {
		if other.ID == appt.ID || other.Status == models.AppointmentCancelled {
			continue
		}
		iv, err := clockInterval(other.StartTime, other.EndTime)
		if err != nil {
			return fmt.Errorf("appointment %s: %w", other.ID, err)
		}
		if utils.Overlaps(start, end, iv.start, iv.end) {
			return utils.NewConflictError("overlaps %s with %s (%s-%s)",
				other.ServiceName, other.ClientName, other.StartTime, other.EndTime)
		}
	}
	return nil
}

// currentDuration is the catalogue duration of the appointment's service,
// or its booked length when the service no longer exists.
func (s *DefaultBookingService) currentDuration(ctx context.Context, appt *models.Appointment) (int, error) {
	svc, err := s.Catalog.GetService(ctx, appt.BusinessID, appt.ServiceID)
	if err == nil {
		return svc.Duration, nil
	}
	if !utils.IsNotFound(err) {
		return 0, err
	}
	// the start already moved, so measure the stored interval from the
	// persisted copy
	stored, err := s.Get(ctx, appt.BusinessID, appt.ID)
	if err != nil {
		return 0, err
	}
	iv, err := clockInterval(stored.StartTime, stored.EndTime)
	if err != nil {
		return 0, fmt.Errorf("appointment %s: %w", appt.ID, err)
	}
	return iv.end - iv.start, nil
}

func endTime(start string, duration int) (string, error) {
	m, err := utils.ParseClock(start)
	if err != nil {
		return "", err
	}
	end := m + duration
	if end >= utils.MinutesPerDay {
		return "", utils.NewValidationError("startTime", "appointment must end before midnight")
	}
	return utils.FormatClock(end), nil
}

func priceOf(svc *models.Service) (float64, error) {
	d, err := utils.ParseMoney(svc.Price)
	if err != nil {
		return 0, fmt.Errorf("service %s: %w", svc.ID, err)
	}
	f, _ := d.Round(2).Float64()
	return f, nil
}

func validateClient(name, phone string) error {
	if strings.TrimSpace(name) == "" {
		return utils.NewValidationError("clientName", "client name is required")
	}
	_, err := crm.NormalizePhone(phone)
	return err
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// visitTime is the appointment start in loc.
func visitTime(appt *models.Appointment, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(utils.DateLayout, appt.Date, loc)
	if err != nil {
		return time.Time{}
	}
	if m, err := utils.ParseClock(appt.StartTime); err == nil {
		day = day.Add(time.Duration(m) * time.Minute)
	}
	return day
}
