package booking

import (
	"context"
	"fmt"
	"strings"

	"salonbook/models"
	"salonbook/services/cash"
	"salonbook/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MarkPaid settles an appointment into the open cash session. The cash
// entry, the appointment's payment fields and the customer stats are
// written in one transaction.
func (s *DefaultBookingService) MarkPaid(ctx context.Context, businessID, id string, req PaymentRequest, actor string) (*models.Appointment, error) {
	appt, err := s.Get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if appt.IsPaid {
		return nil, utils.NewConflictError("appointment %s is already paid", id)
	}
	if appt.Status == models.AppointmentCancelled {
		return nil, utils.NewInvalidStateError("appointment %s is cancelled", id)
	}
	session, err := s.Cash.OpenSession(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if err := s.inTx(ctx, func(ctx context.Context) error {
		return s.pay(ctx, appt, req, session, actor)
	}); err != nil {
		return nil, err
	}
	s.logger().Info("appointment paid",
		zap.String("appointmentID", appt.ID),
		zap.String("cashEntryID", appt.CashEntryID),
		zap.Float64("amount", appt.PaidAmount))
	return appt, nil
}

// pay posts the income entry and records the payment. Callers run it
// inside a transaction.
func (s *DefaultBookingService) pay(ctx context.Context, appt *models.Appointment, req PaymentRequest, session *models.CashSession, actor string) error {
	if !req.Method.Valid() {
		return utils.NewValidationError("method", "unknown payment method %q", req.Method)
	}
	amount, discount, err := chargeFor(appt.BasePriceSnapshot, req)
	if err != nil {
		return err
	}

	entry, err := s.Cash.AddEntry(ctx, appt.BusinessID, session.ID, cash.EntryInput{
		Type:          models.EntryAppointmentIncome,
		Amount:        amount,
		PaymentMethod: req.Method,
		Description:   fmt.Sprintf("%s - %s", appt.ServiceName, appt.ClientName),
		Origin:        models.OriginAppointment,
		AppointmentID: appt.ID,
	}, actor)
	if err != nil {
		return err
	}

	appt.IsPaid = true
	appt.PaymentMethod = req.Method
	appt.PaidAmount = amount
	appt.Discount = discount
	appt.CashEntryID = entry.ID
	appt.UpdatedAt = s.now()
	if err := s.saveAppointment(ctx, appt); err != nil {
		return err
	}
	return s.CRM.RecordPayment(ctx, appt.BusinessID, appt.CustomerID, amount, visitTime(appt, s.Location), appt.ID, actor)
}

// chargeFor resolves the amount actually charged. Without an explicit
// amount the price snapshot minus the discount is charged.
func chargeFor(base float64, req PaymentRequest) (amount, discount float64, err error) {
	if req.Discount < 0 {
		return 0, 0, utils.NewValidationError("discount", "discount cannot be negative")
	}
	d := decimal.NewFromFloat(req.Discount).Round(2)
	a := decimal.NewFromFloat(req.Amount).Round(2)
	if req.Amount == 0 {
		a = decimal.NewFromFloat(base).Sub(d).Round(2)
	}
	if !a.IsPositive() {
		return 0, 0, utils.NewValidationError("amount", "amount charged must be positive")
	}
	amount, _ = a.Float64()
	discount, _ = d.Float64()
	return amount, discount, nil
}

// Refund reverses a payment with an AppointmentRefund entry in the open
// session. The original income entry is left untouched. The drawer gives
// back what the ledger currently holds for the appointment, so an amended
// income entry is refunded at its amended amount, and a voided one cannot
// be refunded at all.
func (s *DefaultBookingService) Refund(ctx context.Context, businessID, id, reason, actor string) (*models.Appointment, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < cash.MinReasonLength {
		return nil, utils.NewValidationError("reason", "a refund needs a reason of at least %d characters", cash.MinReasonLength)
	}
	appt, err := s.Get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if !appt.IsPaid {
		return nil, utils.NewInvalidStateError("appointment %s is not paid", id)
	}
	income, err := s.linkedIncome(ctx, appt)
	if err != nil {
		return nil, err
	}
	session, err := s.Cash.OpenSession(ctx, businessID)
	if err != nil {
		return nil, err
	}

	amount := income.Amount
	// stats were credited with PaidAmount, so that is what they give back
	counted := appt.PaidAmount
	method := income.PaymentMethod
	if !method.Valid() {
		method = models.MethodOther
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		_, err := s.Cash.AddEntry(ctx, businessID, session.ID, cash.EntryInput{
			Type:          models.EntryAppointmentRefund,
			Amount:        amount,
			PaymentMethod: method,
			Description:   fmt.Sprintf("Refund %s - %s: %s", appt.ServiceName, appt.ClientName, reason),
			Origin:        models.OriginAppointment,
			AppointmentID: appt.ID,
		}, actor)
		if err != nil {
			return err
		}

		appt.IsPaid = false
		appt.PaymentMethod = ""
		appt.PaidAmount = 0
		appt.Discount = 0
		appt.CashEntryID = ""
		appt.UpdatedAt = s.now()
		if err := s.saveAppointment(ctx, appt); err != nil {
			return err
		}
		return s.CRM.RecordRefund(ctx, businessID, appt.CustomerID, counted, appt.ID, actor)
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("appointment refunded",
		zap.String("appointmentID", appt.ID),
		zap.Float64("amount", amount),
		zap.String("reason", reason))
	return appt, nil
}

// linkedIncome is the confirmed income entry a paid appointment points to.
func (s *DefaultBookingService) linkedIncome(ctx context.Context, appt *models.Appointment) (*models.CashEntry, error) {
	if appt.CashEntryID == "" {
		return nil, utils.NewInvalidStateError("appointment %s has no cash entry to refund", appt.ID)
	}
	entry, err := s.Cash.GetEntry(ctx, appt.BusinessID, appt.CashEntryID)
	if utils.IsNotFound(err) {
		return nil, utils.NewInvalidStateError("cash entry %s of appointment %s no longer exists", appt.CashEntryID, appt.ID)
	}
	if err != nil {
		return nil, err
	}
	switch {
	case entry.Status == models.EntryVoided:
		return nil, utils.NewInvalidStateError("cash entry %s was voided; there is no payment left to refund", entry.ID)
	case entry.AppointmentID != appt.ID:
		return nil, utils.NewInvalidStateError("cash entry %s belongs to another appointment", entry.ID)
	}
	return entry, nil
}

// MarkNoShow flags an unpaid appointment as a no-show and counts it on
// the customer.
func (s *DefaultBookingService) MarkNoShow(ctx context.Context, businessID, id, actor string) (*models.Appointment, error) {
	appt, err := s.Get(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	switch {
	case appt.IsPaid:
		return nil, utils.NewInvalidStateError("appointment %s is paid", id)
	case appt.Status == models.AppointmentNoShow:
		return appt, nil
	case appt.Status == models.AppointmentCancelled:
		return nil, utils.NewInvalidStateError("appointment %s is cancelled", id)
	}

	appt.Status = models.AppointmentNoShow
	appt.UpdatedAt = s.now()
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.saveAppointment(ctx, appt); err != nil {
			return err
		}
		return s.CRM.RecordNoShow(ctx, businessID, appt.CustomerID, appt.ID, actor)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}
