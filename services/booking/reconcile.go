package booking

import (
	"context"
	"fmt"

	"salonbook/models"
	"salonbook/utils"

	"go.uber.org/zap"
)

// ReconcileReport lists paid appointments whose ledger link is broken.
type ReconcileReport struct {
	Checked  int           `json:"checked"`
	Problems []Discrepancy `json:"problems"`
}

type Discrepancy struct {
	AppointmentID string `json:"appointmentId"`
	CustomerID    string `json:"customerId,omitempty"`
	CashEntryID   string `json:"cashEntryId,omitempty"`
	Problem       string `json:"problem"`
}

const (
	ProblemNoEntryID       = "paid without a cash entry id"
	ProblemEntryMissing    = "cash entry not found"
	ProblemEntryVoided     = "cash entry was voided"
	ProblemEntryMismatched = "cash entry belongs to another appointment"
	ProblemAmountMismatch  = "cash entry amount differs from the amount paid"
)

// Reconcile checks every paid appointment against the ledger and reports
// what it finds. It never writes ledger entries; each problem is logged
// and noted once on the customer's timeline.
func (s *DefaultBookingService) Reconcile(ctx context.Context, businessID string) (*ReconcileReport, error) {
	paid, err := s.Appointments.ListPaid(ctx, businessID)
	if err != nil {
		return nil, utils.WrapStoreError("list paid appointments", err)
	}

	report := &ReconcileReport{Checked: len(paid), Problems: []Discrepancy{}}
	for i := range paid {
		appt := &paid[i]
		problem, err := s.checkLedgerLink(ctx, appt)
		if err != nil {
			return nil, err
		}
		if problem == "" {
			continue
		}
		d := Discrepancy{
			AppointmentID: appt.ID,
			CustomerID:    appt.CustomerID,
			CashEntryID:   appt.CashEntryID,
			Problem:       problem,
		}
		report.Problems = append(report.Problems, d)

		s.logger().Warn("ledger reconciliation mismatch",
			zap.String("businessID", businessID),
			zap.String("appointmentID", d.AppointmentID),
			zap.String("cashEntryID", d.CashEntryID),
			zap.String("problem", problem))
		if err := s.noteDiscrepancy(ctx, businessID, d); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (s *DefaultBookingService) checkLedgerLink(ctx context.Context, appt *models.Appointment) (string, error) {
	if appt.CashEntryID == "" {
		return ProblemNoEntryID, nil
	}
	entry, err := s.Cash.GetEntry(ctx, appt.BusinessID, appt.CashEntryID)
	switch {
	case utils.IsNotFound(err):
		return ProblemEntryMissing, nil
	case err != nil:
		return "", err
	case entry.Status == models.EntryVoided:
		return ProblemEntryVoided, nil
	case entry.AppointmentID != appt.ID:
		return ProblemEntryMismatched, nil
	case utils.RoundCents(entry.Amount) != utils.RoundCents(appt.PaidAmount):
		return ProblemAmountMismatch, nil
	}
	return "", nil
}

// noteDiscrepancy appends a reconciliation event unless the customer's
// timeline already carries one for the appointment.
func (s *DefaultBookingService) noteDiscrepancy(ctx context.Context, businessID string, d Discrepancy) error {
	if d.CustomerID == "" {
		return nil
	}
	events, err := s.CRM.Timeline(ctx, businessID, d.CustomerID)
	if utils.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range events {
		if e.Type == models.EventReconciliation && e.RefID == d.AppointmentID {
			return nil
		}
	}
	desc := fmt.Sprintf("Payment of appointment %s needs review: %s", d.AppointmentID, d.Problem)
	return s.CRM.RecordEvent(ctx, businessID, d.CustomerID, models.EventReconciliation, desc, d.AppointmentID, "system")
}
