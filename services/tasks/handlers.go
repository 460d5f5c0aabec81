package tasks

import (
	"context"

	"salonbook/services/booking"
	"salonbook/services/crm"
	"salonbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ChurnScanner is the CRM side of the daily churn job.
type ChurnScanner interface {
	ScanChurn(ctx context.Context, businessID string) (*crm.ChurnReport, error)
}

// Reconciler is the booking side of the hourly ledger check.
type Reconciler interface {
	Reconcile(ctx context.Context, businessID string) (*booking.ReconcileReport, error)
}

// Handlers processes the background job types.
type Handlers struct {
	CRM     ChurnScanner
	Booking Reconciler
	Logger  *zap.Logger
}

func (h *Handlers) logger() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return utils.GetLogger()
}

// Register binds every job type on mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeChurnScan, h.HandleChurnScan)
	mux.HandleFunc(TypeReconcile, h.HandleReconcile)
}

func (h *Handlers) HandleChurnScan(ctx context.Context, task *asynq.Task) error {
	p, err := ParsePayload(task)
	if err != nil {
		h.logger().Error("invalid churn-scan payload", zap.Error(err))
		return err
	}
	report, err := h.CRM.ScanChurn(ctx, p.BusinessID)
	if err != nil {
		h.logger().Error("churn scan failed", zap.String("businessID", p.BusinessID), zap.Error(err))
		return err
	}
	h.logger().Info("churn scan done",
		zap.String("businessID", p.BusinessID),
		zap.Int("scanned", report.Scanned),
		zap.Int("tagged", report.Tagged),
		zap.Int("cleared", report.Cleared))
	return nil
}

func (h *Handlers) HandleReconcile(ctx context.Context, task *asynq.Task) error {
	p, err := ParsePayload(task)
	if err != nil {
		h.logger().Error("invalid reconcile payload", zap.Error(err))
		return err
	}
	report, err := h.Booking.Reconcile(ctx, p.BusinessID)
	if err != nil {
		h.logger().Error("ledger reconciliation failed", zap.String("businessID", p.BusinessID), zap.Error(err))
		return err
	}
	log := h.logger().With(zap.String("businessID", p.BusinessID), zap.Int("checked", report.Checked))
	if len(report.Problems) > 0 {
		log.Warn("ledger reconciliation found problems", zap.Int("problems", len(report.Problems)))
		return nil
	}
	log.Info("ledger reconciliation clean")
	return nil
}
