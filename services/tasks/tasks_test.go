package tasks

import (
	"context"
	"errors"
	"testing"

	"salonbook/services/booking"
	"salonbook/services/crm"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeJobs struct {
	scanned    []string
	reconciled []string
	report     *booking.ReconcileReport
	err        error
}

func (f *fakeJobs) ScanChurn(_ context.Context, businessID string) (*crm.ChurnReport, error) {
	f.scanned = append(f.scanned, businessID)
	return &crm.ChurnReport{Scanned: 3, Tagged: 1}, f.err
}

func (f *fakeJobs) Reconcile(_ context.Context, businessID string) (*booking.ReconcileReport, error) {
	f.reconciled = append(f.reconciled, businessID)
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func TestNewTasks(t *testing.T) {
	task, err := NewChurnScanTask("salon-1")
	require.NoError(t, err)
	assert.Equal(t, TypeChurnScan, task.Type())
	p, err := ParsePayload(task)
	require.NoError(t, err)
	assert.Equal(t, "salon-1", p.BusinessID)

	task, err = NewReconcileTask("salon-1")
	require.NoError(t, err)
	assert.Equal(t, TypeReconcile, task.Type())

	_, err = NewReconcileTask("")
	assert.Error(t, err)
}

func TestParsePayload_SkipsRetryOnBadInput(t *testing.T) {
	_, err := ParsePayload(asynq.NewTask(TypeChurnScan, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	_, err = ParsePayload(asynq.NewTask(TypeChurnScan, []byte(`{}`)))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandlers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	jobs := &fakeJobs{report: &booking.ReconcileReport{Checked: 2, Problems: []booking.Discrepancy{
		{AppointmentID: "a1", Problem: booking.ProblemEntryMissing},
	}}}
	h := &Handlers{CRM: jobs, Booking: jobs, Logger: zap.New(core)}
	ctx := context.Background()

	churn, err := NewChurnScanTask("salon-1")
	require.NoError(t, err)
	require.NoError(t, h.HandleChurnScan(ctx, churn))
	assert.Equal(t, []string{"salon-1"}, jobs.scanned)

	rec, err := NewReconcileTask("salon-1")
	require.NoError(t, err)
	require.NoError(t, h.HandleReconcile(ctx, rec))
	assert.Equal(t, []string{"salon-1"}, jobs.reconciled)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	jobs.err = errors.New("mongo down")
	assert.Error(t, h.HandleReconcile(ctx, rec), "store failures are retried by the queue")
	assert.Error(t, h.HandleChurnScan(ctx, churn))
}

func TestRegister(t *testing.T) {
	jobs := &fakeJobs{report: &booking.ReconcileReport{}}
	mux := asynq.NewServeMux()
	(&Handlers{CRM: jobs, Booking: jobs, Logger: zap.NewNop()}).Register(mux)

	task, err := NewReconcileTask("salon-1")
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
	assert.Len(t, jobs.reconciled, 1)
}
