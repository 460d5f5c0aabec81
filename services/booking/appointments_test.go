package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonbook/database/repository/memory"
	"salonbook/models"
	"salonbook/services/cash"
	"salonbook/services/crm"
	"salonbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	biz      = "salon-1"
	tomorrow = "2026-03-11"
	phone    = "(11) 98765-4321"
)

type fakeCatalog struct {
	services map[string]models.Service
	cfg      *models.WorkConfig
}

func (f *fakeCatalog) GetService(_ context.Context, _, id string) (*models.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, utils.NewNotFoundError("services", id)
	}
	return &svc, nil
}

func (f *fakeCatalog) GetWorkConfig(context.Context, string) (*models.WorkConfig, error) {
	if f.cfg == nil {
		return nil, utils.NewNotFoundError("config", "work-schedule")
	}
	cfg := *f.cfg
	return &cfg, nil
}

type fixture struct {
	svc     *DefaultBookingService
	cash    *cash.DefaultCashService
	crm     *crm.DefaultCRMService
	catalog *fakeCatalog
	store   *memory.Store
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	core, logs := observer.New(zapcore.InfoLevel)
	catalog := &fakeCatalog{
		services: map[string]models.Service{
			"cut":    hour,
			"fringe": {ID: "fringe", Name: "Fringe", Duration: 30, Price: "15,50", Color: "#ff0000"},
		},
		cfg: &fullDay,
	}
	cashSvc := &cash.DefaultCashService{Repo: store.Cash(), Logger: zap.NewNop(), Now: now}
	crmSvc := &crm.DefaultCRMService{Repo: store.CRM(), Tx: store.Transactor(), Logger: zap.NewNop(), Now: now}
	return &fixture{
		svc: &DefaultBookingService{
			Catalog:      catalog,
			TimeBlocks:   store.TimeBlocks(),
			Appointments: store.Appointments(),
			Cash:         cashSvc,
			CRM:          crmSvc,
			Tx:           store.Transactor(),
			Logger:       zap.New(core),
			Now:          now,
			Location:     time.UTC,
		},
		cash:    cashSvc,
		crm:     crmSvc,
		catalog: catalog,
		store:   store,
		logs:    logs,
	}
}

func (f *fixture) book(t *testing.T, start string) *models.Appointment {
	t.Helper()
	appt, err := f.svc.Book(context.Background(), biz, BookingRequest{
		ServiceID: "cut", Date: tomorrow, StartTime: start, ClientName: "Ana", ClientPhone: phone,
	})
	require.NoError(t, err)
	return appt
}

func (f *fixture) openDrawer(t *testing.T) *models.CashSession {
	t.Helper()
	s, err := f.cash.Open(context.Background(), biz, 100, "alice")
	require.NoError(t, err)
	return s
}

func (f *fixture) customer(t *testing.T, id string) *models.Customer {
	t.Helper()
	c, err := f.crm.GetCustomer(context.Background(), biz, id)
	require.NoError(t, err)
	return c
}

func TestSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slots, err := f.svc.Slots(ctx, biz, "cut", tomorrow)
	require.NoError(t, err)
	assert.Len(t, slots, 19)

	slots, err = f.svc.Slots(ctx, biz, "cut", "2026-03-09")
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = f.svc.Slots(ctx, biz, "nope", tomorrow)
	assert.True(t, utils.IsNotFound(err))
	_, err = f.svc.Slots(ctx, biz, "cut", "11/03/2026")
	assert.True(t, utils.IsValidation(err))

	f.catalog.cfg = nil
	_, err = f.svc.Slots(ctx, biz, "cut", tomorrow)
	assert.True(t, utils.IsInvalidState(err), "got %v", err)
}

func TestSlots_RespectsTimeBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.TimeBlocks().Create(ctx, models.TimeBlock{
		ID: "lunch", BusinessID: biz, Date: "2026-03-10", StartTime: "12:00", EndTime: "13:00",
		Recurrence: &models.Recurrence{Type: models.RecurrenceDaily, RepeatCount: 1},
	}))

	slots, err := f.svc.Slots(ctx, biz, "cut", tomorrow)
	require.NoError(t, err)
	assert.NotContains(t, slots, "12:00")
	assert.Contains(t, slots, "13:00")

	slots, err = f.svc.Slots(ctx, biz, "cut", "2026-03-12")
	require.NoError(t, err)
	assert.Contains(t, slots, "12:00")
}

func TestBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.book(t, "10:00")
	assert.Equal(t, "11:00", appt.EndTime)
	assert.Equal(t, models.AppointmentScheduled, appt.Status)
	assert.Equal(t, SourcePublic, appt.Source)
	assert.Equal(t, "11987654321", appt.ClientPhone)
	assert.Equal(t, 40.0, appt.BasePriceSnapshot)
	assert.Equal(t, "Cut", appt.ServiceName)
	assert.False(t, appt.IsPaid)
	require.NotEmpty(t, appt.CustomerID)

	events, err := f.crm.Timeline(ctx, biz, appt.CustomerID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventAppointmentCreated, events[0].Type)
	assert.Equal(t, appt.ID, events[0].RefID)

	slots, err := f.svc.Slots(ctx, biz, "cut", tomorrow)
	require.NoError(t, err)
	assert.NotContains(t, slots, "10:00")
	assert.NotContains(t, slots, "10:30")

	for _, start := range []string{"10:00", "10:30", "10:15"} {
		_, err = f.svc.Book(ctx, biz, BookingRequest{
			ServiceID: "cut", Date: tomorrow, StartTime: start, ClientName: "Bia", ClientPhone: "11912345678",
		})
		assert.True(t, utils.IsConflict(err), "%s: got %v", start, err)
	}

	again := f.book(t, "15:00")
	assert.Equal(t, appt.CustomerID, again.CustomerID, "same phone links the same customer")
}

func TestBook_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := BookingRequest{ServiceID: "cut", Date: tomorrow, StartTime: "10:00", ClientName: "Ana", ClientPhone: phone}

	req := base
	req.ClientName = "  "
	_, err := f.svc.Book(ctx, biz, req)
	assert.True(t, utils.IsValidation(err))

	req = base
	req.ClientPhone = "123"
	_, err = f.svc.Book(ctx, biz, req)
	assert.True(t, utils.IsValidation(err))

	req = base
	req.StartTime = "25:00"
	_, err = f.svc.Book(ctx, biz, req)
	assert.True(t, utils.IsValidation(err))

	req = base
	req.ServiceID = "perm"
	_, err = f.svc.Book(ctx, biz, req)
	assert.True(t, utils.IsNotFound(err))
}

func TestBook_RollsBackWhenTimelineWriteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.FailNext("crm.InsertEvent", errors.New("connection reset"))

	_, err := f.svc.Book(ctx, biz, BookingRequest{
		ServiceID: "cut", Date: tomorrow, StartTime: "10:00", ClientName: "Ana", ClientPhone: phone,
	})
	require.Error(t, err)

	appts, err := f.svc.ListByDate(ctx, biz, tomorrow)
	require.NoError(t, err)
	assert.Empty(t, appts)
	customers, err := f.crm.ListCustomers(ctx, biz, "")
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestCreate_StaffOnlyChecksOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := func(start string) StaffAppointmentRequest {
		return StaffAppointmentRequest{BookingRequest: BookingRequest{
			ServiceID: "cut", Date: tomorrow, StartTime: start, ClientName: "Ana", ClientPhone: phone,
		}}
	}

	appt, err := f.svc.Create(ctx, biz, req("10:15"), "alice")
	require.NoError(t, err)
	assert.Equal(t, "11:15", appt.EndTime)
	assert.Equal(t, SourceStaff, appt.Source)
	assert.Equal(t, "alice", appt.CreatedBy)

	_, err = f.svc.Create(ctx, biz, req("10:45"), "alice")
	assert.True(t, utils.IsConflict(err), "got %v", err)
	_, err = f.svc.Create(ctx, biz, req("09:30"), "alice")
	assert.True(t, utils.IsConflict(err), "got %v", err)

	_, err = f.svc.Create(ctx, biz, req("11:15"), "alice")
	assert.NoError(t, err, "touching intervals do not overlap")
	_, err = f.svc.Create(ctx, biz, req("23:30"), "alice")
	assert.True(t, utils.IsValidation(err))
}

func TestCreate_Paid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := StaffAppointmentRequest{
		BookingRequest: BookingRequest{ServiceID: "cut", Date: tomorrow, StartTime: "10:00", ClientName: "Ana", ClientPhone: phone},
		Payment:        &PaymentRequest{Method: models.MethodPix, Discount: 5},
	}

	_, err := f.svc.Create(ctx, biz, req, "alice")
	assert.True(t, utils.IsInvalidState(err), "no open session: got %v", err)
	appts, err := f.svc.ListByDate(ctx, biz, tomorrow)
	require.NoError(t, err)
	assert.Empty(t, appts)

	f.openDrawer(t)
	appt, err := f.svc.Create(ctx, biz, req, "alice")
	require.NoError(t, err)
	assert.True(t, appt.IsPaid)
	assert.Equal(t, 35.0, appt.PaidAmount)
	assert.Equal(t, 5.0, appt.Discount)

	entry, err := f.cash.GetEntry(ctx, biz, appt.CashEntryID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryAppointmentIncome, entry.Type)
	assert.Equal(t, models.OriginAppointment, entry.Origin)
	assert.Equal(t, appt.ID, entry.AppointmentID)
	assert.Equal(t, 35.0, entry.Amount)

	c := f.customer(t, appt.CustomerID)
	assert.Equal(t, 35.0, c.Stats.TotalSpent)
	assert.Equal(t, 1, c.Stats.AppointmentsCount)
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.book(t, "10:00")

	_, err := f.svc.MarkPaid(ctx, biz, appt.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	assert.True(t, utils.IsInvalidState(err), "got %v", err)

	session := f.openDrawer(t)
	paid, err := f.svc.MarkPaid(ctx, biz, appt.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, 40.0, paid.PaidAmount)
	assert.Equal(t, models.MethodCash, paid.PaymentMethod)

	_, err = f.svc.MarkPaid(ctx, biz, appt.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	assert.True(t, utils.IsConflict(err), "got %v", err)

	view, err := f.cash.Get(ctx, biz, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 140.0, view.Summary.CurrentBalance)
	assert.Equal(t, 40.0, view.Summary.TotalByMethod[models.MethodCash])

	c := f.customer(t, appt.CustomerID)
	assert.Equal(t, 40.0, c.Stats.TotalSpent)
	assert.Equal(t, 40.0, c.Stats.AverageTicket)
	require.NotNil(t, c.Stats.LastVisitDate)
	assert.Equal(t, time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), c.Stats.LastVisitDate.UTC())

	events, err := f.crm.Timeline(ctx, biz, appt.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, models.EventPayment, events[0].Type)
}

func TestMarkPaid_Amounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.openDrawer(t)

	a := f.book(t, "09:00")
	_, err := f.svc.MarkPaid(ctx, biz, a.ID, PaymentRequest{Method: "Cheque"}, "alice")
	assert.True(t, utils.IsValidation(err))
	_, err = f.svc.MarkPaid(ctx, biz, a.ID, PaymentRequest{Method: models.MethodCard, Discount: 40}, "alice")
	assert.True(t, utils.IsValidation(err), "nothing left to charge")
	_, err = f.svc.MarkPaid(ctx, biz, a.ID, PaymentRequest{Method: models.MethodCard, Discount: -1}, "alice")
	assert.True(t, utils.IsValidation(err))

	paid, err := f.svc.MarkPaid(ctx, biz, a.ID, PaymentRequest{Method: models.MethodCard, Amount: 52.5}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 52.5, paid.PaidAmount)

	fringe, err := f.svc.Book(ctx, biz, BookingRequest{
		ServiceID: "fringe", Date: tomorrow, StartTime: "16:00", ClientName: "Ana", ClientPhone: phone,
	})
	require.NoError(t, err)
	assert.Equal(t, 15.5, fringe.BasePriceSnapshot)
	paid, err = f.svc.MarkPaid(ctx, biz, fringe.ID, PaymentRequest{Method: models.MethodCard, Discount: 0.25}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 15.25, paid.PaidAmount)

	c := f.customer(t, a.CustomerID)
	assert.Equal(t, 67.75, c.Stats.TotalSpent)
	assert.Equal(t, 2, c.Stats.AppointmentsCount)
	assert.Equal(t, 33.88, c.Stats.AverageTicket)
}

func TestMarkPaid_RollsBackAllWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.book(t, "10:00")
	session := f.openDrawer(t)

	f.store.FailNext("crm.UpdateCustomer", errors.New("write conflict"))
	_, err := f.svc.MarkPaid(ctx, biz, appt.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	require.Error(t, err)

	stored, err := f.svc.Get(ctx, biz, appt.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPaid)
	assert.Empty(t, stored.CashEntryID)

	entries, err := f.store.Cash().ListEntries(ctx, biz, session.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, f.customer(t, appt.CustomerID).Stats.TotalSpent)

	_, err = f.svc.MarkPaid(ctx, biz, appt.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	assert.NoError(t, err, "a failed payment can be retried")
}

func TestRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.book(t, "10:00")
	session := f.openDrawer(t)

	_, err := f.svc.Refund(ctx, biz, appt.ID, "bad haircut", "alice")
	assert.True(t, utils.IsInvalidState(err), "unpaid: got %v", err)

	paid, err := f.svc.MarkPaid(ctx, biz, appt.ID, PaymentRequest{Method: models.MethodCard}, "alice")
	require.NoError(t, err)
	incomeID := paid.CashEntryID

	_, err = f.svc.Refund(ctx, biz, appt.ID, "bad", "alice")
	assert.True(t, utils.IsValidation(err))

	refunded, err := f.svc.Refund(ctx, biz, appt.ID, "client complained", "alice")
	require.NoError(t, err)
	assert.False(t, refunded.IsPaid)
	assert.Empty(t, refunded.CashEntryID)
	assert.Zero(t, refunded.PaidAmount)

	income, err := f.cash.GetEntry(ctx, biz, incomeID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryConfirmed, income.Status, "the income entry is never rewritten")

	view, err := f.cash.Get(ctx, biz, session.ID)
	require.NoError(t, err)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, models.EntryAppointmentRefund, view.Entries[1].Type)
	assert.Equal(t, models.MethodCard, view.Entries[1].PaymentMethod)
	assert.Equal(t, 100.0, view.Summary.CurrentBalance)

	c := f.customer(t, appt.CustomerID)
	assert.Zero(t, c.Stats.TotalSpent)
	assert.Zero(t, c.Stats.AppointmentsCount)
}

func TestRefund_VoidedIncomeIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.book(t, "10:00")
	session := f.openDrawer(t)

	paid, err := f.svc.MarkPaid(ctx, biz, appt.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	require.NoError(t, err)
	_, err = f.cash.Void(ctx, biz, paid.CashEntryID, "entered by mistake", "alice")
	require.NoError(t, err)

	_, err = f.svc.Refund(ctx, biz, appt.ID, "client complained", "alice")
	assert.True(t, utils.IsInvalidState(err), "got %v", err)

	view, err := f.cash.Get(ctx, biz, session.ID)
	require.NoError(t, err)
	assert.Len(t, view.Entries, 1, "no refund entry is posted")
	assert.Equal(t, 100.0, view.Summary.CurrentBalance)

	stored, err := f.svc.Get(ctx, biz, appt.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPaid)
}

func TestRefund_AmendedIncome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.book(t, "10:00")
	session := f.openDrawer(t)

	paid, err := f.svc.MarkPaid(ctx, biz, appt.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	require.NoError(t, err)
	require.Equal(t, 40.0, paid.PaidAmount)
	_, err = f.cash.Amend(ctx, biz, paid.CashEntryID,
		cash.AmendInput{Amount: 30, Description: "Cut - Ana", Reason: "discount given"}, "alice")
	require.NoError(t, err)

	report, err := f.svc.Reconcile(ctx, biz)
	require.NoError(t, err)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, appt.ID, report.Problems[0].AppointmentID)
	assert.Equal(t, ProblemAmountMismatch, report.Problems[0].Problem)

	_, err = f.svc.Refund(ctx, biz, appt.ID, "client complained", "alice")
	require.NoError(t, err)

	view, err := f.cash.Get(ctx, biz, session.ID)
	require.NoError(t, err)
	require.Len(t, view.Entries, 2)
	assert.Equal(t, 30.0, view.Entries[1].Amount)
	assert.Equal(t, 100.0, view.Summary.CurrentBalance)

	c := f.customer(t, appt.CustomerID)
	assert.Zero(t, c.Stats.TotalSpent)
	assert.Zero(t, c.Stats.AppointmentsCount)
}

func TestMarkNoShow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.openDrawer(t)
	paid := f.book(t, "09:00")
	_, err := f.svc.MarkPaid(ctx, biz, paid.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	require.NoError(t, err)
	_, err = f.svc.MarkNoShow(ctx, biz, paid.ID, "alice")
	assert.True(t, utils.IsInvalidState(err))

	appt := f.book(t, "14:00")
	got, err := f.svc.MarkNoShow(ctx, biz, appt.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentNoShow, got.Status)

	_, err = f.svc.MarkNoShow(ctx, biz, appt.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, f.customer(t, appt.CustomerID).Stats.NoShowCount)

	slots, err := f.svc.Slots(ctx, biz, "cut", tomorrow)
	require.NoError(t, err)
	assert.NotContains(t, slots, "14:00", "a no-show still occupies its slot")
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.book(t, "10:00")
	other := f.book(t, "15:00")

	moved, err := f.svc.Update(ctx, biz, appt.ID, UpdateAppointmentRequest{StartTime: "13:00"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "14:00", moved.EndTime)

	_, err = f.svc.Update(ctx, biz, appt.ID, UpdateAppointmentRequest{StartTime: "14:30"}, "alice")
	assert.True(t, utils.IsConflict(err), "got %v", err)

	_, err = f.svc.Update(ctx, biz, appt.ID, UpdateAppointmentRequest{StartTime: "13:30"}, "alice")
	assert.NoError(t, err, "overlap with itself is ignored")

	swapped, err := f.svc.Update(ctx, biz, appt.ID, UpdateAppointmentRequest{ServiceID: "fringe"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "14:00", swapped.EndTime)
	assert.Equal(t, "Fringe", swapped.ServiceName)
	assert.Equal(t, 15.5, swapped.BasePriceSnapshot)

	// a catalogue change does not move existing bookings
	f.catalog.services["fringe"] = models.Service{ID: "fringe", Name: "Fringe", Duration: 45, Price: "15.50"}
	noted, err := f.svc.Update(ctx, biz, appt.ID, UpdateAppointmentRequest{Notes: "bring photo"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "14:00", noted.EndTime)
	assert.Equal(t, "bring photo", noted.Notes)

	moved, err = f.svc.Update(ctx, biz, appt.ID, UpdateAppointmentRequest{Date: "2026-03-12", StartTime: "15:00"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "15:45", moved.EndTime)

	relinked, err := f.svc.Update(ctx, biz, other.ID, UpdateAppointmentRequest{ClientName: "Bia", ClientPhone: "11912345678"}, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, other.CustomerID, relinked.CustomerID)

	_, err = f.svc.Update(ctx, biz, other.ID, UpdateAppointmentRequest{Status: models.AppointmentNoShow}, "alice")
	assert.True(t, utils.IsValidation(err))
	_, err = f.svc.Update(ctx, biz, "ghost", UpdateAppointmentRequest{Notes: "x"}, "alice")
	assert.True(t, utils.IsNotFound(err))
}

func TestUpdate_Cancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.openDrawer(t)
	paid := f.book(t, "09:00")
	_, err := f.svc.MarkPaid(ctx, biz, paid.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, biz, paid.ID, UpdateAppointmentRequest{Status: models.AppointmentCancelled}, "alice")
	assert.True(t, utils.IsInvalidState(err))

	appt := f.book(t, "11:00")
	cancelled, err := f.svc.Update(ctx, biz, appt.ID, UpdateAppointmentRequest{Status: models.AppointmentCancelled}, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)

	slots, err := f.svc.Slots(ctx, biz, "cut", tomorrow)
	require.NoError(t, err)
	assert.Contains(t, slots, "11:00")

	f.book(t, "11:00")
	_, err = f.svc.Update(ctx, biz, appt.ID, UpdateAppointmentRequest{Status: models.AppointmentScheduled}, "alice")
	assert.True(t, utils.IsConflict(err), "reinstating over a new booking: got %v", err)
}

func TestDelete_LeavesCashEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.openDrawer(t)
	appt := f.book(t, "10:00")
	paid, err := f.svc.MarkPaid(ctx, biz, appt.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, biz, appt.ID, "alice"))
	_, err = f.svc.Get(ctx, biz, appt.ID)
	assert.True(t, utils.IsNotFound(err))

	entry, err := f.cash.GetEntry(ctx, biz, paid.CashEntryID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryConfirmed, entry.Status)

	warned := f.logs.FilterLevelExact(zapcore.WarnLevel).FilterField(zap.String("cashEntryID", paid.CashEntryID))
	assert.Equal(t, 1, warned.Len())

	assert.True(t, utils.IsNotFound(f.svc.Delete(ctx, biz, appt.ID, "alice")))
}

func TestListWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, date := range []string{"2026-03-10", "2026-03-11", "2026-03-17", "2026-03-18"} {
		_, err := f.svc.Create(ctx, biz, StaffAppointmentRequest{BookingRequest: BookingRequest{
			ServiceID: "cut", Date: date, StartTime: "10:00", ClientName: "Ana", ClientPhone: phone,
		}}, "alice")
		require.NoError(t, err)
	}

	week, err := f.svc.ListWeek(ctx, biz, "2026-03-11")
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, "2026-03-11", week[0].Date)
	assert.Equal(t, "2026-03-17", week[1].Date)

	_, err = f.svc.ListWeek(ctx, biz, "next week")
	assert.True(t, utils.IsValidation(err))
}

func TestReconcile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.openDrawer(t)

	healthy := f.book(t, "09:00")
	_, err := f.svc.MarkPaid(ctx, biz, healthy.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	require.NoError(t, err)

	voided := f.book(t, "11:00")
	voided, err = f.svc.MarkPaid(ctx, biz, voided.ID, PaymentRequest{Method: models.MethodCash}, "alice")
	require.NoError(t, err)
	_, err = f.cash.Void(ctx, biz, voided.CashEntryID, "typed twice", "alice")
	require.NoError(t, err)

	dangling := f.book(t, "13:00")
	dangling.IsPaid, dangling.PaidAmount, dangling.CashEntryID = true, 40, "gone"
	require.NoError(t, f.store.Appointments().Update(ctx, *dangling))

	unlinked := f.book(t, "15:00")
	unlinked.IsPaid, unlinked.PaidAmount = true, 40
	require.NoError(t, f.store.Appointments().Update(ctx, *unlinked))

	report, err := f.svc.Reconcile(ctx, biz)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Checked)
	problems := map[string]string{}
	for _, p := range report.Problems {
		problems[p.AppointmentID] = p.Problem
	}
	assert.Equal(t, map[string]string{
		voided.ID:   ProblemEntryVoided,
		dangling.ID: ProblemEntryMissing,
		unlinked.ID: ProblemNoEntryID,
	}, problems)

	_, err = f.svc.Reconcile(ctx, biz)
	require.NoError(t, err)
	events, err := f.crm.Timeline(ctx, biz, healthy.CustomerID)
	require.NoError(t, err)
	noted := 0
	for _, e := range events {
		if e.Type == models.EventReconciliation {
			noted++
		}
	}
	assert.Equal(t, 3, noted, "each problem is noted once")

	session, err := f.cash.OpenSession(ctx, biz)
	require.NoError(t, err)
	entries, err := f.store.Cash().ListEntries(ctx, biz, session.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "reconciliation never writes ledger entries")
}
