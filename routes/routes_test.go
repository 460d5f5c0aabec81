package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salonbook/database/repository/memory"
	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/services/cash"
	"salonbook/services/catalog"
	"salonbook/services/crm"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var secret = []byte("routes-test-secret")

type testAPI struct {
	router *gin.Engine
	token  string
}

func newTestAPI(t *testing.T, perMinute int) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	clock := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	log := zap.NewNop()

	catalogSvc := &catalog.DefaultCatalogService{Repo: store.Catalog(), TimeBlocks: store.TimeBlocks(), Logger: log, Now: now}
	cashSvc := &cash.DefaultCashService{Repo: store.Cash(), Logger: log, Now: now, Location: time.UTC}
	crmSvc := &crm.DefaultCRMService{Repo: store.CRM(), Tx: store.Transactor(), Logger: log, Now: now}
	bookingSvc := &booking.DefaultBookingService{
		Catalog: catalogSvc, TimeBlocks: store.TimeBlocks(), Appointments: store.Appointments(),
		Cash: cashSvc, CRM: crmSvc, Tx: store.Transactor(), Logger: log, Now: now, Location: time.UTC,
	}
	hb := &handlers.HandlerBundle{
		Public:       handlers.NewPublicHandler(catalogSvc, bookingSvc),
		Appointments: handlers.NewAppointmentHandler(bookingSvc),
		Cash:         handlers.NewCashHandler(cashSvc),
		Catalog:      handlers.NewCatalogHandler(catalogSvc),
		CRM:          handlers.NewCRMHandler(crmSvc),
	}

	r := gin.New()
	r.Use(utils.ErrorHandler())
	RegisterRoutes(r, hb, Options{
		BusinessID:        "salon-1",
		Verifier:          &middleware.JWTVerifier{Secret: secret},
		MaxRequestsPerMin: perMinute,
	})

	token, err := utils.GenerateToken(secret, "staff-1", "ana@salon.test", time.Hour)
	require.NoError(t, err)
	return &testAPI{router: r, token: token}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestStaffRoutesRequireIdentity(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(t, http.MethodGet, "/api/services", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodGet, "/api/services", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingToCashFlow(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(t, http.MethodPost, "/api/services", catalog.ServiceInput{Name: "Cut", Duration: 60, Price: "40.00", Color: "#aa3366"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := decode[models.Service](t, w)

	w = api.do(t, http.MethodPut, "/api/work-config", catalog.WorkConfigInput{StartTime: "09:00", EndTime: "19:00"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/public/services", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Service](t, w), 1)

	w = api.do(t, http.MethodGet, "/api/public/slots?serviceId="+svc.ID+"&date=2026-03-11", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode[struct {
		Slots []string `json:"slots"`
	}](t, w)
	assert.Len(t, slots.Slots, 19)

	w = api.do(t, http.MethodGet, "/api/public/slots?date=2026-03-11", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bookReq := booking.BookingRequest{ServiceID: svc.ID, Date: "2026-03-11", StartTime: "10:00", ClientName: "Ana", ClientPhone: "11987654321"}
	w = api.do(t, http.MethodPost, "/api/public/appointments", bookReq, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	appt := decode[models.Appointment](t, w)

	w = api.do(t, http.MethodPost, "/api/public/appointments", bookReq, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/public/appointments", map[string]string{"serviceId": svc.ID}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/appointments/"+appt.ID+"/pay", booking.PaymentRequest{Method: models.MethodCash}, true)
	assert.Equal(t, http.StatusConflict, w.Code, "no open session")

	w = api.do(t, http.MethodPost, "/api/cash/sessions", map[string]float64{"initialBalance": 0}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	session := decode[models.CashSession](t, w)
	assert.Equal(t, "staff-1", session.OpenedBy)

	w = api.do(t, http.MethodPost, "/api/appointments/"+appt.ID+"/pay", booking.PaymentRequest{Method: models.MethodCash}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[models.Appointment](t, w).IsPaid)

	w = api.do(t, http.MethodGet, "/api/cash/sessions/current", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[cash.SessionView](t, w)
	assert.Equal(t, 40.0, view.Summary.CurrentBalance)
	require.Len(t, view.Entries, 1)

	w = api.do(t, http.MethodPost, "/api/appointments/"+appt.ID+"/refund", map[string]string{"reason": "no"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/cash/sessions/"+session.ID+"/close", map[string]any{"countedBalance": 35}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code, "divergence must be justified")

	w = api.do(t, http.MethodPost, "/api/cash/sessions/"+session.ID+"/close", map[string]any{"countedBalance": 40}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.SessionClosed, decode[models.CashSession](t, w).Status)

	w = api.do(t, http.MethodGet, "/api/crm/customers/"+appt.CustomerID+"/timeline", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.CRMEvent](t, w), 2)

	w = api.do(t, http.MethodGet, "/api/appointments?date=2026-03-11", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Appointment](t, w), 1)

	w = api.do(t, http.MethodGet, "/api/appointments/missing", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicRoutesAreRateLimited(t *testing.T) {
	api := newTestAPI(t, 2)
	for i := 0; i < 2; i++ {
		w := api.do(t, http.MethodGet, "/api/public/services", nil, false)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := api.do(t, http.MethodGet, "/api/public/services", nil, false)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = api.do(t, http.MethodGet, "/api/services", nil, true)
	assert.Equal(t, http.StatusOK, w.Code, "staff routes are not limited")
}
