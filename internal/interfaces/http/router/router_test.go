package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	billingapp "github.com/genba/backend/internal/application/billing"
	financeapp "github.com/genba/backend/internal/application/finance"
	partnerapp "github.com/genba/backend/internal/application/partner"
	tradeapp "github.com/genba/backend/internal/application/trade"
	"github.com/genba/backend/internal/domain/billing"
	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/partner"
	"github.com/genba/backend/internal/domain/trade"
	"github.com/genba/backend/internal/infrastructure/event"
	"github.com/genba/backend/internal/infrastructure/persistence"
	"github.com/genba/backend/internal/interfaces/http/dto"
	"github.com/genba/backend/internal/interfaces/http/handler"
	"github.com/genba/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&partner.Company{},
		&trade.WorkOrder{},
		&billing.Bill{},
		&finance.Receivable{},
	))

	logger := zap.NewNop()
	bus := event.NewInMemoryEventBus(logger)

	companyRepo := persistence.NewGormCompanyRepository(db)
	orderRepo := persistence.NewGormWorkOrderRepository(db)
	billRepo := persistence.NewGormBillRepository(db)
	receivableRepo := persistence.NewGormReceivableRepository(db)

	companyService := partnerapp.NewCompanyService(companyRepo)
	workOrderService := tradeapp.NewWorkOrderService(orderRepo, billRepo, companyRepo, bus, logger)
	billingService := billingapp.NewBillingService(billRepo, companyRepo, bus, logger)
	receivableService := financeapp.NewReceivableService(receivableRepo, bus, logger)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(handler.NewCompanyHandler(companyService)).
		Register(handler.NewWorkOrderHandler(workOrderService)).
		Register(handler.NewBillHandler(billingService)).
		Register(handler.NewReceivableHandler(receivableService)).
		Register(handler.NewSystemHandler(nil))
	r.Setup()

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func createCompany(t *testing.T, engine *gin.Engine, name string, useAgency bool) partnerapp.CompanyResponse {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/companies", gin.H{
		"name":       name,
		"use_agency": useAgency,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[partnerapp.CompanyResponse](t, w).Data
}

func TestRouter_Ping(t *testing.T) {
	engine := setupTestServer(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/system/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_CompanyEndpoints(t *testing.T) {
	engine := setupTestServer(t)

	created := createCompany(t, engine, "Yamada Construction", true)
	assert.True(t, created.UseAgency)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/api/v1/companies", gin.H{"name": "Yamada Construction"})
		assert.Equal(t, http.StatusConflict, w.Code)
		env := decode[any](t, w)
		assert.Equal(t, dto.ErrCodeAlreadyExists, env.Error.Code)
		assert.NotEmpty(t, env.Error.RequestID)
	})

	t.Run("get by id", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/companies/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		env := decode[partnerapp.CompanyResponse](t, w)
		assert.Equal(t, "Yamada Construction", env.Data.Name)
	})

	t.Run("missing company is 404", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/companies/00000000-0000-0000-0000-000000000099", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("list with meta", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/api/v1/companies?page=1&page_size=10", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		env := decode[[]partnerapp.CompanyResponse](t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(1), env.Meta.Total)
	})
}

// TestRouter_SubcontractingFlow drives the complete workflow over HTTP:
// registration, the work order request flow, bill determination, agency
// confirmation, and the payout run.
func TestRouter_SubcontractingFlow(t *testing.T) {
	engine := setupTestServer(t)

	orderer := createCompany(t, engine, "General Contractor", true)
	subcontractor := createCompany(t, engine, "Subcontractor", false)
	agency := createCompany(t, engine, "Billing Agency", true)

	// Issue the work order.
	w := doJSON(t, engine, http.MethodPost, "/api/v1/work-orders", gin.H{
		"orderer_id": orderer.ID,
		"company_id": subcontractor.ID,
		"price":      "30000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[tradeapp.WorkOrderResponse](t, w).Data
	assert.Equal(t, "General Contractor", order.OrdererName)

	orderPath := "/api/v1/work-orders/" + order.ID.String()

	// Request flow: send, receive, accept.
	for _, step := range []string{"/send", "/receive", "/accept"} {
		w = doJSON(t, engine, http.MethodPost, orderPath+step, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// Accepting again is an illegal transition.
	w = doJSON(t, engine, http.MethodPost, orderPath+"/accept", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeIllegalTransition, decode[any](t, w).Error.Code)

	// Acceptance spawned the bill.
	w = doJSON(t, engine, http.MethodGet, "/api/v1/bills?order_id="+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	bills := decode[[]billingapp.BillResponse](t, w).Data
	require.Len(t, bills, 1)
	bill := bills[0]
	assert.Equal(t, "undetermined", bill.Status)
	assert.Equal(t, "invoice", bill.PaymentMethod)

	billPath := "/api/v1/bills/" + bill.ID.String()

	// Choose same-day settlement, then determine the amount.
	w = doJSON(t, engine, http.MethodPut, billPath+"/payment-method", gin.H{"payment_method": "complete"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, billPath+"/determine", gin.H{
		"bill_on": "2024-01-15T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "determined", decode[billingapp.BillResponse](t, w).Data.Status)

	// Confirming without the agency party is rejected: the orderer is
	// registered as billing via the agency.
	w = doJSON(t, engine, http.MethodPost, billPath+"/confirm", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, engine, http.MethodPost, billPath+"/confirm", gin.H{"agency_company_id": agency.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	confirmed := decode[billingapp.BillResponse](t, w).Data
	assert.Equal(t, "billed", confirmed.Status)
	assert.Equal(t, "waiting", confirmed.AgencyStatus)

	// Settlement created two legs: agency pays the subcontractor net of the
	// fee, the orderer pays the agency in full.
	w = doJSON(t, engine, http.MethodGet, "/api/v1/receivables?bill_id="+bill.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	receivables := decode[[]financeapp.ReceivableResponse](t, w).Data
	require.Len(t, receivables, 2)

	var agencyLeg, ordererLeg *financeapp.ReceivableResponse
	for i := range receivables {
		switch receivables[i].OrdererID {
		case agency.ID:
			agencyLeg = &receivables[i]
		case orderer.ID:
			ordererLeg = &receivables[i]
		}
	}
	require.NotNil(t, agencyLeg)
	require.NotNil(t, ordererLeg)
	assert.True(t, agencyLeg.Price.Equal(decimal.NewFromInt(28500)), agencyLeg.Price.String())
	assert.True(t, ordererLeg.Price.Equal(decimal.NewFromInt(30000)), ordererLeg.Price.String())

	// The agency forwards its bill to the orderer.
	w = doJSON(t, engine, http.MethodPost, billPath+"/send-to-orderer", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "sent", decode[billingapp.BillResponse](t, w).Data.AgencyStatus)

	// The orderer pays its leg interactively.
	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/v1/receivables/%s/pay", ordererLeg.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", decode[financeapp.ReceivableResponse](t, w).Data.Status)

	// Paying it twice is an illegal transition.
	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/v1/receivables/%s/pay", ordererLeg.ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// The agency's payout run settles its remaining leg.
	w = doJSON(t, engine, http.MethodPost, "/api/v1/payment-schedules/ingest", gin.H{
		"agency_company_id": agency.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[financeapp.IngestResult](t, w).Data
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.Applied)
	assert.Empty(t, result.Failures)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/receivables/"+agencyLeg.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", decode[financeapp.ReceivableResponse](t, w).Data.Status)
}

// TestRouter_StartAdvance covers the split settlement: a start_and_complete
// bill creates the 30% advance at construction start.
func TestRouter_StartAdvance(t *testing.T) {
	engine := setupTestServer(t)

	orderer := createCompany(t, engine, "General Contractor", true)
	subcontractor := createCompany(t, engine, "Subcontractor", false)
	agency := createCompany(t, engine, "Billing Agency", true)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/work-orders", gin.H{
		"orderer_id": orderer.ID,
		"company_id": subcontractor.ID,
		"price":      "30000",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode[tradeapp.WorkOrderResponse](t, w).Data
	orderPath := "/api/v1/work-orders/" + order.ID.String()

	for _, step := range []string{"/send", "/receive", "/accept"} {
		w = doJSON(t, engine, http.MethodPost, orderPath+step, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(t, engine, http.MethodGet, "/api/v1/bills?order_id="+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	bills := decode[[]billingapp.BillResponse](t, w).Data
	require.Len(t, bills, 1)

	w = doJSON(t, engine, http.MethodPut, "/api/v1/bills/"+bills[0].ID.String()+"/payment-method",
		gin.H{"payment_method": "start_and_complete"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Starting construction without naming the agency is rejected.
	w = doJSON(t, engine, http.MethodPost, orderPath+"/construction/start", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, orderPath+"/construction/start",
		gin.H{"agency_company_id": agency.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	started := decode[tradeapp.WorkOrderResponse](t, w).Data
	assert.Equal(t, "started", started.ConstructionStatus)

	// ceil(30000 * 0.3 * 0.95) = 8550, owed by the agency on the start day.
	w = doJSON(t, engine, http.MethodGet, "/api/v1/receivables?bill_id="+bills[0].ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	receivables := decode[[]financeapp.ReceivableResponse](t, w).Data
	require.Len(t, receivables, 1)
	assert.Equal(t, "construction_start", receivables[0].Phase)
	assert.Equal(t, agency.ID, receivables[0].OrdererID)
	assert.True(t, receivables[0].Price.Equal(decimal.NewFromInt(8550)), receivables[0].Price.String())

	// Construction completes and gets approved.
	for _, step := range []string{"/construction/complete", "/construction/approve"} {
		w = doJSON(t, engine, http.MethodPost, orderPath+step, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
}
