package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dealsplit/internal/cache"
	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/provider"
	"github.com/dealsplit/internal/queue"
	"github.com/dealsplit/internal/repository"
	"github.com/dealsplit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Developer{},
		&models.Client{},
		&models.Project{},
		&models.CustomFee{},
		&models.Payout{},
		&models.PayoutLineItem{},
		&models.PayoutFeeEntry{},
		&models.PayoutTimelineEntry{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	cache.ResetLocal()

	cfg := &config.Config{
		Fees: config.FeesConfig{
			Defaults: []config.FeeDefaultConfig{
				{Name: constants.FeeNamePlatform, Kind: constants.FeeKindPercentage, Value: "10"},
				{Name: constants.FeeNamePayment, Kind: constants.FeeKindPercentage, Value: "2.9", BasedOnRemainder: true},
			},
			PaymentFeeName:    constants.FeeNamePayment,
			ManagementFeeName: constants.FeeNameManagement,
		},
		Dashboard: config.DashboardConfig{CacheTTLSeconds: 60, CustomMaxDays: 366},
		Export:    config.ExportConfig{SheetName: "Payouts", MaxRows: 100},
	}
	queueClient, _ := queue.NewClient(nil)
	developerRepo := repository.NewDeveloperRepository(db)
	clientRepo := repository.NewClientRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	feeService := service.NewFeeService(feeRepo, cfg.Fees)
	dashboardService := service.NewDashboardService(payoutRepo, cfg.Dashboard, cfg.Fees)

	h := New(&provider.Container{
		Config:           cfg,
		QueueClient:      queueClient,
		DeveloperService: service.NewDeveloperService(developerRepo),
		ClientService:    service.NewClientService(clientRepo),
		FeeService:       feeService,
		DashboardService: dashboardService,
		PayoutService: service.NewPayoutService(
			payoutRepo, developerRepo, clientRepo, feeService, dashboardService, queueClient, cfg.Fees, cfg.Export,
		),
	})

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/developers", h.CreateDeveloper)
	api.POST("/clients", h.CreateClient)
	api.POST("/clients/:id/projects", h.CreateProject)
	api.GET("/fees", h.GetFees)
	api.POST("/fees", h.CreateFee)
	api.POST("/payouts/preview", h.PreviewPayout)
	api.POST("/payouts", h.CreatePayout)
	api.GET("/payouts", h.GetPayouts)
	api.GET("/payouts/export", h.ExportPayouts)
	api.GET("/payouts/:id", h.GetPayout)
	api.DELETE("/payouts/:id", h.DeletePayout)
	api.POST("/payouts/:id/status", h.UpdatePayoutStatus)
	api.POST("/payouts/:id/payment-fee", h.CorrectPayoutPaymentFee)
	api.GET("/dashboard/summary", h.GetDashboardSummary)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
		}
	}
	return w, env
}

func decodeData(t *testing.T, env apiEnvelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, string(env.Data))
	}
}

type seededEntities struct {
	developerID uint
	clientID    uint
	projectID   uint
}

func seedEntities(t *testing.T, r *gin.Engine) seededEntities {
	t.Helper()
	var developer struct {
		ID uint `json:"id"`
	}
	_, env := doJSON(t, r, http.MethodPost, "/api/v1/developers", gin.H{"name": "Alice", "email": "alice@example.com"})
	decodeData(t, env, &developer)

	var client struct {
		ID uint `json:"id"`
	}
	_, env = doJSON(t, r, http.MethodPost, "/api/v1/clients", gin.H{"name": "Acme"})
	decodeData(t, env, &client)

	var project struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	_, env = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clients/%d/projects", client.ID), gin.H{"name": "Website"})
	decodeData(t, env, &project)
	if project.Status != constants.ProjectStatusIncomplete {
		t.Fatalf("expected new project incomplete, got %s", project.Status)
	}
	return seededEntities{developerID: developer.ID, clientID: client.ID, projectID: project.ID}
}

func TestPayoutHandlersLifecycle(t *testing.T) {
	r, _ := setupHandlerTest(t)
	seed := seedEntities(t, r)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/payouts", gin.H{
		"developer_id": seed.developerID,
		"line_items": []gin.H{
			{"client_id": seed.clientID, "project_id": seed.projectID, "amount": "1000"},
		},
	})
	if w.Code != http.StatusOK || env.StatusCode != 0 {
		t.Fatalf("create payout failed: code=%d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID           uint    `json:"id"`
		GrossTotal   float64 `json:"gross_total"`
		TotalFees    float64 `json:"total_fees"`
		FinalPayout  float64 `json:"final_payout"`
		Status       string  `json:"status"`
		FeeBreakdown []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
		} `json:"fee_breakdown"`
		Timeline []struct {
			Status string `json:"status"`
		} `json:"timeline"`
	}
	decodeData(t, env, &created)
	if created.GrossTotal != 1000 || created.TotalFees != 129 || created.FinalPayout != 871 {
		t.Fatalf("unexpected totals: %+v", created)
	}
	if len(created.FeeBreakdown) != 2 || created.FeeBreakdown[1].Amount != 29 {
		t.Fatalf("unexpected breakdown: %+v", created.FeeBreakdown)
	}
	if created.Status != constants.PayoutStatusNotPaid || len(created.Timeline) != 1 {
		t.Fatalf("unexpected initial status: %+v", created)
	}

	w, env = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/payouts/%d/payment-fee", created.ID), gin.H{"amount": 35})
	if w.Code != http.StatusOK {
		t.Fatalf("correct payment fee failed: %s", w.Body.String())
	}
	var corrected struct {
		FinalPayout float64 `json:"final_payout"`
	}
	decodeData(t, env, &corrected)
	if corrected.FinalPayout != 865 {
		t.Fatalf("expected final payout 865, got %v", corrected.FinalPayout)
	}

	w, _ = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/payouts/%d/status", created.ID), gin.H{"status": constants.PayoutStatusPaymentComplete})
	if w.Code != http.StatusOK {
		t.Fatalf("status transition failed: %s", w.Body.String())
	}

	w, env = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/payouts/%d/status", created.ID), gin.H{"status": constants.PayoutStatusPending})
	if w.Code != http.StatusConflict || env.StatusCode != 409 {
		t.Fatalf("expected 409 for terminal transition, got %d body=%s", w.Code, w.Body.String())
	}
	if env.Msg != "Payout status transition is not allowed" {
		t.Fatalf("expected localized message, got %s", env.Msg)
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/payouts?search=acme", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list payouts failed: %s", w.Body.String())
	}
	var listed []struct {
		ID uint `json:"id"`
	}
	decodeData(t, env, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("unexpected list result: %+v", listed)
	}

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/payouts/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete payout failed: %s", w.Body.String())
	}
	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/payouts/%d", created.ID), nil)
	if w.Code != http.StatusNotFound || env.StatusCode != 404 {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestPayoutHandlersValidation(t *testing.T) {
	r, _ := setupHandlerTest(t)
	seed := seedEntities(t, r)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/payouts", gin.H{
		"developer_id": seed.developerID,
		"line_items":   []gin.H{},
	})
	if w.Code != http.StatusBadRequest || env.StatusCode != 400 {
		t.Fatalf("expected 400 for empty line items, got %d", w.Code)
	}
	var detail map[string]string
	decodeData(t, env, &detail)
	if detail["detail"] == "" {
		t.Fatalf("expected validation detail in response data")
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/payouts/preview", gin.H{
		"line_items": []gin.H{{"client_id": seed.clientID, "project_id": seed.projectID, "amount": 100}},
		"fees":       []gin.H{{"name": "Bad", "kind": "percentage", "value": -1}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative fee, got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/payouts/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/payouts?developer_id=x", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid developer filter, got %d", w.Code)
	}
}

func TestCorrectPaymentFeeHandlerRequiresAmount(t *testing.T) {
	r, _ := setupHandlerTest(t)
	seed := seedEntities(t, r)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/payouts", gin.H{
		"developer_id": seed.developerID,
		"line_items": []gin.H{
			{"client_id": seed.clientID, "project_id": seed.projectID, "amount": "1000"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create payout failed: %s", w.Body.String())
	}
	var created struct {
		ID          uint    `json:"id"`
		FinalPayout float64 `json:"final_payout"`
	}
	decodeData(t, env, &created)
	path := fmt.Sprintf("/api/v1/payouts/%d/payment-fee", created.ID)

	for _, body := range []gin.H{{}, {"amont": 35}, {"amount": nil}} {
		w, env = doJSON(t, r, http.MethodPost, path, body)
		if w.Code != http.StatusBadRequest || env.StatusCode != 400 {
			t.Fatalf("expected 400 for body %v, got %d body=%s", body, w.Code, w.Body.String())
		}
		var detail map[string]string
		decodeData(t, env, &detail)
		if detail["detail"] != "amount is required" {
			t.Fatalf("unexpected detail: %v", detail)
		}
	}

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/payouts/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get payout failed: %s", w.Body.String())
	}
	var stored struct {
		FinalPayout float64 `json:"final_payout"`
	}
	decodeData(t, env, &stored)
	if stored.FinalPayout != created.FinalPayout {
		t.Fatalf("rejected correction must not change payout: before=%v after=%v", created.FinalPayout, stored.FinalPayout)
	}

	w, _ = doJSON(t, r, http.MethodPost, path, gin.H{"amount": 0})
	if w.Code != http.StatusOK {
		t.Fatalf("explicit zero amount should be accepted, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestPreviewPayoutHandlerWithExplicitFees(t *testing.T) {
	r, db := setupHandlerTest(t)
	seed := seedEntities(t, r)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/payouts/preview", gin.H{
		"line_items": []gin.H{{"client_id": seed.clientID, "project_id": seed.projectID, "amount": "1000"}},
		"fees": []gin.H{
			{"name": "Platform Fee", "kind": "percentage", "value": 10},
			{"name": "Management Fee", "kind": "percentage", "value": 15},
			{"name": "Payment Fee", "kind": "percentage", "value": 2.9, "based_on_remainder": true},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("preview failed: %s", w.Body.String())
	}
	var calc struct {
		TotalFees   float64 `json:"total_fees"`
		FinalPayout float64 `json:"final_payout"`
	}
	decodeData(t, env, &calc)
	if calc.TotalFees != 279 || calc.FinalPayout != 721 {
		t.Fatalf("unexpected preview: %+v", calc)
	}

	var count int64
	db.Model(&models.Payout{}).Count(&count)
	if count != 0 {
		t.Fatalf("preview must not persist payouts")
	}
}

func TestFeeHandlers(t *testing.T) {
	r, _ := setupHandlerTest(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/fees", gin.H{"name": "Hosting", "kind": "fixed", "value": "25"})
	if w.Code != http.StatusOK {
		t.Fatalf("create fee failed: %s", w.Body.String())
	}
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/fees", gin.H{"name": "payment fee", "kind": "fixed", "value": "1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for default name collision, got %d", w.Code)
	}

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/fees", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list fees failed: %s", w.Body.String())
	}
	var fees []struct {
		Name   string  `json:"name"`
		Value  float64 `json:"value"`
		Source string  `json:"source"`
	}
	decodeData(t, env, &fees)
	if len(fees) != 3 || fees[2].Name != "Hosting" || fees[2].Value != 25 || fees[2].Source != constants.FeeSourceCustom {
		t.Fatalf("unexpected fee list: %+v", fees)
	}
}

func TestDashboardSummaryHandler(t *testing.T) {
	r, _ := setupHandlerTest(t)
	seed := seedEntities(t, r)
	doJSON(t, r, http.MethodPost, "/api/v1/payouts", gin.H{
		"developer_id": seed.developerID,
		"line_items":   []gin.H{{"client_id": seed.clientID, "project_id": seed.projectID, "amount": 400}},
	})

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/dashboard/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard summary failed: %s", w.Body.String())
	}
	var summary struct {
		Range         string             `json:"range"`
		PayoutCount   int                `json:"payout_count"`
		TotalReceived float64            `json:"total_received"`
		ClientTotals  map[string]float64 `json:"client_totals"`
	}
	decodeData(t, env, &summary)
	if summary.Range != constants.DashboardRangeAll || summary.PayoutCount != 1 || summary.TotalReceived != 400 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.ClientTotals["Acme"] != 400 {
		t.Fatalf("unexpected client totals: %+v", summary.ClientTotals)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/dashboard/summary?range=fortnight", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown range, got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/dashboard/summary?range=custom&from=2024-01-01&to=2024-01-31", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected custom range accepted, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestExportPayoutsHandler(t *testing.T) {
	r, _ := setupHandlerTest(t)
	seed := seedEntities(t, r)
	doJSON(t, r, http.MethodPost, "/api/v1/payouts", gin.H{
		"developer_id": seed.developerID,
		"line_items":   []gin.H{{"client_id": seed.clientID, "project_id": seed.projectID, "amount": 250}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payouts/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("export failed: %d", w.Code)
	}
	if w.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("unexpected content type %s", w.Header().Get("Content-Type"))
	}
	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open exported workbook failed: %v", err)
	}
	defer book.Close()
	rows, err := book.GetRows("Payouts")
	if err != nil {
		t.Fatalf("read rows failed: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Alice" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestParseTimeNullable(t *testing.T) {
	parsed, err := parseTimeNullable("2024-01-31", true)
	if err != nil {
		t.Fatalf("parse date failed: %v", err)
	}
	if parsed.Hour() != 23 || parsed.Day() != 31 {
		t.Fatalf("expected end of day, got %s", parsed)
	}
	parsed, err = parseTimeNullable("2024-01-31T10:00:00Z", true)
	if err != nil || parsed.Hour() != 10 {
		t.Fatalf("expected RFC3339 kept as is, got %v err=%v", parsed, err)
	}
	if parsed, err := parseTimeNullable("", false); err != nil || parsed != nil {
		t.Fatalf("expected nil for empty input")
	}
	if _, err := parseTimeNullable("31/01/2024", false); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}
