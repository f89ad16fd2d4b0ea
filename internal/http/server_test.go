package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"compras/internal/core"
	applog "compras/internal/log"
	"compras/internal/services"
	"compras/internal/storage"
	"compras/internal/storage/memory"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

var testKeys = storage.Keys{Prefix: "vbq"}

type testEnv struct {
	srv   *Server
	store storage.Store
	ws    *services.Workspace
}

func quietLogger() *applog.Logger {
	return applog.Discard()
}

func newTestEnv(t *testing.T, store storage.Store, strict bool) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := quietLogger()

	var mu sync.Mutex
	n := 0
	ws, err := services.NewWorkspace(ctx, services.Options{
		Store:  store,
		Keys:   testKeys,
		Units:  []core.StoreUnit{"loja1", "loja2"},
		Logger: logger,
		Now:    func() time.Time { return testNow },
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	access := services.NewAccessGate(ctx, store, testKeys.Restricted(), "20262", logger)

	srv := NewServer(":0", Deps{
		Workspace:         ws,
		Access:            access,
		Store:             store,
		Logger:            logger,
		StatsStrictMonth:  strict,
		RequestsPerMinute: 1000,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testEnv{srv: srv, store: store, ws: ws}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	} else if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d, body %s", rr.Code, want, rr.Body.String())
	}
}

type pingFailStore struct {
	*memory.Store
}

func (pingFailStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := env.do(t, http.MethodGet, path, "")
		expectStatus(t, rr, http.StatusOK)
	}

	rr := env.do(t, http.MethodGet, "/healthz", "")
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if !strings.HasPrefix(rr.Header().Get("X-Request-ID"), "req_") {
		t.Error("request id header missing")
	}

	failing := newTestEnv(t, pingFailStore{memory.New()}, false)
	rr = failing.do(t, http.MethodGet, "/readyz", "")
	expectStatus(t, rr, http.StatusServiceUnavailable)
	if body := decode[map[string]any](t, rr); body["status"] != "not_ready" {
		t.Fatalf("unexpected readiness %v", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)
	rr := env.do(t, http.MethodPatch, "/api/suppliers", "")
	expectStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestSupplierLifecycle(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	rr := env.do(t, http.MethodPost, "/api/suppliers", `{"name":"  acme ltda ","taxId":"12.345"}`)
	expectStatus(t, rr, http.StatusCreated)
	created := decode[core.Supplier](t, rr)
	if created.Name != "ACME LTDA" || created.TaxID != "12.345" {
		t.Fatalf("unexpected supplier %+v", created)
	}

	rr = env.do(t, http.MethodPost, "/api/suppliers", "name=beta&contact=joao")
	expectStatus(t, rr, http.StatusCreated)

	rr = env.do(t, http.MethodPost, "/api/suppliers", `{"name":"   "}`)
	expectStatus(t, rr, http.StatusUnprocessableEntity)

	rr = env.do(t, http.MethodGet, "/api/suppliers", "")
	expectStatus(t, rr, http.StatusOK)
	list := decode[[]core.Supplier](t, rr)
	if len(list) != len(core.SeedSuppliers())+2 {
		t.Fatalf("expected seed plus 2 suppliers, got %d", len(list))
	}

	rr = env.do(t, http.MethodDelete, "/api/suppliers/"+created.ID, "")
	expectStatus(t, rr, http.StatusNoContent)
	rr = env.do(t, http.MethodDelete, "/api/suppliers/"+created.ID, "")
	expectStatus(t, rr, http.StatusNotFound)
}

func TestProductsSearchAndEnumerations(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	expectStatus(t, env.do(t, http.MethodPost, "/api/products", `{"name":"picanha","unit":"KG","categoryId":"c4"}`), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/products", `{"name":"arroz","unit":"PCT"}`), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/products", `{"name":"sem unidade"}`), http.StatusUnprocessableEntity)

	rr := env.do(t, http.MethodGet, "/api/products/search?q=PIC", "")
	expectStatus(t, rr, http.StatusOK)
	found := decode[[]core.Product](t, rr)
	if len(found) != 1 || found[0].Name != "PICANHA" {
		t.Fatalf("unexpected search result %+v", found)
	}

	cats := decode[[]core.Category](t, env.do(t, http.MethodGet, "/api/categories", ""))
	if len(cats) != 25 {
		t.Fatalf("expected 25 categories, got %d", len(cats))
	}
	units := decode[[]string](t, env.do(t, http.MethodGet, "/api/units", ""))
	if len(units) != len(core.Units) {
		t.Fatalf("unexpected units %v", units)
	}
}

func TestDraftCommitFlow(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	product := decode[core.Product](t, env.do(t, http.MethodPost, "/api/products", `{"name":"picanha","unit":"KG","categoryId":"c4"}`))

	rr := env.do(t, http.MethodPut, "/api/draft/header", `{"invoiceNumber":"NF-1","supplierId":"s-0","date":"2024-03-14"}`)
	expectStatus(t, rr, http.StatusOK)

	expectStatus(t, env.do(t, http.MethodPut, "/api/draft/header", `{"date":"14/03/2024"}`), http.StatusUnprocessableEntity)

	rr = env.do(t, http.MethodPost, "/api/draft/items", fmt.Sprintf(`{"productId":%q,"quantity":2,"unitPrice":"10,50"}`, product.ID))
	expectStatus(t, rr, http.StatusCreated)
	rr = env.do(t, http.MethodPost, "/api/draft/items", fmt.Sprintf("productId=%s&quantity=1&unitPrice=5", product.ID))
	expectStatus(t, rr, http.StatusCreated)
	draft := decode[draftResponse](t, rr)
	if len(draft.Items) != 2 || draft.Total != 26 {
		t.Fatalf("unexpected draft %+v", draft)
	}

	expectStatus(t, env.do(t, http.MethodPost, "/api/draft/items", `{"productId":"x","quantity":0,"unitPrice":1}`), http.StatusUnprocessableEntity)
	expectStatus(t, env.do(t, http.MethodDelete, "/api/draft/items/7", ""), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodDelete, "/api/draft/items/abc", ""), http.StatusBadRequest)

	rr = env.do(t, http.MethodPost, "/api/draft/commit", "")
	expectStatus(t, rr, http.StatusCreated)
	committed := decode[commitResponse](t, rr)
	if len(committed.Receipts) != 2 || len(committed.Draft.Items) != 0 {
		t.Fatalf("unexpected commit %+v", committed)
	}
	if committed.Draft.Header.InvoiceNumber != "NF-1" {
		t.Fatal("header should survive the commit")
	}
	for _, r := range committed.Receipts {
		if r.InvoiceNumber != "NF-1" || r.TotalValue != core.Multiply(r.Quantity, r.UnitPrice) {
			t.Fatalf("unexpected receipt %+v", r)
		}
	}

	expectStatus(t, env.do(t, http.MethodPost, "/api/draft/commit", ""), http.StatusUnprocessableEntity)

	rr = env.do(t, http.MethodGet, "/api/receipts", "")
	expectStatus(t, rr, http.StatusOK)
	rows := decode[[]map[string]any](t, rr)
	if len(rows) != 2 || rows[0]["productName"] != "PICANHA" || rows[0]["supplierName"] == core.Unknown {
		t.Fatalf("unexpected receipt rows %v", rows)
	}

	rr = env.do(t, http.MethodGet, "/api/receipts/current-month", "")
	expectStatus(t, rr, http.StatusOK)
	month := decode[currentMonthResponse](t, rr)
	if len(month.Receipts) != 2 || month.Total != 26 {
		t.Fatalf("unexpected current month %+v", month)
	}

	expectStatus(t, env.do(t, http.MethodDelete, "/api/receipts/"+committed.Receipts[0].ID, ""), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodDelete, "/api/receipts/missing", ""), http.StatusNotFound)
}

func TestPayables(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	rr := env.do(t, http.MethodPost, "/api/boletos", `{"description":"luz","value":"300","dueDate":"2024-04-10"}`)
	expectStatus(t, rr, http.StatusCreated)
	boleto := decode[core.Boleto](t, rr)
	if boleto.Status != core.StatusPending {
		t.Fatalf("new boletos are pending, got %s", boleto.Status)
	}
	expectStatus(t, env.do(t, http.MethodPost, "/api/boletos", `{"description":"agua","value":"80","dueDate":"2024-04-20"}`), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/boletos", `{"description":"x","value":"-1","dueDate":"2024-04-20"}`), http.StatusUnprocessableEntity)

	rr = env.do(t, http.MethodPost, "/api/boletos/"+boleto.ID+"/toggle", "")
	expectStatus(t, rr, http.StatusOK)
	if decode[core.Boleto](t, rr).Status != core.StatusPaid {
		t.Fatal("toggle should mark the boleto paid")
	}

	rr = env.do(t, http.MethodGet, "/api/boletos/forecast", "")
	expectStatus(t, rr, http.StatusOK)
	forecast := decode[map[string]any](t, rr)
	if forecast["label"] != "04/2024" || forecast["totalPaid"] != 300.0 || forecast["totalPending"] != 80.0 {
		t.Fatalf("unexpected forecast %v", forecast)
	}

	expectStatus(t, env.do(t, http.MethodPost, "/api/boletos/missing/toggle", ""), http.StatusNotFound)

	rr = env.do(t, http.MethodPost, "/api/fixed-costs", "description=aluguel&value=2500&dueDate=2024-04-05")
	expectStatus(t, rr, http.StatusCreated)
	cost := decode[core.FixedCost](t, rr)
	expectStatus(t, env.do(t, http.MethodPost, "/api/fixed-costs/"+cost.ID+"/toggle", ""), http.StatusOK)
	expectStatus(t, env.do(t, http.MethodDelete, "/api/fixed-costs/"+cost.ID, ""), http.StatusNoContent)

	expectStatus(t, env.do(t, http.MethodPost, "/api/maintenance", `{"description":"freezer","date":"2024-03-10","value":450}`), http.StatusCreated)
	list := decode[[]core.MaintenanceRecord](t, env.do(t, http.MethodGet, "/api/maintenance", ""))
	if len(list) != 1 || list[0].Value != 450 {
		t.Fatalf("unexpected maintenance %+v", list)
	}
}

func TestSalesMonthSummary(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":"2024-03-01","totalValue":"1000"}`), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":"2024-03-02","totalValue":"500"}`), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":"2024-02-20","totalValue":"700"}`), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":"","totalValue":"10"}`), http.StatusUnprocessableEntity)

	rr := env.do(t, http.MethodGet, "/api/sales", "")
	expectStatus(t, rr, http.StatusOK)
	resp := decode[salesResponse](t, rr)
	if len(resp.Sales) != 3 || resp.Sales[0].Date != "2024-03-02" {
		t.Fatalf("sales should be newest first: %+v", resp.Sales)
	}
	if resp.Month.Total != 1500 || resp.Month.Entries != 2 {
		t.Fatalf("unexpected month summary %+v", resp.Month)
	}
}

func TestSwitchUnit(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)
	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":"2024-03-01","totalValue":"1000"}`), http.StatusCreated)

	expectStatus(t, env.do(t, http.MethodPut, "/api/unit", `{"unit":"loja9"}`), http.StatusUnprocessableEntity)

	rr := env.do(t, http.MethodPut, "/api/unit", `{"unit":"loja2"}`)
	expectStatus(t, rr, http.StatusOK)
	if decode[unitResponse](t, rr).Unit != "loja2" {
		t.Fatal("unit not switched")
	}
	if sales := decode[salesResponse](t, env.do(t, http.MethodGet, "/api/sales", "")); len(sales.Sales) != 0 {
		t.Fatalf("loja2 should have no sales, got %d", len(sales.Sales))
	}

	expectStatus(t, env.do(t, http.MethodPut, "/api/unit", `{"unit":"loja1"}`), http.StatusOK)
	if sales := decode[salesResponse](t, env.do(t, http.MethodGet, "/api/sales", "")); len(sales.Sales) != 1 {
		t.Fatalf("loja1 sales should be reloaded, got %d", len(sales.Sales))
	}
}

func TestMalformedBody(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)
	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":`), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `[1,2]`), http.StatusBadRequest)
}

func TestRestrictedModeHidesAnalytics(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	expectStatus(t, env.do(t, http.MethodGet, "/api/dashboard", ""), http.StatusOK)

	rr := env.do(t, http.MethodPost, "/api/access/lock", "")
	expectStatus(t, rr, http.StatusOK)
	if !decode[accessResponse](t, env.do(t, http.MethodGet, "/api/access", "")).Restricted {
		t.Fatal("expected restricted mode")
	}

	expectStatus(t, env.do(t, http.MethodGet, "/api/dashboard", ""), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodGet, "/api/reports", ""), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodGet, "/api/receipts", ""), http.StatusOK)

	expectStatus(t, env.do(t, http.MethodPost, "/api/access/unlock", `{"passcode":"1234"}`), http.StatusForbidden)
	expectStatus(t, env.do(t, http.MethodPost, "/api/access/unlock", `{"passcode":"20262"}`), http.StatusOK)
	expectStatus(t, env.do(t, http.MethodGet, "/api/dashboard", ""), http.StatusOK)
}

func TestDashboardStatsAndCache(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)

	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":"2024-03-01","totalValue":"1000"}`), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":"2023-03-05","totalValue":"400"}`), http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodPost, "/api/boletos", `{"description":"luz","value":"300","dueDate":"2025-01-10"}`), http.StatusCreated)

	rr := env.do(t, http.MethodGet, "/api/dashboard", "")
	expectStatus(t, rr, http.StatusOK)
	dash := decode[dashboardResponse](t, rr)
	if dash.MonthFilter != filterMonth || dash.Stats.TotalSales != 1400 {
		t.Fatalf("month-of-year stats expected, got %s %+v", dash.MonthFilter, dash.Stats)
	}
	if dash.StatsMonthAndYear.TotalSales != 1000 {
		t.Fatalf("strict stats should skip last year, got %+v", dash.StatsMonthAndYear)
	}
	if dash.Stats.NextMonthDebt != 300 {
		t.Fatalf("pending debt ignores due date, got %v", dash.Stats.NextMonthDebt)
	}
	if len(dash.SalesSeries) != 30 {
		t.Fatalf("series length %d", len(dash.SalesSeries))
	}
	if dash.StatsDisplay.TotalSales != core.FormatBRL(1400) {
		t.Fatalf("unexpected display %q", dash.StatsDisplay.TotalSales)
	}

	env.do(t, http.MethodGet, "/api/dashboard", "")
	if hits := env.srv.metrics.cacheHits.Load(); hits != 1 {
		t.Fatalf("cache hits = %d, want 1", hits)
	}

	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":"2024-03-03","totalValue":"100"}`), http.StatusCreated)
	dash = decode[dashboardResponse](t, env.do(t, http.MethodGet, "/api/dashboard", ""))
	if dash.Stats.TotalSales != 1500 {
		t.Fatalf("dashboard should reflect the new sale, got %v", dash.Stats.TotalSales)
	}
	if misses := env.srv.metrics.cacheMisses.Load(); misses != 2 {
		t.Fatalf("cache misses = %d, want 2", misses)
	}
}

func TestDashboardStrictConfig(t *testing.T) {
	env := newTestEnv(t, memory.New(), true)
	expectStatus(t, env.do(t, http.MethodPost, "/api/sales", `{"date":"2023-03-05","totalValue":"400"}`), http.StatusCreated)

	dash := decode[dashboardResponse](t, env.do(t, http.MethodGet, "/api/dashboard", ""))
	if dash.MonthFilter != filterMonthAndYear || dash.Stats.TotalSales != 0 {
		t.Fatalf("strict filter expected, got %s %+v", dash.MonthFilter, dash.Stats)
	}
}

func TestReports(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)
	ctx := context.Background()

	product := decode[core.Product](t, env.do(t, http.MethodPost, "/api/products", `{"name":"picanha","unit":"KG","categoryId":"c4"}`))
	receipts := []core.Receipt{
		{ID: "r1", SupplierID: "s-0", ProductID: product.ID, Quantity: 2, UnitPrice: 50, TotalValue: 100, Date: "2024-03-10"},
		{ID: "r2", SupplierID: "s-1", ProductID: "gone", Quantity: 1, UnitPrice: 30, TotalValue: 30, Date: "2024-02-28"},
	}
	if err := storage.Save(ctx, env.store, testKeys.Unit("loja1", storage.Receipts), receipts); err != nil {
		t.Fatal(err)
	}
	expectStatus(t, env.do(t, http.MethodPut, "/api/unit", `{"unit":"loja2"}`), http.StatusOK)
	expectStatus(t, env.do(t, http.MethodPut, "/api/unit", `{"unit":"loja1"}`), http.StatusOK)

	rr := env.do(t, http.MethodGet, "/api/reports", "")
	expectStatus(t, rr, http.StatusOK)
	all := decode[reportResponse](t, rr)
	if all.Count != 2 || all.Total != 130 {
		t.Fatalf("unfiltered report %+v", all)
	}

	rr = env.do(t, http.MethodGet, "/api/reports?preset=month", "")
	expectStatus(t, rr, http.StatusOK)
	month := decode[reportResponse](t, rr)
	if month.Filter.StartDate != "2024-03-01" || month.Filter.EndDate != "2024-03-15" || month.Count != 1 {
		t.Fatalf("month report %+v", month)
	}
	row := month.Rows[0]
	if row.ProductName != "PICANHA" || row.CategoryName == "" || row.DateDisplay != "10/03/2024" {
		t.Fatalf("unexpected row %+v", row)
	}

	rr = env.do(t, http.MethodGet, "/api/reports?supplierId=s-1", "")
	supplier := decode[reportResponse](t, rr)
	if supplier.Count != 1 || supplier.Rows[0].ProductName != core.Unknown {
		t.Fatalf("supplier report %+v", supplier)
	}

	expectStatus(t, env.do(t, http.MethodGet, "/api/reports?startDate=2024-13-01", ""), http.StatusUnprocessableEntity)
}

func TestWriteJSONUnencodablePayload(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, map[string]float64{"total": math.Inf(1)})
	expectStatus(t, rr, http.StatusInternalServerError)
	body := decode[map[string]string](t, rr)
	if body["error"] != "internal error" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrEmptyName, http.StatusUnprocessableEntity},
		{fmt.Errorf("wrap: %w", core.ErrInvalidAmount), http.StatusUnprocessableEntity},
		{services.ErrEmptyDraft, http.StatusUnprocessableEntity},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrWrongPasscode, http.StatusForbidden},
		{errRestricted, http.StatusForbidden},
		{services.ErrInvalidIndex, http.StatusBadRequest},
		{errBadRequest, http.StatusBadRequest},
		{errors.New("save vbq_loja1_sales: disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, memory.New(), false)
	env.do(t, http.MethodGet, "/healthz", "")

	rr := env.do(t, http.MethodGet, "/metrics", "")
	expectStatus(t, rr, http.StatusOK)
	body := rr.Body.String()
	for _, want := range []string{"http_requests_total 1", "workspace_receipts 0", "# TYPE dashboard_cache_hits_total gauge"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
