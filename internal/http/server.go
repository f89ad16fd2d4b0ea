// Package http exposes the purchasing workspace as a JSON API.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"compras/internal/cache"
	applog "compras/internal/log"
	"compras/internal/middleware/ratelimit"
	"compras/internal/middleware/security"
	"compras/internal/middleware/trace"
	"compras/internal/services"
	"compras/internal/storage"
)

// Deps are the collaborators of the API. Workspace and Access are required.
type Deps struct {
	Workspace *services.Workspace
	Access    *services.AccessGate
	// Store is pinged by /readyz when it implements storage.Pinger.
	Store  storage.Store
	Caches *cache.Manager
	Logger *applog.Logger

	// StatsStrictMonth selects the month-and-year filter for the dashboard
	// tiles instead of the month-of-year one.
	StatsStrictMonth  bool
	CacheTTL          time.Duration
	RequestsPerMinute int
}

type Server struct {
	http.Server

	ws          *services.Workspace
	access      *services.AccessGate
	store       storage.Store
	logger      *applog.Logger
	strictMonth bool

	dashboardCache *cache.LRUCache[dashboardResponse]
	rateLimiter    *ratelimit.Limiter
	detector       *security.Detector
	tracer         *trace.Middleware

	metrics appMetrics

	shutdownOnce sync.Once
}

type appMetrics struct {
	started     time.Time
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// NewServer registers every route and wraps the mux in the middleware
// chain, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = 5 * time.Minute
	}

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerMinute: deps.RequestsPerMinute,
		Exempt:            []string{"/healthz", "/readyz"},
	})
	s := &Server{
		ws:             deps.Workspace,
		access:         deps.Access,
		store:          deps.Store,
		logger:         deps.Logger,
		strictMonth:    deps.StatsStrictMonth,
		dashboardCache: cache.NewLRUCache[dashboardResponse](50, deps.CacheTTL),
		rateLimiter:    limiter,
		detector:       security.NewDetector(),
	}
	s.metrics.started = time.Now()
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	if deps.Caches != nil {
		deps.Caches.Register("dashboard", s.dashboardCache)
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)(handler)
	handler = s.detector.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = applog.Middleware(s.logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/unit", s.handleGetUnit)
	mux.HandleFunc("PUT /api/unit", s.handleSwitchUnit)

	mux.HandleFunc("GET /api/access", s.handleGetAccess)
	mux.HandleFunc("POST /api/access/lock", s.handleLock)
	mux.HandleFunc("POST /api/access/unlock", s.handleUnlock)

	mux.HandleFunc("GET /api/suppliers", s.handleListSuppliers)
	mux.HandleFunc("POST /api/suppliers", s.handleCreateSupplier)
	mux.HandleFunc("DELETE /api/suppliers/{id}", s.handleDeleteSupplier)
	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("POST /api/products", s.handleCreateProduct)
	mux.HandleFunc("GET /api/products/search", s.handleSearchProducts)
	mux.HandleFunc("DELETE /api/products/{id}", s.handleDeleteProduct)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/units", s.handleUnits)

	mux.HandleFunc("GET /api/draft", s.handleGetDraft)
	mux.HandleFunc("PUT /api/draft/header", s.handleSetDraftHeader)
	mux.HandleFunc("POST /api/draft/items", s.handleAddDraftItem)
	mux.HandleFunc("DELETE /api/draft/items/{index}", s.handleRemoveDraftItem)
	mux.HandleFunc("POST /api/draft/commit", s.handleCommitDraft)

	mux.HandleFunc("GET /api/receipts", s.handleListReceipts)
	mux.HandleFunc("GET /api/receipts/current-month", s.handleCurrentMonthReceipts)
	mux.HandleFunc("DELETE /api/receipts/{id}", s.handleDeleteReceipt)

	mux.HandleFunc("GET /api/sales", s.handleListSales)
	mux.HandleFunc("POST /api/sales", s.handleCreateSale)
	mux.HandleFunc("DELETE /api/sales/{id}", s.handleDeleteSale)

	mux.HandleFunc("GET /api/boletos", s.handleListBoletos)
	mux.HandleFunc("POST /api/boletos", s.handleCreateBoleto)
	mux.HandleFunc("GET /api/boletos/forecast", s.handleForecast)
	mux.HandleFunc("POST /api/boletos/{id}/toggle", s.handleToggleBoleto)
	mux.HandleFunc("DELETE /api/boletos/{id}", s.handleDeleteBoleto)

	mux.HandleFunc("GET /api/fixed-costs", s.handleListFixedCosts)
	mux.HandleFunc("POST /api/fixed-costs", s.handleCreateFixedCost)
	mux.HandleFunc("POST /api/fixed-costs/{id}/toggle", s.handleToggleFixedCost)
	mux.HandleFunc("DELETE /api/fixed-costs/{id}", s.handleDeleteFixedCost)

	mux.HandleFunc("GET /api/maintenance", s.handleListMaintenance)
	mux.HandleFunc("POST /api/maintenance", s.handleCreateMaintenance)
	mux.HandleFunc("DELETE /api/maintenance/{id}", s.handleDeleteMaintenance)

	mux.HandleFunc("GET /api/dashboard", s.restricted(s.handleDashboard))
	mux.HandleFunc("GET /api/reports", s.restricted(s.handleReports))
}

// restricted hides analytics while the access gate is locked.
func (s *Server) restricted(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.access != nil && s.access.Restricted() {
			s.writeError(w, r, errRestricted)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit,
		applog.FieldClientIP, s.detector.ExtractClientIP(r))
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.started).String(),
	})
}

// handleReady reports not_ready when the store does not answer a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	checks := map[string]any{}

	if pinger, ok := s.store.(storage.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			checks["store"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			code = http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	} else {
		checks["store"] = "not_checked"
	}

	checks["workspace"] = map[string]any{"unit": s.ws.Unit()}
	checks["cache"] = map[string]any{"dashboard_entries": s.dashboardCache.Size()}
	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.ActiveClients()}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.ws.Snapshot()
	traceMetrics := s.tracer.GetMetrics()
	rateMetrics := s.rateLimiter.GetMetrics()

	counters := []struct {
		name, help string
		value      int64
	}{
		{"http_requests_total", "Total number of HTTP requests", traceMetrics.TotalRequests},
		{"http_server_errors_total", "Responses with a 5xx status", traceMetrics.ServerErrors},
		{"http_response_time_avg_us", "Average response time in microseconds", traceMetrics.AverageResponseTime},
		{"rate_limit_rejected_total", "Requests rejected by the rate limiter", rateMetrics.Rejected},
		{"rate_limit_active_clients", "Clients tracked by the rate limiter", rateMetrics.ClientCount},
		{"security_suspicious_requests_total", "Requests flagged as suspicious", s.detector.GetMetrics().SuspiciousRequests},
		{"dashboard_cache_hits_total", "Dashboard cache hits", s.metrics.cacheHits.Load()},
		{"dashboard_cache_misses_total", "Dashboard cache misses", s.metrics.cacheMisses.Load()},
		{"workspace_revision", "Changes applied to the working set", int64(snap.Revision)},
		{"workspace_receipts", "Receipts of the active unit", int64(len(snap.Receipts))},
		{"workspace_sales", "Sales of the active unit", int64(len(snap.Sales))},
		{"workspace_boletos", "Boletos of the active unit", int64(len(snap.Boletos))},
		{"uptime_seconds", "Seconds since the server started", int64(time.Since(s.metrics.started).Seconds())},
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, c := range counters {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n%s %d\n\n", c.name, c.help, c.name, c.name, c.value)
	}
}

// Shutdown stops background goroutines and the HTTP server once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before committing the status, so an unencodable
// payload becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		body = []byte(`{"error":"internal error"}`)
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
