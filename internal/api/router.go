package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wonny/warehouse/internal/api/handlers"
	"github.com/wonny/warehouse/internal/auth"
	"github.com/wonny/warehouse/internal/contracts"
	"github.com/wonny/warehouse/pkg/logger"
)

// RequestIDHeader echoes the per-request id
const RequestIDHeader = "X-Request-ID"

// Handlers groups every endpoint handler
type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Telemetry *handlers.TelemetryHandler
	Stock     *handlers.StockHandler
	Forecast  *handlers.ForecastHandler
	Warehouse *handlers.WarehouseHandler
	LiveFeed  http.Handler // optional
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routes and role guards are declared only here
func NewRouter(h Handlers, tokens *auth.TokenIssuer, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Health.Check).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Unauthenticated: login and robot telemetry (X-Robot-Key)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	api.HandleFunc("/robots/data", h.Telemetry.Ingest).Methods("POST")

	// Everything below needs a bearer token
	secured := api.PathPrefix("").Subrouter()
	secured.Use(auth.Authenticate(tokens))

	secured.HandleFunc("/auth/me", h.Auth.Me).Methods("GET")
	secured.HandleFunc("/dashboard", h.Dashboard.Get).Methods("GET")
	secured.HandleFunc("/stock", h.Dashboard.StockSummary).Methods("GET")

	if h.LiveFeed != nil {
		secured.Handle("/ws/robots", h.LiveFeed).Methods("GET")
	}

	guarded(secured, "/stock/reconcile", "POST", h.Stock.Reconcile,
		contracts.RoleAdmin, contracts.RoleWarehouseChief)

	forecasters := []contracts.Role{contracts.RoleLogist, contracts.RoleSalesManager, contracts.RoleAdmin}
	guarded(secured, "/forecast/generate", "POST", h.Forecast.Generate, forecasters...)
	guarded(secured, "/forecast/predictions", "GET", h.Forecast.ListPredictions, forecasters...)
	guarded(secured, "/forecast/report", "POST", h.Forecast.Report,
		contracts.RoleLogist, contracts.RoleSalesManager)
	guarded(secured, "/forecast/reports", "GET", h.Forecast.ListReports, forecasters...)

	guarded(secured, "/accounts", "GET", h.Auth.ListAccounts, contracts.RoleAdmin)
	guarded(secured, "/accounts", "POST", h.Auth.CreateAccount, contracts.RoleAdmin)

	floor := []contracts.Role{contracts.RoleReceiver, contracts.RoleWarehouseChief}
	guarded(secured, "/receipts", "GET", h.Warehouse.ListReceipts, append(floor, contracts.RoleLogist, contracts.RoleSalesManager)...)
	guarded(secured, "/receipts", "POST", h.Warehouse.CreateReceipt, floor...)
	guarded(secured, "/warehouse/map", "GET", h.Warehouse.GetMap, floor...)

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// guarded registers a route that only the listed roles may call
func guarded(r *mux.Router, path, method string, fn http.HandlerFunc, roles ...contracts.Role) {
	r.Handle(path, auth.RequireRole(roles...)(fn)).Methods(method)
}

// requestIDMiddleware assigns each request an id, honoring an inbound X-Request-ID
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets the live feed upgrade through the recorder
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithRequestID(w.Header().Get(RequestIDHeader)).WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithRequestID(w.Header().Get(RequestIDHeader)).WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
