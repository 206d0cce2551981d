package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/warehouse/pkg/database"
)

// HealthChecker reports database health
type HealthChecker interface {
	HealthCheck(ctx context.Context) (*database.HealthStatus, error)
}

// HealthHandler serves /health
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check returns service and database status
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status, err := h.db.HealthCheck(ctx)
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "degraded",
			"service":  "warehouse-api",
			"database": status,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"service":  "warehouse-api",
		"database": status,
	})
}
