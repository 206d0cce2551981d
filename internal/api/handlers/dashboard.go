package handlers

import (
	"net/http"

	"github.com/wonny/warehouse/internal/auth"
	"github.com/wonny/warehouse/internal/dashboard"
	"github.com/wonny/warehouse/pkg/logger"
)

// DashboardHandler serves role dashboards and the stock summary
type DashboardHandler struct {
	dashboard *dashboard.Service
	logger    *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *dashboard.Service, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: svc,
		logger:    log,
	}
}

// Get returns the caller's role view
// GET /api/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	view, err := h.dashboard.ViewFor(r.Context(), claims)
	if err != nil {
		h.logger.WithError(err).WithField("role", claims.Role).Error("Failed to build dashboard")
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// StockSummary returns product counts per stock status
// GET /api/stock
func (h *DashboardHandler) StockSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.StockSummary(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build stock summary")
		respondError(w, http.StatusInternalServerError, "failed to load stock summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
