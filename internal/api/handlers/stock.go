package handlers

import (
	"net/http"

	"github.com/wonny/warehouse/internal/stock"
	"github.com/wonny/warehouse/pkg/logger"
)

// StockHandler triggers the stock projection rebuild
type StockHandler struct {
	reconciler *stock.Reconciler
	logger     *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(reconciler *stock.Reconciler, log *logger.Logger) *StockHandler {
	return &StockHandler{
		reconciler: reconciler,
		logger:     log,
	}
}

// Reconcile recomputes every product quantity and status from the scan log
// POST /api/stock/reconcile
func (h *StockHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.Reconcile(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Stock reconcile failed")
		respondError(w, http.StatusInternalServerError, "stock reconcile failed")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
