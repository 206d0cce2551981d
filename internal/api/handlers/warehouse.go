package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/warehouse/internal/warehouse"
	"github.com/wonny/warehouse/pkg/logger"
)

// WarehouseHandler serves the floor map and goods receipts
type WarehouseHandler struct {
	warehouse *warehouse.Service
	logger    *logger.Logger
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(svc *warehouse.Service, log *logger.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		warehouse: svc,
		logger:    log,
	}
}

// GetMap returns the floor grid
// GET /api/warehouse/map
func (h *WarehouseHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	grid, err := h.warehouse.Grid(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load warehouse map")
		respondError(w, http.StatusInternalServerError, "failed to load warehouse map")
		return
	}

	respondJSON(w, http.StatusOK, grid)
}

// ListReceipts returns recent goods receipts
// GET /api/receipts?limit=50
func (h *WarehouseHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, warehouse.RecentReceiptsLimit, warehouse.RecentReceiptsLimit)

	receipts, err := h.warehouse.RecentReceipts(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list receipts")
		respondError(w, http.StatusInternalServerError, "failed to list receipts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"receipts": receipts,
		"count":    len(receipts),
	})
}

// CreateReceipt records an inbound delivery
// POST /api/receipts
func (h *WarehouseHandler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	var in warehouse.ReceiptInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.warehouse.RecordReceipt(r.Context(), in)
	switch {
	case errors.Is(err, warehouse.ErrInvalidReceipt):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to record receipt")
		respondError(w, http.StatusInternalServerError, "failed to record receipt")
		return
	}

	respondJSON(w, http.StatusCreated, receipt)
}
