package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/wonny/warehouse/internal/telemetry"
	"github.com/wonny/warehouse/pkg/logger"
)

// RobotKeyHeader carries the shared robot credential
const RobotKeyHeader = "X-Robot-Key"

// TelemetryHandler accepts robot reports
type TelemetryHandler struct {
	telemetry *telemetry.Service
	robotKey  string // empty disables the check
	logger    *logger.Logger
}

// NewTelemetryHandler creates a new telemetry handler
func NewTelemetryHandler(svc *telemetry.Service, robotKey string, log *logger.Logger) *TelemetryHandler {
	return &TelemetryHandler{
		telemetry: svc,
		robotKey:  robotKey,
		logger:    log,
	}
}

// Ingest stores one robot report
// POST /api/robots/data
func (h *TelemetryHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if h.robotKey != "" {
		got := r.Header.Get(RobotKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.robotKey)) != 1 {
			respondError(w, http.StatusUnauthorized, "invalid robot key")
			return
		}
	}

	var report telemetry.RobotReport
	if err := decodeJSON(r, &report); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result, err := h.telemetry.Ingest(r.Context(), report)
	switch {
	case errors.Is(err, telemetry.ErrInvalidReport):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, telemetry.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, err.Error())
		return
	case err != nil:
		h.logger.WithError(err).WithField("robot_id", report.RobotID).Error("Failed to store robot report")
		respondError(w, http.StatusInternalServerError, "failed to store report")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   "ok",
		"robot_id": result.RobotID,
		"events":   result.Events,
	})
}
