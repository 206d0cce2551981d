package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/warehouse/internal/contracts"
	"github.com/wonny/warehouse/internal/forecast"
	"github.com/wonny/warehouse/pkg/logger"
)

// List bounds for forecast history
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// ForecastHandler runs forecasts and lists their history
type ForecastHandler struct {
	orchestrator *forecast.Orchestrator
	narrator     *forecast.Narrator
	predictions  contracts.PredictionRepository
	reports      contracts.ForecastReportRepository
	logger       *logger.Logger
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(
	orchestrator *forecast.Orchestrator,
	narrator *forecast.Narrator,
	predictions contracts.PredictionRepository,
	reports contracts.ForecastReportRepository,
	log *logger.Logger,
) *ForecastHandler {
	return &ForecastHandler{
		orchestrator: orchestrator,
		narrator:     narrator,
		predictions:  predictions,
		reports:      reports,
		logger:       log,
	}
}

// Generate runs the forecast pipeline synchronously.
// Provider failures end in a fallback outcome, never an error status.
// POST /api/forecast/generate
func (h *ForecastHandler) Generate(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.orchestrator.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Forecast run failed")
		respondError(w, http.StatusInternalServerError, "forecast run failed")
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

// ListPredictions returns stored predictions, newest first
// GET /api/forecast/predictions?limit=20
func (h *ForecastHandler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, defaultHistoryLimit, maxHistoryLimit)

	preds, err := h.predictions.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list predictions")
		respondError(w, http.StatusInternalServerError, "failed to list predictions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": preds,
		"count":       len(preds),
	})
}

// Report writes a narrative forecast from recent receipts
// POST /api/forecast/report
func (h *ForecastHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.narrator.Generate(r.Context())
	switch {
	case errors.Is(err, forecast.ErrNoData):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		h.logger.WithError(err).Error("Forecast report failed")
		respondError(w, http.StatusInternalServerError, "forecast report failed")
		return
	}

	respondJSON(w, http.StatusCreated, report)
}

// ListReports returns narrative reports, newest first
// GET /api/forecast/reports?limit=20
func (h *ForecastHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, defaultHistoryLimit, maxHistoryLimit)

	reports, err := h.reports.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list forecast reports")
		respondError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}
