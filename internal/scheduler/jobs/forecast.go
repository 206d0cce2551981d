package jobs

import (
	"context"

	"github.com/wonny/warehouse/internal/forecast"
	"github.com/wonny/warehouse/pkg/logger"
)

// ForecastJob runs the forecast orchestrator daily
// Schedule: 07:00, before the morning planning round
type ForecastJob struct {
	orchestrator *forecast.Orchestrator
	logger       *logger.Logger
}

// NewForecastJob creates a new forecast job
func NewForecastJob(orchestrator *forecast.Orchestrator, log *logger.Logger) *ForecastJob {
	return &ForecastJob{
		orchestrator: orchestrator,
		logger:       log,
	}
}

// Name returns the job name
func (j *ForecastJob) Name() string {
	return "forecast_run"
}

// Schedule returns the cron schedule (07:00 daily)
func (j *ForecastJob) Schedule() string {
	return "0 0 7 * * *"
}

// Run executes one forecast run. Provider trouble ends in a fallback, not an error.
func (j *ForecastJob) Run(ctx context.Context) error {
	out, err := j.orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":   out.RunID.String(),
		"state":    string(out.State),
		"written":  out.Written,
		"provider": out.Provider,
	}).Info("Scheduled forecast completed")

	return nil
}
