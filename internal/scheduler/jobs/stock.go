package jobs

import (
	"context"

	"github.com/wonny/warehouse/internal/stock"
	"github.com/wonny/warehouse/pkg/logger"
)

// StockReconcileJob rebuilds the product projection from the scan log
type StockReconcileJob struct {
	reconciler *stock.Reconciler
	logger     *logger.Logger
}

// NewStockReconcileJob creates a new reconcile job
func NewStockReconcileJob(reconciler *stock.Reconciler, log *logger.Logger) *StockReconcileJob {
	return &StockReconcileJob{
		reconciler: reconciler,
		logger:     log,
	}
}

// Name returns the job name
func (j *StockReconcileJob) Name() string {
	return "stock_reconcile"
}

// Schedule returns the cron schedule (every 10 minutes)
func (j *StockReconcileJob) Schedule() string {
	return "0 */10 * * * *"
}

// Run executes one reconciliation pass
func (j *StockReconcileJob) Run(ctx context.Context) error {
	report, err := j.reconciler.Reconcile(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"products": report.Products,
		"updated":  report.Updated,
		"failed":   report.Failed,
	}).Info("Scheduled stock reconcile completed")

	return nil
}
