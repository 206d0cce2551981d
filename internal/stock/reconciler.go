package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/warehouse/internal/contracts"
	"github.com/wonny/warehouse/pkg/redis"
)

// Invalidator drops a cached entry
type Invalidator interface {
	Delete(ctx context.Context, key string) error
}

// ReconcileReport summarizes one reconciliation pass
type ReconcileReport struct {
	Products int           `json:"products"` // distinct product ids in the event log
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"` // no matching catalog entry
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Reconciler recomputes the Product quantity/status projection from the full event log
// ⭐ SSOT: the only writer of Product.Quantity and Product.Status
type Reconciler struct {
	events     contracts.ScanEventRepository
	products   contracts.ProductRepository
	thresholds Thresholds
	cache      Invalidator
	log        zerolog.Logger
}

// NewReconciler creates a reconciler
func NewReconciler(events contracts.ScanEventRepository, products contracts.ProductRepository, thresholds Thresholds, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		events:     events,
		products:   products,
		thresholds: thresholds,
		log:        log.With().Str("component", "stock.reconciler").Logger(),
	}
}

// WithCache invalidates the dashboard stock summary after each pass
func (r *Reconciler) WithCache(cache Invalidator) *Reconciler {
	r.cache = cache
	return r
}

// Thresholds returns the active classification thresholds
func (r *Reconciler) Thresholds() Thresholds {
	return r.thresholds
}

// Reconcile reads every scan event and rewrites the projection of each product seen.
// Per-product write failures are logged and counted; only a failed read of the log is returned.
func (r *Reconciler) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	start := time.Now()

	events, err := r.events.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read scan events: %w", err)
	}

	totals := Aggregate(events)
	report := &ReconcileReport{Products: len(totals)}

	// deterministic write order
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		total := totals[id]
		status := r.thresholds.Classify(total)

		found, err := r.products.UpdateProjection(ctx, id, total, status)
		switch {
		case err != nil:
			report.Failed++
			r.log.Warn().Err(err).Str("product_id", id).Msg("projection write failed")
		case !found:
			report.Skipped++
			r.log.Debug().Str("product_id", id).Msg("no catalog entry, skipped")
		default:
			report.Updated++
		}
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, redis.StockSummaryKey); err != nil {
			r.log.Warn().Err(err).Msg("stock summary invalidation failed")
		}
	}

	report.Duration = time.Since(start)

	r.log.Info().
		Int("events", len(events)).
		Int("products", report.Products).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("stock reconciliation completed")

	return report, nil
}
