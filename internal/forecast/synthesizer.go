package forecast

import (
	"github.com/wonny/warehouse/internal/contracts"
)

// Placeholder estimate used when no usable provider answer exists
const (
	FallbackDaysUntilStockout int64   = 14
	FallbackRecommendedOrder  int64   = 50
	FallbackConfidence        float64 = 0.75
	DefaultFallbackLimit              = 5
)

// Synthesize picks up to limit distinct product ids in window order and
// gives each the fixed placeholder estimate.
func Synthesize(window []contracts.ScanEvent, limit int) []contracts.Prediction {
	if limit <= 0 {
		limit = DefaultFallbackLimit
	}

	seen := make(map[string]bool)
	preds := make([]contracts.Prediction, 0, limit)
	for _, e := range window {
		if len(preds) == limit {
			break
		}
		if e.ProductID == "" || seen[e.ProductID] {
			continue
		}
		seen[e.ProductID] = true

		days := FallbackDaysUntilStockout
		order := FallbackRecommendedOrder
		confidence := FallbackConfidence
		preds = append(preds, contracts.Prediction{
			ProductID:         e.ProductID,
			DaysUntilStockout: &days,
			RecommendedOrder:  &order,
			ConfidenceScore:   &confidence,
			Source:            contracts.SourceFallback,
		})
	}
	return preds
}
