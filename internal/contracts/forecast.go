package contracts

import "time"

// PredictionSource tells real provider output apart from local placeholders
type PredictionSource string

const (
	SourceProvider PredictionSource = "provider"
	SourceFallback PredictionSource = "fallback"
)

// Prediction is one per-product restock forecast
// ⭐ SSOT: predictions are append-only history, read most-recent-first
type Prediction struct {
	ID                int64            `json:"id"`
	ProductID         string           `json:"product_id"`
	PredictionDate    time.Time        `json:"prediction_date"`
	DaysUntilStockout *int64           `json:"days_until_stockout"`
	RecommendedOrder  *int64           `json:"recommended_order"`
	ConfidenceScore   *float64         `json:"confidence_score"`
	Source            PredictionSource `json:"source"`
	CreatedAt         time.Time        `json:"created_at"`
}

// ForecastReport is a free-text forecast (narrative mode)
type ForecastReport struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Provider  string    `json:"provider,omitempty"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"created_at"`
}
