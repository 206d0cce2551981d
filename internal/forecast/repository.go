package forecast

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/warehouse/internal/contracts"
)

// Repository stores predictions and narrative reports
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save appends one prediction and fills its ID and CreatedAt
func (r *Repository) Save(ctx context.Context, p *contracts.Prediction) error {
	query := `
		INSERT INTO predictions
			(product_id, prediction_date, days_until_stockout, recommended_order, confidence_score, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		p.ProductID, p.PredictionDate, p.DaysUntilStockout,
		p.RecommendedOrder, p.ConfidenceScore, string(p.Source),
	).Scan(&p.ID, &p.CreatedAt)
}

// ListRecent returns predictions newest first
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]contracts.Prediction, error) {
	query := `
		SELECT id, product_id, prediction_date, days_until_stockout, recommended_order,
			   confidence_score, source, created_at
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	preds := []contracts.Prediction{}
	for rows.Next() {
		var p contracts.Prediction
		if err := rows.Scan(
			&p.ID, &p.ProductID, &p.PredictionDate, &p.DaysUntilStockout,
			&p.RecommendedOrder, &p.ConfidenceScore, &p.Source, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

// ReportRepository stores narrative forecast reports
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a report repository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Save appends one report and fills its ID and CreatedAt
func (r *ReportRepository) Save(ctx context.Context, rep *contracts.ForecastReport) error {
	query := `
		INSERT INTO forecast_reports (text, provider, fallback)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, rep.Text, rep.Provider, rep.Fallback).Scan(&rep.ID, &rep.CreatedAt)
}

// ListRecent returns reports newest first
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]contracts.ForecastReport, error) {
	query := `
		SELECT id, text, provider, fallback, created_at
		FROM forecast_reports
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []contracts.ForecastReport{}
	for rows.Next() {
		var rep contracts.ForecastReport
		if err := rows.Scan(&rep.ID, &rep.Text, &rep.Provider, &rep.Fallback, &rep.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
