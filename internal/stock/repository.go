package stock

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/warehouse/internal/contracts"
)

// Repository reads the scan event log and manages the product catalog
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const scanEventColumns = `id, robot_id, product_id, quantity, zone, row_number, shelf_number, status, scanned_at, received_at`

// ListAll returns every scan event, oldest first
func (r *Repository) ListAll(ctx context.Context) ([]contracts.ScanEvent, error) {
	query := `SELECT ` + scanEventColumns + ` FROM scan_events ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectScanEvents(rows)
}

// ListRecent returns up to limit events, newest first
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]contracts.ScanEvent, error) {
	query := `SELECT ` + scanEventColumns + `
		FROM scan_events
		ORDER BY received_at DESC, id DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return collectScanEvents(rows)
}

func collectScanEvents(rows pgx.Rows) ([]contracts.ScanEvent, error) {
	defer rows.Close()

	var events []contracts.ScanEvent
	for rows.Next() {
		var e contracts.ScanEvent
		if err := rows.Scan(
			&e.ID, &e.RobotID, &e.ProductID, &e.Quantity, &e.Zone,
			&e.RowNumber, &e.ShelfNumber, &e.Status, &e.ScannedAt, &e.ReceivedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// List returns the catalog ordered by id
func (r *Repository) List(ctx context.Context) ([]contracts.Product, error) {
	query := `SELECT id, name, quantity, status, updated_at FROM products ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []contracts.Product
	for rows.Next() {
		var p contracts.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.Status, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProjection overwrites the cached quantity and status of one product
func (r *Repository) UpdateProjection(ctx context.Context, id string, quantity int64, status contracts.StockStatus) (bool, error) {
	query := `
		UPDATE products
		SET quantity = $2, status = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, quantity, string(status), time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Upsert inserts a catalog entry or renames an existing one.
// The projection columns are left to the reconciler.
func (r *Repository) Upsert(ctx context.Context, p contracts.Product) error {
	query := `
		INSERT INTO products (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	_, err := r.pool.Exec(ctx, query, p.ID, p.Name)
	return err
}
