package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/warehouse/internal/contracts"
)

// Repository stores the floor map and goods receipts
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListMapCells returns every cell ordered by row then column
func (r *Repository) ListMapCells(ctx context.Context) ([]contracts.MapCell, error) {
	query := `
		SELECT id, row_index, col_index, cell_type, robot_id, info
		FROM warehouse_map_cells
		ORDER BY row_index, col_index`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cells := []contracts.MapCell{}
	for rows.Next() {
		var c contracts.MapCell
		if err := rows.Scan(&c.ID, &c.Row, &c.Col, &c.CellType, &c.RobotID, &c.Info); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

// SaveMapCell inserts or replaces the cell at (row, col)
func (r *Repository) SaveMapCell(ctx context.Context, c contracts.MapCell) error {
	query := `
		INSERT INTO warehouse_map_cells (row_index, col_index, cell_type, robot_id, info)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (row_index, col_index) DO UPDATE SET
			cell_type = EXCLUDED.cell_type,
			robot_id  = EXCLUDED.robot_id,
			info      = EXCLUDED.info`

	_, err := r.pool.Exec(ctx, query, c.Row, c.Col, string(c.CellType), c.RobotID, c.Info)
	return err
}

// ListRecentReceipts returns receipts newest first
func (r *Repository) ListRecentReceipts(ctx context.Context, limit int) ([]contracts.Receipt, error) {
	query := `
		SELECT id, product_name, quantity, supplier, notes, receipt_date
		FROM receipts
		ORDER BY receipt_date DESC, id DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := []contracts.Receipt{}
	for rows.Next() {
		var rc contracts.Receipt
		if err := rows.Scan(&rc.ID, &rc.ProductName, &rc.Quantity, &rc.Supplier, &rc.Notes, &rc.ReceiptDate); err != nil {
			return nil, err
		}
		receipts = append(receipts, rc)
	}
	return receipts, rows.Err()
}

// CreateReceipt inserts a receipt and fills its ID.
// A zero ReceiptDate takes the database clock.
func (r *Repository) CreateReceipt(ctx context.Context, rc *contracts.Receipt) error {
	query := `
		INSERT INTO receipts (product_name, quantity, supplier, notes, receipt_date)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		RETURNING id, receipt_date`

	var date interface{}
	if !rc.ReceiptDate.IsZero() {
		date = rc.ReceiptDate
	}

	return r.pool.QueryRow(ctx, query, rc.ProductName, rc.Quantity, rc.Supplier, rc.Notes, date).
		Scan(&rc.ID, &rc.ReceiptDate)
}
