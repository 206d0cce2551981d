package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/warehouse/internal/contracts"
	"github.com/wonny/warehouse/pkg/database"
)

// Repository writes robot reports and reads robot state
type Repository struct {
	db *database.DB
}

// NewRepository creates a repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// SaveReport upserts the robot and appends its scan events in one transaction
func (r *Repository) SaveReport(ctx context.Context, robot contracts.Robot, events []contracts.ScanEvent) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		upsert := `
			INSERT INTO robots
				(id, status, battery_level, zone, row_number, shelf_number, next_checkpoint, last_seen_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				status = EXCLUDED.status,
				battery_level = EXCLUDED.battery_level,
				zone = EXCLUDED.zone,
				row_number = EXCLUDED.row_number,
				shelf_number = EXCLUDED.shelf_number,
				next_checkpoint = EXCLUDED.next_checkpoint,
				last_seen_at = EXCLUDED.last_seen_at`

		if _, err := tx.Exec(ctx, upsert,
			robot.ID, robot.Status, robot.BatteryLevel, robot.Zone,
			robot.Row, robot.Shelf, robot.NextCheckpoint, robot.LastSeenAt,
		); err != nil {
			return fmt.Errorf("upsert robot: %w", err)
		}

		if len(events) == 0 {
			return nil
		}

		insert := `
			INSERT INTO scan_events
				(robot_id, product_id, quantity, zone, row_number, shelf_number, status, scanned_at, received_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

		batch := &pgx.Batch{}
		for _, e := range events {
			raw, err := json.Marshal(e.Quantity)
			if err != nil {
				return fmt.Errorf("encode quantity: %w", err)
			}
			batch.Queue(insert, e.RobotID, e.ProductID, raw, e.Zone,
				e.RowNumber, e.ShelfNumber, e.Status, e.ScannedAt, e.ReceivedAt)
		}

		br := tx.SendBatch(ctx, batch)
		for range events {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert scan event: %w", err)
			}
		}
		return br.Close()
	})
}

// List returns every robot ordered by id
func (r *Repository) List(ctx context.Context) ([]contracts.Robot, error) {
	query := `
		SELECT id, status, battery_level, zone, row_number, shelf_number, next_checkpoint, last_seen_at
		FROM robots
		ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	robots := []contracts.Robot{}
	for rows.Next() {
		var rb contracts.Robot
		if err := rows.Scan(&rb.ID, &rb.Status, &rb.BatteryLevel, &rb.Zone,
			&rb.Row, &rb.Shelf, &rb.NextCheckpoint, &rb.LastSeenAt); err != nil {
			return nil, err
		}
		robots = append(robots, rb)
	}
	return robots, rows.Err()
}
