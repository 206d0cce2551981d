package contracts

import "time"

// ScanEvent is one product observation reported by a robot.
// Quantity holds the raw reported JSON value; it is coerced only when aggregated.
// ⭐ SSOT: scan events are append-only and never mutated after insert
type ScanEvent struct {
	ID          int64       `json:"id"`
	RobotID     string      `json:"robot_id"`
	ProductID   string      `json:"product_id"`
	Quantity    interface{} `json:"quantity"`
	Zone        string      `json:"zone"`
	RowNumber   int         `json:"row_number"`
	ShelfNumber int         `json:"shelf_number"`
	Status      string      `json:"status"`     // device label, not StockStatus
	ScannedAt   string      `json:"scanned_at"` // ISO 8601 as reported
	ReceivedAt  time.Time   `json:"received_at"`
}

// StockStatus is the derived tri-level classification of a product total
type StockStatus string

const (
	StockOK       StockStatus = "OK"
	StockLow      StockStatus = "LOW_STOCK"
	StockCritical StockStatus = "CRITICAL"
)

// Product is a catalog entry.
// Quantity and Status are a projection of the scan event log, owned by the reconciler.
type Product struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Quantity  int64       `json:"quantity"`
	Status    StockStatus `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// DisplayName returns Name, or ID when the catalog has no name
func (p *Product) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Robot is the last reported state of a warehouse robot
type Robot struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	BatteryLevel   *float64  `json:"battery_level"`
	Zone           string    `json:"zone"`
	Row            int       `json:"row"`
	Shelf          int       `json:"shelf"`
	NextCheckpoint string    `json:"next_checkpoint"`
	LastSeenAt     time.Time `json:"last_seen_at"`
}
