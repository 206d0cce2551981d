package telemetry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wonny/warehouse/internal/stock"
)

// Defaults applied to absent report fields
const (
	DefaultZone      = "A"
	DefaultRow       = 1
	DefaultShelf     = 1
	DefaultStatus    = "OK"
	UnknownProductID = "UNKNOWN"
	RobotStatusAlive = "active"
)

// RobotReport is the payload robots POST periodically
type RobotReport struct {
	RobotID        string       `json:"robot_id"`
	Timestamp      string       `json:"timestamp"`
	Location       *Location    `json:"location"`
	BatteryLevel   *float64     `json:"battery_level"`
	ScanResults    []ScanResult `json:"scan_results"`
	NextCheckpoint string       `json:"next_checkpoint"`
}

// Location is where the robot was when it scanned.
// Values arrive as strings or numbers depending on the robot firmware.
type Location struct {
	Zone  interface{} `json:"zone"`
	Row   interface{} `json:"row"`
	Shelf interface{} `json:"shelf"`
}

// ScanResult is one product observation inside a report
type ScanResult struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    json.RawMessage `json:"quantity"` // kept verbatim
	Status      string          `json:"status"`
}

// resolvedProductID prefers product_id, then product_name
func (s ScanResult) resolvedProductID() string {
	if id := strings.TrimSpace(s.ProductID); id != "" {
		return id
	}
	if name := strings.TrimSpace(s.ProductName); name != "" {
		return name
	}
	return UnknownProductID
}

// rawQuantity returns the reported JSON value, 0 when absent
func (s ScanResult) rawQuantity() json.RawMessage {
	if len(s.Quantity) == 0 {
		return json.RawMessage("0")
	}
	return s.Quantity
}

func (s ScanResult) status() string {
	if s.Status == "" {
		return DefaultStatus
	}
	return s.Status
}

// place resolves the location with defaults
func (r *RobotReport) place() (zone string, row, shelf int) {
	zone, row, shelf = DefaultZone, DefaultRow, DefaultShelf
	if r.Location == nil {
		return
	}
	if r.Location.Zone != nil {
		if z := strings.TrimSpace(fmt.Sprint(r.Location.Zone)); z != "" {
			zone = z
		}
	}
	if r.Location.Row != nil {
		row = int(stock.CoerceQuantity(r.Location.Row))
	}
	if r.Location.Shelf != nil {
		shelf = int(stock.CoerceQuantity(r.Location.Shelf))
	}
	return
}
