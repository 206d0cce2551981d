package contracts

import "time"

// CellType is what occupies a warehouse map cell
type CellType string

const (
	CellEmpty    CellType = "empty"
	CellRobot    CellType = "robot"
	CellShelf    CellType = "shelf"
	CellObstacle CellType = "obstacle"
)

// MapCell is one cell of the warehouse floor grid
type MapCell struct {
	ID       int64    `json:"id"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	CellType CellType `json:"cell_type"`
	RobotID  *string  `json:"robot_id,omitempty"`
	Info     *string  `json:"info,omitempty"`
}

// Receipt is an inbound delivery of goods
type Receipt struct {
	ID          int64     `json:"id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	Supplier    string    `json:"supplier"`
	Notes       *string   `json:"notes,omitempty"`
	ReceiptDate time.Time `json:"receipt_date"`
}
