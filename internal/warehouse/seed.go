package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/warehouse/internal/contracts"
)

// Demo floor dimensions
const (
	SeedRows = 6
	SeedCols = 8
)

type seedCell struct {
	cellType contracts.CellType
	info     string
}

var seedLayout = map[[2]int]seedCell{
	{1, 2}: {contracts.CellRobot, "Charge 87%"},
	{3, 5}: {contracts.CellRobot, "Working"},
	{4, 1}: {contracts.CellRobot, "Idle"},
	{2, 3}: {contracts.CellShelf, "Rack A"},
	{2, 4}: {contracts.CellShelf, "Rack A"},
	{4, 4}: {contracts.CellShelf, "Rack A"},
	{0, 7}: {contracts.CellObstacle, "Wall"},
}

var seedReceipts = []struct {
	name     string
	quantity int64
	supplier string
}{
	{"Wi-Fi router", 25, "Technopark LLC"},
	{"UTP 5e cable", 500, "Cable Company"},
	{"Router", 15, "Set LLC"},
	{"Patch panel 24p", 10, "Technopark LLC"},
	{"Cross panel", 8, "Cable Company"},
}

// SeedResult reports what Seed inserted
type SeedResult struct {
	Cells    int `json:"cells"`
	Receipts int `json:"receipts"`
}

// SeedCells returns the demo floor layout
func SeedCells() []contracts.MapCell {
	cells := make([]contracts.MapCell, 0, SeedRows*SeedCols)
	for r := 0; r < SeedRows; r++ {
		for c := 0; c < SeedCols; c++ {
			cell := contracts.MapCell{Row: r, Col: c, CellType: contracts.CellEmpty}
			if sc, ok := seedLayout[[2]int{r, c}]; ok {
				cell.CellType = sc.cellType
				info := sc.info
				cell.Info = &info
				if sc.cellType == contracts.CellRobot {
					id := fmt.Sprintf("R%d", r*10+c)
					cell.RobotID = &id
				}
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// Seed fills an empty floor map and an empty receipt log with demo data.
// Tables that already hold rows are left alone.
func (s *Service) Seed(ctx context.Context, now time.Time) (*SeedResult, error) {
	result := &SeedResult{}

	cells, err := s.repo.ListMapCells(ctx)
	if err != nil {
		return nil, fmt.Errorf("list map cells: %w", err)
	}
	if len(cells) == 0 {
		for _, c := range SeedCells() {
			if err := s.repo.SaveMapCell(ctx, c); err != nil {
				return nil, fmt.Errorf("seed cell (%d,%d): %w", c.Row, c.Col, err)
			}
			result.Cells++
		}
	}

	receipts, err := s.repo.ListRecentReceipts(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	if len(receipts) == 0 {
		for i, sr := range seedReceipts {
			rc := &contracts.Receipt{
				ProductName: sr.name,
				Quantity:    sr.quantity,
				Supplier:    sr.supplier,
				ReceiptDate: now.AddDate(0, 0, -i),
			}
			if err := s.repo.CreateReceipt(ctx, rc); err != nil {
				return nil, fmt.Errorf("seed receipt %q: %w", sr.name, err)
			}
			result.Receipts++
		}
	}

	s.log.Info().Int("cells", result.Cells).Int("receipts", result.Receipts).Msg("warehouse seeded")
	return result, nil
}
