package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/warehouse/internal/contracts"
)

// RecentReceiptsLimit is how many receipts the dashboards show
const RecentReceiptsLimit = 50

// ErrInvalidReceipt is returned for receipts missing a name or a positive quantity
var ErrInvalidReceipt = errors.New("invalid receipt")

// Grid is the floor map with its derived dimensions
type Grid struct {
	Rows  int                 `json:"rows"`
	Cols  int                 `json:"cols"`
	Cells []contracts.MapCell `json:"cells"`
}

// ReceiptInput is a receipt as entered by a receiver
type ReceiptInput struct {
	ProductName string     `json:"product_name"`
	Quantity    int64      `json:"quantity"`
	Supplier    string     `json:"supplier"`
	Notes       string     `json:"notes"`
	ReceiptDate *time.Time `json:"receipt_date,omitempty"`
}

// Service exposes the floor map and goods receipts
type Service struct {
	repo contracts.WarehouseRepository
	log  zerolog.Logger
}

// NewService creates a warehouse service
func NewService(repo contracts.WarehouseRepository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "warehouse.service").Logger(),
	}
}

// Grid loads all map cells. Dimensions are max row/col + 1, or 1x1 for an empty floor.
func (s *Service) Grid(ctx context.Context) (*Grid, error) {
	cells, err := s.repo.ListMapCells(ctx)
	if err != nil {
		return nil, fmt.Errorf("list map cells: %w", err)
	}
	return BuildGrid(cells), nil
}

// BuildGrid derives grid dimensions from the cells present
func BuildGrid(cells []contracts.MapCell) *Grid {
	g := &Grid{Rows: 1, Cols: 1, Cells: cells}
	if len(cells) == 0 {
		g.Cells = []contracts.MapCell{}
		return g
	}

	maxRow, maxCol := 0, 0
	for _, c := range cells {
		if c.Row > maxRow {
			maxRow = c.Row
		}
		if c.Col > maxCol {
			maxCol = c.Col
		}
	}
	g.Rows = maxRow + 1
	g.Cols = maxCol + 1
	return g
}

// RecentReceipts returns the latest receipts, newest first
func (s *Service) RecentReceipts(ctx context.Context, limit int) ([]contracts.Receipt, error) {
	if limit <= 0 || limit > RecentReceiptsLimit {
		limit = RecentReceiptsLimit
	}
	receipts, err := s.repo.ListRecentReceipts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, nil
}

// RecordReceipt validates and stores one delivery
func (s *Service) RecordReceipt(ctx context.Context, in ReceiptInput) (*contracts.Receipt, error) {
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return nil, fmt.Errorf("%w: product_name is required", ErrInvalidReceipt)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidReceipt)
	}

	rc := &contracts.Receipt{
		ProductName: name,
		Quantity:    in.Quantity,
		Supplier:    strings.TrimSpace(in.Supplier),
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		rc.Notes = &notes
	}
	if in.ReceiptDate != nil {
		rc.ReceiptDate = *in.ReceiptDate
	}

	if err := s.repo.CreateReceipt(ctx, rc); err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}

	s.log.Info().
		Int64("receipt_id", rc.ID).
		Str("product", rc.ProductName).
		Int64("quantity", rc.Quantity).
		Msg("receipt recorded")

	return rc, nil
}
