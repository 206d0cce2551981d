package contracts

import (
	"context"
	"errors"
)

// ⭐ SSOT: repository interfaces are defined only here

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique key already exists
	ErrConflict = errors.New("already exists")
)

// ScanEventRepository reads the scan event log
type ScanEventRepository interface {
	// ListAll returns the whole history, unpaginated
	ListAll(ctx context.Context) ([]ScanEvent, error)
	// ListRecent returns up to limit events, newest first
	ListRecent(ctx context.Context, limit int) ([]ScanEvent, error)
}

// ProductRepository manages the catalog and its stock projection
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	// UpdateProjection overwrites quantity and status; found is false when no product has id
	UpdateProjection(ctx context.Context, id string, quantity int64, status StockStatus) (found bool, err error)
	Upsert(ctx context.Context, p Product) error
}

// PredictionRepository stores forecast output
type PredictionRepository interface {
	Save(ctx context.Context, p *Prediction) error
	ListRecent(ctx context.Context, limit int) ([]Prediction, error)
}

// ForecastReportRepository stores narrative forecasts
type ForecastReportRepository interface {
	Save(ctx context.Context, r *ForecastReport) error
	ListRecent(ctx context.Context, limit int) ([]ForecastReport, error)
}

// RobotRepository reads robot state
type RobotRepository interface {
	List(ctx context.Context) ([]Robot, error)
}

// UserRepository manages accounts
type UserRepository interface {
	GetByLogin(ctx context.Context, login string) (*User, error)
	// Create returns ErrConflict when the login is taken
	Create(ctx context.Context, u *User) error
	ListNonAdmin(ctx context.Context) ([]User, error)
}

// WarehouseRepository manages the floor map and goods receipts
type WarehouseRepository interface {
	ListMapCells(ctx context.Context) ([]MapCell, error)
	SaveMapCell(ctx context.Context, c MapCell) error
	ListRecentReceipts(ctx context.Context, limit int) ([]Receipt, error)
	CreateReceipt(ctx context.Context, r *Receipt) error
}
