package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/warehouse/internal/auth"
	"github.com/wonny/warehouse/internal/contracts"
	"github.com/wonny/warehouse/internal/warehouse"
	"github.com/wonny/warehouse/pkg/redis"
)

// Panel sizes
const (
	RecentPredictions = 20
	RecentReports     = 20
)

// Layout names the role-specific dashboard
type Layout string

const (
	LayoutAdmin     Layout = "admin"
	LayoutWarehouse Layout = "warehouse"
	LayoutLogist    Layout = "logist"
	LayoutReceiver  Layout = "receiver"
	LayoutUser      Layout = "user"
)

// View is everything one role sees on its dashboard.
// Panels a role does not get are omitted.
type View struct {
	Layout      Layout                     `json:"layout"`
	Login       string                     `json:"login"`
	Role        contracts.Role             `json:"role"`
	Accounts    []contracts.User           `json:"accounts,omitempty"`
	Grid        *warehouse.Grid            `json:"grid,omitempty"`
	Receipts    []contracts.Receipt        `json:"receipts,omitempty"`
	Robots      []contracts.Robot          `json:"robots,omitempty"`
	Predictions []contracts.Prediction     `json:"predictions,omitempty"`
	Reports     []contracts.ForecastReport `json:"reports,omitempty"`
	Stock       *StockSummary              `json:"stock,omitempty"`
}

// AccountLister lists non-admin accounts
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]contracts.User, error)
}

// Floor exposes the warehouse map and receipt log
type Floor interface {
	Grid(ctx context.Context) (*warehouse.Grid, error)
	RecentReceipts(ctx context.Context, limit int) ([]contracts.Receipt, error)
}

// SummaryCache stores the stock summary between reconciliations
type SummaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Deps are the read sides the dashboard draws from
type Deps struct {
	Accounts    AccountLister
	Floor       Floor
	Products    contracts.ProductRepository
	Robots      contracts.RobotRepository
	Predictions contracts.PredictionRepository
	Reports     contracts.ForecastReportRepository
	Cache       SummaryCache // optional
}

// Service assembles role dashboards
type Service struct {
	deps Deps
	log  zerolog.Logger
}

// NewService creates a dashboard service
func NewService(deps Deps, log zerolog.Logger) *Service {
	return &Service{
		deps: deps,
		log:  log.With().Str("component", "dashboard.service").Logger(),
	}
}

// ViewFor builds the dashboard for the caller's role
func (s *Service) ViewFor(ctx context.Context, claims *auth.Claims) (*View, error) {
	view := &View{Login: claims.Login, Role: claims.Role}

	var err error
	switch claims.Role {
	case contracts.RoleAdmin:
		view.Layout = LayoutAdmin
		if view.Accounts, err = s.deps.Accounts.ListAccounts(ctx); err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		if view.Stock, err = s.StockSummary(ctx); err != nil {
			return nil, err
		}

	case contracts.RoleWarehouseChief:
		view.Layout = LayoutWarehouse
		if err = s.fillFloor(ctx, view); err != nil {
			return nil, err
		}
		if view.Robots, err = s.deps.Robots.List(ctx); err != nil {
			return nil, fmt.Errorf("list robots: %w", err)
		}
		if view.Stock, err = s.StockSummary(ctx); err != nil {
			return nil, err
		}

	case contracts.RoleLogist, contracts.RoleSalesManager:
		view.Layout = LayoutLogist
		if view.Receipts, err = s.deps.Floor.RecentReceipts(ctx, warehouse.RecentReceiptsLimit); err != nil {
			return nil, err
		}
		if view.Predictions, err = s.deps.Predictions.ListRecent(ctx, RecentPredictions); err != nil {
			return nil, fmt.Errorf("list predictions: %w", err)
		}
		if view.Reports, err = s.deps.Reports.ListRecent(ctx, RecentReports); err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		if view.Stock, err = s.StockSummary(ctx); err != nil {
			return nil, err
		}

	case contracts.RoleReceiver:
		view.Layout = LayoutReceiver
		if err = s.fillFloor(ctx, view); err != nil {
			return nil, err
		}

	default:
		view.Layout = LayoutUser
	}

	return view, nil
}

func (s *Service) fillFloor(ctx context.Context, view *View) error {
	grid, err := s.deps.Floor.Grid(ctx)
	if err != nil {
		return err
	}
	receipts, err := s.deps.Floor.RecentReceipts(ctx, warehouse.RecentReceiptsLimit)
	if err != nil {
		return err
	}
	view.Grid = grid
	view.Receipts = receipts
	return nil
}

// StockSummary returns the cached summary, rebuilding it from the catalog on a miss.
// Cache failures only cost a database read.
func (s *Service) StockSummary(ctx context.Context) (*StockSummary, error) {
	if s.deps.Cache != nil {
		var cached StockSummary
		hit, err := s.deps.Cache.Get(ctx, redis.StockSummaryKey, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("stock summary cache read failed")
		}
		if hit {
			return &cached, nil
		}
	}

	products, err := s.deps.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	summary := Summarize(products)

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, redis.StockSummaryKey, summary, redis.TTLMedium); err != nil {
			s.log.Warn().Err(err).Msg("stock summary cache write failed")
		}
	}

	return summary, nil
}
