package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/warehouse/internal/contracts"
	"github.com/wonny/warehouse/pkg/redis"
)

var (
	// ErrInvalidReport is returned when robot_id or timestamp is missing
	ErrInvalidReport = errors.New("robot_id and timestamp required")

	// ErrRateLimited is returned when a robot reports too often
	ErrRateLimited = errors.New("robot report rate exceeded")
)

// Store persists one report atomically
type Store interface {
	SaveReport(ctx context.Context, robot contracts.Robot, events []contracts.ScanEvent) error
}

// Publisher pushes committed robot state to live dashboards
type Publisher interface {
	PublishRobot(robot contracts.Robot)
}

// Limiter is a shared rate limiter
type Limiter interface {
	Allow(ctx context.Context, cfg redis.RateLimitConfig) (bool, int, error)
}

// IngestResult reports a stored telemetry report
type IngestResult struct {
	RobotID string `json:"robot_id"`
	Events  int    `json:"events"`
}

// Service validates robot reports and stores them
// ⭐ SSOT: the only producer of scan events
type Service struct {
	store     Store
	publisher Publisher
	limiter   Limiter
	limit     int
	window    time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates a service
func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		log:   log.With().Str("component", "telemetry.service").Logger(),
	}
}

// WithPublisher enables the live feed
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// WithRateLimit caps reports per robot per window
func (s *Service) WithRateLimit(l Limiter, limit int, window time.Duration) *Service {
	s.limiter = l
	s.limit = limit
	s.window = window
	return s
}

// Ingest upserts the robot and appends one scan event per scan result in one transaction
func (s *Service) Ingest(ctx context.Context, report RobotReport) (*IngestResult, error) {
	robotID := strings.TrimSpace(report.RobotID)
	if robotID == "" || strings.TrimSpace(report.Timestamp) == "" {
		return nil, ErrInvalidReport
	}

	if s.limiter != nil {
		allowed, _, err := s.limiter.Allow(ctx, redis.TelemetryRateLimit(robotID, s.limit, s.window))
		if err != nil {
			// limiter outage must not block ingestion
			s.log.Warn().Err(err).Str("robot_id", robotID).Msg("rate limiter unavailable")
		} else if !allowed {
			return nil, ErrRateLimited
		}
	}

	zone, row, shelf := report.place()
	receivedAt := s.now()

	robot := contracts.Robot{
		ID:             robotID,
		Status:         RobotStatusAlive,
		BatteryLevel:   report.BatteryLevel,
		Zone:           zone,
		Row:            row,
		Shelf:          shelf,
		NextCheckpoint: report.NextCheckpoint,
		LastSeenAt:     receivedAt,
	}
	if ts, err := time.Parse(time.RFC3339, report.Timestamp); err == nil {
		robot.LastSeenAt = ts
	}

	events := make([]contracts.ScanEvent, 0, len(report.ScanResults))
	for _, scan := range report.ScanResults {
		events = append(events, contracts.ScanEvent{
			RobotID:     robotID,
			ProductID:   scan.resolvedProductID(),
			Quantity:    scan.rawQuantity(),
			Zone:        zone,
			RowNumber:   row,
			ShelfNumber: shelf,
			Status:      scan.status(),
			ScannedAt:   report.Timestamp,
			ReceivedAt:  receivedAt,
		})
	}

	if err := s.store.SaveReport(ctx, robot, events); err != nil {
		return nil, fmt.Errorf("save robot report: %w", err)
	}

	if s.publisher != nil {
		s.publisher.PublishRobot(robot)
	}

	s.log.Debug().Str("robot_id", robotID).Int("events", len(events)).Msg("robot report stored")

	return &IngestResult{RobotID: robotID, Events: len(events)}, nil
}
