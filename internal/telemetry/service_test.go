package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/warehouse/internal/contracts"
	"github.com/wonny/warehouse/internal/stock"
	"github.com/wonny/warehouse/pkg/redis"
)

type fakeStore struct {
	robot  *contracts.Robot
	events []contracts.ScanEvent
	err    error
}

func (f *fakeStore) SaveReport(ctx context.Context, robot contracts.Robot, events []contracts.ScanEvent) error {
	if f.err != nil {
		return f.err
	}
	f.robot = &robot
	f.events = events
	return nil
}

type fakePublisher struct {
	published []contracts.Robot
}

func (f *fakePublisher) PublishRobot(robot contracts.Robot) {
	f.published = append(f.published, robot)
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) Allow(ctx context.Context, cfg redis.RateLimitConfig) (bool, int, error) {
	f.keys = append(f.keys, cfg.Key)
	return f.allowed, 0, f.err
}

func decodeReport(t *testing.T, payload string) RobotReport {
	t.Helper()
	var r RobotReport
	require.NoError(t, json.Unmarshal([]byte(payload), &r))
	return r
}

func TestIngest_FullReport(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewService(store, zerolog.Nop()).WithPublisher(pub)

	report := decodeReport(t, `{
		"robot_id": "R12",
		"timestamp": "2026-10-19T08:15:00Z",
		"location": {"zone": "C", "row": 4, "shelf": "2"},
		"battery_level": 64.5,
		"scan_results": [
			{"product_id": "P1", "quantity": 120, "status": "OK"},
			{"product_name": "Router", "quantity": "7.5"},
			{"quantity": null, "status": "DAMAGED"},
			{}
		],
		"next_checkpoint": "C-5"
	}`)

	result, err := svc.Ingest(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "R12", result.RobotID)
	assert.Equal(t, 4, result.Events)

	require.NotNil(t, store.robot)
	assert.Equal(t, RobotStatusAlive, store.robot.Status)
	assert.Equal(t, "C", store.robot.Zone)
	assert.Equal(t, 4, store.robot.Row)
	assert.Equal(t, 2, store.robot.Shelf)
	assert.Equal(t, 64.5, *store.robot.BatteryLevel)
	assert.Equal(t, "C-5", store.robot.NextCheckpoint)
	assert.Equal(t, time.Date(2026, 10, 19, 8, 15, 0, 0, time.UTC), store.robot.LastSeenAt.UTC())

	require.Len(t, store.events, 4)
	assert.Equal(t, "P1", store.events[0].ProductID)
	assert.Equal(t, "Router", store.events[1].ProductID)
	assert.Equal(t, UnknownProductID, store.events[2].ProductID)
	assert.Equal(t, "DAMAGED", store.events[2].Status)
	assert.Equal(t, DefaultStatus, store.events[3].Status)

	// raw quantities survive untouched and coerce as expected
	assert.Equal(t, int64(120), stock.CoerceQuantity(decodeRaw(t, store.events[0].Quantity)))
	assert.Equal(t, "7.5", decodeRaw(t, store.events[1].Quantity))
	assert.Equal(t, int64(0), stock.CoerceQuantity(decodeRaw(t, store.events[3].Quantity)))

	for _, e := range store.events {
		assert.Equal(t, "2026-10-19T08:15:00Z", e.ScannedAt)
		assert.Equal(t, "C", e.Zone)
	}

	require.Len(t, pub.published, 1)
	assert.Equal(t, "R12", pub.published[0].ID)
}

func decodeRaw(t *testing.T, v interface{}) interface{} {
	t.Helper()
	raw, ok := v.(json.RawMessage)
	require.True(t, ok)
	var out interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestIngest_Defaults(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, zerolog.Nop())
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.Ingest(context.Background(), RobotReport{RobotID: "R1", Timestamp: "not-a-timestamp"})
	require.NoError(t, err)

	assert.Equal(t, DefaultZone, store.robot.Zone)
	assert.Equal(t, DefaultRow, store.robot.Row)
	assert.Equal(t, DefaultShelf, store.robot.Shelf)
	assert.Nil(t, store.robot.BatteryLevel)
	assert.Equal(t, now, store.robot.LastSeenAt)
	assert.Empty(t, store.events)
}

func TestIngest_Validation(t *testing.T) {
	tests := []struct {
		name   string
		report RobotReport
	}{
		{"missing robot id", RobotReport{Timestamp: "2026-10-19T08:15:00Z"}},
		{"blank robot id", RobotReport{RobotID: "  ", Timestamp: "2026-10-19T08:15:00Z"}},
		{"missing timestamp", RobotReport{RobotID: "R1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			_, err := NewService(store, zerolog.Nop()).Ingest(context.Background(), tt.report)
			assert.ErrorIs(t, err, ErrInvalidReport)
			assert.Nil(t, store.robot)
		})
	}
}

func TestIngest_RateLimited(t *testing.T) {
	store := &fakeStore{}
	limiter := &fakeLimiter{allowed: false}
	svc := NewService(store, zerolog.Nop()).WithRateLimit(limiter, 120, time.Minute)

	_, err := svc.Ingest(context.Background(), RobotReport{RobotID: "R7", Timestamp: "t"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Nil(t, store.robot)
	assert.Equal(t, []string{"telemetry:R7"}, limiter.keys)
}

func TestIngest_LimiterOutageAllows(t *testing.T) {
	store := &fakeStore{}
	limiter := &fakeLimiter{err: errors.New("redis down")}
	svc := NewService(store, zerolog.Nop()).WithRateLimit(limiter, 120, time.Minute)

	_, err := svc.Ingest(context.Background(), RobotReport{RobotID: "R7", Timestamp: "t"})
	require.NoError(t, err)
	assert.NotNil(t, store.robot)
}

func TestIngest_StoreFailureDoesNotPublish(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(&fakeStore{err: errors.New("tx aborted")}, zerolog.Nop()).WithPublisher(pub)

	_, err := svc.Ingest(context.Background(), RobotReport{RobotID: "R1", Timestamp: "t"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidReport)
	assert.Empty(t, pub.published)
}
