package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/warehouse/pkg/logger"
)

type countingJob struct {
	name  string
	fails int // fail this many times before succeeding
	runs  int
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return "0 */10 * * * *" }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs++
	if j.runs <= j.fails {
		return errors.New("boom")
	}
	return nil
}

func TestScheduler_AddJob_Duplicate(t *testing.T) {
	s := New(logger.Nop(), DefaultOptions())

	require.NoError(t, s.AddJob(&countingJob{name: "stock_reconcile"}))
	assert.Error(t, s.AddJob(&countingJob{name: "stock_reconcile"}))
	assert.Equal(t, []string{"stock_reconcile"}, s.GetAllJobs())
}

func TestScheduler_AddJob_BadSchedule(t *testing.T) {
	s := New(logger.Nop(), DefaultOptions())

	err := s.AddJob(badScheduleJob{})
	assert.Error(t, err)
	assert.Empty(t, s.GetAllJobs())
}

type badScheduleJob struct{}

func (badScheduleJob) Name() string                  { return "bad" }
func (badScheduleJob) Schedule() string              { return "every tuesday" }
func (badScheduleJob) Run(ctx context.Context) error { return nil }

func TestScheduler_RunJob_NoRetryByDefault(t *testing.T) {
	s := New(logger.Nop(), DefaultOptions())
	job := &countingJob{name: "forecast_run", fails: 1}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "forecast_run")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "boom", result.Error)
	assert.Equal(t, 1, job.runs)

	stats := s.GetJobStats()["forecast_run"]
	assert.Equal(t, 1, stats.FailureCount)
	assert.NotNil(t, stats.LastFailure)
}

func TestScheduler_RunJob_Retries(t *testing.T) {
	s := New(logger.Nop(), Options{MaxRetries: 2, RetryDelay: time.Millisecond})
	job := &countingJob{name: "stock_reconcile", fails: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "stock_reconcile")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
}

func TestScheduler_RunJob_Unknown(t *testing.T) {
	s := New(logger.Nop(), DefaultOptions())

	_, err := s.RunJob(context.Background(), "nope")
	assert.Error(t, err)
}

func TestScheduler_RemoveJob(t *testing.T) {
	s := New(logger.Nop(), DefaultOptions())
	require.NoError(t, s.AddJob(&countingJob{name: "a"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+5; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 0.01)
	assert.Len(t, (&JobHistory{}).GetLatestResults(5), 0)
}

func TestScheduler_Stats_NextRunBeforeStart(t *testing.T) {
	s := New(logger.Nop(), DefaultOptions())
	require.NoError(t, s.AddJob(&countingJob{name: "stock_reconcile"}))

	stats := s.GetJobStats()["stock_reconcile"]
	require.NotNil(t, stats.NextRun)
	assert.True(t, stats.NextRun.After(time.Now()))
	assert.Zero(t, stats.NextRun.Minute()%10)
	assert.Zero(t, stats.TotalRuns)
}
