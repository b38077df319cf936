package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalToCron(t *testing.T) {
	tests := []struct {
		interval time.Duration
		want     string
	}{
		{0, "@every 1h"},
		{-time.Minute, "@every 1h"},
		{time.Second, "*/10 * * * * *"},
		{15 * time.Second, "*/15 * * * * *"},
		{45 * time.Second, "@every 45s"},
		{time.Minute, "0 */1 * * * *"},
		{15 * time.Minute, "0 */15 * * * *"},
		{7 * time.Minute, "@every 7m0s"},
		{time.Hour, "0 0 */1 * * *"},
		{6 * time.Hour, "0 0 */6 * * *"},
		{5 * time.Hour, "@every 5h0m0s"},
		{24 * time.Hour, "0 0 0 * * *"},
		{36 * time.Hour, "@every 36h0m0s"},
	}
	for _, tt := range tests {
		t.Run(tt.interval.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, intervalToCron(tt.interval))
		})
	}
}

func TestCronScheduler_Schedule(t *testing.T) {
	s := NewCronScheduler(time.Second, nil)
	defer s.Stop()

	task := func(context.Context) error { return nil }
	require.NoError(t, s.Schedule(context.Background(), "refresh", time.Hour, task))
	assert.Equal(t, []string{"refresh"}, s.Jobs())

	err := s.Schedule(context.Background(), "refresh", time.Hour, task)
	assert.Error(t, err, "duplicate names are rejected")
}

func TestCronScheduler_StopClearsJobs(t *testing.T) {
	s := NewCronScheduler(time.Second, nil)
	require.NoError(t, s.Schedule(context.Background(), "a", time.Hour, func(context.Context) error { return nil }))
	s.Stop()
	assert.Empty(t, s.Jobs())
}

func TestCronScheduler_RunTask(t *testing.T) {
	s := NewCronScheduler(50*time.Millisecond, nil)
	defer s.Stop()

	t.Run("applies the job timeout", func(t *testing.T) {
		var deadline atomic.Bool
		s.runTask(context.Background(), "slow", func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			deadline.Store(ok)
			<-ctx.Done()
			return ctx.Err()
		})
		assert.True(t, deadline.Load())
	})

	t.Run("skips when the parent is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var calls atomic.Int32
		s.runTask(ctx, "canceled", func(context.Context) error {
			calls.Add(1)
			return nil
		})
		assert.Zero(t, calls.Load())
	})

	t.Run("swallows task errors", func(t *testing.T) {
		var calls atomic.Int32
		s.runTask(context.Background(), "failing", func(context.Context) error {
			calls.Add(1)
			return errors.New("boom")
		})
		assert.Equal(t, int32(1), calls.Load())
	})
}
