package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDaily(t *testing.T) {
	testCases := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			name:     "later today",
			now:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:     "already passed",
			now:      time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 5, 2, 12, 30, 0, 0, time.UTC),
		},
		{
			name:     "exactly at run time",
			now:      time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
			expected: time.Date(2024, 5, 2, 12, 30, 0, 0, time.UTC),
		},
		{
			name:     "month rollover",
			now:      time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:     "non utc clock",
			now:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("UTC+7", 7*60*60)),
			expected: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, nextDaily(tc.now, 12, 30))
		})
	}
}

func TestNewDailyInvalid(t *testing.T) {
	job := JobFunc("noop", func(context.Context) error { return nil })
	for _, runAt := range []string{"", "25:00", "noon", "12:30:00"} {
		_, err := NewDaily(job, runAt)
		assert.ErrorIs(t, err, errs.InvalidArgument, runAt)
	}
	_, err := NewInterval(job, 0)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestSchedulerRunsUntilShutdown(t *testing.T) {
	var runs atomic.Int64
	job := JobFunc("counter", func(context.Context) error {
		if runs.Add(1) == 1 {
			return errors.New("first run fails")
		}
		return nil
	})
	s, err := NewInterval(job, 10*time.Millisecond)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.ShutdownWithTimeout(time.Second))
	require.NoError(t, <-errCh)

	// shutdown is idempotent
	assert.NoError(t, s.Shutdown())
}

func TestSchedulerStopsOnContextDone(t *testing.T) {
	job := JobFunc("noop", func(context.Context) error { return nil })
	s, err := NewDaily(job, "00:00")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestShutdownBeforeRun(t *testing.T) {
	s, err := NewInterval(JobFunc("noop", func(context.Context) error { return nil }), time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.ShutdownWithTimeout(time.Second))
	assert.NoError(t, s.Run(context.Background()))
}

func TestRunTwice(t *testing.T) {
	s, err := NewInterval(JobFunc("noop", func(context.Context) error { return nil }), time.Hour)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(context.Background()) }()
	require.Eventually(t, s.started.Load, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, s.Run(context.Background()), errs.Conflict)

	require.NoError(t, s.ShutdownWithTimeout(time.Second))
	require.NoError(t, <-errCh)
	assert.ErrorIs(t, s.Run(context.Background()), errs.Conflict)
}
