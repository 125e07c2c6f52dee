package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-forecast/internal/logger"
)

type recordingWarmer struct {
	mu    sync.Mutex
	calls [][]int
}

func (r *recordingWarmer) Warm(ctx context.Context, years []int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, years)
	return len(years) - 1
}

func TestScheduleArchiveWarmup(t *testing.T) {
	warmer := &recordingWarmer{}
	s := NewScheduler(warmer, logger.NewDiscardLogger())

	assert.Error(t, s.Start(), "no jobs scheduled yet")
	assert.Error(t, s.ScheduleArchiveWarmup("not a cron", func() []int { return nil }))

	require.NoError(t, s.ScheduleArchiveWarmup("0 4 * * *", func() []int { return []int{2022, 2020} }))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleArchiveWarmup("0 5 * * *", func() []int { return nil }))

	next := s.GetNextRun()
	require.False(t, next.IsZero())
	assert.Equal(t, 4, next.UTC().Hour())
	assert.True(t, next.After(time.Now()))
	assert.Len(t, s.Entries(), 1)
}

func TestRunWarmup(t *testing.T) {
	warmer := &recordingWarmer{}
	s := NewScheduler(warmer, logger.NewDiscardLogger())

	loaded := s.RunWarmup(context.Background(), []int{2022, 2020, 2018})
	assert.Equal(t, 2, loaded)
	require.Len(t, warmer.calls, 1)
	assert.Equal(t, []int{2022, 2020, 2018}, warmer.calls[0])
}

func TestStopWhenNotRunning(t *testing.T) {
	s := NewScheduler(&recordingWarmer{}, nil)
	assert.NotPanics(t, s.Stop)
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}
