package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsPeriodically(t *testing.T) {
	var runs atomic.Int32
	s := New(nil, Task{
		Name:     "count",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestScheduler_RunOnStart(t *testing.T) {
	ran := make(chan struct{}, 1)
	s := New(nil, Task{
		Name:       "once",
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run on start")
	}
}

func TestScheduler_StopWaitsForInFlightRun(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool

	s := New(nil, Task{
		Name:       "slow",
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			time.Sleep(20 * time.Millisecond)
			finished.Store(true)
			return ctx.Err()
		},
	})

	require.NoError(t, s.Start(context.Background()))
	<-started
	s.Stop()
	assert.True(t, finished.Load())
}

func TestScheduler_ErrorsDoNotStopTask(t *testing.T) {
	var runs atomic.Int32
	s := New(nil, Task{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			if runs.Load() == 1 {
				panic("boom")
			}
			return errors.New("fails every time")
		},
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_Validation(t *testing.T) {
	s := New(nil, Task{Name: "bad", Run: func(context.Context) error { return nil }})
	assert.Error(t, s.Start(context.Background()))

	s = New(nil, Task{Name: "nil", Interval: time.Second})
	assert.Error(t, s.Start(context.Background()))

	s = New(nil)
	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()))
	s.Stop()
	s.Stop()
}

func TestJitter(t *testing.T) {
	assert.Equal(t, time.Duration(0), jitter(0))
	for i := 0; i < 100; i++ {
		d := jitter(50 * time.Millisecond)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, 50*time.Millisecond)
	}
}

func TestScheduler_AddBeforeStart(t *testing.T) {
	var first, second atomic.Int32
	s := New(nil, Task{
		Name:     "first",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			first.Add(1)
			return nil
		},
	})
	s.Add(Task{
		Name:     "second",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			second.Add(1)
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return first.Load() > 0 && second.Load() > 0 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_AddedTaskIsValidated(t *testing.T) {
	s := New(nil)
	s.Add(Task{Name: "broken", Interval: time.Second})
	assert.ErrorContains(t, s.Start(context.Background()), "run func is nil")
}
