package anim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Advance(d)
	return nil
}

func TestNewRejectsBadRate(t *testing.T) {
	for _, fps := range []float64{0, -5} {
		_, err := New(fps, func() error { return nil })
		assert.ErrorIs(t, err, ErrInvalidRate)
	}
	s, err := New(25, func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 40*time.Millisecond, s.Interval())
	assert.ErrorIs(t, s.SetFPS(0), ErrInvalidRate)
	require.NoError(t, s.SetFPS(50))
	assert.Equal(t, 20*time.Millisecond, s.Interval())
}

func TestRunKeepsTargetRate(t *testing.T) {
	clock := newFakeClock()
	origin := clock.Now()
	var starts []time.Duration
	var s *Scheduler
	stopped := make(chan struct{})
	s, err := New(10, func() error {
		starts = append(starts, clock.Now().Sub(origin))
		clock.Advance(5 * time.Millisecond)
		if len(starts) == 10 {
			s.Stop()
			close(stopped)
		}
		return nil
	}, WithClock(clock))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	s.Start()
	go func() { done <- s.Run(ctx) }()

	<-stopped
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	require.Len(t, starts, 10, "no cycle may start after Stop")
	for i, at := range starts {
		assert.Equal(t, time.Duration(i)*100*time.Millisecond, at, "cycle %d", i)
	}
	last := starts[9] + 5*time.Millisecond
	assert.InDelta(t, float64(time.Second), float64(last), float64(100*time.Millisecond))
	assert.Equal(t, uint64(10), s.Stats().Cycles)
	assert.Zero(t, s.Stats().Drift)
	assert.False(t, s.Running())
}

func TestRunReanchorsAfterSlowCycle(t *testing.T) {
	clock := newFakeClock()
	origin := clock.Now()
	var starts []time.Duration
	var s *Scheduler
	s, err := New(10, func() error {
		starts = append(starts, clock.Now().Sub(origin))
		cost := 5 * time.Millisecond
		if len(starts) == 2 {
			cost = 250 * time.Millisecond
		}
		clock.Advance(cost)
		if len(starts) == 4 {
			s.Stop()
		}
		return nil
	}, WithClock(clock))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start()
	go func() {
		for s.Running() {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()
	require.ErrorIs(t, s.Run(ctx), context.Canceled)

	ms := time.Millisecond
	assert.Equal(t, []time.Duration{0, 100 * ms, 350 * ms, 450 * ms}, starts)
	assert.Equal(t, 150*ms, s.Stats().Drift)
}

func TestRunStopsOnCycleError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	s, err := New(1000, func() error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	}, WithClock(newFakeClock()))
	require.NoError(t, err)
	s.Start()
	err = s.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	assert.False(t, s.Running())
}

func TestRunWaitsWhileStopped(t *testing.T) {
	calls := make(chan struct{}, 16)
	var s *Scheduler
	s, err := New(1000, func() error {
		s.Stop()
		calls <- struct{}{}
		return nil
	}, WithClock(newFakeClock()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-calls:
		t.Fatal("cycle ran before Start")
	case <-time.After(20 * time.Millisecond):
	}

	s.Toggle()
	<-calls
	s.Toggle()
	<-calls

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Len(t, calls, 0)
}

func TestStartStopToggle(t *testing.T) {
	s, err := New(60, func() error { return nil })
	require.NoError(t, err)
	assert.False(t, s.Running())
	s.Stop()
	assert.False(t, s.Running(), "stopping a stopped scheduler is a no-op")
	s.Toggle()
	assert.True(t, s.Running())
	s.Start()
	assert.True(t, s.Running())
	s.Toggle()
	assert.False(t, s.Running())
}

func TestPoll(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	s, err := New(10, func() error { calls++; return nil }, WithClock(clock))
	require.NoError(t, err)

	ran, err := s.Poll(clock.Now())
	require.NoError(t, err)
	assert.False(t, ran, "stopped scheduler must not run")

	s.Start()
	ms := time.Millisecond
	var ticks []bool
	// A 60Hz host loop polling a 10 FPS scheduler.
	for i := 0; i < 60; i++ {
		ran, err := s.Poll(clock.Now())
		require.NoError(t, err)
		ticks = append(ticks, ran)
		clock.Advance(1000 * ms / 60)
	}
	assert.Equal(t, 10, calls)
	assert.True(t, ticks[0])
	assert.False(t, ticks[1])

	s.Stop()
	clock.Advance(time.Second)
	ran, err = s.Poll(clock.Now())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 10, calls)
}

func TestPollAfterHostStall(t *testing.T) {
	clock := newFakeClock()
	origin := clock.Now()
	var starts []time.Duration
	s, err := New(10, func() error {
		starts = append(starts, clock.Now().Sub(origin))
		return nil
	}, WithClock(clock))
	require.NoError(t, err)
	s.Start()

	// A 50Hz host whose second frame arrives 350ms late.
	frame := 20 * time.Millisecond
	for i := 0; i < 60; i++ {
		_, err := s.Poll(clock.Now())
		require.NoError(t, err)
		clock.Advance(frame)
		if i == 0 {
			clock.Advance(350 * time.Millisecond)
		}
	}

	ms := time.Millisecond
	require.GreaterOrEqual(t, len(starts), 4)
	assert.Equal(t, []time.Duration{0, 370 * ms, 470 * ms, 570 * ms}, starts[:4])
	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i]-starts[i-1], 100*ms, "cycles %d and %d", i-1, i)
	}
	assert.Equal(t, 170*ms, s.Stats().Drift)
}

func TestPollReportsCycleError(t *testing.T) {
	boom := errors.New("boom")
	s, err := New(10, func() error { return boom })
	require.NoError(t, err)
	s.Start()
	ran, err := s.Poll(time.Now())
	assert.True(t, ran)
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Running())
}

func TestRate(t *testing.T) {
	clock := newFakeClock()
	s, err := New(20, func() error { return nil }, WithClock(clock))
	require.NoError(t, err)
	s.Start()
	for i := 0; i < 60; i++ {
		_, err := s.Poll(clock.Now())
		require.NoError(t, err)
		clock.Advance(50 * time.Millisecond)
	}
	assert.Equal(t, 20, s.Rate())
}

func TestPacerAdvance(t *testing.T) {
	p := pacer{interval: 100 * time.Millisecond}
	t0 := time.Unix(100, 0)
	wait, late := p.advance(t0.Add(30 * time.Millisecond))
	assert.Equal(t, 100*time.Millisecond, wait)
	assert.Zero(t, late)

	p = pacer{interval: 100 * time.Millisecond, next: t0}
	wait, late = p.advance(t0.Add(40 * time.Millisecond))
	assert.Equal(t, 60*time.Millisecond, wait)
	assert.Zero(t, late)
	wait, late = p.advance(t0.Add(260 * time.Millisecond))
	assert.Zero(t, wait)
	assert.Equal(t, 60*time.Millisecond, late)
	assert.Equal(t, t0.Add(260*time.Millisecond), p.next)
}
