// Package anim runs a repeating cycle at a steady target rate.
package anim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrInvalidRate is returned for non-positive frame rates.
var ErrInvalidRate = errors.New("anim: frame rate must be positive")

// Cycle is one unit of work, typically a simulation step followed by a draw.
type Cycle func() error

// Clock abstracts wall time so tests can control it.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger used for cycle failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// Stats summarises pacing so far.
type Stats struct {
	Cycles uint64
	// Drift accumulates how far the schedule fell behind before it was
	// re-anchored at the current time.
	Drift time.Duration
}

// Scheduler repeats a Cycle at a target rate. Run and Poll drive it; Start,
// Stop and Toggle may be called from any goroutine.
type Scheduler struct {
	cycle Cycle
	clock Clock
	log   *slog.Logger

	mu      sync.Mutex
	running bool
	wake    chan struct{}
	pace    pacer
	meter   meter
	stats   Stats
}

// New returns a stopped Scheduler running cycle at fps cycles per second.
func New(fps float64, cycle Cycle, opts ...Option) (*Scheduler, error) {
	interval, err := intervalFor(fps)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		cycle: cycle,
		clock: wallClock{},
		log:   slog.Default(),
		wake:  make(chan struct{}, 1),
		pace:  pacer{interval: interval},
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func intervalFor(fps float64) (time.Duration, error) {
	if !(fps > 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRate, fps)
	}
	return time.Duration(float64(time.Second) / fps), nil
}

// SetFPS changes the target rate from the next deadline on.
func (s *Scheduler) SetFPS(fps float64) error {
	interval, err := intervalFor(fps)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.pace.interval = interval
	s.mu.Unlock()
	return nil
}

// Interval returns the target time between cycle starts.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pace.interval
}

// Start resumes cycling.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start()
}

func (s *Scheduler) start() {
	if s.running {
		return
	}
	s.running = true
	s.pace.reset()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop prevents further cycles from starting. A cycle already running
// completes. Stopping a stopped Scheduler does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Toggle starts a stopped Scheduler and stops a running one.
func (s *Scheduler) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.running = false
		return
	}
	s.start()
}

// Running reports whether cycles are being scheduled.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stats returns pacing counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Rate returns the number of cycles completed during the last full second.
func (s *Scheduler) Rate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meter.rate
}

// Run drives the cycle on the calling goroutine until ctx is done or a cycle
// fails. While stopped it waits for Start or Toggle.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if !s.Running() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.wake:
				continue
			}
		}
		start := s.clock.Now()
		if err := s.runCycle(); err != nil {
			return err
		}
		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			continue
		}
		if s.pace.next.IsZero() {
			s.pace.next = start
		}
		wait := s.schedule(s.clock.Now())
		s.mu.Unlock()
		if err := s.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Poll runs one cycle when the Scheduler is running and the next deadline has
// passed. It suits hosts that already own a frame loop and call in regularly.
func (s *Scheduler) Poll(now time.Time) (bool, error) {
	s.mu.Lock()
	if !s.running || now.Before(s.pace.next) {
		s.mu.Unlock()
		return false, nil
	}
	if s.pace.next.IsZero() {
		s.pace.next = now
	}
	if wait := s.schedule(now); wait <= 0 {
		// The host stalled past a whole interval. The next cycle is still
		// one interval after this one.
		s.pace.next = now.Add(s.pace.interval)
	}
	s.mu.Unlock()
	return true, s.runCycle()
}

func (s *Scheduler) runCycle() error {
	if err := s.cycle(); err != nil {
		s.log.Error("anim: cycle failed", "err", err)
		s.Stop()
		return fmt.Errorf("anim: cycle: %w", err)
	}
	now := s.clock.Now()
	s.mu.Lock()
	s.stats.Cycles++
	s.meter.tick(now)
	s.mu.Unlock()
	return nil
}

// schedule advances the deadline and returns how long to wait for it.
// Callers hold s.mu.
func (s *Scheduler) schedule(now time.Time) time.Duration {
	wait, late := s.pace.advance(now)
	s.stats.Drift += late
	return wait
}

// pacer tracks the next deadline: each one is the previous plus interval.
// When a deadline has already passed the wait is zero and the schedule is
// re-anchored at the current time so a slow cycle does not trigger a burst.
type pacer struct {
	interval time.Duration
	next     time.Time
}

func (p *pacer) reset() { p.next = time.Time{} }

func (p *pacer) advance(now time.Time) (wait, late time.Duration) {
	if p.next.IsZero() {
		p.next = now
	}
	p.next = p.next.Add(p.interval)
	wait = p.next.Sub(now)
	if wait < 0 {
		late = -wait
		p.next = now
		wait = 0
	}
	return wait, late
}

// meter counts cycles per wall-clock second.
type meter struct {
	second time.Time
	count  int
	rate   int
}

func (m *meter) tick(now time.Time) {
	sec := now.Truncate(time.Second)
	if !sec.Equal(m.second) {
		if now.Sub(m.second) < 2*time.Second {
			m.rate = m.count
		} else {
			m.rate = 0
		}
		m.second = sec
		m.count = 0
	}
	m.count++
}
