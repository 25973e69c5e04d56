package physics

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler drives a Simulation from a timer, one tick at a time on a single
// goroutine. It parks while the simulation is Idle and resumes when the
// simulation is restarted, e.g. by a drag.
type Scheduler struct {
	sim      *Simulation
	interval time.Duration
	logger   *log.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
	err       error
}

// NewScheduler creates a scheduler that ticks sim every interval. A zero
// interval ticks back to back.
func NewScheduler(sim *Simulation, interval time.Duration) *Scheduler {
	return &Scheduler{
		sim:      sim,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// SetLogger enables lifecycle logging. Call before Start.
func (s *Scheduler) SetLogger(l *log.Logger) {
	s.logger = l
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Start launches the tick loop. Calls after the first are no-ops.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.loop(ctx)
	})
}

// Stop prevents any further tick from starting. A tick already in progress
// completes. Stop is idempotent and safe to call from a tick handler.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// Done is closed when the loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the loop exits. It returns nil after Stop, the context
// error after cancellation, or the *TickError that halted the loop.
func (s *Scheduler) Wait() error {
	<-s.done
	return s.err
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	var frames <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		frames = ticker.C
	}

	for {
		if s.sim.State() == Idle {
			s.logf("simulation idle at alpha %.4f", s.sim.Alpha())
			select {
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			case <-s.stop:
				return
			case <-s.sim.wake:
				s.logf("simulation restarted")
				continue
			}
		}

		if frames != nil {
			select {
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			case <-s.stop:
				return
			case <-frames:
			}
		}

		// Stop wins over a frame that became ready at the same time.
		select {
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		case <-s.stop:
			return
		default:
		}

		if _, err := s.sim.Tick(); err != nil {
			s.logf("simulation halted: %v", err)
			s.err = err
			return
		}
	}
}
