package rts

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/lazy-runtime/errors"
)

type task struct {
	thread *Thread
	value  any
	exc    bool
}

// Stats is a point-in-time snapshot of scheduler counters.
type Stats struct {
	Started  uint64
	Finished uint64
	Fatal    uint64
	Queued   int
}

// Scheduler runs logical threads cooperatively, one at a time, in FIFO
// order. It must be driven from a single goroutine.
type Scheduler struct {
	log    *zap.Logger
	active *Thread
	queue  []task
	cfg    Config
	stats  Stats
	maxID  uint64
	closed bool
}

// NewScheduler creates a scheduler with the default configuration
func NewScheduler() *Scheduler {
	return NewSchedulerWithConfig(nil)
}

// NewSchedulerWithConfig creates a scheduler with custom configuration
func NewSchedulerWithConfig(cfg *Config) *Scheduler {
	c := cfg.withDefaults()
	return &Scheduler{
		cfg: c,
		log: c.Logger,
	}
}

// Start creates a thread that will begin with control object r and
// queues it.
func (s *Scheduler) Start(r any) *Thread {
	t := &Thread{
		sched:    s,
		maxStack: s.cfg.MaxStackDepth,
	}
	s.maxID++
	t.id = s.maxID
	s.stats.Started++
	s.Schedule(t, r, false)
	return t
}

// Schedule appends a thread to the run queue. It is used both for fresh
// threads and to resume parked ones.
func (s *Scheduler) Schedule(t *Thread, v any, isException bool) {
	if s.closed {
		s.log.Debug("schedule on closed scheduler", zap.Uint64("thread", t.id))
		return
	}
	s.queue = append(s.queue, task{thread: t, value: v, exc: isException})
}

// Active returns the thread currently being run, or nil outside Drain.
func (s *Scheduler) Active() *Thread { return s.active }

// Pending returns the number of queued entries.
func (s *Scheduler) Pending() int { return len(s.queue) }

// Stats returns the scheduler counters.
func (s *Scheduler) Stats() Stats {
	st := s.stats
	st.Queued = len(s.queue)
	return st
}

// Drain runs queued threads until the queue is empty. Cancelling ctx
// pauses draining between threads and leaves the queue intact. Fatal
// engine conditions end only the affected thread; they are logged and
// returned joined together.
func (s *Scheduler) Drain(ctx context.Context) error {
	return s.drain(ctx, nil)
}

// Force applies c to args on a fresh thread, drains the queue until that
// thread is finished, and returns its value. Threads it forked that are
// still runnable stay queued for a later Drain.
func (s *Scheduler) Force(ctx context.Context, c Closure, args ...any) (any, error) {
	return s.Run(ctx, Apply(c, args...))
}

// Run starts a thread on control object r and drains until it finishes.
func (s *Scheduler) Run(ctx context.Context, r any) (any, error) {
	if s.active != nil {
		return nil, errors.Reentrant(s.active.id)
	}
	if s.closed {
		return nil, errors.Closed(errors.PhaseSchedule, "scheduler")
	}
	t := s.Start(r)
	// Fatal conditions of other threads were already logged by drain; the
	// target's own outcome is read back from the thread.
	err := s.drain(ctx, t)
	if !t.Finished() {
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NotComplete(t.id)
	}
	return t.Value()
}

func (s *Scheduler) drain(ctx context.Context, target *Thread) error {
	if s.active != nil {
		return errors.Reentrant(s.active.id)
	}
	var fatal []error
	for len(s.queue) != 0 {
		if target != nil && target.Finished() {
			break
		}
		if err := ctx.Err(); err != nil {
			fatal = append(fatal, err)
			break
		}

		next := s.queue[0]
		s.queue[0] = task{}
		s.queue = s.queue[1:]
		if next.thread.Finished() {
			continue
		}

		s.active = next.thread
		err := next.thread.run(next.value, next.exc)
		s.active = nil

		if err != nil {
			s.stats.Fatal++
			s.log.Error("thread terminated by engine condition",
				zap.Uint64("thread", next.thread.id),
				zap.Error(err))
			fatal = append(fatal, err)
		}
	}
	if len(s.queue) == 0 {
		s.queue = nil
	}
	return stderrors.Join(fatal...)
}

func (s *Scheduler) threadFinished(t *Thread) {
	s.stats.Finished++
	s.traceThread(t, "finish", zap.Stringer("state", t.state))
}

// Close empties the run queue and abandons every parked thread. Further
// scheduling is ignored.
func (s *Scheduler) Close() {
	s.closed = true
	s.queue = nil
}
