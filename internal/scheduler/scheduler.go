// Package scheduler runs fixed-interval tasks one at a time on a single
// goroutine. A task always runs to completion before the next one starts, so
// tasks can share state without locks, whether the scheduler is hosted by a
// CLI, a service, or next to a GUI event loop.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/timeouts"
)

// TaskFunc is one iteration of a periodic task. Returning false retires the
// task; it is never run again.
type TaskFunc func(ctx context.Context) bool

type task struct {
	name     string
	interval time.Duration
	fn       TaskFunc
	next     time.Time
	runs     int
}

// Scheduler owns a set of periodic tasks
type Scheduler struct {
	log   logger.LoggerInterface
	tasks []*task
	now   func() time.Time
}

// New creates an empty scheduler
func New(log logger.LoggerInterface) *Scheduler {
	return &Scheduler{
		log: log,
		now: time.Now,
	}
}

// Every registers fn to run immediately when Run starts and then every
// interval after the previous run finished. Must be called before Run.
func (s *Scheduler) Every(name string, interval time.Duration, fn TaskFunc) {
	if interval <= 0 {
		panic(fmt.Sprintf("scheduler: task %q needs a positive interval, got %s", name, interval))
	}

	s.tasks = append(s.tasks, &task{
		name:     name,
		interval: interval,
		fn:       fn,
	})
}

// Len returns the number of tasks still scheduled
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Run executes tasks until every task has retired (returns nil) or ctx is
// cancelled (returns ctx.Err()).
func (s *Scheduler) Run(ctx context.Context) error {
	start := s.now()
	for _, t := range s.tasks {
		t.next = start
	}

	for len(s.tasks) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		due := s.nextDue()
		wait := due.next.Sub(s.now())

		if wait > 0 {
			if wait > timeouts.SchedulerIdleWait {
				wait = timeouts.SchedulerIdleWait
			}

			timer := time.NewTimer(wait)

			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}

			continue
		}

		keep := s.runTask(ctx, due)
		due.runs++

		if !keep {
			s.log.Debug("Task finished", slog.String("task", due.name), slog.Int("runs", due.runs))
			s.remove(due)
			continue
		}

		// Fixed delay: the interval counts from the end of this run, so a slow
		// window manager call never causes a burst of catch-up runs.
		due.next = s.now().Add(due.interval)
	}

	return nil
}

// runTask runs one iteration, converting a panic into a retained task so one
// misbehaving loop cannot take the others down.
func (s *Scheduler) runTask(ctx context.Context, t *task) (keep bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Task panicked",
				slog.String("task", t.name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)

			keep = true
		}
	}()

	return t.fn(ctx)
}

func (s *Scheduler) nextDue() *task {
	due := s.tasks[0]
	for _, t := range s.tasks[1:] {
		if t.next.Before(due.next) {
			due = t
		}
	}

	return due
}

func (s *Scheduler) remove(t *task) {
	for i, candidate := range s.tasks {
		if candidate == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}
