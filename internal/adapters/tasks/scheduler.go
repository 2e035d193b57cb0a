// Package tasks implements the host task scheduler: named tasks run on an
// interval or on demand in worker goroutines tracked by a lifecycle manager.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/autoorganize/internal/domain"
	"github.com/bft-labs/autoorganize/internal/ports"
	"github.com/bft-labs/autoorganize/pkg/lifecycle"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// minRetryDelay is the first retry delay after a failed periodic run.
const minRetryDelay = time.Second

type task struct {
	name     string
	interval time.Duration
	fn       ports.TaskFunc

	// running guards against overlapping runs of the same task.
	running sync.Mutex
}

// Scheduler implements ports.TaskScheduler.
type Scheduler struct {
	logger    log.Logger
	lifecycle *lifecycle.Manager
	ctx       context.Context

	mu    sync.Mutex
	tasks map[string]*task

	closeOnce sync.Once
	closeErr  error
	timeout   time.Duration
}

// NewScheduler creates a running scheduler.
func NewScheduler(logger log.Logger) *Scheduler {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		logger:  logger,
		ctx:     ctx,
		tasks:   make(map[string]*task),
		timeout: lifecycle.ShutdownTimeout,
	}

	s.lifecycle = lifecycle.NewManager("tasks", logger, lifecycle.EmitterFunc(s.logTransition))
	s.lifecycle.SetCancel(cancel)
	_ = s.lifecycle.TransitionTo(lifecycle.StateStarting, "scheduler created")
	_ = s.lifecycle.TransitionTo(lifecycle.StateRunning, "scheduler ready")
	return s
}

func (s *Scheduler) logTransition(component string, previous, current lifecycle.State, reason string) {
	fields := []log.Field{
		log.String("from", previous.String()),
		log.String("to", current.String()),
		log.String("reason", reason),
	}
	if current == lifecycle.StateCrashed {
		s.logger.Warn("scheduler state changed", fields...)
		return
	}
	s.logger.Info("scheduler state changed", fields...)
}

// State returns the scheduler's lifecycle state.
func (s *Scheduler) State() lifecycle.State {
	return s.lifecycle.State()
}

// Register adds a task. A positive interval starts a worker that runs fn
// every interval; zero registers the task for Queue only.
func (s *Scheduler) Register(name string, interval time.Duration, fn ports.TaskFunc) error {
	if name == "" || fn == nil {
		return fmt.Errorf("register task %q: name and func are required", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lifecycle.State() != lifecycle.StateRunning {
		return domain.ErrSchedulerClosed
	}
	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("task %q already registered", name)
	}

	t := &task{name: name, interval: interval, fn: fn}
	s.tasks[name] = t

	if interval > 0 {
		s.lifecycle.AddWorker()
		go s.loop(t)
	}

	s.logger.Info("task registered",
		log.String("task", name),
		log.Duration("interval", interval),
	)
	return nil
}

// Queue runs a registered task once in the background. If the task is
// already running the request is dropped.
func (s *Scheduler) Queue(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lifecycle.State() != lifecycle.StateRunning {
		return domain.ErrSchedulerClosed
	}
	t, ok := s.tasks[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTask, name)
	}

	s.lifecycle.AddWorker()
	go func() {
		defer s.lifecycle.WorkerDone()
		_ = s.run(t)
	}()
	return nil
}

// Close cancels running tasks and waits for their workers. Only the first
// call does any work; later calls return the first call's result.
func (s *Scheduler) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if !s.lifecycle.CanStop() {
			s.mu.Unlock()
			return
		}
		_ = s.lifecycle.TransitionTo(lifecycle.StateStopping, "Close() called")
		s.mu.Unlock()

		s.lifecycle.Cancel()

		if err := s.lifecycle.WaitWithTimeout(s.timeout); err != nil {
			_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, "shutdown timeout")
			s.closeErr = err
			return
		}
		_ = s.lifecycle.TransitionTo(lifecycle.StateStopped, "graceful shutdown")
	})
	return s.closeErr
}

// loop runs a periodic task until the scheduler closes. Failed runs are
// retried with backoff, never waiting longer than the task interval.
func (s *Scheduler) loop(t *task) {
	defer s.lifecycle.WorkerDone()

	backoff := lifecycle.NewBackoff(minRetryDelay, t.interval)
	wait := t.interval

	for {
		timer := time.NewTimer(wait)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := s.run(t); err != nil {
			wait = backoff.Next()
			if wait > t.interval {
				wait = t.interval
			}
			continue
		}
		backoff.Reset()
		wait = t.interval
	}
}

// run executes one pass of a task, skipping it if a pass is already in
// progress. Panics are logged as failures.
func (s *Scheduler) run(t *task) (err error) {
	if !t.running.TryLock() {
		s.logger.Debug("task already running, skipping", log.String("task", t.name))
		return nil
	}
	defer t.running.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", t.name, r)
			s.logger.Error("task failed", log.String("task", t.name), log.Err(err))
		}
	}()

	start := time.Now()
	if err = t.fn(s.ctx); err != nil {
		if s.ctx.Err() != nil {
			return nil
		}
		s.logger.Error("task failed",
			log.String("task", t.name),
			log.Err(err),
			log.Duration("duration", time.Since(start)),
		)
		return err
	}

	s.logger.Debug("task completed",
		log.String("task", t.name),
		log.Duration("duration", time.Since(start)),
	)
	return nil
}

var _ ports.TaskScheduler = (*Scheduler)(nil)
