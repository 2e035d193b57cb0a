package ports

import (
	"context"
	"time"
)

// TaskFunc is the body of a scheduled task. The context is canceled when the
// scheduler closes.
type TaskFunc func(ctx context.Context) error

// TaskScheduler runs named tasks. The coordinator owns the scheduler and
// closes it at shutdown.
type TaskScheduler interface {
	// Register adds a task. A positive interval runs it periodically;
	// zero registers it for on-demand runs only.
	Register(name string, interval time.Duration, fn TaskFunc) error

	// Queue runs a registered task once in the background.
	Queue(name string) error

	// Close stops all tasks and waits for running ones. Safe to call twice.
	Close() error
}
