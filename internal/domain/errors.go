package domain

import "errors"

// Domain errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyStarted is returned when Start() is called on a coordinator
	// that has already been started.
	ErrAlreadyStarted = errors.New("autoorganize: already started")

	// ErrStopped is returned when Start() is called on a coordinator that has
	// been stopped. A coordinator is not restartable.
	ErrStopped = errors.New("autoorganize: coordinator stopped")

	// ErrNotPublished is returned by a registry that has no published coordinator.
	ErrNotPublished = errors.New("autoorganize: no coordinator published")

	// ErrStorageUnavailable is returned when the persistent store cannot be
	// opened or initialized.
	ErrStorageUnavailable = errors.New("autoorganize: storage unavailable")

	// ErrRepositoryUnavailable is returned by service writes when the service
	// runs without a repository.
	ErrRepositoryUnavailable = errors.New("autoorganize: repository unavailable")

	// ErrNotFound is returned when a result or smart-match entry does not exist.
	ErrNotFound = errors.New("autoorganize: not found")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("autoorganize: invalid configuration")

	// ErrSchedulerClosed is returned when a task is registered or queued after
	// the scheduler has been closed.
	ErrSchedulerClosed = errors.New("autoorganize: scheduler closed")

	// ErrUnknownTask is returned when queueing a task that was never registered.
	ErrUnknownTask = errors.New("autoorganize: unknown task")
)
