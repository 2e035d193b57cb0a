package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/autoorganize/internal/domain"
	"github.com/bft-labs/autoorganize/internal/organize"
	"github.com/bft-labs/autoorganize/internal/ports"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// State represents the lifecycle state of the coordinator.
type State int

const (
	StateNotStarted State = iota
	StateStarted
	StateStopped
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateStarted:
		return "Started"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Collaborators are the host subsystems the coordinator is built with.
// Scheduler, Logs and Monitor are owned and released by Stop; the rest are
// borrowed and passed through to the service. Any of them may be nil.
type Collaborators struct {
	Scheduler ports.TaskScheduler
	Logs      ports.LoggerFactory
	Monitor   ports.LibraryMonitor

	Index      ports.LibraryIndex
	Config     ports.ServerConfig
	FS         ports.FileSystem
	Providers  ports.ProviderManager
	Serializer ports.Serializer
}

// Coordinator sequences startup and shutdown of the auto-organize service.
type Coordinator struct {
	collab   Collaborators
	registry *Registry
	opts     options
	logger   log.Logger

	mu      sync.RWMutex
	state   State
	repo    ports.FileOrganizationRepository
	service *organize.Service
}

// NewCoordinator creates a coordinator. registry may be nil when nothing
// needs to discover the service.
func NewCoordinator(collab Collaborators, registry *Registry, opts ...Option) *Coordinator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Coordinator{
		collab:   collab,
		registry: registry,
		opts:     o,
		logger:   named(collab.Logs, "AutoOrganize"),
	}
}

func named(f ports.LoggerFactory, name string) log.Logger {
	if f == nil {
		return log.NewNoopLogger()
	}
	return f.Named(name)
}

// Start opens the repository, builds and publishes the service and converts
// legacy smart-match settings. A repository failure is logged and the
// service runs without one; a conversion failure is returned.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateStarted:
		c.mu.Unlock()
		return domain.ErrAlreadyStarted
	case StateStopped:
		c.mu.Unlock()
		return domain.ErrStopped
	}

	var paths ports.ApplicationPaths
	if c.collab.Config != nil {
		paths = c.collab.Config.ApplicationPaths()
	}

	repo, err := c.opts.repositoryFactory(ctx, named(c.collab.Logs, "AutoOrganize.Repository"), paths, c.collab.Serializer)
	if err != nil {
		c.logger.Error("error initializing auto-organize database", log.Err(err))
		repo = nil
	}

	svc := c.opts.serviceBuilder(organize.Dependencies{
		Repository: repo,
		Scheduler:  c.collab.Scheduler,
		Logs:       c.collab.Logs,
		Monitor:    c.collab.Monitor,
		Index:      c.collab.Index,
		Config:     c.collab.Config,
		FS:         c.collab.FS,
		Providers:  c.collab.Providers,
	})

	c.repo = repo
	c.service = svc
	c.state = StateStarted
	c.mu.Unlock()

	if c.registry != nil {
		c.registry.Publish(c)
	}

	c.logger.Info("auto-organize started", log.Bool("repository", repo != nil))

	if c.collab.Config != nil && svc != nil {
		if err := c.collab.Config.ConvertSmartMatchInfo(ctx, svc); err != nil {
			return fmt.Errorf("convert smart match settings: %w", err)
		}
	}
	return nil
}

// Stop releases the task scheduler, the logger factory and the library
// monitor, in that order, skipping absent ones. The first failure aborts
// the remaining steps. Stop leaves the repository and the service alone.
// Only the first call does any work, so the released logger factory is
// never written to again.
func (c *Coordinator) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateStopped {
		return nil
	}
	c.logger.Info("auto-organize stopping")
	c.state = StateStopped

	if c.collab.Scheduler != nil {
		if err := c.collab.Scheduler.Close(); err != nil {
			return fmt.Errorf("close task scheduler: %w", err)
		}
	}
	if c.collab.Logs != nil {
		if err := c.collab.Logs.Close(); err != nil {
			return fmt.Errorf("close logger factory: %w", err)
		}
	}
	if c.collab.Monitor != nil {
		if err := c.collab.Monitor.Close(); err != nil {
			return fmt.Errorf("close library monitor: %w", err)
		}
	}
	return nil
}

// Close is Stop, for hosts that manage an io.Closer.
func (c *Coordinator) Close() error {
	return c.Stop()
}

// Service returns the published service, or nil before Start.
func (c *Coordinator) Service() *organize.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.service
}

// Repository returns the repository handle, or nil when acquisition failed
// or Start has not run.
func (c *Coordinator) Repository() ports.FileOrganizationRepository {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repo
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
