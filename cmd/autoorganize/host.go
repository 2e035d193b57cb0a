package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/bft-labs/autoorganize/internal/adapters/library"
	"github.com/bft-labs/autoorganize/internal/adapters/providers"
	"github.com/bft-labs/autoorganize/internal/adapters/serializer"
	"github.com/bft-labs/autoorganize/internal/adapters/tasks"
	"github.com/bft-labs/autoorganize/internal/app"
	"github.com/bft-labs/autoorganize/internal/hostconfig"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// LogFileName is the JSON log file written under the log directory.
const LogFileName = "autoorganize.log"

// configWatcher is the part of hostconfig.Watcher the host drives.
type configWatcher interface {
	Start(ctx context.Context) error
	Close() error
}

// host owns the process-level wiring around the coordinator.
type host struct {
	coordinator *app.Coordinator
	registry    *app.Registry
	watcher     configWatcher
}

// newHost builds every collaborator. With background set, the task
// scheduler, the library monitor and the config watcher are started too;
// one-shot subcommands run without them.
func newHost(cfg hostconfig.Config, cfgFile string, changed map[string]bool, background bool) (*host, error) {
	fc := log.FactoryConfig{Level: cfg.LogLevel, Console: cfg.Console}
	if cfg.LogFile {
		fc.File = filepath.Join(cfg.LogDir, LogFileName)
	}
	logs, err := log.NewZerologFactory(fc)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	fs := afero.NewOsFs()
	config := hostconfig.NewManager(cfg, cfgFile, logs.Named("Config"))
	index := library.NewIndex(fs, logs.Named("Library"), cfg.LibraryRoots)

	providerManager := providers.NewManager(logs.Named("Providers"))
	if err := providerManager.Register(providers.NewFilenameProvider(index)); err != nil {
		_ = logs.Close()
		return nil, err
	}

	collab := app.Collaborators{
		Logs:       logs,
		Index:      index,
		Config:     config,
		FS:         fs,
		Providers:  providerManager,
		Serializer: serializer.NewJSON(),
	}

	if background {
		monitor, err := library.NewMonitor(logs.Named("LibraryMonitor"), index.Refresh)
		if err != nil {
			_ = logs.Close()
			return nil, fmt.Errorf("create library monitor: %w", err)
		}
		for _, root := range cfg.LibraryRoots {
			if err := monitor.Watch(root); err != nil {
				logs.Named("LibraryMonitor").Warn("failed to watch library root",
					log.String("path", root), log.Err(err))
			}
		}
		collab.Monitor = monitor
		collab.Scheduler = tasks.NewScheduler(logs.Named("TaskScheduler"))
	}

	registry := app.NewRegistry()
	h := &host{
		coordinator: app.NewCoordinator(collab, registry),
		registry:    registry,
	}
	if background && cfgFile != "" && hostconfig.FileExists(cfgFile) {
		h.watcher = hostconfig.NewWatcher(config, cfgFile, changed, logs.Named("ConfigWatcher"))
	}
	return h, nil
}

func (h *host) start(ctx context.Context) error {
	if err := h.coordinator.Start(ctx); err != nil {
		return err
	}
	if h.watcher != nil {
		if err := h.watcher.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// shutdown closes the config watcher, stops the coordinator and then closes
// the service, which owns the repository. It is safe to call twice.
func (h *host) shutdown() error {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
	stopErr := h.coordinator.Stop()

	var closeErr error
	if svc := h.coordinator.Service(); svc != nil {
		closeErr = svc.Close()
	}

	if stopErr != nil {
		return fmt.Errorf("stop auto-organize: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close service: %w", closeErr)
	}
	return nil
}

// withService runs fn against the published service of a one-shot host.
func withService(cfg hostconfig.Config, cfgFile string, fn func(ctx context.Context, h *host) error) error {
	h, err := newHost(cfg, cfgFile, nil, false)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := h.start(ctx); err != nil {
		_ = h.shutdown()
		return err
	}
	err = fn(ctx, h)
	if stopErr := h.shutdown(); err == nil {
		err = stopErr
	}
	return err
}
