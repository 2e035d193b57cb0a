package hostconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/autoorganize/pkg/log"
)

// DefaultDebounceDelay is how long the watcher waits after the last write
// before reloading.
const DefaultDebounceDelay = 250 * time.Millisecond

// Watcher reloads the auto-organize options of a Manager when the config
// file changes on disk. Flag values keep precedence over the reloaded file.
type Watcher struct {
	manager *Manager
	path    string
	changed map[string]bool
	logger  log.Logger
	delay   time.Duration
	reload  func() error

	mu       sync.Mutex
	debounce *time.Timer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for path. changed lists the flags set on the
// command line.
func NewWatcher(manager *Manager, path string, changed map[string]bool, logger log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	w := &Watcher{
		manager: manager,
		path:    filepath.Clean(path),
		changed: changed,
		logger:  logger,
		delay:   DefaultDebounceDelay,
	}
	w.reload = w.Reload
	return w
}

// Start begins watching the config file's directory. Editors often replace
// files instead of writing them, so the directory is watched, not the file.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	w.watcher = fw
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(watchCtx, fw)

	w.logger.Info("config watcher started", log.String("path", w.path))
	return nil
}

// Close stops the watcher. A debounced reload that has not fired is
// dropped; one already running is waited for. Safe to call twice.
func (w *Watcher) Close() error {
	w.mu.Lock()
	cancel := w.cancel
	fw := w.watcher
	w.cancel = nil
	w.watcher = nil
	w.stopDebounce()
	w.mu.Unlock()

	var err error
	if cancel != nil {
		cancel()
		err = fw.Close()
	}
	w.wg.Wait()
	return err
}

// stopDebounce cancels a timer that has not fired and releases its wait
// group slot. Callers hold w.mu.
func (w *Watcher) stopDebounce() {
	if w.debounce != nil && w.debounce.Stop() {
		w.wg.Done()
	}
	w.debounce = nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopDebounce()
	w.wg.Add(1)
	w.debounce = time.AfterFunc(w.delay, func() {
		defer w.wg.Done()
		if ctx.Err() != nil {
			return
		}
		if err := w.reload(); err != nil {
			w.logger.Warn("config reload failed, keeping previous settings", log.Err(err))
		}
	})
}

// Reload reads the config file and applies it to the manager. A missing or
// invalid file leaves the current settings in place.
func (w *Watcher) Reload() error {
	if !FileExists(w.path) {
		return nil
	}
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg := w.manager.Config()
	if err := ApplyFileConfig(&cfg, fc, w.changed); err != nil {
		return err
	}
	if err := ApplyEnvConfig(&cfg, w.changed); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	w.manager.Reload(cfg)
	w.logger.Info("config reloaded",
		log.Strings("watch_locations", cfg.WatchLocations),
		log.Duration("scan_interval", cfg.ScanInterval),
	)
	return nil
}
