// Package library implements the host library collaborators: a filesystem
// monitor built on fsnotify and an in-memory library index.
package library

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/autoorganize/internal/ports"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// ChangeFunc receives the path of an external change inside a watched folder.
type ChangeFunc func(path string)

// Monitor implements ports.LibraryMonitor with fsnotify.
type Monitor struct {
	logger   log.Logger
	onChange ChangeFunc
	watcher  *fsnotify.Watcher

	mu         sync.Mutex
	suppressed map[string]int

	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewMonitor starts a monitor that forwards unsuppressed events to onChange.
// onChange may be nil.
func NewMonitor(logger log.Logger, onChange ChangeFunc) (*Monitor, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	m := &Monitor{
		logger:     logger,
		onChange:   onChange,
		watcher:    watcher,
		suppressed: make(map[string]int),
		done:       make(chan struct{}),
	}

	m.wg.Add(1)
	go m.loop()
	return m, nil
}

// Watch adds a folder to the monitor. fsnotify does not recurse; callers add
// each folder they care about.
func (m *Monitor) Watch(path string) error {
	if err := m.watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	m.logger.Info("watching library folder", log.String("path", path))
	return nil
}

// ReportChangeBeginning suppresses events for path and anything below it
// until the matching ReportChangeComplete.
func (m *Monitor) ReportChangeBeginning(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suppressed[filepath.Clean(path)]++
}

// ReportChangeComplete lifts one suppression of path.
func (m *Monitor) ReportChangeComplete(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := filepath.Clean(path)
	if m.suppressed[p] <= 1 {
		delete(m.suppressed, p)
		return
	}
	m.suppressed[p]--
}

// Close stops the watcher and waits for the event loop. Safe to call twice.
func (m *Monitor) Close() error {
	m.closeOnce.Do(func() {
		close(m.done)
		m.closeErr = m.watcher.Close()
		m.wg.Wait()
	})
	return m.closeErr
}

func (m *Monitor) loop() {
	defer m.wg.Done()

	for {
		select {
		case <-m.done:
			return

		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if m.isSuppressed(event.Name) {
				m.logger.Debug("ignoring organizer change", log.String("path", event.Name))
				continue
			}
			if m.onChange != nil {
				m.onChange(event.Name)
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Error("library monitor error", log.Err(err))
		}
	}
}

func (m *Monitor) isSuppressed(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := filepath.Clean(path)
	for s := range m.suppressed {
		if p == s || strings.HasPrefix(p, s+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

var _ ports.LibraryMonitor = (*Monitor)(nil)
