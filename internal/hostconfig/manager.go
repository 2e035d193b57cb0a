package hostconfig

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/autoorganize/internal/domain"
	"github.com/bft-labs/autoorganize/internal/ports"
	"github.com/bft-labs/autoorganize/pkg/log"
)

// Manager is the server configuration collaborator. It serves a validated
// Config and persists migration state back to the config file.
type Manager struct {
	path   string
	logger log.Logger

	mu  sync.RWMutex
	cfg Config
}

// NewManager wraps cfg. path is the config file the migrator rewrites; it
// may be empty, in which case migration state is kept in memory only.
func NewManager(cfg Config, path string, logger log.Logger) *Manager {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Manager{path: path, logger: logger, cfg: cfg}
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// ApplicationPaths returns the host directories.
func (m *Manager) ApplicationPaths() ports.ApplicationPaths {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Paths(m.path)
}

// AutoOrganizeOptions returns a copy of the current options.
func (m *Manager) AutoOrganizeOptions() domain.AutoOrganizeOptions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Options()
}

// Reload replaces the auto-organize options with those of cfg. Paths and
// logging settings need a restart and are kept. A completed smart-match
// conversion is never undone.
func (m *Manager) Reload(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cfg.LibraryRoots = cfg.LibraryRoots
	m.cfg.WatchLocations = cfg.WatchLocations
	m.cfg.Extensions = cfg.Extensions
	m.cfg.MinFileSizeMB = cfg.MinFileSizeMB
	m.cfg.ScanInterval = cfg.ScanInterval
	m.cfg.DeleteEmptyFolders = cfg.DeleteEmptyFolders
	m.cfg.OverwriteExisting = cfg.OverwriteExisting
	m.cfg.CopyOriginalFile = cfg.CopyOriginalFile

	if !m.cfg.Converted {
		m.cfg.Converted = cfg.Converted
		m.cfg.LegacySmartMatch = cfg.LegacySmartMatch
	}
}

// ConvertSmartMatchInfo moves legacy smart-match entries into store, marks
// the options converted and rewrites the config file without them. It does
// nothing once converted, and defers the conversion while store cannot
// persist entries.
func (m *Manager) ConvertSmartMatchInfo(ctx context.Context, store ports.SmartMatchStore) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.Converted {
		return nil
	}
	if !store.Available() {
		m.logger.Warn("smart match conversion deferred: store unavailable",
			log.Int("entries", len(m.cfg.LegacySmartMatch)))
		return nil
	}

	for _, legacy := range m.cfg.LegacySmartMatch {
		match := domain.SmartMatchResult{
			ID:            uuid.NewString(),
			ItemName:      legacy.ItemName,
			DisplayName:   legacy.DisplayName,
			OrganizerType: legacy.OrganizerType,
			MatchStrings:  append([]string(nil), legacy.MatchStrings...),
		}
		if err := store.SaveSmartMatch(ctx, match); err != nil {
			return fmt.Errorf("convert smart match %q: %w", legacy.ItemName, err)
		}
	}

	converted := len(m.cfg.LegacySmartMatch)
	m.cfg.Converted = true
	m.cfg.LegacySmartMatch = nil

	if err := m.persistConverted(); err != nil {
		return err
	}

	m.logger.Info("smart match settings converted", log.Int("entries", converted))
	return nil
}

// persistConverted rewrites the config file with the migration state. A
// missing file has no legacy entries to clear and is left absent.
func (m *Manager) persistConverted() error {
	if m.path == "" || !FileExists(m.path) {
		return nil
	}
	fc, err := LoadFileConfig(m.path)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	fc.AutoOrganize.Converted = true
	fc.AutoOrganize.SmartMatch = nil
	if err := SaveFileConfig(m.path, fc); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

var _ ports.ServerConfig = (*Manager)(nil)
