package hostconfig

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/autoorganize/internal/domain"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Home         string   `toml:"home,omitempty"`
	DataDir      string   `toml:"data_dir,omitempty"`
	LogDir       string   `toml:"log_dir,omitempty"`
	LogLevel     string   `toml:"log_level,omitempty"`
	LogFile      *bool    `toml:"log_file,omitempty"`
	Console      *bool    `toml:"console,omitempty"`
	LibraryRoots []string `toml:"library_roots,omitempty"`

	AutoOrganize AutoOrganizeSection `toml:"auto_organize"`
}

// AutoOrganizeSection is the [auto_organize] table.
type AutoOrganizeSection struct {
	WatchLocations     []string `toml:"watch_locations,omitempty"`
	Extensions         []string `toml:"extensions,omitempty"`
	MinFileSizeMB      int      `toml:"min_file_size_mb,omitempty"`
	ScanInterval       string   `toml:"scan_interval,omitempty"`
	DeleteEmptyFolders *bool    `toml:"delete_empty_folders,omitempty"`
	OverwriteExisting  *bool    `toml:"overwrite_existing,omitempty"`
	CopyOriginalFile   *bool    `toml:"copy_original_file,omitempty"`
	Converted          bool     `toml:"converted"`

	// SmartMatch holds entries written by older releases. They are moved
	// into the database on first start and removed from the file.
	SmartMatch []SmartMatchEntry `toml:"smart_match,omitempty"`
}

// SmartMatchEntry is one [[auto_organize.smart_match]] table.
type SmartMatchEntry struct {
	ItemName      string   `toml:"item_name"`
	DisplayName   string   `toml:"display_name,omitempty"`
	OrganizerType string   `toml:"organizer_type,omitempty"`
	MatchStrings  []string `toml:"match_strings"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// SaveFileConfig writes fc to path atomically: the file is written to a
// temporary sibling and renamed into place.
func SaveFileConfig(path string, fc FileConfig) error {
	b, err := toml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.autoorganize/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, DefaultHomeDir, "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("home", fc.Home, &cfg.Home)
	s.setString("data-dir", fc.DataDir, &cfg.DataDir)
	s.setString("log-dir", fc.LogDir, &cfg.LogDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setBool("log-file", fc.LogFile, &cfg.LogFile)
	s.setBool("console", fc.Console, &cfg.Console)
	s.setStrings("library", fc.LibraryRoots, &cfg.LibraryRoots)

	ao := fc.AutoOrganize
	s.setStrings("watch", ao.WatchLocations, &cfg.WatchLocations)
	s.setStrings("extensions", ao.Extensions, &cfg.Extensions)
	s.setInt("min-size", ao.MinFileSizeMB, &cfg.MinFileSizeMB)
	if err := s.setDuration("scan-interval", ao.ScanInterval, &cfg.ScanInterval); err != nil {
		return err
	}
	s.setBool("delete-empty-folders", ao.DeleteEmptyFolders, &cfg.DeleteEmptyFolders)
	s.setBool("overwrite", ao.OverwriteExisting, &cfg.OverwriteExisting)
	s.setBool("copy", ao.CopyOriginalFile, &cfg.CopyOriginalFile)

	// Migration state is file-only.
	cfg.Converted = ao.Converted
	cfg.LegacySmartMatch = nil
	for _, e := range ao.SmartMatch {
		cfg.LegacySmartMatch = append(cfg.LegacySmartMatch, domain.LegacySmartMatchInfo{
			ItemName:      e.ItemName,
			DisplayName:   e.DisplayName,
			OrganizerType: organizerType(e.OrganizerType),
			MatchStrings:  append([]string(nil), e.MatchStrings...),
		})
	}

	return nil
}

func organizerType(s string) domain.FileOrganizerType {
	switch domain.FileOrganizerType(s) {
	case domain.OrganizerEpisode, domain.OrganizerMovie:
		return domain.FileOrganizerType(s)
	default:
		return domain.OrganizerUnknown
	}
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
