package hostconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (AUTOORGANIZE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("home", os.Getenv("AUTOORGANIZE_HOME"), &cfg.Home)
	s.setString("data-dir", os.Getenv("AUTOORGANIZE_DATA_DIR"), &cfg.DataDir)
	s.setString("log-dir", os.Getenv("AUTOORGANIZE_LOG_DIR"), &cfg.LogDir)
	s.setString("log-level", os.Getenv("AUTOORGANIZE_LOG_LEVEL"), &cfg.LogLevel)

	s.setListFromString("library", os.Getenv("AUTOORGANIZE_LIBRARY_ROOTS"), &cfg.LibraryRoots)
	s.setListFromString("watch", os.Getenv("AUTOORGANIZE_WATCH_LOCATIONS"), &cfg.WatchLocations)
	s.setListFromString("extensions", os.Getenv("AUTOORGANIZE_EXTENSIONS"), &cfg.Extensions)

	if err := s.setIntFromString("min-size", os.Getenv("AUTOORGANIZE_MIN_FILE_SIZE_MB"), &cfg.MinFileSizeMB); err != nil {
		return err
	}
	if err := s.setDuration("scan-interval", os.Getenv("AUTOORGANIZE_SCAN_INTERVAL"), &cfg.ScanInterval); err != nil {
		return err
	}

	s.setBoolFromString("log-file", os.Getenv("AUTOORGANIZE_LOG_FILE"), &cfg.LogFile)
	s.setBoolFromString("console", os.Getenv("AUTOORGANIZE_CONSOLE"), &cfg.Console)
	s.setBoolFromString("delete-empty-folders", os.Getenv("AUTOORGANIZE_DELETE_EMPTY_FOLDERS"), &cfg.DeleteEmptyFolders)
	s.setBoolFromString("overwrite", os.Getenv("AUTOORGANIZE_OVERWRITE_EXISTING"), &cfg.OverwriteExisting)
	s.setBoolFromString("copy", os.Getenv("AUTOORGANIZE_COPY_ORIGINAL_FILE"), &cfg.CopyOriginalFile)
	s.setBoolFromString("once", os.Getenv("AUTOORGANIZE_ONCE"), &cfg.Once)

	return nil
}
