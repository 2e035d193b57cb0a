// Package hostconfig loads the host configuration and implements the server
// configuration collaborator, including the legacy smart-match migrator.
package hostconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bft-labs/autoorganize/internal/domain"
	"github.com/bft-labs/autoorganize/internal/ports"
)

// DefaultHomeDir is the directory name under the user's home holding the
// config file, database and logs.
const DefaultHomeDir = ".autoorganize"

// Config holds host configuration for autoorganize.
type Config struct {
	Home    string `validate:"required"`
	DataDir string `validate:"required"`
	LogDir  string `validate:"required"`

	LogLevel string `validate:"required,oneof=debug info warn error"`
	LogFile  bool
	Console  bool

	LibraryRoots   []string `validate:"dive,required"`
	WatchLocations []string `validate:"dive,required"`
	Extensions     []string `validate:"dive,startswith=."`

	MinFileSizeMB      int           `validate:"gte=0"`
	ScanInterval       time.Duration `validate:"gte=0"`
	DeleteEmptyFolders bool
	OverwriteExisting  bool
	CopyOriginalFile   bool

	Converted        bool
	LegacySmartMatch []domain.LegacySmartMatchInfo

	Once bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Home:          defaultHome(),
		LogLevel:      "info",
		LogFile:       true,
		Console:       true,
		Extensions:    append([]string(nil), domain.DefaultExtensions...),
		MinFileSizeMB: 50,
		ScanInterval:  5 * time.Minute,
		// DataDir and LogDir are derived from Home during Validate
	}
}

func defaultHome() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, DefaultHomeDir)
	}
	return ""
}

var validate = validator.New()

// Validate sets derived defaults and checks the configuration for errors.
// Failures wrap domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Home != "" {
		if c.DataDir == "" {
			c.DataDir = filepath.Join(c.Home, "data")
		}
		if c.LogDir == "" {
			c.LogDir = filepath.Join(c.Home, "logs")
		}
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	for i, ext := range c.Extensions {
		c.Extensions[i] = strings.ToLower(ext)
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q validation", domain.ErrInvalidConfig, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return nil
}

// Paths returns the application paths derived from the configuration.
func (c Config) Paths(configPath string) ports.ApplicationPaths {
	return ports.ApplicationPaths{
		DataPath:   c.DataDir,
		LogPath:    c.LogDir,
		ConfigPath: configPath,
	}
}

// Options returns the auto-organize options held by the configuration.
func (c Config) Options() domain.AutoOrganizeOptions {
	return domain.AutoOrganizeOptions{
		WatchLocations:     append([]string(nil), c.WatchLocations...),
		Extensions:         append([]string(nil), c.Extensions...),
		MinFileSizeMB:      c.MinFileSizeMB,
		ScanInterval:       c.ScanInterval,
		DeleteEmptyFolders: c.DeleteEmptyFolders,
		OverwriteExisting:  c.OverwriteExisting,
		CopyOriginalFile:   c.CopyOriginalFile,
		Converted:          c.Converted,
		LegacySmartMatch:   append([]domain.LegacySmartMatchInfo(nil), c.LegacySmartMatch...),
	}
}
