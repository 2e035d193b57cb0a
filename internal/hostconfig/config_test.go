package hostconfig

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/autoorganize/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.ScanInterval != 5*time.Minute {
		t.Errorf("ScanInterval = %v, want 5m", cfg.ScanInterval)
	}
	if cfg.MinFileSizeMB != 50 {
		t.Errorf("MinFileSizeMB = %d, want 50", cfg.MinFileSizeMB)
	}
	if len(cfg.Extensions) != len(domain.DefaultExtensions) {
		t.Errorf("Extensions = %v", cfg.Extensions)
	}
	cfg.Extensions[0] = ".changed"
	if domain.DefaultExtensions[0] == ".changed" {
		t.Error("DefaultConfig shares the DefaultExtensions slice")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name:   "derives data and log dirs from home",
			modify: func(c *Config) { c.Home = "/srv/ao" },
			check: func(t *testing.T, c Config) {
				if c.DataDir != filepath.Join("/srv/ao", "data") {
					t.Errorf("DataDir = %q", c.DataDir)
				}
				if c.LogDir != filepath.Join("/srv/ao", "logs") {
					t.Errorf("LogDir = %q", c.LogDir)
				}
			},
		},
		{
			name: "keeps explicit dirs",
			modify: func(c *Config) {
				c.Home = "/srv/ao"
				c.DataDir = "/var/lib/ao"
			},
			check: func(t *testing.T, c Config) {
				if c.DataDir != "/var/lib/ao" {
					t.Errorf("DataDir = %q", c.DataDir)
				}
			},
		},
		{
			name: "normalizes log level and extensions",
			modify: func(c *Config) {
				c.Home = "/srv/ao"
				c.LogLevel = "DEBUG"
				c.Extensions = []string{".MKV"}
			},
			check: func(t *testing.T, c Config) {
				if c.LogLevel != "debug" || c.Extensions[0] != ".mkv" {
					t.Errorf("LogLevel = %q, Extensions = %v", c.LogLevel, c.Extensions)
				}
			},
		},
		{
			name:    "missing home",
			modify:  func(c *Config) { c.Home = "" },
			wantErr: true,
		},
		{
			name: "unknown log level",
			modify: func(c *Config) {
				c.Home = "/srv/ao"
				c.LogLevel = "verbose"
			},
			wantErr: true,
		},
		{
			name: "extension without dot",
			modify: func(c *Config) {
				c.Home = "/srv/ao"
				c.Extensions = []string{"mkv"}
			},
			wantErr: true,
		},
		{
			name: "negative scan interval",
			modify: func(c *Config) {
				c.Home = "/srv/ao"
				c.ScanInterval = -time.Second
			},
			wantErr: true,
		},
		{
			name: "empty watch location",
			modify: func(c *Config) {
				c.Home = "/srv/ao"
				c.WatchLocations = []string{""}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfig_OptionsAreCopies(t *testing.T) {
	cfg := Config{WatchLocations: []string{"/in"}}
	opts := cfg.Options()
	opts.WatchLocations[0] = "/other"

	if cfg.WatchLocations[0] != "/in" {
		t.Error("Options() shares the WatchLocations slice")
	}
}
