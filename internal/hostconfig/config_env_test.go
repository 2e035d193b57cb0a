package hostconfig

import (
	"reflect"
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"AUTOORGANIZE_HOME":               "/env/home",
				"AUTOORGANIZE_LOG_LEVEL":          "debug",
				"AUTOORGANIZE_WATCH_LOCATIONS":    "/in/a, /in/b",
				"AUTOORGANIZE_EXTENSIONS":         ".mkv",
				"AUTOORGANIZE_MIN_FILE_SIZE_MB":   "10",
				"AUTOORGANIZE_SCAN_INTERVAL":      "10m",
				"AUTOORGANIZE_OVERWRITE_EXISTING": "true",
				"AUTOORGANIZE_ONCE":               "1",
			},
			changed: map[string]bool{},
			expected: Config{
				Home:              "/env/home",
				LogLevel:          "debug",
				WatchLocations:    []string{"/in/a", "/in/b"},
				Extensions:        []string{".mkv"},
				MinFileSizeMB:     10,
				ScanInterval:      10 * time.Minute,
				OverwriteExisting: true,
				Once:              true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"AUTOORGANIZE_HOME":      "/env/home",
				"AUTOORGANIZE_LOG_LEVEL": "warn",
			},
			changed:  map[string]bool{"home": true},
			initial:  Config{Home: "/flag/home"},
			expected: Config{Home: "/flag/home", LogLevel: "warn"},
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"AUTOORGANIZE_CONSOLE": "false",
			},
			changed:  map[string]bool{},
			initial:  Config{Console: true},
			expected: Config{Console: false},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"AUTOORGANIZE_SCAN_INTERVAL": "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"AUTOORGANIZE_MIN_FILE_SIZE_MB": "big"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)
			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(cfg, tt.expected) {
				t.Errorf("ApplyEnvConfig() =\n%+v\nwant\n%+v", cfg, tt.expected)
			}
		})
	}
}
