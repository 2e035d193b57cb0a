package hostconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/bft-labs/autoorganize/internal/domain"
)

type recordingStore struct {
	available bool
	saved     []domain.SmartMatchResult
	err       error
}

func (s *recordingStore) Available() bool { return s.available }

func (s *recordingStore) SaveSmartMatch(ctx context.Context, m domain.SmartMatchResult) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, m)
	return nil
}

func loadManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := writeConfig(t, legacyConfig)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return NewManager(cfg, path, nil), path
}

func TestManager_ConvertSmartMatchInfo(t *testing.T) {
	m, path := loadManager(t)
	store := &recordingStore{available: true}

	if err := m.ConvertSmartMatchInfo(context.Background(), store); err != nil {
		t.Fatalf("ConvertSmartMatchInfo() error = %v", err)
	}

	if len(store.saved) != 2 {
		t.Fatalf("saved %d entries, want 2", len(store.saved))
	}
	first := store.saved[0]
	if first.ID == "" || first.ItemName != "Some Show" || first.OrganizerType != domain.OrganizerEpisode {
		t.Errorf("first entry = %+v", first)
	}
	if store.saved[0].ID == store.saved[1].ID {
		t.Error("entries share an ID")
	}

	opts := m.AutoOrganizeOptions()
	if !opts.Converted || len(opts.LegacySmartMatch) != 0 {
		t.Errorf("options after conversion = %+v", opts)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !fc.AutoOrganize.Converted || len(fc.AutoOrganize.SmartMatch) != 0 {
		t.Errorf("persisted section = %+v", fc.AutoOrganize)
	}
	if fc.Home != "/srv/ao" || fc.AutoOrganize.ScanInterval != "15m" {
		t.Errorf("unrelated settings lost: %+v", fc)
	}

	t.Run("second run is a no-op", func(t *testing.T) {
		again := &recordingStore{available: true}
		if err := m.ConvertSmartMatchInfo(context.Background(), again); err != nil {
			t.Fatal(err)
		}
		if len(again.saved) != 0 {
			t.Errorf("saved %d entries on second run", len(again.saved))
		}
	})
}

func TestManager_ConvertDeferredWhenUnavailable(t *testing.T) {
	m, path := loadManager(t)
	store := &recordingStore{available: false}

	if err := m.ConvertSmartMatchInfo(context.Background(), store); err != nil {
		t.Fatalf("ConvertSmartMatchInfo() error = %v", err)
	}
	if len(store.saved) != 0 {
		t.Error("entries saved to unavailable store")
	}
	if opts := m.AutoOrganizeOptions(); opts.Converted || len(opts.LegacySmartMatch) != 2 {
		t.Errorf("options changed: %+v", opts)
	}
	fc, _ := LoadFileConfig(path)
	if fc.AutoOrganize.Converted || len(fc.AutoOrganize.SmartMatch) != 2 {
		t.Errorf("file changed: %+v", fc.AutoOrganize)
	}
}

func TestManager_ConvertPropagatesStoreError(t *testing.T) {
	m, _ := loadManager(t)
	boom := errors.New("disk full")

	err := m.ConvertSmartMatchInfo(context.Background(), &recordingStore{available: true, err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("ConvertSmartMatchInfo() error = %v, want %v", err, boom)
	}
	if m.AutoOrganizeOptions().Converted {
		t.Error("marked converted after failure")
	}
}

func TestManager_WithoutConfigFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Home = "/srv/ao"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	m := NewManager(cfg, "", nil)

	if err := m.ConvertSmartMatchInfo(context.Background(), &recordingStore{available: true}); err != nil {
		t.Fatal(err)
	}
	if !m.AutoOrganizeOptions().Converted {
		t.Error("Converted = false")
	}

	paths := m.ApplicationPaths()
	if paths.DataPath != cfg.DataDir || paths.LogPath != cfg.LogDir {
		t.Errorf("ApplicationPaths() = %+v", paths)
	}
}
