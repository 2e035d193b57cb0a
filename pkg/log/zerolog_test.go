package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestZerologFactory_NamedAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewZerologFactory(FactoryConfig{Output: &buf})
	if err != nil {
		t.Fatalf("NewZerologFactory() error = %v", err)
	}

	f.Named("coordinator").Error("boom",
		String("path", "/tv"),
		Int("count", 2),
		Duration("took", time.Second),
		Err(errors.New("disk gone")),
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	want := map[string]interface{}{
		"level":     "error",
		"component": "coordinator",
		"message":   "boom",
		"path":      "/tv",
		"error":     "disk gone",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], v)
		}
	}
	if entry["count"] != float64(2) {
		t.Errorf("entry[count] = %v, want 2", entry["count"])
	}
}

func TestZerologFactory_Level(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewZerologFactory(FactoryConfig{Level: "WARN", Output: &buf})
	if err != nil {
		t.Fatalf("NewZerologFactory() error = %v", err)
	}

	l := f.Named("x")
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")

	out := buf.String()
	if strings.Contains(out, `"debug"`) || strings.Contains(out, `"info"`) {
		t.Errorf("below-level messages were written: %s", out)
	}
	if !strings.Contains(out, `"warn"`) {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestZerologFactory_InvalidLevel(t *testing.T) {
	if _, err := NewZerologFactory(FactoryConfig{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestZerologFactory_FileAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "autoorganize.log")

	f, err := NewZerologFactory(FactoryConfig{File: path})
	if err != nil {
		t.Fatalf("NewZerologFactory() error = %v", err)
	}

	f.Named("repo").Info("opened")

	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"component":"repo"`) {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestNoopFactory(t *testing.T) {
	f := NewNoopFactory()
	f.Named("anything").Error("dropped")
	if err := f.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
