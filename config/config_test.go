package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GOSTREAM_DATA_DIR", dir)

	cfg, cfgPath, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if cfgPath != filepath.Join(dir, "config.json") {
		t.Fatalf("config path = %q", cfgPath)
	}

	if len(cfg.UniqueID) != 16 {
		t.Fatalf("unique id %q is not 16 hex characters", cfg.UniqueID)
	}
	if cfg.HTTPPort != DefaultHTTPPort || cfg.HTTPSPort != DefaultHTTPSPort {
		t.Fatalf("default ports wrong: %d/%d", cfg.HTTPPort, cfg.HTTPSPort)
	}
	if cfg.MinServerVersion != DefaultMinServerVersion || cfg.MaxServerVersion != DefaultMaxServerVersion {
		t.Fatalf("default version bounds wrong: %d..%d", cfg.MinServerVersion, cfg.MaxServerVersion)
	}

	for _, sub := range []string{"keys", "boxart"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Fatalf("expected %s directory: %v", sub, err)
		}
	}
}

func TestLoadOrCreateKeepsExistingIdentity(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GOSTREAM_DATA_DIR", dir)

	first, _, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}

	second, _, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("second LoadOrCreate failed: %v", err)
	}
	if first.UniqueID != second.UniqueID {
		t.Fatalf("unique id changed across runs: %q vs %q", first.UniqueID, second.UniqueID)
	}
}

func TestNormalizeDefaultsFillsGaps(t *testing.T) {
	dir := t.TempDir()

	cfg := &Settings{UniqueID: "AABBCCDD00112233"}
	if !normalizeDefaults(cfg, dir) {
		t.Fatalf("expected normalization to report changes")
	}
	if cfg.UniqueID != "AABBCCDD00112233" {
		t.Fatalf("existing unique id must be preserved")
	}
	if cfg.DeviceName != DefaultDeviceName {
		t.Fatalf("device name not defaulted: %q", cfg.DeviceName)
	}
	if cfg.Stream.Width != 1280 || cfg.Stream.Height != 720 || cfg.Stream.FPS != 60 {
		t.Fatalf("stream defaults not applied: %+v", cfg.Stream)
	}
	if cfg.CertificatePath == "" || cfg.PrivateKeyPath == "" {
		t.Fatalf("identity paths not defaulted")
	}
}

func TestNewUniqueIDShape(t *testing.T) {
	id := NewUniqueID()
	if len(id) != 16 {
		t.Fatalf("unique id length = %d, want 16", len(id))
	}
	for _, r := range id {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			t.Fatalf("unique id %q contains non-hex character %q", id, r)
		}
	}
	if id == NewUniqueID() && id == NewUniqueID() {
		t.Fatalf("unique ids should not repeat")
	}
}
