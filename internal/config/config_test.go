package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8787 {
		t.Errorf("expected default port 8787, got %d", cfg.Port)
	}
	if cfg.DecksDir != "decks" {
		t.Errorf("expected default decks_dir %q, got %q", "decks", cfg.DecksDir)
	}
	if cfg.Transport != TransportHub {
		t.Errorf("expected default transport %q, got %q", TransportHub, cfg.Transport)
	}
	if cfg.Channel != "main" {
		t.Errorf("expected default channel %q, got %q", "main", cfg.Channel)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.miconsole.yml")

	original := DefaultConfig()
	original.Port = 9000
	original.DecksDir = "presentations"
	original.DefaultDeck = "winter-briefing"
	original.Include = []string{"**/*.json", "**/*.deck"}
	original.Transport = TransportFile
	original.RelayPath = "/tmp/relay.json"

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.DecksDir != original.DecksDir {
		t.Errorf("decks_dir: got %q, want %q", loaded.DecksDir, original.DecksDir)
	}
	if loaded.DefaultDeck != original.DefaultDeck {
		t.Errorf("default_deck: got %q, want %q", loaded.DefaultDeck, original.DefaultDeck)
	}
	if loaded.Transport != original.Transport {
		t.Errorf("transport: got %q, want %q", loaded.Transport, original.Transport)
	}
	if loaded.RelayPath != original.RelayPath {
		t.Errorf("relay_path: got %q, want %q", loaded.RelayPath, original.RelayPath)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Errorf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Port != 8787 {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Override the channel via env var.
	os.Setenv("MICONSOLE_CHANNEL", "stage-two")
	defer os.Unsetenv("MICONSOLE_CHANNEL")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Channel != "stage-two" {
		t.Errorf("env override failed: got %q, want %q", loaded.Channel, "stage-two")
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateBadPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := DefaultConfig()
		cfg.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected validation error for port %d", port)
		}
	}
}

func TestValidateEmptyDecksDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DecksDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty decks_dir")
	}
}

func TestValidateInvalidTransport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transport = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for invalid transport")
	}
}

func TestValidateFileTransportNeedsRelayPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Transport = TransportFile
	cfg.RelayPath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for file transport without relay_path")
	}
}

func TestValidateEmptyChannel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channel = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty channel")
	}
}

func TestValidateUpstreamURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UpstreamURL = "https://slides.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("https upstream rejected: %v", err)
	}

	cfg.UpstreamURL = "ftp://slides.example.com"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for non-http upstream_url")
	}
}
