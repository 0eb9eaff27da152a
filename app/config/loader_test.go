package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "main.yml", `
source:
  id: main
  name: Main EPG
  url: https://example.com/xmltv.xml
settings:
  enabled: true
  refresh_interval: 3600
  timeout: 30
`)

	loader := NewLoader(dir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(configs) != 1 {
		t.Fatalf("Expected 1 configuration, got: %d", len(configs))
	}

	cfg, ok := configs["main"]
	if !ok {
		t.Fatal("Expected configuration keyed by source id 'main'")
	}
	if cfg.Source.URL != "https://example.com/xmltv.xml" {
		t.Errorf("Expected URL 'https://example.com/xmltv.xml', got: %s", cfg.Source.URL)
	}
	if !cfg.Settings.Enabled {
		t.Error("Expected source to be enabled")
	}
	if cfg.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected refresh interval 3600, got: %d", cfg.Settings.RefreshInterval)
	}
}

func TestLoadAllDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "guide.yaml", `
source:
  name: Guide
  url: https://example.com/guide.json
`)

	loader := NewLoader(dir)
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	cfg, ok := configs["guide"]
	if !ok {
		t.Fatal("Expected source id derived from filename")
	}
	if cfg.Settings.RefreshInterval != 21600 {
		t.Errorf("Expected default refresh interval 21600, got: %d", cfg.Settings.RefreshInterval)
	}
	if cfg.Settings.Timeout != 60 {
		t.Errorf("Expected default timeout 60, got: %d", cfg.Settings.Timeout)
	}
}

func TestLoadAllMissingDirectory(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))
	configs, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("Expected no error for missing directory, got: %v", err)
	}
	if len(configs) != 0 {
		t.Errorf("Expected empty map, got: %d entries", len(configs))
	}
}

func TestLoadAllInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "broken.yml", `
source:
  name: Missing URL
`)

	loader := NewLoader(dir)
	if _, err := loader.LoadAll(); err == nil {
		t.Error("Expected error for config without URL")
	}
}
