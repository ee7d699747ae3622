package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	want := Config{
		IndexPath:              "./index",
		RelationalDBPath:       "./corpus.db",
		DefaultLimit:           100,
		SnippetBeforeAffix:     "**",
		SnippetAfterAffix:      "**",
		SentenceBoundaryMarker: "",
		TextCacheSizeMB:        128,
		SnippetCacheSizeMB:     32,
		MaxWorkers:             4,
	}
	if d != want {
		t.Errorf("Defaults() = %+v, want %+v", d, want)
	}
}

func TestLoadWithoutPathOrOverrides(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("Load(\"\", nil) = %+v, want Defaults() %+v", cfg, Defaults())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "index_path: /data/index\ndefault_limit: 25\nmax_workers: 8\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IndexPath != "/data/index" {
		t.Errorf("IndexPath = %q, want /data/index", cfg.IndexPath)
	}
	if cfg.DefaultLimit != 25 {
		t.Errorf("DefaultLimit = %d, want 25", cfg.DefaultLimit)
	}
	if cfg.MaxWorkers != 8 {
		t.Errorf("MaxWorkers = %d, want 8", cfg.MaxWorkers)
	}
	// Untouched by the file, so it should retain its default.
	if cfg.RelationalDBPath != "./corpus.db" {
		t.Errorf("RelationalDBPath = %q, want default ./corpus.db", cfg.RelationalDBPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected an error loading a nonexistent config file")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "default_limit: 25\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	overrides := map[string]any{"default_limit": 9}
	cfg, err := Load(path, overrides)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultLimit != 9 {
		t.Errorf("DefaultLimit = %d, want override value 9", cfg.DefaultLimit)
	}
	// Keys the caller didn't set stay at the file/default layer's value.
	if cfg.IndexPath != "./index" {
		t.Errorf("IndexPath = %q, want default ./index", cfg.IndexPath)
	}
}

func TestLoadOverridesWithoutFile(t *testing.T) {
	overrides := map[string]any{"max_workers": 16}
	cfg, err := Load("", overrides)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxWorkers != 16 {
		t.Errorf("MaxWorkers = %d, want override value 16", cfg.MaxWorkers)
	}
	if cfg.DefaultLimit != 100 {
		t.Errorf("DefaultLimit = %d, want default 100", cfg.DefaultLimit)
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if path == "" {
		t.Error("DefaultPath() returned an empty path")
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("DefaultPath() = %q, want a path ending in config.yaml", path)
	}
}
