// Package config loads engine configuration for the temporalsearch CLI:
// index/relational store paths, default result limit, snippet rendering
// options, and cache sizing, layered defaults -> YAML file -> CLI flags.
package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	koanf "github.com/knadh/koanf/v2"

	"github.com/Fredrikaaa/temporalsearch/internal/xerrors"
)

// Config is the engine's resolved configuration.
type Config struct {
	IndexPath              string `koanf:"index_path"`
	RelationalDBPath       string `koanf:"relational_db_path"`
	DefaultLimit           int    `koanf:"default_limit"`
	SnippetBeforeAffix     string `koanf:"snippet_before_affix"`
	SnippetAfterAffix      string `koanf:"snippet_after_affix"`
	SentenceBoundaryMarker string `koanf:"sentence_boundary_marker"`
	TextCacheSizeMB        int    `koanf:"text_cache_size_mb"`
	SnippetCacheSizeMB     int    `koanf:"snippet_cache_size_mb"`
	MaxWorkers             int    `koanf:"max_workers"`
}

// Defaults returns the built-in configuration baseline, the first layer
// koanf merges before a config file and CLI flags override it.
func Defaults() Config {
	return Config{
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
}

// DefaultPath resolves $XDG_CONFIG_HOME/temporalsearch/config.yaml (or the
// platform equivalent xdg.ConfigFile resolves).
func DefaultPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("temporalsearch", "config.yaml"))
	if err != nil {
		return "", xerrors.ResourceError("config.default_path", err)
	}
	return path, nil
}

// Load builds a Config by merging Defaults(), then a YAML file at path (if
// given), then overrides — a sparse map of only the keys the caller wants
// to force (typically cobra flags the user actually set), following the
// defaults -> file -> flags layering order.
func Load(path string, overrides map[string]any) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, xerrors.Internal("config", "failed to load defaults: "+err.Error())
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, xerrors.ResourceError("config.load_file", err)
		}
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return Config{}, xerrors.Internal("config", "failed to merge overrides: "+err.Error())
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, xerrors.Internal("config", "failed to unmarshal configuration: "+err.Error())
	}
	return cfg, nil
}
