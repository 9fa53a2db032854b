package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	configDir  = ".config/rjournal"
	configFile = "config.toml"
)

// rawConfig is the TOML-unmarshaling intermediary.
type rawConfig struct {
	View      rawViewConfig      `toml:"view"`
	Preview   rawPreviewConfig   `toml:"preview"`
	Datastore rawDatastoreConfig `toml:"datastore"`
	Watch     rawWatchConfig     `toml:"watch"`
	Editor    rawEditorConfig    `toml:"editor"`
	Log       rawLogConfig       `toml:"log"`
}

type rawViewConfig struct {
	Mode           string `toml:"mode"`
	Orientation    string `toml:"orientation"`
	Rows           *int   `toml:"rows"`
	Columns        *int   `toml:"columns"`
	ListCellHeight *int   `toml:"list_cell_height"`
	ShowHidden     *bool  `toml:"show_hidden"`
}

type rawPreviewConfig struct {
	MaxFileSize *int64 `toml:"max_file_size"`
	ChunkSize   *int   `toml:"chunk_size"`
	Width       *int   `toml:"width"`
	Height      *int   `toml:"height"`
	CacheSize   *int   `toml:"cache_size"`
}

type rawDatastoreConfig struct {
	Path string `toml:"path"`
}

type rawWatchConfig struct {
	Enabled  *bool  `toml:"enabled"`
	Debounce string `toml:"debounce"`
}

type rawEditorConfig struct {
	Command string `toml:"command"`
}

type rawLogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/rjournal/config.toml
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			return finish(cfg)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return finish(cfg)
		}
		return nil, err
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := mergeConfig(cfg, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.Datastore.Path = ExpandPath(cfg.Datastore.Path)
	cfg.Log.File = ExpandPath(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) error {
	// View
	if raw.View.Mode != "" {
		cfg.View.Mode = strings.ToLower(raw.View.Mode)
	}
	if raw.View.Orientation != "" {
		cfg.View.Orientation = strings.ToLower(raw.View.Orientation)
	}
	if raw.View.Rows != nil {
		cfg.View.Rows = *raw.View.Rows
	}
	if raw.View.Columns != nil {
		cfg.View.Columns = *raw.View.Columns
	}
	if raw.View.ListCellHeight != nil {
		cfg.View.ListCellHeight = *raw.View.ListCellHeight
	}
	if raw.View.ShowHidden != nil {
		cfg.View.ShowHidden = *raw.View.ShowHidden
	}

	// Preview
	if raw.Preview.MaxFileSize != nil {
		cfg.Preview.MaxFileSize = *raw.Preview.MaxFileSize
	}
	if raw.Preview.ChunkSize != nil {
		cfg.Preview.ChunkSize = *raw.Preview.ChunkSize
	}
	if raw.Preview.Width != nil {
		cfg.Preview.Width = *raw.Preview.Width
	}
	if raw.Preview.Height != nil {
		cfg.Preview.Height = *raw.Preview.Height
	}
	if raw.Preview.CacheSize != nil {
		cfg.Preview.CacheSize = *raw.Preview.CacheSize
	}

	// Datastore
	if raw.Datastore.Path != "" {
		cfg.Datastore.Path = raw.Datastore.Path
	}

	// Watch
	if raw.Watch.Enabled != nil {
		cfg.Watch.Enabled = *raw.Watch.Enabled
	}
	if raw.Watch.Debounce != "" {
		d, err := time.ParseDuration(raw.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("watch.debounce: %w", err)
		}
		cfg.Watch.Debounce = d
	}

	// Editor
	if cmd := strings.TrimSpace(raw.Editor.Command); cmd != "" {
		cfg.Editor.Command = cmd
	}

	// Log
	if raw.Log.File != "" {
		cfg.Log.File = raw.Log.File
	}
	if raw.Log.Level != "" {
		cfg.Log.Level = raw.Log.Level
	}
	return nil
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
