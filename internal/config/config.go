package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// View modes.
const (
	ModeThumbs = "thumbs"
	ModeList   = "list"
)

// Orientations.
const (
	OrientationVertical   = "vertical"
	OrientationHorizontal = "horizontal"
)

// Config is the root configuration structure.
type Config struct {
	View      ViewConfig
	Preview   PreviewConfig
	Datastore DatastoreConfig
	Watch     WatchConfig
	Editor    EditorConfig
	Log       LogConfig
}

// ViewConfig controls the journal grid.
type ViewConfig struct {
	Mode        string // "thumbs" or "list"
	Orientation string // "vertical" or "horizontal"
	// Rows and Columns fix the thumbs frame.
	Rows    int
	Columns int
	// ListCellHeight is the height of a list row in terminal lines.
	ListCellHeight int
	ShowHidden     bool
}

// PreviewConfig controls thumbnail loading.
type PreviewConfig struct {
	MaxFileSize int64
	ChunkSize   int
	Width       int
	Height      int
	CacheSize   int
}

// DatastoreConfig locates the journal database.
type DatastoreConfig struct {
	Path string
}

// WatchConfig controls directory change notification.
type WatchConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// EditorConfig picks the program that opens file entries. An empty command
// falls back to $VISUAL, $EDITOR and common editors.
type EditorConfig struct {
	Command string
}

// LogConfig routes diagnostics; the terminal belongs to the UI.
type LogConfig struct {
	File  string
	Level string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			Mode:           ModeThumbs,
			Orientation:    OrientationVertical,
			Rows:           4,
			Columns:        5,
			ListCellHeight: 2,
		},
		Preview: PreviewConfig{
			MaxFileSize: 10 << 20,
			ChunkSize:   10 << 10,
			Width:       240,
			Height:      180,
			CacheSize:   256,
		},
		Datastore: DatastoreConfig{
			Path: "~/.local/share/rjournal/journal.db",
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 200 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	switch c.View.Mode {
	case ModeThumbs, ModeList:
	default:
		return fmt.Errorf("view.mode: unknown mode %q", c.View.Mode)
	}
	switch c.View.Orientation {
	case OrientationVertical, OrientationHorizontal:
	default:
		return fmt.Errorf("view.orientation: unknown orientation %q", c.View.Orientation)
	}
	if c.View.Rows <= 0 || c.View.Columns <= 0 {
		return fmt.Errorf("view: rows and columns must be positive, got %dx%d", c.View.Rows, c.View.Columns)
	}
	if c.View.ListCellHeight <= 0 {
		return fmt.Errorf("view.list_cell_height must be positive, got %d", c.View.ListCellHeight)
	}
	if c.Preview.MaxFileSize <= 0 || c.Preview.ChunkSize <= 0 {
		return fmt.Errorf("preview: sizes must be positive")
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview: box must be positive, got %dx%d", c.Preview.Width, c.Preview.Height)
	}
	if c.Preview.CacheSize <= 0 {
		c.Preview.CacheSize = 256
	}
	if c.Watch.Debounce < 0 {
		c.Watch.Debounce = 200 * time.Millisecond
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", name)
}
