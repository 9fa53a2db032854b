package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.View.Mode != ModeThumbs || cfg.View.Rows != 4 || cfg.View.Columns != 5 {
		t.Fatalf("unexpected defaults %+v", cfg.View)
	}
	if cfg.Preview.Width != 240 || cfg.Preview.Height != 180 || cfg.Preview.MaxFileSize != 10<<20 {
		t.Fatalf("unexpected preview defaults %+v", cfg.Preview)
	}
	if strings.HasPrefix(cfg.Datastore.Path, "~") {
		t.Fatalf("datastore path should be expanded, got %q", cfg.Datastore.Path)
	}
}

func TestLoadFromMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[view]
mode = "List"
orientation = "horizontal"
columns = 3
show_hidden = true

[preview]
cache_size = 32

[watch]
debounce = "1s"

[editor]
command = "  code --wait "

[log]
file = "/tmp/rjournal.log"
level = "debug"
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.View.Mode != ModeList || cfg.View.Orientation != OrientationHorizontal {
		t.Fatalf("view not merged: %+v", cfg.View)
	}
	if cfg.View.Columns != 3 || cfg.View.Rows != 4 || !cfg.View.ShowHidden {
		t.Fatalf("view not merged: %+v", cfg.View)
	}
	if cfg.Preview.CacheSize != 32 || cfg.Preview.ChunkSize != 10<<10 {
		t.Fatalf("preview not merged: %+v", cfg.Preview)
	}
	if cfg.Watch.Debounce != time.Second || !cfg.Watch.Enabled {
		t.Fatalf("watch not merged: %+v", cfg.Watch)
	}
	if cfg.Editor.Command != "code --wait" {
		t.Fatalf("editor not merged: %+v", cfg.Editor)
	}
	if cfg.Log.File != "/tmp/rjournal.log" || cfg.Log.Level != "debug" {
		t.Fatalf("log not merged: %+v", cfg.Log)
	}
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[view\nmode="},
		{"unknown mode", "[view]\nmode = \"mosaic\""},
		{"zero rows", "[view]\nrows = 0"},
		{"bad orientation", "[view]\norientation = \"diagonal\""},
		{"bad debounce", "[watch]\ndebounce = \"soon\""},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"negative box", "[preview]\nwidth = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x/y"); got != filepath.Join(home, "x/y") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if got := ExpandPath("/abs"); got != "/abs" {
		t.Fatalf("ExpandPath = %q", got)
	}
}
