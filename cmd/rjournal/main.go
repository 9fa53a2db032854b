package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
)

// Version is set at build time via ldflags
var Version = ""

func main() {
	// Set UTF-8 as fallback encoding so titles in any script display correctly.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rjournal: %v\n", err)
		os.Exit(1)
	}
}

func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if dirty {
		revision += "-dirty"
	}
	return "devel+" + revision
}
