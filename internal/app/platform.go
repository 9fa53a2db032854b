package app

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"unicode"

	"github.com/kk-code-lab/rjournal/internal/config"
)

// fallbackEditors are tried in order when nothing is configured.
var fallbackEditors = map[string][][]string{
	"windows": {{"code", "--wait"}, {"notepad++.exe"}, {"notepad.exe"}},
	"":        {{"vim"}, {"nano"}, {"vi"}},
}

// detectEditorCommand resolves the editor for file entries. A configured
// command wins over $VISUAL and $EDITOR.
func detectEditorCommand(configured string) ([]string, bool) {
	return detectEditorCommandInternal(runtime.GOOS, configured, os.Getenv, exec.LookPath)
}

func detectEditorCommandInternal(goos, configured string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	for _, candidate := range []string{configured, getenv("VISUAL"), getenv("EDITOR")} {
		if args, ok := resolveEditorArgs(parseEditorCommand(candidate), lookPath); ok {
			return args, true
		}
	}

	defaults := fallbackEditors[""]
	if strings.EqualFold(goos, "windows") {
		defaults = fallbackEditors["windows"]
	}
	for _, def := range defaults {
		if args, ok := resolveEditorArgs(append([]string(nil), def...), lookPath); ok {
			return args, true
		}
	}
	return nil, false
}

// resolveEditorArgs replaces the program of args with its resolved path.
func resolveEditorArgs(args []string, lookPath func(string) (string, error)) ([]string, bool) {
	if len(args) == 0 || args[0] == "" {
		return nil, false
	}
	resolved, err := lookPath(expandUserPath(args[0]))
	if err != nil || resolved == "" {
		return nil, false
	}
	args[0] = resolved
	return args, true
}

// parseEditorCommand splits cmd into words, honoring single and double
// quotes.
func parseEditorCommand(cmd string) []string {
	var args []string
	var current strings.Builder
	var quote rune
	pending := false

	flush := func() {
		if pending {
			args = append(args, current.String())
			current.Reset()
			pending = false
		}
	}

	for _, r := range strings.TrimSpace(cmd) {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
			pending = true
		case quote == 0 && unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	flush()

	if len(args) > 0 {
		args[0] = expandUserPath(args[0])
	}
	return args
}

func expandUserPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	case strings.HasPrefix(path, `~\`):
		path = "~/" + path[2:]
	}
	return config.ExpandPath(path)
}
