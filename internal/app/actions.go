package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	fsutil "github.com/kk-code-lab/rjournal/internal/fs"
	statepkg "github.com/kk-code-lab/rjournal/internal/state"
)

var commandBuilder = exec.Command

// errNoFile is reported when the selected entry lives in the datastore.
var errNoFile = errors.New("entry has no file to open")

func (app *Application) handleYank() bool {
	entry, ok := app.state.CurrentEntry()
	if !ok || !app.state.ClipboardAvailable {
		return false
	}

	text := entry.UID
	if filepath.IsAbs(text) {
		text = normalizeClipboardPath(text, runtime.GOOS)
	}
	if err := app.clipboard(text); err != nil {
		app.state.LastError = fmt.Errorf("yank: %w", err)
		return true
	}
	app.state.LastError = nil
	app.state.LastYankTime = time.Now()
	return true
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		cleaned := filepath.Clean(inputPath)
		return strings.ReplaceAll(cleaned, "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}

// handleOpenEntry hands the selected file to the editor and reloads the
// journal afterwards.
func (app *Application) handleOpenEntry() bool {
	if !app.state.EditorAvailable || len(app.editorCmd) == 0 {
		return false
	}

	entry, ok := app.state.CurrentEntry()
	if !ok {
		return false
	}
	switch {
	case !filepath.IsAbs(entry.UID):
		app.state.LastError = fmt.Errorf("open %q: %w", entry.Title, errNoFile)
		return true
	case entry.Kind == fsutil.KindDirectory:
		app.state.LastError = fmt.Errorf("open %q: is a folder", entry.Title)
		return true
	}

	if err := app.openFileInEditor(entry.UID); err != nil {
		app.state.LastError = err
		return true
	}
	app.handleAction(statepkg.ReloadAction{})
	return true
}

func (app *Application) openFileInEditor(filePath string) error {
	if len(app.editorCmd) == 0 {
		return fmt.Errorf("no editor configured")
	}

	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	var err error

	if useTTY {
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("%s: %w", filepath.Base(editorArgs[0]), runErr)
	}
	return nil
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.Sync()
	}()

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(args[0]), err)
	}
	return nil
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
