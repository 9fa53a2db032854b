//go:build !windows

package app

import (
	"github.com/gdamore/tcell/v2"
	"golang.org/x/sys/unix"

	statepkg "github.com/kk-code-lab/rjournal/internal/state"
)

func (app *Application) suspendToShell() {
	// Return terminal control to the shell before stopping the process.
	_ = app.screen.Suspend()
	// Stop only this process so job control of the launching shell keeps
	// working.
	_ = unix.Kill(unix.Getpid(), unix.SIGTSTP)
}

func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		app.logger.Warn("resume after stop failed", "error", err)
		return false
	}
	// Re-enable mouse reporting after resume
	app.screen.EnableMouse()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.handleAction(statepkg.ResizeAction{Width: w, Height: h})
	}
	return true
}
