//go:build windows

package app

// Windows consoles cannot stop a process; Ctrl+Z is ignored.
func (app *Application) suspendToShell() {
}

func (app *Application) resumeAfterStop() bool {
	return false
}
