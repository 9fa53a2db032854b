package app

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rjournal/internal/state"
	renderui "github.com/kk-code-lab/rjournal/internal/ui/render"
)

const doubleClickThreshold = 300 * time.Millisecond

// Run starts the first reload and multiplexes terminal events, queued
// actions and the journal loop until the user quits or ctx ends.
func (app *Application) Run(ctx context.Context) {
	app.handleAction(statepkg.ReloadAction{})
	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	var flashTimer *time.Timer
	var flashCh <-chan time.Time
	defer func() {
		if flashTimer != nil {
			flashTimer.Stop()
		}
	}()

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		// Re-render once the yank confirmation has expired.
		if app.yankFlashing() && flashCh == nil {
			flashTimer = time.NewTimer(renderui.YankFlash)
			flashCh = flashTimer.C
		}

		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-app.loop.Wake():
			if app.loop.Drain() > 0 {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-flashCh:
			flashCh = nil
			renderPending = true
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) yankFlashing() bool {
	if app.state.LastYankTime.IsZero() {
		return false
	}
	return time.Since(app.state.LastYankTime) < renderui.YankFlash
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps the primary button to cursor moves and the wheel to
// scrolling. A second click on the same entry opens it.
func (app *Application) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	x, y := ev.Position()

	if app.state.HelpVisible {
		if buttons&tcell.Button1 != 0 {
			app.actionCh <- statepkg.HelpHideAction{}
		}
		return
	}

	switch {
	case buttons&tcell.WheelUp != 0:
		app.actionCh <- statepkg.ScrollAction{Delta: -1}
		return
	case buttons&tcell.WheelDown != 0:
		app.actionCh <- statepkg.ScrollAction{Delta: 1}
		return
	}

	pressed := buttons&tcell.Button1 != 0
	wasHeld := app.buttonHeld
	app.buttonHeld = pressed
	if !pressed || wasHeld {
		return
	}

	view := app.state.View
	gx, gy, gw, gh := app.state.GridArea()
	if x < gx || y < gy || x >= gx+gw || y >= gy+gh {
		return
	}
	index, ok := view.Grid().CellAt(x-gx, y-gy)
	if !ok {
		return
	}

	doubleClick := index == app.lastClickIndex && time.Since(app.lastClickTime) <= doubleClickThreshold
	app.lastClickIndex = index
	app.lastClickTime = time.Now()

	app.actionCh <- statepkg.SelectIndexAction{X: x, Y: y}
	if doubleClick && app.state.EditorAvailable {
		app.actionCh <- statepkg.OpenEntryAction{}
	}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	return app.handleAppAction(action)
}

func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.YankUIDAction:
		return app.handleYank()
	case statepkg.OpenEntryAction:
		return app.handleOpenEntry()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	return true
}
