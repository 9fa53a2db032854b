package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rjournal/internal/state"
)

var keyActions = map[tcell.Key]statepkg.Action{
	tcell.KeyUp:    statepkg.NavigateUpAction{},
	tcell.KeyDown:  statepkg.NavigateDownAction{},
	tcell.KeyLeft:  statepkg.NavigateLeftAction{},
	tcell.KeyRight: statepkg.NavigateRightAction{},
	tcell.KeyPgUp:  statepkg.NavigatePageUpAction{},
	tcell.KeyPgDn:  statepkg.NavigatePageDownAction{},
	tcell.KeyHome:  statepkg.NavigateHomeAction{},
	tcell.KeyEnd:   statepkg.NavigateEndAction{},
	tcell.KeyEnter: statepkg.StartEditAction{},
	tcell.KeyF2:    statepkg.StartEditAction{},
	tcell.KeyCtrlZ: statepkg.SuspendAction{},
	tcell.KeyCtrlL: statepkg.ReloadAction{},
}

// Vim motions plus the single-letter commands.
var runeActions = map[rune]statepkg.Action{
	'h': statepkg.NavigateLeftAction{},
	'j': statepkg.NavigateDownAction{},
	'k': statepkg.NavigateUpAction{},
	'l': statepkg.NavigateRightAction{},
	'g': statepkg.NavigateHomeAction{},
	'G': statepkg.NavigateEndAction{},
	'?': statepkg.HelpToggleAction{},
	's': statepkg.ToggleKeepAction{},
	'*': statepkg.ToggleKeepAction{},
	'v': statepkg.ToggleViewModeAction{},
	't': statepkg.ToggleOrientationAction{},
	'r': statepkg.ReloadAction{},
	'R': statepkg.ReloadAction{},
	'y': statepkg.YankUIDAction{},
}

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) editing() bool {
	return ih.state != nil && ih.state.View != nil && ih.state.View.Editing()
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	if ih.state != nil && ih.state.HelpVisible {
		switch ev.Key() {
		case tcell.KeyEscape:
			ih.actionChan <- statepkg.HelpHideAction{}
		case tcell.KeyRune:
			r := ev.Rune()
			if r == '?' || r == 'q' || r == 'Q' {
				ih.actionChan <- statepkg.HelpHideAction{}
			}
		}
		return true
	}

	// While a title is edited, keys belong to the cell.
	if ih.editing() {
		switch ev.Key() {
		case tcell.KeyEnter:
			ih.actionChan <- statepkg.CommitEditAction{}
		case tcell.KeyEscape:
			ih.actionChan <- statepkg.CancelEditAction{}
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			ih.actionChan <- statepkg.EditBackspaceAction{}
		case tcell.KeyRune:
			ih.actionChan <- statepkg.EditCharAction{Char: ev.Rune()}
		}
		return true
	}

	if action, ok := keyActions[ev.Key()]; ok {
		ih.actionChan <- action
		return true
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}

	r := ev.Rune()
	if ev.Modifiers()&tcell.ModShift != 0 {
		r = unicode.ToUpper(r)
	}
	switch r {
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case 'e', 'E':
		if ih.state != nil && ih.state.EditorAvailable {
			ih.actionChan <- statepkg.OpenEntryAction{}
		}
		return true
	}
	if action, ok := runeActions[r]; ok {
		ih.actionChan <- action
	}
	return true
}
