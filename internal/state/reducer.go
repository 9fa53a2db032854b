package state

import (
	"fmt"

	"github.com/kk-code-lab/rjournal/internal/grid"
)

// StateReducer applies actions to an AppState.
type StateReducer struct{}

// NewStateReducer creates a reducer.
func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

func navigationKey(action Action) (grid.Key, bool) {
	switch action.(type) {
	case NavigateLeftAction:
		return grid.KeyLeft, true
	case NavigateRightAction:
		return grid.KeyRight, true
	case NavigateUpAction:
		return grid.KeyUp, true
	case NavigateDownAction:
		return grid.KeyDown, true
	case NavigatePageUpAction:
		return grid.KeyPageUp, true
	case NavigatePageDownAction:
		return grid.KeyPageDown, true
	case NavigateHomeAction:
		return grid.KeyHome, true
	case NavigateEndAction:
		return grid.KeyEnd, true
	}
	return 0, false
}

// Reduce applies action. Like the loop callbacks it mutates state in place.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	view := state.View
	if view == nil {
		return state, fmt.Errorf("no journal view")
	}
	if _, resize := action.(ResizeAction); !resize {
		state.Status = ""
	}

	if key, ok := navigationKey(action); ok {
		state.LastError = nil
		view.HandleKey(key)
		return state, nil
	}

	switch a := action.(type) {

	// ===== NAVIGATION =====

	case SelectIndexAction:
		x, y, w, h := state.GridArea()
		gx, gy := a.X-x, a.Y-y
		if gx < 0 || gy < 0 || gx >= w || gy >= h {
			return state, nil
		}
		view.SelectAt(gx, gy)
		return state, nil

	case ScrollAction:
		view.ScrollBy(a.Delta)
		return state, nil

	// ===== EDIT =====

	case StartEditAction:
		state.LastError = nil
		view.StartEdit()
		return state, nil

	case EditCharAction:
		view.InsertRune(a.Char)
		return state, nil

	case EditBackspaceAction:
		view.Backspace()
		return state, nil

	case CommitEditAction:
		view.CommitEdit()
		return state, nil

	case CancelEditAction:
		view.CancelEdit()
		return state, nil

	// ===== ENTRY =====

	case ToggleKeepAction:
		state.LastError = nil
		view.ToggleKeep()
		return state, nil

	// ===== VIEW =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		_, _, w, h := state.GridArea()
		view.Resize(w, h)
		return state, nil

	case ToggleViewModeAction:
		view.ToggleMode()
		state.Status = view.Mode().String() + " view"
		return state, nil

	case ToggleOrientationAction:
		view.ToggleOrientation()
		state.Status = view.Orientation().String()
		if view.Mode() == ModeList {
			state.Status += " (thumbs only)"
		}
		return state, nil

	case ReloadAction:
		state.LastError = nil
		view.Reload()
		return state, nil

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
		return state, nil

	case HelpHideAction:
		state.HelpVisible = false
		return state, nil

	default:
		return state, fmt.Errorf("unknown action: %T", action)
	}
}
