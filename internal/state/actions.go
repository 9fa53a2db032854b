package state

// Action is the base interface for all state mutations
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type NavigateLeftAction struct{}
type NavigateRightAction struct{}
type NavigateUpAction struct{}
type NavigateDownAction struct{}
type NavigatePageUpAction struct{}
type NavigatePageDownAction struct{}
type NavigateHomeAction struct{}
type NavigateEndAction struct{}

// SelectIndexAction moves the cursor to the cell under a mouse click.
type SelectIndexAction struct {
	X, Y int
}

// ScrollAction scrolls the grid without moving the cursor.
type ScrollAction struct {
	Delta int
}

// ===== EDIT ACTIONS =====

type StartEditAction struct{}
type EditCharAction struct {
	Char rune
}
type EditBackspaceAction struct{}
type CommitEditAction struct{}
type CancelEditAction struct{}

// ===== ENTRY ACTIONS =====

type ToggleKeepAction struct{}
type YankUIDAction struct{}
type OpenEntryAction struct{}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type ToggleViewModeAction struct{}
type ToggleOrientationAction struct{}
type ReloadAction struct{}
type HelpToggleAction struct{}
type HelpHideAction struct{}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{}
