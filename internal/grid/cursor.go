package grid

import "github.com/kk-code-lab/rjournal/internal/notify"

// Key is a navigation key understood by Navigator.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyEnter
	KeyEscape
)

// NoCursor is the cursor value before anything was selected.
const NoCursor = -1

// CursorChange carries the previous index so the host can un-highlight it.
type CursorChange struct {
	Previous int
	Current  int
}

// Navigator keeps the selected index of a grid and moves it with keys.
//
// While editing, navigation keys are left to the focused cell; only Enter and
// Escape are consumed to leave the edit sub-state.
type Navigator struct {
	grid     *Grid
	cursor   int
	editable bool
	editing  bool

	CursorChanged  notify.Signal[CursorChange]
	EditingChanged notify.Signal[bool]

	frameToken notify.Token
}

// NewNavigator attaches a navigator to g.
func NewNavigator(g *Grid) *Navigator {
	n := &Navigator{grid: g, cursor: NoCursor}
	n.frameToken = g.FrameChanged.Connect(n.frameChanged)
	return n
}

// Detach stops following the grid.
func (n *Navigator) Detach() {
	n.grid.FrameChanged.Disconnect(n.frameToken)
}

// Cursor returns the selected index or NoCursor.
func (n *Navigator) Cursor() int {
	return n.cursor
}

// SetCursor selects index, clamped to the cell range, and scrolls it into view.
func (n *Navigator) SetCursor(index int) {
	count := n.grid.CellCount()
	if count == 0 {
		n.setCursor(NoCursor)
		return
	}
	index = min(max(0, index), count-1)
	if index == n.cursor {
		return
	}
	n.grid.ScrollToCell(index)
	n.setCursor(index)
}

func (n *Navigator) setCursor(index int) {
	if index == n.cursor {
		return
	}
	previous := n.cursor
	n.cursor = index
	n.CursorChanged.Emit(CursorChange{Previous: previous, Current: index})
}

// Editable reports whether Enter may start editing the selected cell.
func (n *Navigator) Editable() bool {
	return n.editable
}

// SetEditable allows or forbids the edit sub-state.
func (n *Navigator) SetEditable(editable bool) {
	n.editable = editable
	if !editable {
		n.SetEditing(false)
	}
}

// Editing reports whether the selected cell holds input focus.
func (n *Navigator) Editing() bool {
	return n.editing
}

// SetEditing enters or leaves the edit sub-state.
func (n *Navigator) SetEditing(editing bool) {
	if editing && (!n.editable || n.cursor == NoCursor) {
		return
	}
	if editing == n.editing {
		return
	}
	n.editing = editing
	n.EditingChanged.Emit(editing)
}

// FocusOut leaves the edit sub-state, as when the cell loses focus.
func (n *Navigator) FocusOut() {
	n.SetEditing(false)
}

// HandleKey applies a key and reports whether it was consumed.
func (n *Navigator) HandleKey(key Key) bool {
	if n.editing {
		switch key {
		case KeyEnter, KeyEscape:
			n.SetEditing(false)
			return true
		}
		return false
	}

	g := n.grid
	if g.Empty() || n.cursor == NoCursor {
		return false
	}

	columns := g.ColumnCount()
	page := columns * g.FrameRowCount()
	count := g.CellCount()

	switch key {
	case KeyEnter:
		if !n.editable {
			return false
		}
		n.SetEditing(true)
	case KeyLeft:
		n.SetCursor(n.cursor - 1)
	case KeyRight:
		n.SetCursor(n.cursor + 1)
	case KeyUp:
		if n.cursor >= columns {
			n.SetCursor(n.cursor - columns)
		}
	case KeyDown:
		if n.cursor/columns < (count-1)/columns {
			n.SetCursor(n.cursor + columns)
		}
	case KeyPageUp:
		n.SetCursor(n.cursor - page)
	case KeyPageDown:
		n.SetCursor(n.cursor + page)
	case KeyHome:
		n.SetCursor(0)
	case KeyEnd:
		n.SetCursor(count - 1)
	default:
		return false
	}
	return true
}

func (n *Navigator) frameChanged(frame Range) {
	count := n.grid.CellCount()
	switch {
	case count == 0:
		n.SetEditing(false)
		n.setCursor(NoCursor)
		return
	case n.cursor >= count:
		n.setCursor(count - 1)
	}
	if n.editing && !frame.Contains(n.cursor) {
		n.SetEditing(false)
	}
}
