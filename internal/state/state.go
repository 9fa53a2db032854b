package state

import (
	"time"

	"github.com/kk-code-lab/rjournal/internal/journal"
)

// Screen rows taken by the header and the status line.
const (
	HeaderRows = 1
	FooterRows = 1
)

// AppState is the single source of truth of the host
type AppState struct {
	View *JournalView

	ScreenWidth  int
	ScreenHeight int

	HelpVisible        bool
	ClipboardAvailable bool
	EditorAvailable    bool

	LastYankTime time.Time
	LastError    error
	Status       string
}

// NewAppState wraps view. Errors of asynchronous view calls end up in
// LastError.
func NewAppState(view *JournalView) *AppState {
	state := &AppState{View: view}
	view.Failed.Connect(func(err error) {
		state.LastError = err
	})
	return state
}

// GridArea returns the screen rectangle given to the grid.
func (s *AppState) GridArea() (x, y, width, height int) {
	return 0, HeaderRows, max(0, s.ScreenWidth), max(0, s.ScreenHeight-HeaderRows-FooterRows)
}

// CurrentEntry returns the entry under the cursor.
func (s *AppState) CurrentEntry() (journal.Entry, bool) {
	if s.View == nil {
		return journal.Entry{}, false
	}
	return s.View.Selected()
}
