package input

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/afero"

	"github.com/kk-code-lab/rjournal/internal/journal"
	"github.com/kk-code-lab/rjournal/internal/loop"
	"github.com/kk-code-lab/rjournal/internal/preview"
	statepkg "github.com/kk-code-lab/rjournal/internal/state"
)

type staticSource struct{}

func (staticSource) Query(context.Context) (journal.Entries, error) { return nil, nil }
func (staticSource) SetKeep(context.Context, string, bool) error    { return nil }
func (staticSource) SetTitle(context.Context, string, string) error { return nil }
func (staticSource) Describe() string                               { return "static" }

func newEditingState(t *testing.T) *statepkg.AppState {
	t.Helper()
	l := loop.New(nil)
	p, err := preview.New(l, preview.Options{Fs: afero.NewMemMapFs()})
	if err != nil {
		t.Fatalf("preview.New: %v", err)
	}
	view := statepkg.NewJournalView(l, staticSource{}, p, statepkg.ViewOptions{})
	view.Resize(50, 40)
	view.SetResults(journal.Entries{{UID: "/a.txt", Title: "a", Progress: -1}})
	if !view.StartEdit() {
		t.Fatal("expected the view to enter editing")
	}
	t.Cleanup(view.Close)
	return statepkg.NewAppState(view)
}

func expectAction[T statepkg.Action](t *testing.T, ch chan statepkg.Action) T {
	t.Helper()
	select {
	case action := <-ch:
		got, ok := action.(T)
		if !ok {
			var want T
			t.Fatalf("expected %T, got %T", want, action)
		}
		return got
	default:
		var want T
		t.Fatalf("expected %T to be emitted", want)
	}
	panic("unreachable")
}

func expectNoAction(t *testing.T, ch chan statepkg.Action) {
	t.Helper()
	select {
	case action := <-ch:
		t.Fatalf("unexpected action %T", action)
	default:
	}
}

func TestNavigationKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want statepkg.Action
	}{
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, 0), statepkg.NavigateUpAction{}},
		{"down", tcell.NewEventKey(tcell.KeyDown, 0, 0), statepkg.NavigateDownAction{}},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, 0), statepkg.NavigateLeftAction{}},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, 0), statepkg.NavigateRightAction{}},
		{"page up", tcell.NewEventKey(tcell.KeyPgUp, 0, 0), statepkg.NavigatePageUpAction{}},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, 0), statepkg.NavigatePageDownAction{}},
		{"home", tcell.NewEventKey(tcell.KeyHome, 0, 0), statepkg.NavigateHomeAction{}},
		{"end", tcell.NewEventKey(tcell.KeyEnd, 0, 0), statepkg.NavigateEndAction{}},
		{"vim down", tcell.NewEventKey(tcell.KeyRune, 'j', 0), statepkg.NavigateDownAction{}},
		{"vim end", tcell.NewEventKey(tcell.KeyRune, 'G', 0), statepkg.NavigateEndAction{}},
		{"enter edits", tcell.NewEventKey(tcell.KeyEnter, 0, 0), statepkg.StartEditAction{}},
		{"keep", tcell.NewEventKey(tcell.KeyRune, 's', 0), statepkg.ToggleKeepAction{}},
		{"view mode", tcell.NewEventKey(tcell.KeyRune, 'v', 0), statepkg.ToggleViewModeAction{}},
		{"orientation", tcell.NewEventKey(tcell.KeyRune, 't', 0), statepkg.ToggleOrientationAction{}},
		{"reload", tcell.NewEventKey(tcell.KeyRune, 'r', 0), statepkg.ReloadAction{}},
		{"yank", tcell.NewEventKey(tcell.KeyRune, 'y', 0), statepkg.YankUIDAction{}},
		{"help", tcell.NewEventKey(tcell.KeyRune, '?', 0), statepkg.HelpToggleAction{}},
		{"suspend", tcell.NewEventKey(tcell.KeyCtrlZ, 0, 0), statepkg.SuspendAction{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := make(chan statepkg.Action, 1)
			handler := NewInputHandler(ch)
			handler.SetState(&statepkg.AppState{})

			if !handler.ProcessEvent(tt.ev) {
				t.Fatal("navigation keys must not quit")
			}
			select {
			case got := <-ch:
				if got != tt.want {
					t.Fatalf("got %T, want %T", got, tt.want)
				}
			default:
				t.Fatalf("expected %T", tt.want)
			}
		})
	}
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'q', 0),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, 0),
	} {
		ch := make(chan statepkg.Action, 1)
		handler := NewInputHandler(ch)
		if handler.ProcessEvent(ev) {
			t.Fatalf("%v should stop the handler", ev.Name())
		}
		expectAction[statepkg.QuitAction](t, ch)
	}
}

func TestResizeEvent(t *testing.T) {
	ch := make(chan statepkg.Action, 1)
	handler := NewInputHandler(ch)
	handler.ProcessEvent(tcell.NewEventResize(120, 40))

	got := expectAction[statepkg.ResizeAction](t, ch)
	if got.Width != 120 || got.Height != 40 {
		t.Fatalf("resize = %+v", got)
	}
}

func TestEditorKeyRequiresEditor(t *testing.T) {
	ch := make(chan statepkg.Action, 1)
	handler := NewInputHandler(ch)
	state := &statepkg.AppState{}
	handler.SetState(state)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'e', 0))
	expectNoAction(t, ch)

	state.EditorAvailable = true
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'e', 0))
	expectAction[statepkg.OpenEntryAction](t, ch)
}

func TestHelpOverlayConsumesKeys(t *testing.T) {
	ch := make(chan statepkg.Action, 1)
	handler := NewInputHandler(ch)
	handler.SetState(&statepkg.AppState{HelpVisible: true})

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyDown, 0, 0))
	expectNoAction(t, ch)

	if !handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'q', 0)) {
		t.Fatal("q closes help instead of quitting")
	}
	expectAction[statepkg.HelpHideAction](t, ch)
}

func TestEditingRoutesKeysToTitle(t *testing.T) {
	state := newEditingState(t)
	ch := make(chan statepkg.Action, 1)
	handler := NewInputHandler(ch)
	handler.SetState(state)

	if !handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'q', 0)) {
		t.Fatal("q is text while editing")
	}
	if got := expectAction[statepkg.EditCharAction](t, ch); got.Char != 'q' {
		t.Fatalf("char = %q", got.Char)
	}

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyDown, 0, 0))
	expectNoAction(t, ch)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyBackspace2, 0, 0))
	expectAction[statepkg.EditBackspaceAction](t, ch)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEnter, 0, 0))
	expectAction[statepkg.CommitEditAction](t, ch)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEscape, 0, 0))
	expectAction[statepkg.CancelEditAction](t, ch)
}
