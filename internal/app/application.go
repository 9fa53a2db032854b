package app

import (
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rjournal/internal/loop"
	statepkg "github.com/kk-code-lab/rjournal/internal/state"
	inputui "github.com/kk-code-lab/rjournal/internal/ui/input"
	renderui "github.com/kk-code-lab/rjournal/internal/ui/render"
)

// Options configures an Application.
type Options struct {
	// Screen is used instead of the terminal when set.
	Screen tcell.Screen
	Logger *slog.Logger
	// Clipboard receives yanked ids. Defaults to the system clipboard.
	Clipboard func(text string) error
	// EditorCommand overrides $VISUAL and $EDITOR for opening files.
	EditorCommand string
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	loop       *loop.Loop
	state      *statepkg.AppState
	reducer    *statepkg.StateReducer
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	actionCh   chan statepkg.Action
	logger     *slog.Logger
	shouldQuit bool
	editorCmd  []string
	clipboard  func(text string) error

	buttonHeld     bool
	lastClickIndex int
	lastClickTime  time.Time
}

// NewApplication takes over the terminal and shows view. The view must have
// been created on l.
func NewApplication(l *loop.Loop, view *statepkg.JournalView, opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so clicks and the wheel don't leak as key events.
	screen.EnableMouse()

	editorCmd, editorAvail := detectEditorCommand(opts.EditorCommand)
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}

	state := statepkg.NewAppState(view)
	state.ClipboardAvailable = opts.Clipboard != nil || !clipboard.Unsupported
	state.EditorAvailable = editorAvail

	actionCh := make(chan statepkg.Action, 10)
	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	app := &Application{
		screen:         screen,
		loop:           l,
		state:          state,
		reducer:        statepkg.NewStateReducer(),
		renderer:       renderui.NewRenderer(screen),
		input:          inputHandler,
		actionCh:       actionCh,
		logger:         logger,
		editorCmd:      editorCmd,
		clipboard:      clip,
		lastClickIndex: -1,
	}

	w, h := screen.Size()
	app.handleAction(statepkg.ResizeAction{Width: w, Height: h})
	return app, nil
}

// State returns the application state. Only touch it from the loop.
func (app *Application) State() *statepkg.AppState {
	return app.state
}

// RequestReload schedules a reload of the journal. Safe for concurrent use.
func (app *Application) RequestReload() {
	app.loop.Post(func() {
		app.handleAction(statepkg.ReloadAction{})
	})
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.state.View.Close()
	app.screen.Fini()
	return nil
}
