package state

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	fsutil "github.com/kk-code-lab/rjournal/internal/fs"
	"github.com/kk-code-lab/rjournal/internal/grid"
	"github.com/kk-code-lab/rjournal/internal/journal"
	"github.com/kk-code-lab/rjournal/internal/loop"
	"github.com/kk-code-lab/rjournal/internal/notify"
	"github.com/kk-code-lab/rjournal/internal/preview"
)

// Mode selects how entries are presented.
type Mode int

const (
	// ModeThumbs shows a fixed frame of preview cells.
	ModeThumbs Mode = iota
	// ModeList shows one entry per row.
	ModeList
)

func (m Mode) String() string {
	if m == ModeList {
		return "list"
	}
	return "thumbs"
}

// ParseMode maps a configuration name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "thumbs":
		return ModeThumbs, nil
	case "list":
		return ModeList, nil
	default:
		return ModeThumbs, fmt.Errorf("unknown view mode %q", name)
	}
}

const (
	DefaultThumbRows      = 4
	DefaultThumbColumns   = 5
	DefaultListCellHeight = 2
)

// ViewOptions configures a JournalView. Zero values select the defaults.
type ViewOptions struct {
	Mode           Mode
	Orientation    grid.Orientation
	Rows           int
	Columns        int
	ListCellHeight int
	Logger         *slog.Logger
}

// Cell is the grid view of one journal entry.
type Cell struct {
	view *JournalView

	Index     int
	Entry     journal.Entry
	Thumbnail image.Image
	// Pending is set while a preview for Entry is on its way.
	Pending  bool
	Filled   bool
	Selected bool
	// Rect is the placement in content coordinates.
	Rect grid.Rect
}

func (c *Cell) Fill(index int) {
	v := c.view
	c.Index = index
	c.Entry = v.results.Get(index)
	c.Filled = true
	c.Selected = index == v.nav.Cursor()
	c.Thumbnail = nil
	c.Pending = false

	if v.mode != ModeThumbs || !wantsPreview(c.Entry) {
		return
	}
	if r := v.delivered; r != nil && r.Index == index && r.UID == c.Entry.UID {
		c.Thumbnail = r.Image
		return
	}
	if img, known := v.prefetcher.Lookup(c.Entry.UID); known {
		c.Thumbnail = img
		return
	}
	c.Pending = true
	v.prefetcher.Fetch(index, c.Entry.UID)
}

func (c *Cell) Clear() {
	c.Filled = false
	c.Selected = false
	c.Pending = false
	c.Thumbnail = nil
	c.Entry = journal.Entry{}
}

func (c *Cell) Place(r grid.Rect) {
	c.Rect = r
}

// wantsPreview reports whether a thumbnail can exist for e. Files are only
// read when they look like images; datastore entries carry their preview.
func wantsPreview(e journal.Entry) bool {
	if e.UID == "" || e.Kind == fsutil.KindDirectory {
		return false
	}
	if filepath.IsAbs(e.UID) {
		return e.Kind == fsutil.KindImage
	}
	return true
}

// JournalView binds a journal result set to a virtual grid, its cursor and
// the preview prefetcher. Every method must run on the loop.
type JournalView struct {
	loop       *loop.Loop
	source     journal.Source
	prefetcher *preview.Prefetcher
	grid       *grid.Grid
	nav        *grid.Navigator
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	results        journal.ResultSet
	mode           Mode
	orientation    grid.Orientation
	rows           int
	columns        int
	listCellHeight int

	edit         []rune
	editUID      string
	editOriginal string

	loading       bool
	reloadPending bool
	lastErr       error
	closed        bool

	fetchedToken notify.Token
	// delivered is the result being applied by previewFetched. A failed load
	// is not cached, so Fill takes the image from here instead of fetching
	// it again.
	delivered *preview.Result

	// Loaded fires with the entry count after a result set was applied.
	Loaded notify.Signal[int]
	// Failed fires for errors of asynchronous source calls.
	Failed notify.Signal[error]
}

// NewJournalView creates an empty view. Call Resize and Reload to show
// something.
func NewJournalView(l *loop.Loop, source journal.Source, prefetcher *preview.Prefetcher, opts ViewOptions) *JournalView {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v := &JournalView{
		loop:           l,
		source:         source,
		prefetcher:     prefetcher,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		results:        journal.Entries(nil),
		mode:           opts.Mode,
		orientation:    opts.Orientation,
		rows:           orDefault(opts.Rows, DefaultThumbRows),
		columns:        orDefault(opts.Columns, DefaultThumbColumns),
		listCellHeight: orDefault(opts.ListCellHeight, DefaultListCellHeight),
	}

	v.grid = grid.New(func() grid.View {
		return &Cell{view: v, Index: grid.Unbound}
	}, grid.Options{Orientation: v.effectiveOrientation(), Logger: logger})
	v.nav = grid.NewNavigator(v.grid)
	v.nav.SetEditable(true)

	v.nav.CursorChanged.Connect(v.cursorChanged)
	v.nav.EditingChanged.Connect(v.editingChanged)
	v.grid.FrameChanged.Connect(v.prefetcher.DiscardQueue)
	v.fetchedToken = v.prefetcher.Fetched.Connect(v.previewFetched)

	v.applyLayout()
	return v
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (v *JournalView) Grid() *grid.Grid {
	return v.grid
}

func (v *JournalView) Navigator() *grid.Navigator {
	return v.nav
}

func (v *JournalView) Mode() Mode {
	return v.mode
}

// Orientation returns the configured orientation. List mode always scrolls
// vertically regardless of it.
func (v *JournalView) Orientation() grid.Orientation {
	return v.orientation
}

func (v *JournalView) Results() journal.ResultSet {
	return v.results
}

func (v *JournalView) Len() int {
	return v.results.Len()
}

func (v *JournalView) Cursor() int {
	return v.nav.Cursor()
}

// Selected returns the entry under the cursor.
func (v *JournalView) Selected() (journal.Entry, bool) {
	cursor := v.nav.Cursor()
	if cursor == grid.NoCursor || cursor >= v.results.Len() {
		return journal.Entry{}, false
	}
	return v.results.Get(cursor), true
}

func (v *JournalView) Editing() bool {
	return v.nav.Editing()
}

// EditText returns the title being edited.
func (v *JournalView) EditText() string {
	return string(v.edit)
}

// Loading reports whether a reload is in flight.
func (v *JournalView) Loading() bool {
	return v.loading
}

// Err returns the last asynchronous error.
func (v *JournalView) Err() error {
	return v.lastErr
}

func (v *JournalView) Describe() string {
	if v.source == nil {
		return ""
	}
	return v.source.Describe()
}

// Cell returns the view bound to index, if it is in the frame.
func (v *JournalView) Cell(index int) *Cell {
	c, _ := v.grid.Cell(index).(*Cell)
	return c
}

// VisibleCell is a cell to paint with its viewport-relative rectangle.
type VisibleCell struct {
	Cell *Cell
	Rect grid.Rect
}

// VisibleCells returns the cells to paint, in index order.
func (v *JournalView) VisibleCells() []VisibleCell {
	visible := v.grid.Visible()
	cells := make([]VisibleCell, 0, len(visible))
	for _, vc := range visible {
		if c, ok := vc.View.(*Cell); ok {
			cells = append(cells, VisibleCell{Cell: c, Rect: vc.Rect})
		}
	}
	return cells
}

// ===== LAYOUT =====

func (v *JournalView) effectiveOrientation() grid.Orientation {
	if v.mode == ModeList {
		return grid.Vertical
	}
	return v.orientation
}

func (v *JournalView) applyLayout() {
	var layout grid.Layout
	if v.mode == ModeList {
		layout = grid.Layout{Columns: grid.Int(1), Height: grid.Int(v.listCellHeight)}
	} else {
		layout = grid.Layout{Rows: grid.Int(v.rows), Columns: grid.Int(v.columns)}
	}

	v.grid.SetOrientation(v.effectiveOrientation())
	if err := v.grid.Configure(layout); err != nil {
		v.logger.Error("cannot configure grid", "mode", v.mode, "error", err)
		return
	}
	v.grid.Invalidate()
	if cursor := v.nav.Cursor(); cursor != grid.NoCursor {
		v.grid.ScrollToCell(cursor)
	}
}

// SetMode switches between thumbnails and list.
func (v *JournalView) SetMode(mode Mode) {
	if mode == v.mode {
		return
	}
	v.nav.FocusOut()
	v.mode = mode
	v.applyLayout()
}

func (v *JournalView) ToggleMode() {
	if v.mode == ModeList {
		v.SetMode(ModeThumbs)
	} else {
		v.SetMode(ModeList)
	}
}

func (v *JournalView) SetOrientation(o grid.Orientation) {
	if o == v.orientation {
		return
	}
	v.nav.FocusOut()
	v.orientation = o
	v.applyLayout()
}

func (v *JournalView) ToggleOrientation() {
	if v.orientation == grid.Horizontal {
		v.SetOrientation(grid.Vertical)
	} else {
		v.SetOrientation(grid.Horizontal)
	}
}

// Resize gives the grid its allocation in screen cells.
func (v *JournalView) Resize(width, height int) {
	v.grid.Resize(width, height)
	if cursor := v.nav.Cursor(); cursor != grid.NoCursor {
		v.grid.ScrollToCell(cursor)
	}
}

// ===== NAVIGATION =====

// HandleKey applies a navigation key. Escape cancels a title edit.
func (v *JournalView) HandleKey(key grid.Key) bool {
	if v.nav.Editing() && key == grid.KeyEscape {
		v.CancelEdit()
		return true
	}
	return v.nav.HandleKey(key)
}

// SelectAt moves the cursor to the cell under a grid-relative point.
func (v *JournalView) SelectAt(x, y int) bool {
	index, ok := v.grid.CellAt(x, y)
	if !ok {
		return false
	}
	if index != v.nav.Cursor() {
		v.nav.FocusOut()
	}
	v.nav.SetCursor(index)
	return true
}

// ScrollBy scrolls by whole rows.
func (v *JournalView) ScrollBy(rows int) {
	length := v.grid.Geometry().CellLength
	if length <= 0 {
		return
	}
	v.grid.Scroll().ScrollBy(rows * length)
}

func (v *JournalView) cursorChanged(change grid.CursorChange) {
	if c := v.Cell(change.Previous); c != nil {
		c.Selected = false
	}
	if c := v.Cell(change.Current); c != nil {
		c.Selected = true
	}
}

func (v *JournalView) previewFetched(r preview.Result) {
	if r.Index >= v.results.Len() || v.results.Get(r.Index).UID != r.UID {
		return
	}
	v.delivered = &r
	v.grid.RefillIndex(r.Index)
	v.delivered = nil
}

// ===== RESULTS =====

// SetResults replaces the model. A result set of the same length is refilled
// in place; otherwise the cell count changes. The cursor follows the
// selected entry when it is still present.
func (v *JournalView) SetResults(rs journal.ResultSet) {
	if rs == nil {
		rs = journal.Entries(nil)
	}

	selected := ""
	if e, ok := v.Selected(); ok {
		selected = e.UID
	}

	v.forgetChanged(rs)
	previous := v.results
	v.results = rs
	if previous.Len() == rs.Len() {
		v.grid.Invalidate()
	} else {
		v.grid.SetCellCount(rs.Len())
	}

	switch index := indexOf(rs, selected); {
	case index >= 0:
		v.nav.SetCursor(index)
	case v.nav.Cursor() == grid.NoCursor && rs.Len() > 0:
		v.nav.SetCursor(0)
	}

	v.Loaded.Emit(rs.Len())
}

// forgetChanged drops cached previews of entries modified since the last
// result set.
func (v *JournalView) forgetChanged(rs journal.ResultSet) {
	if v.results.Len() == 0 {
		return
	}
	modified := make(map[string]time.Time, v.results.Len())
	for i := 0; i < v.results.Len(); i++ {
		e := v.results.Get(i)
		modified[e.UID] = e.Modified
	}
	for i := 0; i < rs.Len(); i++ {
		e := rs.Get(i)
		if old, ok := modified[e.UID]; ok && !old.Equal(e.Modified) {
			v.prefetcher.Forget(e.UID)
		}
	}
}

func indexOf(rs journal.ResultSet, uid string) int {
	if uid == "" {
		return -1
	}
	for i := 0; i < rs.Len(); i++ {
		if rs.Get(i).UID == uid {
			return i
		}
	}
	return -1
}

// Reload queries the source off the loop and applies the result. A reload
// requested while one is running is queued behind it.
func (v *JournalView) Reload() {
	if v.closed || v.source == nil {
		return
	}
	if v.loading {
		v.reloadPending = true
		return
	}
	v.loading = true

	ctx := v.ctx
	go func() {
		entries, err := v.source.Query(ctx)
		v.loop.Post(func() {
			v.loading = false
			if v.closed {
				return
			}
			if err != nil {
				v.fail("cannot load journal", err)
			} else {
				v.lastErr = nil
				v.SetResults(entries)
			}
			if v.reloadPending {
				v.reloadPending = false
				v.Reload()
			}
		})
	}()
}

// call runs a blocking source operation off the loop; done runs on the loop
// when it succeeded.
func (v *JournalView) call(op string, fn func(ctx context.Context) error, done func()) {
	ctx := v.ctx
	go func() {
		err := fn(ctx)
		v.loop.Post(func() {
			if v.closed {
				return
			}
			if err != nil {
				v.fail(op, err)
				return
			}
			done()
		})
	}()
}

func (v *JournalView) fail(op string, err error) {
	err = fmt.Errorf("%s: %w", op, err)
	v.lastErr = err
	v.logger.Warn(op, "source", v.Describe(), "error", err)
	v.Failed.Emit(err)
}

// ToggleKeep flips the keep flag of the selected entry.
func (v *JournalView) ToggleKeep() {
	entry, ok := v.Selected()
	if !ok || v.source == nil {
		return
	}
	keep := !entry.Keep
	v.call("cannot update keep flag", func(ctx context.Context) error {
		return v.source.SetKeep(ctx, entry.UID, keep)
	}, v.Reload)
}

// ===== TITLE EDITING =====

// StartEdit enters the edit sub-state for the selected entry.
func (v *JournalView) StartEdit() bool {
	v.nav.SetEditing(true)
	return v.nav.Editing()
}

// CommitEdit leaves the edit sub-state and stores the new title.
func (v *JournalView) CommitEdit() {
	v.nav.SetEditing(false)
}

// CancelEdit leaves the edit sub-state and keeps the old title.
func (v *JournalView) CancelEdit() {
	v.editUID = ""
	v.nav.SetEditing(false)
}

func (v *JournalView) InsertRune(r rune) {
	if !v.nav.Editing() {
		return
	}
	v.edit = append(v.edit, r)
}

func (v *JournalView) Backspace() {
	if !v.nav.Editing() || len(v.edit) == 0 {
		return
	}
	v.edit = v.edit[:len(v.edit)-1]
}

func (v *JournalView) editingChanged(editing bool) {
	if editing {
		entry, _ := v.Selected()
		v.editUID = entry.UID
		v.editOriginal = entry.Title
		v.edit = []rune(entry.Title)
		return
	}

	uid := v.editUID
	title := strings.TrimSpace(string(v.edit))
	original := v.editOriginal
	v.editUID = ""
	v.editOriginal = ""
	v.edit = nil

	if uid == "" || title == "" || title == original || v.source == nil {
		return
	}
	v.call("cannot rename entry", func(ctx context.Context) error {
		return v.source.SetTitle(ctx, uid, title)
	}, v.Reload)
}

// Close detaches the view from the prefetcher and abandons pending calls.
func (v *JournalView) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.cancel()
	v.prefetcher.Fetched.Disconnect(v.fetchedToken)
	v.nav.Detach()
}
