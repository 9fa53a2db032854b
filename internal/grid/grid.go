package grid

import (
	"log/slog"
	"sort"

	"github.com/kk-code-lab/rjournal/internal/notify"
)

// Options configures a Grid.
type Options struct {
	Orientation Orientation
	// Scroll is shared with the host's scrollbar; a private one is created when nil.
	Scroll *Scroll
	Logger *slog.Logger
}

// Grid lays out a one-dimensional space of logical indices on a frame of
// rows × columns recycled views.
//
// The grid has no model of its own: it only asks its views to Fill themselves
// for a logical index. The frame holds FrameRowCount visible rows plus
// SpareRows extra rows; scrolling moves rows that left the page into the gaps
// that appeared, and only rows whose logical index changed are refilled.
//
// By default a grid has no cells. Configure a frame size or a cell size, give
// it an allocation with Resize and set the number of cells with SetCellCount.
type Grid struct {
	orientation Orientation
	pool        *Pool
	rows        [][]*Slot
	scroll      *Scroll
	logger      *slog.Logger

	width      int
	height     int
	cellCount  int
	cellLength int

	// frameRows/frameColumns and cellWidth/cellHeight are the two mutually
	// exclusive ways to size each axis.
	frameRows    *int
	frameColumns *int
	cellWidth    *int
	cellHeight   *int

	quiet bool

	// FrameChanged fires with the visible range after every fill pass.
	FrameChanged notify.Signal[Range]
}

// New constructs a grid whose views come from factory.
func New(factory ViewFactory, opts Options) *Grid {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	scroll := opts.Scroll
	if scroll == nil {
		scroll = NewScroll()
	}
	g := &Grid{
		orientation: opts.Orientation,
		pool:        NewPool(factory),
		scroll:      scroll,
		logger:      logger,
	}
	scroll.ValueChanged.Connect(func(int) {
		if g.quiet {
			return
		}
		g.allocateRows(false)
	})
	return g
}

// Orientation returns the scrolling axis.
func (g *Grid) Orientation() Orientation {
	return g.orientation
}

// SetOrientation switches the scrolling axis and rebuilds the frame.
func (g *Grid) SetOrientation(o Orientation) {
	if o == g.orientation {
		return
	}
	g.orientation = o
	g.abandonRows()
	g.pool.Unbind()
	g.resizeTable()
}

// Scroll returns the coordinator that owns the scroll position.
func (g *Grid) Scroll() *Scroll {
	return g.scroll
}

// Pool exposes the slot pool.
func (g *Grid) Pool() *Pool {
	return g.pool
}

// SetFrameSize fixes the number of frame rows and/or columns; nil leaves the
// axis to be derived from the cell size. Cells are resized with the grid.
// Fixing an axis clears the cell size on that axis.
func (g *Grid) SetFrameSize(rows, columns *int) {
	if equalInt(rows, g.frameRows) && equalInt(columns, g.frameColumns) {
		return
	}
	if rows != nil {
		g.clearCellAxis(true)
	}
	if columns != nil {
		g.clearCellAxis(false)
	}
	g.frameRows = copyInt(rows)
	g.frameColumns = copyInt(columns)
	g.resizeTable()
}

// SetCellSize fixes the cell width and/or height; nil leaves the axis to be
// derived from the frame size. The number of cells changes with the grid.
// Fixing an axis clears the frame size on that axis.
func (g *Grid) SetCellSize(width, height *int) {
	if equalInt(width, g.cellWidth) && equalInt(height, g.cellHeight) {
		return
	}
	along, across := g.orientation.cellAxes(width, height)
	if along != nil {
		g.frameRows = nil
	}
	if across != nil {
		g.frameColumns = nil
	}
	g.cellWidth = copyInt(width)
	g.cellHeight = copyInt(height)
	g.resizeTable()
}

// Configure replaces the whole geometry configuration. It refuses layouts
// that fix both the frame and the cell size on one axis.
func (g *Grid) Configure(layout Layout) error {
	along, across := g.orientation.cellAxes(layout.Width, layout.Height)
	if (layout.Rows != nil && along != nil) || (layout.Columns != nil && across != nil) {
		return ErrConflictingGeometry
	}
	g.frameRows = copyInt(layout.Rows)
	g.frameColumns = copyInt(layout.Columns)
	g.cellWidth = copyInt(layout.Width)
	g.cellHeight = copyInt(layout.Height)
	g.resizeTable()
	return nil
}

// Layout returns the current configuration.
func (g *Grid) Layout() Layout {
	return Layout{
		Rows:    copyInt(g.frameRows),
		Columns: copyInt(g.frameColumns),
		Width:   copyInt(g.cellWidth),
		Height:  copyInt(g.cellHeight),
	}
}

func (g *Grid) clearCellAxis(along bool) {
	if (g.orientation == Horizontal) == along {
		g.cellWidth = nil
	} else {
		g.cellHeight = nil
	}
}

// Resize sets the grid allocation in screen units.
func (g *Grid) Resize(width, height int) {
	if width < 0 || height < 0 {
		return
	}
	if width == g.width && height == g.height {
		return
	}
	g.width = width
	g.height = height
	g.resizeTable()
}

// Size returns the current allocation.
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// CellCount returns the number of logical cells.
func (g *Grid) CellCount() int {
	return g.cellCount
}

// SetCellCount sets the number of logical cells. Every slot is refilled since
// indices may now refer to different content.
func (g *Grid) SetCellCount(count int) {
	if count < 0 {
		panic("grid: negative cell count")
	}
	if count == g.cellCount {
		return
	}
	g.cellCount = count
	g.Invalidate()
	g.setupScroll(true)
}

// Empty reports whether the frame has no rows yet.
func (g *Grid) Empty() bool {
	return len(g.rows) == 0
}

// ColumnCount returns the number of cells across the scrolling axis.
func (g *Grid) ColumnCount() int {
	if len(g.rows) == 0 {
		return 0
	}
	return len(g.rows[0])
}

// FrameRowCount returns the number of rows visible at once.
func (g *Grid) FrameRowCount() int {
	if len(g.rows) == 0 {
		return 0
	}
	return len(g.rows) - SpareRows
}

// RowCount returns the number of virtual rows, never less than the frame.
func (g *Grid) RowCount() int {
	columns := g.ColumnCount()
	if columns == 0 {
		return 0
	}
	rows := (g.cellCount + columns - 1) / columns
	return max(g.FrameRowCount(), rows)
}

// Geometry returns the derived frame description.
func (g *Grid) Geometry() Geometry {
	geo := Geometry{
		FrameRows:  g.FrameRowCount(),
		Columns:    g.ColumnCount(),
		CellLength: g.cellLength,
	}
	if geo.Columns > 0 {
		geo.Thickness = g.acrossExtent() / geo.Columns
	}
	return geo
}

// Position returns the scroll position along the scrolling axis.
func (g *Grid) Position() int {
	return g.scroll.Position()
}

// FrameRange returns the logical indices that intersect the page.
func (g *Grid) FrameRange() Range {
	if g.Empty() || g.cellLength <= 0 {
		return Range{}
	}
	columns := g.ColumnCount()
	pos := g.Position()
	first := pos / g.cellLength * columns
	last := (pos + g.page() + g.cellLength - 1) / g.cellLength * columns
	return Range{Start: first, End: min(last, g.cellCount)}
}

// Cell returns the view bound to index, or nil when index is not in the frame.
func (g *Grid) Cell(index int) View {
	slot := g.slot(index)
	if slot == nil {
		return nil
	}
	return slot.View
}

// CellAt returns the logical index under a point relative to the grid.
func (g *Grid) CellAt(x, y int) (int, bool) {
	if g.Empty() || g.cellCount == 0 || g.cellLength <= 0 {
		return -1, false
	}
	x = min(max(0, x), g.width)
	y = min(max(0, y), g.height)
	p := g.orientation.rotate(x, y)

	columns := g.ColumnCount()
	thickness := max(1, g.acrossExtent()/columns)
	row := (p.along + g.Position()) / g.cellLength
	column := min(p.across/thickness, columns-1)

	index := min(row*columns+column, g.cellCount-1)
	return index, true
}

// ScrollToCell scrolls the minimal distance that makes index fully visible.
func (g *Grid) ScrollToCell(index int) {
	if g.Empty() || g.cellLength <= 0 {
		return
	}
	row := index / g.ColumnCount()
	pos := row * g.cellLength
	current := g.Position()
	page := g.page()

	switch {
	case pos < current:
		g.scroll.SetPosition(pos)
	case pos+g.cellLength >= current+page:
		g.scroll.SetPosition(pos + g.cellLength - page)
	}
}

// Refill runs a fill pass for the current position. Rows that are already in
// place keep their content, so a second call is a no-op.
func (g *Grid) Refill() {
	g.allocateRows(false)
}

// Invalidate forgets every binding and refills all frame cells.
func (g *Grid) Invalidate() {
	g.pool.Unbind()
	g.allocateRows(true)
}

// RefillIndex refills the one view bound to index, if any.
func (g *Grid) RefillIndex(index int) bool {
	slot := g.slot(index)
	if slot == nil {
		return false
	}
	slot.View.Fill(index)
	return true
}

// VisibleCell is a slot intersecting the page.
type VisibleCell struct {
	Index int
	View  View
	// Rect is relative to the grid viewport.
	Rect Rect
}

// Visible returns the filled slots intersecting the page, in index order.
func (g *Grid) Visible() []VisibleCell {
	if g.Empty() || g.cellLength <= 0 {
		return nil
	}
	pos := g.Position()
	pageEnd := pos + g.page()
	thickness := g.acrossExtent() / g.ColumnCount()

	var cells []VisibleCell
	for _, row := range g.rows {
		for _, slot := range row {
			if !slot.Bound() || slot.Index >= g.cellCount {
				continue
			}
			if slot.along >= pageEnd || slot.along+g.cellLength <= pos {
				continue
			}
			cells = append(cells, VisibleCell{
				Index: slot.Index,
				View:  slot.View,
				Rect:  g.orientation.toRect(slot.along-pos, slot.across, g.cellLength, thickness),
			})
		}
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Index < cells[j].Index })
	return cells
}

// BoundIndices returns the logical indices of Visible cells.
func (g *Grid) BoundIndices() []int {
	visible := g.Visible()
	indices := make([]int, len(visible))
	for i, cell := range visible {
		indices[i] = cell.Index
	}
	return indices
}

func (g *Grid) slot(index int) *Slot {
	if index < 0 || index >= g.cellCount || g.Empty() {
		return nil
	}
	columns := g.ColumnCount()
	column := index % columns
	base := index - column
	for _, row := range g.rows {
		if row[0].Bound() && row[0].Index == base {
			return row[column]
		}
	}
	return nil
}

func (g *Grid) page() int {
	return g.FrameRowCount() * g.cellLength
}

func (g *Grid) alongExtent() int {
	return g.orientation.rotate(g.width, g.height).along
}

func (g *Grid) acrossExtent() int {
	return g.orientation.rotate(g.width, g.height).across
}

func (g *Grid) abandonRows() {
	g.pool.Rewind()
	g.rows = nil
}

func (g *Grid) resizeTable() {
	alloc := g.orientation.rotate(g.width, g.height)
	cellAlong, cellAcross := g.orientation.cellAxes(g.cellWidth, g.cellHeight)

	var frameRows, columns int
	switch {
	case g.frameRows != nil:
		frameRows = *g.frameRows
	case cellAlong != nil && *cellAlong > 0:
		frameRows = alloc.along / *cellAlong
	default:
		return
	}
	switch {
	case g.frameColumns != nil:
		columns = *g.frameColumns
	case cellAcross != nil && *cellAcross > 0:
		columns = alloc.across / *cellAcross
	default:
		return
	}
	frameRows = max(1, frameRows)
	columns = max(1, columns)

	if columns != g.ColumnCount() || frameRows != g.FrameRowCount() {
		g.abandonRows()
		for i := 0; i < frameRows+SpareRows; i++ {
			row := make([]*Slot, columns)
			for j := range row {
				row[j] = g.pool.Pop()
			}
			g.rows = append(g.rows, row)
		}
		g.logger.Debug("grid frame rebuilt",
			"rows", frameRows, "columns", columns, "pool", g.pool.Size())
	} else {
		for _, row := range g.rows {
			for _, slot := range row {
				slot.invalidate()
			}
		}
	}

	g.cellLength = max(1, alloc.along/frameRows)
	g.setupScroll(false)
	g.allocateRows(true)
}

// setupScroll pushes the extent and page to the coordinator. With notify
// unset a clamped position does not trigger a fill pass; the caller runs one.
func (g *Grid) setupScroll(notify bool) {
	g.quiet = !notify
	defer func() { g.quiet = false }()
	g.scroll.SetExtent(g.RowCount()*g.cellLength, g.page())
}

func (g *Grid) allocateCells(row []*Slot, along int) {
	columns := len(row)
	index := along / g.cellLength * columns
	thickness := g.acrossExtent() / columns
	across := 0

	for _, slot := range row {
		if slot.Index != index {
			if index < g.cellCount {
				slot.View.Fill(index)
			} else {
				slot.View.Clear()
			}
			slot.Index = index
		}
		slot.along = along
		slot.across = across
		slot.valid = true
		slot.View.Place(g.orientation.toRect(along, across, g.cellLength, thickness))

		across += thickness
		index++
	}
}

func (g *Grid) allocateRows(force bool) {
	if g.Empty() || g.cellLength <= 0 {
		return
	}

	pos := g.Position()
	if pos > g.scroll.MaxPosition() {
		return
	}

	length := g.cellLength
	pageEnd := pos + g.page()

	var spare, visible [][]*Slot
	if force {
		spare = append(spare, g.rows...)
	} else {
		for _, row := range g.rows {
			head := row[0]
			if !head.valid || head.along < 0 || head.along > pageEnd || head.along+length < pos {
				spare = append(spare, row)
			} else {
				visible = append(visible, row)
			}
		}
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i][0].along < visible[j][0].along
		})
	}

	// Visible rows need not be contiguous; cover every gap with spare rows.
	fill := func(from, to int) (int, bool) {
		for from < to {
			if len(spare) == 0 {
				g.logger.Error("grid: spare rows exhausted",
					"position", pos, "rows", len(g.rows), "visible", len(visible))
				return from, false
			}
			row := spare[len(spare)-1]
			spare = spare[:len(spare)-1]
			g.allocateCells(row, from)
			from += length
		}
		return from, true
	}

	cursor := pos - pos%length
	for _, row := range visible {
		if _, ok := fill(cursor, row[0].along); !ok {
			return
		}
		cursor = row[0].along + length
	}
	if _, ok := fill(cursor, pageEnd); !ok {
		return
	}

	g.FrameChanged.Emit(g.FrameRange())
}
