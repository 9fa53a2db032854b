package grid

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

type fakeView struct {
	rec    *viewRecorder
	fills  []int
	clears int
	rect   Rect
}

func (v *fakeView) Fill(index int) {
	v.fills = append(v.fills, index)
	v.rec.log = append(v.rec.log, index)
}

func (v *fakeView) Clear()       { v.clears++ }
func (v *fakeView) Place(r Rect) { v.rect = r }

// viewRecorder keeps every provider call in order.
type viewRecorder struct {
	views []*fakeView
	log   []int
}

func (r *viewRecorder) factory() View {
	v := &fakeView{rec: r}
	r.views = append(r.views, v)
	return v
}

func (r *viewRecorder) fillCount() int {
	return len(r.log)
}

func (r *viewRecorder) filledSince(before int) []int {
	return append([]int(nil), r.log[before:]...)
}

// newFrameGrid builds a vertical grid with a fixed frame and cells of
// 10×cellLength screen units.
func newFrameGrid(t *testing.T, count, rows, columns, cellLength int) (*Grid, *viewRecorder) {
	t.Helper()
	rec := &viewRecorder{}
	g := New(rec.factory, Options{})
	g.SetFrameSize(Int(rows), Int(columns))
	g.Resize(columns*10, rows*cellLength)
	g.SetCellCount(count)
	return g, rec
}

func indexRange(r Range) []int {
	var out []int
	for i := r.Start; i < r.End; i++ {
		out = append(out, i)
	}
	return out
}

func TestBoundIndicesMatchFrameRange(t *testing.T) {
	counts := []int{0, 3, 17, 20, 1000}
	positions := []int{0, 5, 10, 37, 100, 1960, 500, 3, 0}

	for _, count := range counts {
		g, _ := newFrameGrid(t, count, 4, 5, 10)
		for _, pos := range positions {
			g.Scroll().SetPosition(pos)
			want := indexRange(g.FrameRange())
			got := g.BoundIndices()
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("count=%d pos=%d: bound %v, want %v", count, g.Position(), got, want)
			}
		}
	}
}

func TestFrameRangeFormula(t *testing.T) {
	g, _ := newFrameGrid(t, 1000, 4, 5, 10)

	tests := []struct {
		pos  int
		want Range
	}{
		{0, Range{0, 20}},
		{3, Range{0, 25}},
		{10, Range{5, 25}},
		{1960, Range{980, 1000}},
	}
	for _, tt := range tests {
		g.Scroll().SetPosition(tt.pos)
		if got := g.FrameRange(); got != tt.want {
			t.Errorf("pos %d: FrameRange = %+v, want %+v", tt.pos, got, tt.want)
		}
	}
}

func TestRefillIsIdempotent(t *testing.T) {
	g, rec := newFrameGrid(t, 1000, 4, 5, 10)
	g.Scroll().SetPosition(37)

	g.Refill()
	bound := g.BoundIndices()
	fills := rec.fillCount()

	g.Refill()
	if got := rec.fillCount(); got != fills {
		t.Fatalf("second Refill invoked provider %d times", got-fills)
	}
	if got := g.BoundIndices(); !reflect.DeepEqual(got, bound) {
		t.Fatalf("bound indices changed: %v -> %v", bound, got)
	}
}

func TestSubCellScrollOnlyFillsEnteringRow(t *testing.T) {
	g, rec := newFrameGrid(t, 1000, 4, 5, 10)
	before := rec.fillCount()

	g.Scroll().SetPosition(3)

	filled := rec.filledSince(before)
	want := []int{20, 21, 22, 23, 24}
	if !reflect.DeepEqual(filled, want) {
		t.Fatalf("expected only the entering row to be filled, got %v", filled)
	}

	before = rec.fillCount()
	g.Scroll().SetPosition(7)
	if got := rec.fillCount() - before; got != 0 {
		t.Fatalf("expected no provider calls within the same rows, got %d", got)
	}
}

func TestScrollTenRowsRefillsOnlyEnteredRows(t *testing.T) {
	g, rec := newFrameGrid(t, 1000, 4, 5, 10)

	if g.Pool().Size() != 6*5 {
		t.Fatalf("expected 6 pooled rows of 5, got %d slots", g.Pool().Size())
	}

	before := rec.fillCount()
	g.Scroll().SetPosition(10 * 10)

	filled := rec.filledSince(before)
	if len(filled) != 20 {
		t.Fatalf("expected 20 provider calls, got %d (%v)", len(filled), filled)
	}
	for i, index := range filled {
		if index < 50 || index >= 70 {
			t.Fatalf("fill %d for index %d outside entered rows", i, index)
		}
	}
	for index := 0; index < 20; index++ {
		if g.Cell(index) != nil {
			t.Fatalf("index %d should be unbound after scrolling past it", index)
		}
	}
	if got, want := g.BoundIndices(), indexRange(Range{50, 70}); !reflect.DeepEqual(got, want) {
		t.Fatalf("bound %v, want %v", got, want)
	}
}

func TestSetCellCountShrinkClampsAndClears(t *testing.T) {
	g, rec := newFrameGrid(t, 1000, 4, 5, 10)
	g.Scroll().SetPosition(500)

	var frames []Range
	g.FrameChanged.Connect(func(r Range) { frames = append(frames, r) })

	g.SetCellCount(12)

	if g.Position() != 0 {
		t.Fatalf("position should clamp to 0, got %d", g.Position())
	}
	if got, want := g.BoundIndices(), indexRange(Range{0, 12}); !reflect.DeepEqual(got, want) {
		t.Fatalf("bound %v, want %v", got, want)
	}
	if len(frames) == 0 || frames[len(frames)-1] != (Range{0, 12}) {
		t.Fatalf("expected final FrameChanged with [0,12), got %v", frames)
	}
	cleared := 0
	for _, v := range rec.views {
		cleared += v.clears
	}
	if cleared == 0 {
		t.Fatal("expected slots past the cell count to be cleared")
	}
}

func TestInvalidateRefillsEverySlot(t *testing.T) {
	g, rec := newFrameGrid(t, 1000, 4, 5, 10)
	before := rec.fillCount()

	g.Invalidate()

	if got := rec.fillCount() - before; got != 20 {
		t.Fatalf("expected 20 fills after Invalidate, got %d", got)
	}
}

func TestRefillIndex(t *testing.T) {
	g, _ := newFrameGrid(t, 1000, 4, 5, 10)

	view, ok := g.Cell(7).(*fakeView)
	if !ok {
		t.Fatal("expected a view bound to index 7")
	}
	fills := len(view.fills)

	if !g.RefillIndex(7) {
		t.Fatal("RefillIndex(7) should find the bound slot")
	}
	if len(view.fills) != fills+1 || view.fills[len(view.fills)-1] != 7 {
		t.Fatalf("expected one refill of index 7, got %v", view.fills)
	}
	if g.RefillIndex(500) {
		t.Fatal("RefillIndex for an index outside the frame should report false")
	}
}

func TestScrollToCell(t *testing.T) {
	g, _ := newFrameGrid(t, 1000, 4, 5, 10)

	g.ScrollToCell(20)
	if g.Position() != 10 {
		t.Fatalf("expected minimal scroll to 10, got %d", g.Position())
	}
	g.ScrollToCell(12)
	if g.Position() != 10 {
		t.Fatalf("visible cell should not scroll, got %d", g.Position())
	}
	g.ScrollToCell(0)
	if g.Position() != 0 {
		t.Fatalf("expected scroll back to 0, got %d", g.Position())
	}
}

func TestCellAt(t *testing.T) {
	g, _ := newFrameGrid(t, 1000, 4, 5, 10)

	tests := []struct {
		x, y int
		want int
	}{
		{0, 0, 0},
		{-5, -5, 0},
		{12, 0, 1},
		{49, 39, 19},
		{500, 500, 24},
	}
	for _, tt := range tests {
		got, ok := g.CellAt(tt.x, tt.y)
		if !ok || got != tt.want {
			t.Errorf("CellAt(%d,%d) = %d,%v; want %d", tt.x, tt.y, got, ok, tt.want)
		}
	}

	g.Scroll().SetPosition(100)
	if got, _ := g.CellAt(0, 0); got != 50 {
		t.Fatalf("CellAt after scroll = %d, want 50", got)
	}

	g.SetCellCount(3)
	if got, _ := g.CellAt(49, 39); got != 2 {
		t.Fatalf("CellAt should clamp to last cell, got %d", got)
	}
	g.SetCellCount(0)
	if _, ok := g.CellAt(0, 0); ok {
		t.Fatal("CellAt on an empty grid should fail")
	}
}

func TestHorizontalOrientationSwapsAxes(t *testing.T) {
	rec := &viewRecorder{}
	g := New(rec.factory, Options{Orientation: Horizontal})
	g.SetFrameSize(Int(4), Int(5))
	g.Resize(80, 50)
	g.SetCellCount(100)

	geo := g.Geometry()
	if geo.CellLength != 20 || geo.Thickness != 10 {
		t.Fatalf("unexpected geometry %+v", geo)
	}

	view := g.Cell(6).(*fakeView)
	want := Rect{X: 20, Y: 10, W: 20, H: 10}
	if view.rect != want {
		t.Fatalf("cell 6 placed at %+v, want %+v", view.rect, want)
	}

	if got, _ := g.CellAt(25, 12); got != 6 {
		t.Fatalf("CellAt(25,12) = %d, want 6", got)
	}

	g.Scroll().SetPosition(20)
	if got := g.FrameRange(); got != (Range{5, 25}) {
		t.Fatalf("FrameRange = %+v", got)
	}
}

func TestCellSizeDerivesFrame(t *testing.T) {
	rec := &viewRecorder{}
	g := New(rec.factory, Options{})
	g.SetCellSize(Int(10), Int(8))
	g.Resize(55, 33)
	g.SetCellCount(50)

	if g.ColumnCount() != 5 || g.FrameRowCount() != 4 {
		t.Fatalf("expected 4x5 frame, got %dx%d", g.FrameRowCount(), g.ColumnCount())
	}
	if g.Geometry().CellLength != 8 {
		t.Fatalf("expected cell length 8, got %d", g.Geometry().CellLength)
	}
}

func TestFrameAndCellSizeClearEachOther(t *testing.T) {
	g := New((&viewRecorder{}).factory, Options{})

	g.SetFrameSize(Int(4), Int(5))
	g.SetCellSize(nil, Int(8))
	layout := g.Layout()
	if layout.Rows != nil {
		t.Fatal("cell height should clear frame rows in a vertical grid")
	}
	if layout.Columns == nil || *layout.Columns != 5 {
		t.Fatal("frame columns should be kept")
	}

	g.SetFrameSize(nil, nil)
	g.SetFrameSize(Int(3), nil)
	layout = g.Layout()
	if layout.Height != nil {
		t.Fatal("frame rows should clear cell height")
	}
}

func TestConfigureRejectsConflicts(t *testing.T) {
	g := New((&viewRecorder{}).factory, Options{})

	if err := g.Configure(Layout{Rows: Int(4), Height: Int(3)}); !errors.Is(err, ErrConflictingGeometry) {
		t.Fatalf("expected ErrConflictingGeometry, got %v", err)
	}
	if err := g.Configure(Layout{Columns: Int(4), Width: Int(3)}); !errors.Is(err, ErrConflictingGeometry) {
		t.Fatalf("expected ErrConflictingGeometry, got %v", err)
	}

	if err := g.Configure(Layout{Rows: Int(4), Width: Int(10)}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	g.Resize(50, 40)
	if g.ColumnCount() != 5 || g.FrameRowCount() != 4 {
		t.Fatalf("expected 4x5 frame, got %dx%d", g.FrameRowCount(), g.ColumnCount())
	}
}

func TestResizeKeepsContentWhenFrameUnchanged(t *testing.T) {
	g, rec := newFrameGrid(t, 1000, 4, 5, 10)
	before := rec.fillCount()

	g.Resize(100, 80)

	if got := rec.fillCount() - before; got != 0 {
		t.Fatalf("resize with same frame should not refill, got %d fills", got)
	}
	if g.Geometry().CellLength != 20 {
		t.Fatalf("expected cell length 20, got %d", g.Geometry().CellLength)
	}
	view := g.Cell(6).(*fakeView)
	if want := (Rect{X: 20, Y: 20, W: 20, H: 20}); view.rect != want {
		t.Fatalf("cell 6 placed at %+v, want %+v", view.rect, want)
	}
}

func TestRefillAbandonedWhenSpareRowsRunOut(t *testing.T) {
	var logs bytes.Buffer
	rec := &viewRecorder{}
	g := New(rec.factory, Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	g.SetFrameSize(Int(4), Int(5))
	g.Resize(50, 40)
	g.SetCellCount(100)

	frames := 0
	g.FrameChanged.Connect(func(Range) { frames++ })

	// Every row claims the last in-page position, so nothing is left to
	// cover the rows above it.
	for _, row := range g.rows {
		row[0].along = 30
		row[0].valid = true
	}
	before := rec.fillCount()
	g.Refill()

	if !strings.Contains(logs.String(), "spare rows exhausted") {
		t.Fatalf("expected an error record, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "level=ERROR") {
		t.Fatalf("exhaustion should log at error level, got %q", logs.String())
	}
	if frames != 0 {
		t.Fatalf("abandoned pass must not report a frame, got %d", frames)
	}
	if got := rec.filledSince(before); len(got) != 0 {
		t.Fatalf("abandoned pass filled %v", got)
	}
}
