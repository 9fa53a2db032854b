package grid

import "errors"

// ErrConflictingGeometry is returned when a layout fixes both the frame size
// and the cell size along the same axis.
var ErrConflictingGeometry = errors.New("grid: frame size and cell size set on the same axis")

// SpareRows is the number of pooled rows beyond the visible frame. They let
// scrolling reuse rows without leaving empty gaps.
const SpareRows = 2

// Orientation selects the scrolling axis.
type Orientation int

const (
	// Vertical grids scroll along y; frame rows are stacked top to bottom.
	Vertical Orientation = iota
	// Horizontal grids scroll along x; frame rows are laid out left to right.
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Range is a half-open interval of logical indices.
type Range struct {
	Start, End int
}

// Contains reports whether index lies inside the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Layout is a full geometry configuration. Nil fields are auto-sized.
//
// Rows and Columns fix the frame: Rows counts rows along the scrolling axis,
// Columns counts cells across it. Width and Height fix the cell size in screen
// units. Rows conflicts with the along-axis cell dimension and Columns with the
// across-axis one.
type Layout struct {
	Rows    *int
	Columns *int
	Width   *int
	Height  *int
}

// Int returns a pointer to v, for building Layout values.
func Int(v int) *int {
	return &v
}

// axisPair holds a value in along/across terms.
type axisPair struct {
	along, across int
}

// rotate converts screen (x, y) into (along, across) for the orientation.
// The transform is its own inverse.
func (o Orientation) rotate(x, y int) axisPair {
	if o == Horizontal {
		return axisPair{along: x, across: y}
	}
	return axisPair{along: y, across: x}
}

// toRect converts an along/across placement back into screen space.
func (o Orientation) toRect(along, across, alongLen, acrossLen int) Rect {
	if o == Horizontal {
		return Rect{X: along, Y: across, W: alongLen, H: acrossLen}
	}
	return Rect{X: across, Y: along, W: acrossLen, H: alongLen}
}

// cellAxes splits a (width, height) cell size into along/across pointers.
func (o Orientation) cellAxes(width, height *int) (along, across *int) {
	if o == Horizontal {
		return width, height
	}
	return height, width
}

// Geometry is the derived frame description.
type Geometry struct {
	FrameRows  int
	Columns    int
	CellLength int // along the scroll axis
	Thickness  int // across the scroll axis
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
