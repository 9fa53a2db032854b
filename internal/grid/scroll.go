package grid

import (
	"math"

	"github.com/kk-code-lab/rjournal/internal/notify"
)

// Scroll owns the single scroll position of a grid together with its extent
// and page size.
type Scroll struct {
	value  float64
	extent int
	page   int

	// Changed fires when extent or page size change.
	Changed notify.Signal[struct{}]
	// ValueChanged fires with the new position whenever it changes.
	ValueChanged notify.Signal[int]
}

// NewScroll returns a coordinator at position 0 with no extent.
func NewScroll() *Scroll {
	return &Scroll{}
}

// Position returns the current position. NaN and negative values read as 0.
func (s *Scroll) Position() int {
	if math.IsNaN(s.value) || s.value < 0 {
		return 0
	}
	return int(s.value)
}

// Extent returns the total scrollable length.
func (s *Scroll) Extent() int {
	return s.extent
}

// Page returns the visible length.
func (s *Scroll) Page() int {
	return s.page
}

// MaxPosition returns the largest valid position.
func (s *Scroll) MaxPosition() int {
	return max(0, s.extent-s.page)
}

// SetExtent updates the bounds and clamps the position. When clamping moves
// the position, ValueChanged fires once.
func (s *Scroll) SetExtent(extent, page int) {
	extent = max(0, extent)
	page = max(0, page)
	if extent != s.extent || page != s.page {
		s.extent = extent
		s.page = page
		s.Changed.Emit(struct{}{})
	}

	if math.IsNaN(s.value) {
		s.value = 0
	}
	if s.Position() > s.MaxPosition() {
		s.value = float64(s.MaxPosition())
		s.ValueChanged.Emit(s.Position())
	}
}

// SetPosition moves to v clamped to [0, MaxPosition]. ValueChanged fires when
// the stored position changes.
func (s *Scroll) SetPosition(v int) {
	v = min(max(0, v), s.MaxPosition())
	if !math.IsNaN(s.value) && int(s.value) == v && s.value >= 0 {
		return
	}
	s.value = float64(v)
	s.ValueChanged.Emit(v)
}

// ScrollBy moves the position by delta.
func (s *Scroll) ScrollBy(delta int) {
	s.SetPosition(s.Position() + delta)
}
