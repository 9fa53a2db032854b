package grid

// View is a host-supplied presentation unit. The grid recycles a small number
// of them across the whole logical index space.
type View interface {
	// Fill loads the content for index. It runs synchronously during layout
	// and is only called when the slot's bound index changes.
	Fill(index int)
	// Clear hides the view; its slot is bound past the last cell.
	Clear()
	// Place moves the view to r, in content coordinates (not scrolled).
	Place(r Rect)
}

// ViewFactory creates a new View when the pool has to grow.
type ViewFactory func() View

// Unbound marks a slot that is not bound to any logical index.
const Unbound = -1

// Slot is one pooled cell. Slots are owned by the pool; the grid only binds
// and positions them.
type Slot struct {
	View  View
	Index int

	along  int
	across int
	valid  bool
}

// Bound reports whether the slot has a logical index and a valid position.
func (s *Slot) Bound() bool {
	return s.Index >= 0 && s.valid && s.along >= 0 && s.across >= 0
}

// invalidate moves the slot off-frame. Its binding is kept.
func (s *Slot) invalidate() {
	s.along = -1
	s.across = -1
	s.valid = false
}

// Pool grows on demand and is never shrunk during a session. Rebuilding the
// frame rewinds the pool so the same slots are handed out again.
type Pool struct {
	factory ViewFactory
	slots   []*Slot
	pos     int
}

// NewPool constructs an empty pool.
func NewPool(factory ViewFactory) *Pool {
	return &Pool{factory: factory}
}

// Pop hands out the next slot, creating one when every slot is in use.
func (p *Pool) Pop() *Slot {
	var slot *Slot
	if p.pos < len(p.slots) {
		slot = p.slots[p.pos]
	} else {
		slot = &Slot{View: p.factory(), Index: Unbound}
		p.slots = append(p.slots, slot)
	}
	p.pos++
	slot.invalidate()
	return slot
}

// Rewind makes every slot available to Pop again.
func (p *Pool) Rewind() {
	p.pos = 0
}

// Size returns the number of slots ever created.
func (p *Pool) Size() int {
	return len(p.slots)
}

// Unbind drops every binding and position.
func (p *Pool) Unbind() {
	for _, slot := range p.slots {
		slot.invalidate()
		slot.Index = Unbound
	}
}
