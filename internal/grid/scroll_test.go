package grid

import (
	"math"
	"testing"
)

func TestScrollClampsAfterExtentChange(t *testing.T) {
	s := NewScroll()
	s.SetExtent(200, 40)
	s.SetPosition(90)

	var values []int
	s.ValueChanged.Connect(func(v int) { values = append(values, v) })

	s.SetExtent(100, 40)

	if s.Position() != 60 {
		t.Fatalf("expected position 60, got %d", s.Position())
	}
	if len(values) != 1 || values[0] != 60 {
		t.Fatalf("expected exactly one notification with 60, got %v", values)
	}
}

func TestScrollExtentChangeWithoutClamp(t *testing.T) {
	s := NewScroll()
	s.SetExtent(200, 40)
	s.SetPosition(30)

	notified := 0
	changed := 0
	s.ValueChanged.Connect(func(int) { notified++ })
	s.Changed.Connect(func(struct{}) { changed++ })

	s.SetExtent(100, 40)
	s.SetExtent(100, 40)

	if notified != 0 {
		t.Fatalf("position inside range should not notify, got %d", notified)
	}
	if changed != 1 {
		t.Fatalf("expected one bounds notification, got %d", changed)
	}
}

func TestScrollNaNReadsAsZero(t *testing.T) {
	s := NewScroll()
	s.value = math.NaN()

	if s.Position() != 0 {
		t.Fatalf("NaN position should read 0, got %d", s.Position())
	}

	notified := 0
	s.ValueChanged.Connect(func(int) { notified++ })
	s.SetExtent(100, 40)

	if notified != 0 || s.Position() != 0 {
		t.Fatalf("unexpected state after SetExtent: pos=%d notified=%d", s.Position(), notified)
	}
	s.SetPosition(10)
	if s.Position() != 10 || notified != 1 {
		t.Fatalf("expected position 10 with one notification, got %d/%d", s.Position(), notified)
	}
}

func TestScrollSetPosition(t *testing.T) {
	s := NewScroll()
	s.SetExtent(100, 40)

	tests := []struct {
		set  int
		want int
	}{
		{-10, 0},
		{25, 25},
		{60, 60},
		{1000, 60},
	}
	for _, tt := range tests {
		s.SetPosition(tt.set)
		if got := s.Position(); got != tt.want {
			t.Errorf("SetPosition(%d) -> %d, want %d", tt.set, got, tt.want)
		}
	}

	notified := 0
	s.ValueChanged.Connect(func(int) { notified++ })
	s.SetPosition(60)
	if notified != 0 {
		t.Fatal("setting the same position should not notify")
	}
	s.ScrollBy(-15)
	if s.Position() != 45 || notified != 1 {
		t.Fatalf("ScrollBy: pos=%d notified=%d", s.Position(), notified)
	}
}

func TestScrollMaxPositionWithShortContent(t *testing.T) {
	s := NewScroll()
	s.SetExtent(30, 40)
	if s.MaxPosition() != 0 {
		t.Fatalf("expected max position 0, got %d", s.MaxPosition())
	}
	s.SetPosition(5)
	if s.Position() != 0 {
		t.Fatalf("expected position 0, got %d", s.Position())
	}
}
