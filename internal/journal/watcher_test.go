package journal

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	changed := make(chan struct{}, 8)
	err := Watch(ctx, dir, 20*time.Millisecond, nil, func() {
		calls.Add(1)
		changed <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "file"+string(rune('a'+i)))
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
	if calls.Load() > 2 {
		t.Fatalf("burst should be debounced, got %d calls", calls.Load())
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), 0, nil, func() {})
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
