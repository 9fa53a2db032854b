package journal

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	fsutil "github.com/kk-code-lab/rjournal/internal/fs"
)

// ErrReadOnly is returned when a source cannot store a change.
var ErrReadOnly = errors.New("journal: source is read-only")

// Entry is one journal object. Files use their absolute path as UID;
// datastore entries use a generated id.
type Entry struct {
	UID         string
	Title       string
	Kind        fsutil.Kind
	Size        int64
	Modified    time.Time
	Keep        bool
	Activity    string
	Description string
	// Progress is the completion percentage of an entry still being written,
	// or -1 when the entry is complete.
	Progress int
	Buddies  []string
}

// InProgress reports whether the entry is still being written.
func (e Entry) InProgress() bool {
	return e.Progress >= 0 && e.Progress < 100
}

// ResultSet is the model behind a journal view.
type ResultSet interface {
	Len() int
	Get(index int) Entry
}

// Entries is an in-memory ResultSet.
type Entries []Entry

func (e Entries) Len() int {
	return len(e)
}

// Get returns the entry at index, or a zero Entry when out of range.
func (e Entries) Get(index int) Entry {
	if index < 0 || index >= len(e) {
		return Entry{}
	}
	return e[index]
}

// Find returns the index of uid, or -1.
func (e Entries) Find(uid string) int {
	for i := range e {
		if e[i].UID == uid {
			return i
		}
	}
	return -1
}

// Source lists journal entries and stores user edits.
type Source interface {
	Query(ctx context.Context) (Entries, error)
	SetKeep(ctx context.Context, uid string, keep bool) error
	SetTitle(ctx context.Context, uid, title string) error
	// Describe names the source for the header line.
	Describe() string
}

// sortNewestFirst orders entries by modification time, newest first, with
// title as tie breaker.
func sortNewestFirst(entries Entries) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := b.Modified.Compare(a.Modified); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
}
