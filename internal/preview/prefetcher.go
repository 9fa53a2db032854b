package preview

import (
	"context"
	"image"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/kk-code-lab/rjournal/internal/grid"
	"github.com/kk-code-lab/rjournal/internal/loop"
	"github.com/kk-code-lab/rjournal/internal/notify"
)

const (
	// MaxFileSize is the largest file a preview is built from.
	MaxFileSize = 10 << 20
	// ChunkSize is the amount of data read per loop tick.
	ChunkSize = 10 << 10
	// ThumbWidth and ThumbHeight bound the decoded preview.
	ThumbWidth  = 240
	ThumbHeight = 180
)

// Request is one queued fetch: a logical index and the resource shown there.
type Request struct {
	Index int
	UID   string
}

// Result is delivered through Prefetcher.Fetched. Image is nil when the
// resource has no preview.
type Result struct {
	Index int
	UID   string
	Image image.Image
}

// Options configures a Prefetcher. Zero values select the defaults.
type Options struct {
	// Fs resolves absolute resource ids; defaults to the OS filesystem.
	Fs afero.Fs
	// Metadata resolves every other resource id.
	Metadata    MetadataSource
	Logger      *slog.Logger
	MaxFileSize int64
	ChunkSize   int
	Box         image.Point
	CacheSize   int
}

// Prefetcher loads previews one at a time in request order.
//
// Only the queue head is ever loading. Every step of a load re-enters the
// loop through Post, and the result is delivered only if the request is still
// the queue head by then; otherwise it is dropped and the queue advances.
type Prefetcher struct {
	loop     *loop.Loop
	fs       afero.Fs
	metadata MetadataSource
	logger   *slog.Logger
	maxSize  int64
	chunk    int
	box      image.Point
	cache    *Cache

	ctx    context.Context
	cancel context.CancelFunc

	queue     []Request
	active    *Request
	scheduled bool
	closed    bool

	// Fetched fires on the loop for every delivered request.
	Fetched notify.Signal[Result]
}

// New constructs a prefetcher whose callbacks run on l.
func New(l *loop.Loop, opts Options) (*Prefetcher, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = MaxFileSize
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = ChunkSize
	}
	if opts.Box.X <= 0 || opts.Box.Y <= 0 {
		opts.Box = image.Pt(ThumbWidth, ThumbHeight)
	}
	cache, err := NewCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Prefetcher{
		loop:     l,
		fs:       opts.Fs,
		metadata: opts.Metadata,
		logger:   opts.Logger,
		maxSize:  opts.MaxFileSize,
		chunk:    opts.ChunkSize,
		box:      opts.Box,
		cache:    cache,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Fetch queues a preview load unless the same request is already queued.
func (p *Prefetcher) Fetch(index int, uid string) {
	if p.closed || uid == "" {
		return
	}
	entry := Request{Index: index, UID: uid}
	if slices.Contains(p.queue, entry) {
		return
	}
	p.queue = append(p.queue, entry)
	if len(p.queue) == 1 {
		p.schedule()
	}
}

// DiscardQueue drops every queued request whose index is outside visible.
// A load already in flight is not interrupted.
func (p *Prefetcher) DiscardQueue(visible grid.Range) {
	p.queue = slices.DeleteFunc(p.queue, func(entry Request) bool {
		return !visible.Contains(entry.Index)
	})
}

// Queue returns a copy of the pending requests, head first.
func (p *Prefetcher) Queue() []Request {
	return slices.Clone(p.queue)
}

// Lookup returns a previously delivered preview. known is false when uid was
// never loaded or has been evicted.
func (p *Prefetcher) Lookup(uid string) (img image.Image, known bool) {
	return p.cache.Get(uid)
}

// Forget drops the cached preview of uid.
func (p *Prefetcher) Forget(uid string) {
	p.cache.Remove(uid)
}

// Purge drops every cached preview.
func (p *Prefetcher) Purge() {
	p.cache.Purge()
}

// Close stops the prefetcher. Pending requests are dropped and loads in
// flight are never delivered.
func (p *Prefetcher) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.queue = nil
	p.cancel()
}

func (p *Prefetcher) schedule() {
	if p.scheduled {
		return
	}
	p.scheduled = true
	p.loop.Post(func() {
		p.scheduled = false
		p.processQueue()
	})
}

func (p *Prefetcher) processQueue() {
	if p.closed || p.active != nil || len(p.queue) == 0 {
		return
	}

	entry := p.queue[0]
	p.active = &entry
	p.logger.Debug("loading preview", "uid", entry.UID, "index", entry.Index)

	if img, ok := p.cache.Get(entry.UID); ok {
		p.commit(entry, img)
		return
	}

	if isPath(entry.UID) {
		p.loadFile(entry)
	} else {
		p.loadProps(entry)
	}
}

// isPath reports whether uid names a file rather than a datastore entry.
func isPath(uid string) bool {
	return strings.HasPrefix(uid, "/") || filepath.IsAbs(uid)
}

// commit finishes the active load with a decided result, which is cached.
// The result is delivered only when entry is still at the queue head.
func (p *Prefetcher) commit(entry Request, img image.Image) {
	p.deliver(entry, img, true)
}

// giveUp finishes the active load after an error that may go away, such as
// an unreadable file or an unavailable datastore. Nothing is cached, so the
// next Fetch tries again.
func (p *Prefetcher) giveUp(entry Request) {
	p.deliver(entry, nil, false)
}

func (p *Prefetcher) deliver(entry Request, img image.Image, cache bool) {
	p.active = nil
	if p.closed {
		return
	}

	if len(p.queue) == 0 || p.queue[0] != entry {
		p.logger.Debug("discard preview", "uid", entry.UID, "index", entry.Index)
	} else {
		p.queue = p.queue[1:]
		if cache {
			p.cache.Add(entry.UID, img)
		}
		if img == nil {
			p.logger.Debug("empty preview", "uid", entry.UID)
		} else {
			p.logger.Debug("ready preview", "uid", entry.UID)
		}
		p.Fetched.Emit(Result{Index: entry.Index, UID: entry.UID, Image: img})
	}

	if len(p.queue) > 0 {
		p.schedule()
	}
}

// decodeAsync decodes data off the loop and commits the result.
func (p *Prefetcher) decodeAsync(entry Request, dec *decoder) {
	go func() {
		img, err := dec.Close()
		p.loop.Post(func() {
			if err != nil {
				p.logger.Debug("cannot process preview", "uid", entry.UID, "error", err)
			}
			p.commit(entry, img)
		})
	}()
}
