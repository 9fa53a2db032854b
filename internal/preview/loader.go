package preview

import (
	"errors"
	"io"

	"github.com/spf13/afero"
)

// fileLoad streams one file into a decoder. Each open and read runs on its
// own goroutine and hands the result back to the loop.
type fileLoad struct {
	p     *Prefetcher
	entry Request
	file  afero.File
	dec   *decoder
}

func (p *Prefetcher) loadFile(entry Request) {
	info, err := p.fs.Stat(entry.UID)
	switch {
	case err != nil:
		p.logger.Warn("cannot stat preview", "uid", entry.UID, "error", err)
		p.giveUp(entry)
		return
	case !info.Mode().IsRegular():
		p.logger.Debug("preview is not a file", "uid", entry.UID)
		p.commit(entry, nil)
		return
	case info.Size() > p.maxSize:
		p.logger.Debug("preview is too big to load", "uid", entry.UID, "size", info.Size())
		p.commit(entry, nil)
		return
	}

	load := &fileLoad{p: p, entry: entry, dec: newDecoder(p.box)}
	fs := p.fs
	go func() {
		file, err := fs.Open(entry.UID)
		p.loop.Post(func() { load.opened(file, err) })
	}()
}

func (l *fileLoad) opened(file afero.File, err error) {
	if err != nil {
		l.p.logger.Warn("cannot read preview", "uid", l.entry.UID, "error", err)
		l.p.giveUp(l.entry)
		return
	}
	l.file = file
	if l.p.closed {
		_ = l.file.Close()
		return
	}
	l.readNext()
}

func (l *fileLoad) readNext() {
	file := l.file
	size := l.p.chunk
	go func() {
		buf := make([]byte, size)
		n, err := file.Read(buf)
		l.p.loop.Post(func() { l.chunk(buf[:n], err) })
	}()
}

func (l *fileLoad) chunk(data []byte, err error) {
	if l.p.closed {
		_ = l.file.Close()
		return
	}

	if len(data) > 0 {
		if werr := l.dec.Write(data); werr != nil {
			l.p.logger.Debug("cannot process preview", "uid", l.entry.UID, "error", werr)
			l.finish(false)
			return
		}
	}

	switch {
	case err == nil:
		l.readNext()
	case errors.Is(err, io.EOF):
		l.finish(true)
	default:
		l.p.logger.Warn("cannot read preview", "uid", l.entry.UID, "error", err)
		_ = l.file.Close()
		l.p.giveUp(l.entry)
	}
}

func (l *fileLoad) finish(ok bool) {
	_ = l.file.Close()
	if !ok {
		l.p.commit(l.entry, nil)
		return
	}
	l.p.decodeAsync(l.entry, l.dec)
}
