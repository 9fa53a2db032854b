package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
)

// PreviewKey is the metadata property holding encoded preview bytes.
const PreviewKey = "preview"

// MetadataSource resolves resource ids that are not file paths. Metadata may
// block; it is always called off the loop. A nil map without error means the
// entry does not exist.
type MetadataSource interface {
	Metadata(ctx context.Context, uid string) (map[string]string, error)
}

// MetadataFunc adapts a function to MetadataSource.
type MetadataFunc func(ctx context.Context, uid string) (map[string]string, error)

func (f MetadataFunc) Metadata(ctx context.Context, uid string) (map[string]string, error) {
	return f(ctx, uid)
}

var pngTag = []byte("PNG")

// DecodePreviewBytes returns raw image data from a stored preview. PNG data
// is used as is, anything else is taken as base64.
func DecodePreviewBytes(preview []byte) ([]byte, error) {
	if len(preview) >= 4 && bytes.Equal(preview[1:4], pngTag) {
		return preview, nil
	}
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(preview)))
	n, err := base64.StdEncoding.Decode(raw, bytes.TrimSpace(preview))
	if err != nil {
		return nil, fmt.Errorf("decode base64 preview: %w", err)
	}
	return raw[:n], nil
}

func (p *Prefetcher) loadProps(entry Request) {
	if p.metadata == nil {
		p.logger.Debug("no metadata source for preview", "uid", entry.UID)
		p.commit(entry, nil)
		return
	}

	ctx := p.ctx
	source := p.metadata
	go func() {
		props, err := source.Metadata(ctx, entry.UID)
		p.loop.Post(func() {
			if p.closed {
				return
			}
			if err != nil {
				p.logger.Warn("cannot get preview metadata", "uid", entry.UID, "error", err)
				p.giveUp(entry)
				return
			}
			if props == nil {
				p.logger.Debug("no metadata for preview", "uid", entry.UID)
				p.giveUp(entry)
				return
			}
			p.loadPreview(entry, []byte(props[PreviewKey]))
		})
	}()
}

func (p *Prefetcher) loadPreview(entry Request, preview []byte) {
	if len(preview) == 0 {
		p.logger.Debug("empty preview", "uid", entry.UID)
		p.commit(entry, nil)
		return
	}

	data, err := DecodePreviewBytes(preview)
	if err != nil {
		p.logger.Debug("cannot load preview from metadata", "uid", entry.UID, "error", err)
		p.commit(entry, nil)
		return
	}

	dec := newDecoder(p.box)
	if err := dec.Write(data); err != nil {
		p.logger.Debug("cannot load preview from metadata", "uid", entry.UID, "error", err)
		p.commit(entry, nil)
		return
	}
	p.decodeAsync(entry, dec)
}
