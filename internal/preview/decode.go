package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	// Registered formats for thumbnails.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// sniffLen is the amount of data after which an unknown format is final.
const sniffLen = 16

// FitSize returns the destination size of src scaled to fit box with its
// aspect ratio preserved. The constrained dimension takes the box size; the
// other one is rounded up.
func FitSize(src, box image.Point) image.Point {
	if src == box || src.X <= 0 || src.Y <= 0 {
		return src
	}

	ratioW := float64(box.X) / float64(src.X)
	ratioH := float64(box.Y) / float64(src.Y)
	ratio := math.Min(ratioW, ratioH)

	dst := box
	if ratioW != ratio {
		dst.X = int(math.Ceil(float64(src.X) * ratio))
	} else if ratioH != ratio {
		dst.Y = int(math.Ceil(float64(src.Y) * ratio))
	}
	return dst
}

// decoder accumulates image data chunk by chunk. The destination size is
// computed as soon as the header can be parsed.
type decoder struct {
	box  image.Point
	buf  bytes.Buffer
	size image.Point
	// known is set once the source dimensions were read.
	known bool
}

func newDecoder(box image.Point) *decoder {
	return &decoder{box: box}
}

// Write feeds a chunk. It fails early when the data is not a known format.
func (d *decoder) Write(p []byte) error {
	d.buf.Write(p)
	if d.known {
		return nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(d.buf.Bytes()))
	switch {
	case err == nil:
		d.sizePrepared(cfg.Width, cfg.Height)
	case errors.Is(err, image.ErrFormat) && d.buf.Len() >= sniffLen:
		return err
	}
	return nil
}

func (d *decoder) sizePrepared(width, height int) {
	d.known = true
	d.size = FitSize(image.Pt(width, height), d.box)
}

// Size reports the destination size once known.
func (d *decoder) Size() (image.Point, bool) {
	return d.size, d.known
}

// Close decodes everything written so far and scales it to the fitted size.
func (d *decoder) Close() (image.Image, error) {
	if d.buf.Len() == 0 {
		return nil, errors.New("empty image data")
	}
	src, format, err := image.Decode(bytes.NewReader(d.buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := src.Bounds()
	if !d.known {
		d.sizePrepared(bounds.Dx(), bounds.Dy())
	}
	if d.size.X <= 0 || d.size.Y <= 0 {
		return nil, fmt.Errorf("decode %s: empty image", format)
	}
	if d.size == bounds.Size() {
		return src, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, d.size.X, d.size.Y))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst, nil
}

// Thumbnail decodes a whole image and scales it to fit box.
func Thumbnail(data []byte, box image.Point) (image.Image, error) {
	d := newDecoder(box)
	if err := d.Write(data); err != nil {
		return nil, err
	}
	return d.Close()
}
