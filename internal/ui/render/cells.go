package render

import (
	"image"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"

	"github.com/kk-code-lab/rjournal/internal/grid"
	"github.com/kk-code-lab/rjournal/internal/preview"
	statepkg "github.com/kk-code-lab/rjournal/internal/state"
)

const (
	keepMark  = "★ "
	halfBlock = '▀'
)

func (r *Renderer) cellStyle(c *statepkg.Cell) tcell.Style {
	if c.Selected {
		return tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	}
	return tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
}

// drawTitle draws the keep star and the title, or the edit buffer when the
// cell is being renamed. It returns the column after the text.
func (r *Renderer) drawTitle(view *statepkg.JournalView, c *statepkg.Cell, x, y, w int, base tcell.Style) int {
	if w <= 0 {
		return x
	}
	if c.Selected && view.Editing() {
		style := tcell.StyleDefault.Background(r.theme.EditBg).Foreground(r.theme.EditFg)
		r.fillRect(x, y, w, 1, style)
		text := view.EditText()
		// Keep the end of the buffer visible.
		for r.measureTextWidth(text) >= w && text != "" {
			_, size := utf8.DecodeRuneInString(text)
			text = text[size:]
		}
		end := r.drawTextLine(x, y, w, text, style)
		if end < x+w {
			r.setContent(end, y, ' ', nil, style.Reverse(true))
		}
		return end
	}

	if c.Entry.Keep {
		keepStyle := base.Foreground(r.theme.KeepFg)
		if c.Selected {
			keepStyle = base
		}
		x = r.drawTextLine(x, y, w, keepMark, keepStyle)
		w -= r.measureTextWidth(keepMark)
	}
	title := c.Entry.Title
	if title == "" {
		title = c.Entry.UID
	}
	return r.drawTextLine(x, y, w, r.truncateTextToWidth(title, w), base.Bold(c.Selected))
}

// drawThumbCell lays a cell out as a picture above a title and a caption.
func (r *Renderer) drawThumbCell(view *statepkg.JournalView, c *statepkg.Cell, rect grid.Rect) {
	base := r.cellStyle(c)
	r.fillRect(rect.X, rect.Y, rect.W, rect.H, base)
	if rect.W <= 0 || rect.H <= 0 {
		return
	}

	textRows := min(2, rect.H)
	pictureRows := rect.H - textRows
	inner := grid.Rect{X: rect.X, Y: rect.Y, W: rect.W, H: pictureRows}
	if inner.W > 2 {
		inner.X++
		inner.W -= 2
	}

	if pictureRows > 0 {
		switch {
		case c.Thumbnail != nil:
			r.drawThumbnail(c.Thumbnail, inner)
		default:
			r.drawPlaceholder(c, inner, base)
		}
	}

	titleY := rect.Y + pictureRows
	r.drawTitle(view, c, inner.X, titleY, inner.W, base)
	if textRows > 1 {
		caption := r.formatCaption(c, inner.W >= 18)
		captionStyle := base.Foreground(r.theme.CaptionFg)
		if c.Entry.InProgress() {
			captionStyle = base.Foreground(r.theme.ProgressFg)
		}
		if c.Selected {
			captionStyle = base
		}
		r.drawTextLine(inner.X, titleY+1, inner.W, r.truncateTextToWidth(caption, inner.W), captionStyle)
	}
}

func (r *Renderer) drawPlaceholder(c *statepkg.Cell, area grid.Rect, base tcell.Style) {
	label := c.Entry.Kind.String()
	if c.Pending {
		label = ellipsis
	}
	label = r.truncateTextToWidth(label, area.W)
	x := area.X + max(0, (area.W-r.measureTextWidth(label))/2)
	y := area.Y + area.H/2
	style := base.Foreground(r.theme.PlaceholderFg)
	if c.Selected {
		style = base
	}
	r.drawTextLine(x, y, area.W, label, style)
}

// drawThumbnail paints img centered in area with two pixels per cell: the
// upper one as foreground of a half block, the lower one as background.
func (r *Renderer) drawThumbnail(img image.Image, area grid.Rect) {
	bounds := img.Bounds()
	if area.W <= 0 || area.H <= 0 || bounds.Empty() {
		return
	}
	box := image.Pt(area.W, area.H*2)
	size := preview.FitSize(bounds.Size(), box)
	size.X = min(max(size.X, 1), box.X)
	size.Y = min(max(size.Y, 1), box.Y)

	scaled := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	offX := area.X + (area.W-size.X)/2
	offY := area.Y + (area.H-(size.Y+1)/2)/2

	for py := 0; py < size.Y; py += 2 {
		for px := 0; px < size.X; px++ {
			top := pixelColor(scaled, px, py)
			bottom := tcell.ColorDefault
			if py+1 < size.Y {
				bottom = pixelColor(scaled, px, py+1)
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			r.setContent(offX+px, offY+py/2, halfBlock, nil, style)
		}
	}
}

func pixelColor(img *image.RGBA, x, y int) tcell.Color {
	c := img.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// drawListCell lays a cell out as a title row with the date on the right and
// a details row below it.
func (r *Renderer) drawListCell(view *statepkg.JournalView, c *statepkg.Cell, rect grid.Rect) {
	base := r.cellStyle(c)
	r.fillRect(rect.X, rect.Y, rect.W, rect.H, base)
	if rect.W <= 2 || rect.H <= 0 {
		return
	}
	x, w := rect.X+1, rect.W-2

	captionStyle := base.Foreground(r.theme.CaptionFg)
	if c.Selected {
		captionStyle = base
	}

	titleWidth := w
	if !(c.Selected && view.Editing()) {
		caption := r.formatCaption(c, false)
		if cw := r.measureTextWidth(caption); caption != "" && cw+4 < w {
			r.drawRightAligned(x+w, rect.Y, cw, caption, captionStyle)
			titleWidth = w - cw - 2
		}
	}
	r.drawTitle(view, c, x, rect.Y, titleWidth, base)

	if rect.H > 1 {
		details := r.truncateTextToWidth(formatDetails(c), w)
		detailStyle := captionStyle
		if c.Entry.InProgress() && !c.Selected {
			detailStyle = base.Foreground(r.theme.ProgressFg)
		}
		r.drawTextLine(x, rect.Y+1, w, details, detailStyle)
	}
}
