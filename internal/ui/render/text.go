package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	textutil "github.com/kk-code-lab/rjournal/internal/textutil"
)

const ellipsis = "…"

// clipRect limits drawing to part of the screen.
type clipRect struct {
	x0, y0, x1, y1 int
}

func (c clipRect) contains(x, y int) bool {
	return x >= c.x0 && x < c.x1 && y >= c.y0 && y < c.y1
}

func (r *Renderer) setContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	if !r.clip.contains(x, y) {
		return
	}
	r.screen.SetContent(x, y, mainc, combc, style)
}

func (r *Renderer) measureTextWidth(text string) int {
	return textutil.DisplayWidth(text)
}

func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if textutil.DisplayWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= textutil.DisplayWidth(ellipsis) {
		return ellipsis
	}
	return runewidth.Truncate(text, maxWidth, ellipsis)
}

// drawTextLine draws sanitized text one grapheme cluster per cell and
// returns the column after it.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	g := uniseg.NewGraphemes(textutil.SanitizeTerminalText(text))
	for g.Next() {
		w := textutil.DisplayWidth(g.Str())
		if w == 0 {
			continue
		}
		if x-startX+w > maxWidth {
			break
		}
		cluster := g.Runes()
		r.setContent(x, y, cluster[0], cluster[1:], style)
		x += w
	}
	return x
}

// drawRightAligned draws text flush with the column before endX.
func (r *Renderer) drawRightAligned(endX, y, maxWidth int, text string, style tcell.Style) int {
	text = r.truncateTextToWidth(text, maxWidth)
	startX := endX - r.measureTextWidth(text)
	r.drawTextLine(startX, y, maxWidth, text, style)
	return startX
}

func (r *Renderer) fillRect(x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			r.setContent(col, row, ' ', nil, style)
		}
	}
}
