package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rjournal/internal/state"
)

// YankFlash is how long the status line confirms a yank.
const YankFlash = 2 * time.Second

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
	clip   clipRect
	now    func() time.Time
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
		now:    time.Now,
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()

	w, h := r.screen.Size()
	r.clip = clipRect{x1: w, y1: h}

	if state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	r.drawGrid(state)
	r.clip = clipRect{x1: w, y1: h}
	r.drawStatusLine(state, w, h)

	r.screen.Show()
}

// drawHeader renders the top bar with the source and the entry count
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	r.fillRect(0, 0, w, statepkg.HeaderRows, headerStyle)

	endX := r.drawTextLine(0, 0, w, "rjournal", headerStyle.Bold(true))
	view := state.View
	if view == nil {
		return
	}

	right := r.formatViewSummary(view)
	rightWidth := r.measureTextWidth(right)
	available := w - endX - 1
	if rightWidth+2 < available {
		r.drawRightAligned(w, 0, rightWidth, right, headerStyle)
		available -= rightWidth + 2
	}

	label := view.Describe()
	count := fmt.Sprintf("%s entries", humanize.Comma(int64(view.Len())))
	if view.Len() == 1 {
		count = "1 entry"
	}
	if view.Loading() {
		count += " " + ellipsis
	}
	if label != "" {
		label += " · " + count
	} else {
		label = count
	}
	r.drawTextLine(endX+1, 0, available, r.truncateTextToWidth(label, available), headerStyle)
}

func (r *Renderer) formatViewSummary(view *statepkg.JournalView) string {
	if view.Mode() == statepkg.ModeList {
		return "list"
	}
	geo := view.Grid().Geometry()
	return fmt.Sprintf("thumbs %d×%d %s", geo.FrameRows, geo.Columns, view.Orientation())
}

// drawGrid paints every visible cell clipped to the grid area.
func (r *Renderer) drawGrid(state *statepkg.AppState) {
	view := state.View
	if view == nil {
		return
	}
	ox, oy, gw, gh := state.GridArea()
	r.clip = clipRect{x0: ox, y0: oy, x1: ox + gw, y1: oy + gh}

	if view.Len() == 0 {
		msg := "no entries"
		if view.Loading() {
			msg = "loading " + ellipsis
		}
		msg = r.truncateTextToWidth(msg, gw)
		x := ox + max(0, (gw-r.measureTextWidth(msg))/2)
		style := tcell.StyleDefault.Foreground(r.theme.PlaceholderFg)
		r.drawTextLine(x, oy+gh/2, gw, msg, style)
		return
	}

	for _, vc := range view.VisibleCells() {
		rect := vc.Rect
		rect.X += ox
		rect.Y += oy
		if view.Mode() == statepkg.ModeList {
			r.drawListCell(view, vc.Cell, rect)
		} else {
			r.drawThumbCell(view, vc.Cell, rect)
		}
	}
}

func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	if h <= statepkg.HeaderRows {
		return
	}
	y := h - 1
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	r.fillRect(0, y, w, 1, style)

	endX := w
	if view := state.View; view != nil && view.Len() > 0 && view.Cursor() >= 0 {
		position := fmt.Sprintf(" %d/%d ", view.Cursor()+1, view.Len())
		endX = r.drawRightAligned(w, y, w/3, position, style)
	}

	left, leftStyle := r.statusMessage(state, style)
	r.drawTextLine(0, y, endX, r.truncateTextToWidth(left, endX), leftStyle)
}

func (r *Renderer) statusMessage(state *statepkg.AppState, style tcell.Style) (string, tcell.Style) {
	switch {
	case state.LastError != nil:
		return " " + state.LastError.Error(), style.Foreground(r.theme.ErrorFg)
	case !state.LastYankTime.IsZero() && r.now().Sub(state.LastYankTime) < YankFlash:
		entry, _ := state.CurrentEntry()
		return " copied " + entry.UID, style.Bold(true)
	case state.Status != "":
		return " " + state.Status, style
	}
	return buildFooterHelpText(state), style.Foreground(r.theme.CaptionFg)
}

// formatCaption returns the short info line of a cell: progress for entries
// still being written, otherwise the relative date and the size.
func (r *Renderer) formatCaption(c *statepkg.Cell, withSize bool) string {
	e := c.Entry
	var parts []string
	if e.InProgress() {
		parts = append(parts, fmt.Sprintf("%d%%", e.Progress))
	} else if !e.Modified.IsZero() {
		parts = append(parts, humanize.RelTime(e.Modified, r.now(), "ago", "from now"))
	}
	if withSize && e.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(e.Size)))
	}
	return strings.Join(parts, " · ")
}

// formatDetails lists what is known about an entry for the second list row.
func formatDetails(c *statepkg.Cell) string {
	e := c.Entry
	parts := []string{e.Kind.String()}
	if e.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(e.Size)))
	}
	if e.Activity != "" {
		parts = append(parts, e.Activity)
	}
	if e.InProgress() {
		parts = append(parts, fmt.Sprintf("%d%% done", e.Progress))
	}
	if len(e.Buddies) > 0 {
		parts = append(parts, "with "+strings.Join(e.Buddies, ", "))
	}
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	return strings.Join(parts, " · ")
}
