package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rjournal/internal/state"
	textutil "github.com/kk-code-lab/rjournal/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	viewDesc := "Switch to list view"
	if state != nil && state.View != nil && state.View.Mode() == statepkg.ModeList {
		viewDesc = "Switch to thumbnail view"
	}

	actions := []helpOverlayEntry{
		{keys: "s or *", desc: "Keep / unkeep entry"},
		{keys: "r or Ctrl+L", desc: "Reload journal"},
	}
	if state == nil || state.ClipboardAvailable {
		actions = append(actions, helpOverlayEntry{keys: "y", desc: "Copy entry id to clipboard"})
	}
	if state == nil || state.EditorAvailable {
		actions = append(actions, helpOverlayEntry{keys: "e", desc: "Open entry in $EDITOR"})
	}

	sections := []helpOverlaySection{
		{
			title: "Navigation",
			entries: []helpOverlayEntry{
				{keys: "←↑↓→ / hjkl", desc: "Move cursor"},
				{keys: "PgUp/PgDn", desc: "Move one page"},
				{keys: "Home/End g/G", desc: "First / last entry"},
				{keys: "Mouse", desc: "Click selects, wheel scrolls"},
			},
		},
		{
			title: "Title",
			entries: []helpOverlayEntry{
				{keys: "↵ or F2", desc: "Rename selected entry"},
				{keys: "↵", desc: "Save the new title"},
				{keys: "Esc", desc: "Discard the edit"},
			},
		},
		{
			title: "View",
			entries: []helpOverlayEntry{
				{keys: "v", desc: viewDesc},
				{keys: "t", desc: "Rotate thumbnails (scroll sideways)"},
			},
		},
		{
			title:   "Actions",
			entries: actions,
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Quit"},
				{keys: "Ctrl+Z", desc: "Suspend to shell"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "?", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	pad := max(1, 15-textutil.DisplayWidth(key))
	return fmt.Sprintf("  %s%s%s", key, strings.Repeat(" ", pad), desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	r.fillRect(0, 0, w, h, baseStyle)

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	lines := buildHelpOverlayLines(state)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		style := baseStyle
		if line != "" && !strings.HasPrefix(line, " ") {
			style = baseStyle.Bold(true)
		}
		text := r.truncateTextToWidth(strings.TrimRight(line, " "), w-4)
		r.drawTextLine(2, row, w-4, text, style)
		row++
	}

	if h > 0 {
		footerText := r.truncateTextToWidth("? toggle · Esc/q close", w)
		r.drawTextLine(0, h-1, w, footerText, headerStyle)
	}
}
