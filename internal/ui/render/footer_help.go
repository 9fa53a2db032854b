package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/rjournal/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	segments := contextualHelpSegments(state)
	segments = append(segments, persistentHelpSegments(state)...)

	return segments
}

func contextualHelpSegments(state *statepkg.AppState) []string {
	if state.View != nil && state.View.Editing() {
		return []string{
			"type: rename",
			"↵: save",
			"Esc: cancel",
		}
	}
	segments := []string{
		"←↑↓→: move",
		"↵: rename",
		"s: keep",
		"v: view",
	}
	if state.View == nil || state.View.Mode() == statepkg.ModeThumbs {
		segments = append(segments, "t: rotate")
	}
	return append(segments, "r: reload")
}

func persistentHelpSegments(state *statepkg.AppState) []string {
	if state.View != nil && state.View.Editing() {
		return nil
	}

	segments := []string{}
	if state.ClipboardAvailable {
		segments = append(segments, "y: yank id")
	}
	if state.EditorAvailable {
		segments = append(segments, "e: open")
	}
	return append(segments, "?: help", "q: quit")
}
