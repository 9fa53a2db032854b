package textutil

import "github.com/mattn/go-runewidth"

// DisplayWidth reports how many terminal columns text occupies. Each
// grapheme cluster counts with the width of its first visible rune, so
// emoji sequences, flags and skin tone modifiers take one glyph.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}
