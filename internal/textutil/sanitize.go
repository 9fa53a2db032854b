package textutil

import (
	"fmt"
	"strings"
	"unicode"
)

// invisibles are zero-width runes that can hide text in a title. Joiners
// and variation selectors stay, emoji sequences need them.
var invisibles = map[rune]bool{
	0x00AD: true, // soft hyphen
	0x180E: true,
	0x200B: true,
	0x2060: true,
	0xFEFF: true,
}

// SanitizeTerminalText returns text that is safe to paint cell by cell:
// whitespace controls become spaces, other controls become '?', and bidi
// overrides or invisible runes are shown as ⟪U+XXXX⟫.
func SanitizeTerminalText(text string) string {
	if strings.IndexFunc(text, needsReplacing) < 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t', r == '\n', r == '\r':
			b.WriteByte(' ')
		case r < 0x20, r == 0x7f:
			b.WriteByte('?')
		case unicode.Is(unicode.Bidi_Control, r), invisibles[r]:
			fmt.Fprintf(&b, "⟪U+%04X⟫", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsReplacing(r rune) bool {
	return r < 0x20 || r == 0x7f || unicode.Is(unicode.Bidi_Control, r) || invisibles[r]
}
