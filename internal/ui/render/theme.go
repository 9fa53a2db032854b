package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background    tcell.Color
	Foreground    tcell.Color
	SelectionBg   tcell.Color
	SelectionFg   tcell.Color
	CaptionFg     tcell.Color
	KeepFg        tcell.Color
	ProgressFg    tcell.Color
	PlaceholderFg tcell.Color
	FooterBg      tcell.Color
	FooterFg      tcell.Color
	ErrorFg       tcell.Color
	EditBg        tcell.Color
	EditFg        tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:    tcell.ColorDefault,
		Foreground:    tcell.ColorDefault,
		SelectionBg:   tcell.Color33,
		SelectionFg:   tcell.ColorWhite,
		CaptionFg:     tcell.ColorLightSlateGray,
		KeepFg:        tcell.Color220, // gold star
		ProgressFg:    tcell.Color44,
		PlaceholderFg: tcell.Color240,
		FooterBg:      tcell.ColorDefault,
		FooterFg:      tcell.ColorDefault,
		ErrorFg:       tcell.ColorRed,
		EditBg:        tcell.Color234,
		EditFg:        tcell.Color252,
	}
}
