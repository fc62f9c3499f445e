package gui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/qnkhuat/chessdesk/pkg/config"
)

// Theme is the resolved color set for the board.
type Theme struct {
	Name        string
	SquareDark  tcell.Color
	SquareLight tcell.Color
	SquareHigh  tcell.Color
	SquareCheck tcell.Color
	White       tcell.Color
	Black       tcell.Color
}

// ThemeBasic is the built-in default.
var ThemeBasic = Theme{
	Name:        "basic",
	SquareDark:  tcell.ColorBlue,
	SquareLight: tcell.ColorGreen,
	SquareHigh:  tcell.ColorRed,
	SquareCheck: tcell.ColorDarkRed,
	White:       tcell.ColorWhite,
	Black:       tcell.ColorBlack,
}

// FromHex resolves a serialized theme into terminal colors.
func FromHex(h config.ThemeHex) Theme {
	return Theme{
		Name:        h.Name,
		SquareDark:  tcell.GetColor(h.SquareDark),
		SquareLight: tcell.GetColor(h.SquareLight),
		SquareHigh:  tcell.GetColor(h.SquareHigh),
		SquareCheck: tcell.GetColor(h.SquareCheck),
		White:       tcell.GetColor(h.White),
		Black:       tcell.GetColor(h.Black),
	}
}

// ThemeByName picks the configured theme, falling back to the default
// when the name matches nothing.
func ThemeByName(cfg config.Config) Theme {
	for _, h := range cfg.Themes {
		if h.Name == cfg.Theme {
			return FromHex(h)
		}
	}
	return ThemeBasic
}
