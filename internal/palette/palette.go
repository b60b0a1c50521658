// Package palette holds the color sets used by the tree printer.
package palette

import "github.com/fatih/color"

// Palette assigns a color to each part of a printed tree. A nil color prints plain.
type Palette struct {
	Type   *color.Color
	Text   *color.Color
	Tokens *color.Color
	Marker *color.Color
	Props  *color.Color
	Guide  *color.Color
}

// New returns a color that is always enabled. Whether to color at all is decided by the
// caller picking a palette, not by the global tty detection of the color package.
func New(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// RGB returns an always enabled 24-bit foreground color.
func RGB(r, g, b int) *color.Color {
	c := color.RGB(r, g, b)
	c.EnableColor()
	return c
}

var (
	// PaletteDefault uses the basic 16 ANSI colors.
	PaletteDefault = Palette{
		Type:   New(color.FgBlue, color.Bold),
		Text:   New(color.FgGreen),
		Tokens: New(color.FgMagenta, color.Bold),
		Marker: New(color.FgYellow, color.Bold),
		Props:  New(color.FgCyan),
		Guide:  New(color.FgHiBlack),
	}
	// PaletteGruvbox is a 24-bit warm palette.
	PaletteGruvbox = Palette{
		Type:   RGB(131, 165, 152),
		Text:   RGB(184, 187, 38),
		Tokens: RGB(211, 134, 155),
		Marker: RGB(250, 189, 47),
		Props:  RGB(142, 192, 124),
		Guide:  RGB(102, 92, 84),
	}
	// PaletteNord is a 24-bit cold palette.
	PaletteNord = Palette{
		Type:   RGB(129, 161, 193),
		Text:   RGB(163, 190, 140),
		Tokens: RGB(180, 142, 173),
		Marker: RGB(235, 203, 139),
		Props:  RGB(136, 192, 208),
		Guide:  RGB(76, 86, 106),
	}
)
