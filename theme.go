package mdtokens

import (
	"sort"
	"strings"

	"github.com/fatih/color"

	"pkt.systems/mdtokens/internal/palette"
)

// Style colors one part of a printed tree. The zero Style prints plain text.
type Style struct {
	Color *color.Color
}

// Render applies the style to text.
func (s Style) Render(text string) string {
	if s.Color == nil || text == "" {
		return text
	}
	return s.Color.Sprint(text)
}

// Styles groups the styles used by the tree printer.
type Styles struct {
	Type   Style
	Text   Style
	Tokens Style
	Marker Style
	Props  Style
	Guide  Style
}

// Theme provides named styles for tree printing.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func stylesFromPalette(p palette.Palette) Styles {
	return Styles{
		Type:   Style{Color: p.Type},
		Text:   Style{Color: p.Text},
		Tokens: Style{Color: p.Tokens},
		Marker: Style{Color: p.Marker},
		Props:  Style{Color: p.Props},
		Guide:  Style{Color: p.Guide},
	}
}

var builtinThemes = map[string]Theme{
	"default": theme{name: "default", styles: stylesFromPalette(palette.PaletteDefault)},
	"gruvbox": theme{name: "gruvbox", styles: stylesFromPalette(palette.PaletteGruvbox)},
	"nord":    theme{name: "nord", styles: stylesFromPalette(palette.PaletteNord)},
	"boring":  theme{name: "boring"},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}

// BoringTheme returns the theme without any color.
func BoringTheme() Theme {
	return builtinThemes["boring"]
}
