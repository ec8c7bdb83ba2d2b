package mdtty

import (
	"sort"
	"strings"

	"pkt.systems/mdtty/internal/ansitext"
	"pkt.systems/mdtty/internal/palette"
)

// Style describes a terminal style as an ANSI prefix sequence.
type Style struct {
	Prefix string
}

// Apply wraps s in the style. An empty prefix leaves s untouched.
func (st Style) Apply(s string) string {
	if st.Prefix == "" || s == "" {
		return s
	}
	return st.Prefix + s + ansitext.Reset
}

// Styles groups the semantic styles used by the renderer.
type Styles struct {
	Heading        [6]Style
	Emphasis       Style
	Strong         Style
	EmphasisStrong Style
	Strike         Style
	Underline      Style
	CodeInline     Style
	CodeBlock      Style
	Quote          Style
	ListMarker     Style
	ListNumber     Style
	LinkText       Style
	LinkURL        Style
	ThematicBreak  Style
	TableBorder    Style
	TableHeader    Style
	ThinkBorder    Style
	Think          Style
	// Chroma names the syntax highlighting style for code blocks. Empty
	// means code lines are painted in CodeBlock instead.
	Chroma string
}

// Theme provides named styles for Markdown rendering.
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

// Styler is the styling capability the renderer draws with. Each method
// maps plain text to styled text. Implementations must not change the
// visible width of their input.
type Styler interface {
	Bold(s string) string
	Italic(s string) string
	BoldItalic(s string) string
	Strikethrough(s string) string
	Underline(s string) string
	InlineCode(s string) string
	LinkLabel(s string) string
	LinkURL(s string) string
	Bullet(s string) string
	OrdinalMarker(s string) string
	TableBorder(s string) string
	TableHeader(s string) string
	BlockquoteBorder(s string) string
	HorizontalRule(s string) string
	ThinkBorder(s string) string
	ThinkBody(s string) string
	Heading(level int, s string) string
}

// ThemeStyler adapts a Theme to the Styler capability.
func ThemeStyler(t Theme) Styler {
	if t == nil {
		t = DefaultTheme()
	}
	return themeStyler{s: t.Styles()}
}

type themeStyler struct {
	s Styles
}

func (ts themeStyler) Bold(s string) string             { return ts.s.Strong.Apply(s) }
func (ts themeStyler) Italic(s string) string           { return ts.s.Emphasis.Apply(s) }
func (ts themeStyler) BoldItalic(s string) string       { return ts.s.EmphasisStrong.Apply(s) }
func (ts themeStyler) Strikethrough(s string) string    { return ts.s.Strike.Apply(s) }
func (ts themeStyler) Underline(s string) string        { return ts.s.Underline.Apply(s) }
func (ts themeStyler) InlineCode(s string) string       { return ts.s.CodeInline.Apply(s) }
func (ts themeStyler) LinkLabel(s string) string        { return ts.s.LinkText.Apply(s) }
func (ts themeStyler) LinkURL(s string) string          { return ts.s.LinkURL.Apply(s) }
func (ts themeStyler) Bullet(s string) string           { return ts.s.ListMarker.Apply(s) }
func (ts themeStyler) OrdinalMarker(s string) string    { return ts.s.ListNumber.Apply(s) }
func (ts themeStyler) TableBorder(s string) string      { return ts.s.TableBorder.Apply(s) }
func (ts themeStyler) TableHeader(s string) string      { return ts.s.TableHeader.Apply(s) }
func (ts themeStyler) BlockquoteBorder(s string) string { return ts.s.Quote.Apply(s) }
func (ts themeStyler) HorizontalRule(s string) string   { return ts.s.ThematicBreak.Apply(s) }
func (ts themeStyler) ThinkBorder(s string) string      { return ts.s.ThinkBorder.Apply(s) }
func (ts themeStyler) ThinkBody(s string) string        { return ts.s.Think.Apply(s) }

func (ts themeStyler) Heading(level int, s string) string {
	return ts.s.Heading[clampLevel(level)-1].Apply(s)
}

func clampLevel(level int) int {
	return min(max(level, 1), 6)
}

func style(prefixes ...string) Style {
	var b strings.Builder
	for _, p := range prefixes {
		if p != "" {
			b.WriteString(p)
		}
	}
	return Style{Prefix: b.String()}
}

func stylesFromPalette(p palette.Palette) Styles {
	return Styles{
		Heading: [6]Style{
			style(palette.Bold, p.H1), style(palette.Bold, p.H2), style(palette.Bold, p.H3),
			style(palette.Bold, p.H4), style(palette.Bold, p.H5), style(palette.Bold, p.H6),
		},
		Emphasis:       style(palette.Italic, p.Emphasis),
		Strong:         style(palette.Bold, p.Strong),
		EmphasisStrong: style(palette.Bold, palette.Italic, p.EmphasisStrong),
		Strike:         style(palette.Strikethrough, p.Strike),
		Underline:      style(palette.Underline, p.Text),
		CodeInline:     style(p.CodeInline),
		CodeBlock:      style(p.CodeBlock),
		Quote:          style(p.Quote),
		ListMarker:     style(p.ListMarker),
		ListNumber:     style(p.ListNumber),
		LinkText:       style(palette.Underline, p.LinkText),
		LinkURL:        style(p.LinkURL),
		ThematicBreak:  style(p.ThematicBreak),
		TableBorder:    style(p.TableBorder),
		TableHeader:    style(palette.Bold, p.TableHeader),
		ThinkBorder:    style(p.ThinkBorder),
		Think:          style(palette.Italic, p.Think),
		Chroma:         p.ChromaStyle,
	}
}

var builtinThemes = map[string]Theme{
	"default":          theme{name: "default", styles: stylesFromPalette(palette.PaletteDefault)},
	"dracula":          theme{name: "dracula", styles: stylesFromPalette(palette.PaletteDracula)},
	"nord":             theme{name: "nord", styles: stylesFromPalette(palette.PaletteNord)},
	"gruvbox":          theme{name: "gruvbox", styles: stylesFromPalette(palette.PaletteGruvbox)},
	"gruvbox-light":    theme{name: "gruvbox-light", styles: stylesFromPalette(palette.PaletteGruvboxLight)},
	"tokyo-night":      theme{name: "tokyo-night", styles: stylesFromPalette(palette.PaletteTokyoNight)},
	"catppuccin-mocha": theme{name: "catppuccin-mocha", styles: stylesFromPalette(palette.PaletteCatppuccinMocha)},
	"solarized-dark":   theme{name: "solarized-dark", styles: stylesFromPalette(palette.PaletteSolarizedDark)},
	"solarized-light":  theme{name: "solarized-light", styles: stylesFromPalette(palette.PaletteSolarizedLight)},
	"github-light":     theme{name: "github-light", styles: stylesFromPalette(palette.PaletteGithubLight)},
	"github-dark":      theme{name: "github-dark", styles: stylesFromPalette(palette.PaletteGithubDark)},
	"one-dark":         theme{name: "one-dark", styles: stylesFromPalette(palette.PaletteOneDark)},
	"rose-pine":        theme{name: "rose-pine", styles: stylesFromPalette(palette.PaletteRosePine)},
	"kanagawa":         theme{name: "kanagawa", styles: stylesFromPalette(palette.PaletteKanagawa)},
	"everforest":       theme{name: "everforest", styles: stylesFromPalette(palette.PaletteEverforest)},
	"boring":           theme{name: "boring"},
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

// BoringTheme returns a theme without any styling or code highlighting.
func BoringTheme() Theme {
	return builtinThemes["boring"]
}
