// Package palette holds the color tables behind the built-in themes.
package palette

import "fmt"

// Attribute prefixes shared by every palette.
const (
	Bold          = "\x1b[1m"
	Faint         = "\x1b[2m"
	Italic        = "\x1b[3m"
	Underline     = "\x1b[4m"
	Strikethrough = "\x1b[9m"
)

// Palette maps semantic roles to ANSI foreground prefixes. ChromaStyle names
// the syntax highlighting style that matches the palette.
type Palette struct {
	Text           string
	H1             string
	H2             string
	H3             string
	H4             string
	H5             string
	H6             string
	Emphasis       string
	Strong         string
	EmphasisStrong string
	CodeInline     string
	CodeBlock      string
	Quote          string
	ListMarker     string
	ListNumber     string
	LinkText       string
	LinkURL        string
	ThematicBreak  string
	TableBorder    string
	TableHeader    string
	Strike         string
	ThinkBorder    string
	Think          string
	ChromaStyle    string
}

func fg(hex uint32) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", hex>>16&0xff, hex>>8&0xff, hex&0xff)
}

// build fills a Palette from a compact set of accents. Roles without their
// own accent reuse the closest one.
func build(chroma string, text, muted, a1, a2, a3, a4, a5, a6 uint32) Palette {
	return Palette{
		Text:           fg(text),
		H1:             fg(a1),
		H2:             fg(a2),
		H3:             fg(a3),
		H4:             fg(a4),
		H5:             fg(a5),
		H6:             fg(muted),
		Emphasis:       fg(a5),
		Strong:         fg(a1),
		EmphasisStrong: fg(a2),
		CodeInline:     fg(a4),
		CodeBlock:      fg(text),
		Quote:          fg(muted),
		ListMarker:     fg(a3),
		ListNumber:     fg(a2),
		LinkText:       fg(a6),
		LinkURL:        fg(muted),
		ThematicBreak:  fg(muted),
		TableBorder:    fg(muted),
		TableHeader:    fg(a3),
		Strike:         fg(muted),
		ThinkBorder:    fg(muted),
		Think:          fg(muted),
		ChromaStyle:    chroma,
	}
}

var (
	PaletteDefault = Palette{
		H1:             "\x1b[38;5;204m",
		H2:             "\x1b[38;5;215m",
		H3:             "\x1b[38;5;221m",
		H4:             "\x1b[38;5;150m",
		H5:             "\x1b[38;5;117m",
		H6:             "\x1b[38;5;146m",
		Emphasis:       "\x1b[38;5;183m",
		Strong:         "\x1b[38;5;210m",
		EmphasisStrong: "\x1b[38;5;213m",
		CodeInline:     "\x1b[38;5;186m",
		Quote:          "\x1b[38;5;244m",
		ListMarker:     "\x1b[38;5;117m",
		ListNumber:     "\x1b[38;5;215m",
		LinkText:       "\x1b[38;5;75m",
		LinkURL:        "\x1b[38;5;244m",
		ThematicBreak:  "\x1b[38;5;240m",
		TableBorder:    "\x1b[38;5;240m",
		TableHeader:    "\x1b[38;5;221m",
		Strike:         "\x1b[38;5;244m",
		ThinkBorder:    "\x1b[38;5;240m",
		Think:          "\x1b[38;5;245m",
		ChromaStyle:    "monokai",
	}
	PaletteDracula         = build("dracula", 0xf8f8f2, 0x6272a4, 0xff79c6, 0xbd93f9, 0x8be9fd, 0x50fa7b, 0xf1fa8c, 0x8be9fd)
	PaletteNord            = build("nord", 0xd8dee9, 0x616e88, 0x88c0d0, 0x81a1c1, 0x8fbcbb, 0xa3be8c, 0xebcb8b, 0x88c0d0)
	PaletteGruvbox         = build("gruvbox", 0xebdbb2, 0x928374, 0xfb4934, 0xfe8019, 0xfabd2f, 0xb8bb26, 0x83a598, 0x8ec07c)
	PaletteGruvboxLight    = build("gruvbox-light", 0x3c3836, 0x928374, 0x9d0006, 0xaf3a03, 0xb57614, 0x79740e, 0x076678, 0x427b58)
	PaletteTokyoNight      = build("tokyonight-night", 0xc0caf5, 0x565f89, 0xf7768e, 0xff9e64, 0xe0af68, 0x9ece6a, 0x7dcfff, 0x7aa2f7)
	PaletteCatppuccinMocha = build("catppuccin-mocha", 0xcdd6f4, 0x6c7086, 0xf38ba8, 0xfab387, 0xf9e2af, 0xa6e3a1, 0x89dceb, 0x89b4fa)
	PaletteSolarizedDark   = build("solarized-dark256", 0x93a1a1, 0x586e75, 0xdc322f, 0xcb4b16, 0xb58900, 0x859900, 0x2aa198, 0x268bd2)
	PaletteSolarizedLight  = build("solarized-light", 0x586e75, 0x93a1a1, 0xdc322f, 0xcb4b16, 0xb58900, 0x859900, 0x2aa198, 0x268bd2)
	PaletteGithubLight     = build("github", 0x24292f, 0x6e7781, 0xcf222e, 0x953800, 0x8250df, 0x116329, 0x0550ae, 0x0969da)
	PaletteGithubDark      = build("github-dark", 0xc9d1d9, 0x8b949e, 0xff7b72, 0xffa657, 0xd2a8ff, 0x7ee787, 0x79c0ff, 0x58a6ff)
	PaletteOneDark         = build("onedark", 0xabb2bf, 0x5c6370, 0xe06c75, 0xd19a66, 0xe5c07b, 0x98c379, 0x56b6c2, 0x61afef)
	PaletteRosePine        = build("rose-pine", 0xe0def4, 0x6e6a86, 0xeb6f92, 0xf6c177, 0xebbcba, 0x31748f, 0x9ccfd8, 0xc4a7e7)
	PaletteKanagawa        = build("vim", 0xdcd7ba, 0x727169, 0xe46876, 0xffa066, 0xe6c384, 0x98bb6c, 0x7fb4ca, 0x7e9cd8)
	PaletteEverforest      = build("evergarden", 0xd3c6aa, 0x859289, 0xe67e80, 0xe69875, 0xdbbc7f, 0xa7c080, 0x83c092, 0x7fbbb3)
)
