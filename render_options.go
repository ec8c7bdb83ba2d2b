package mdtty

import (
	"github.com/sirupsen/logrus"

	"pkt.systems/mdtty/internal/highlight"
	"pkt.systems/mdtty/internal/logging"
)

// Highlighter colors one line of source code. language may be empty. On
// any failure it returns line unstyled.
type Highlighter interface {
	Highlight(line, language string) string
}

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8        bool
	softWrap    bool
	theme       Theme
	styler      Styler
	highlighter Highlighter
	log         logrus.FieldLogger
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{osc8: true, softWrap: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.theme == nil {
		cfg.theme = DefaultTheme()
	}
	if cfg.styler == nil {
		cfg.styler = ThemeStyler(cfg.theme)
	}
	if cfg.log == nil {
		cfg.log = logging.Discard()
	}
	if cfg.highlighter == nil {
		cfg.highlighter = themeHighlighter(cfg.theme, cfg.log)
	}
	return cfg
}

func themeHighlighter(t Theme, log logrus.FieldLogger) Highlighter {
	st := t.Styles()
	switch {
	case st.Chroma != "":
		return highlight.New(st.Chroma, log)
	case st.CodeBlock.Prefix != "":
		return blockHighlighter{style: st.CodeBlock}
	default:
		return highlight.Plain{}
	}
}

// blockHighlighter paints whole code lines in one style.
type blockHighlighter struct {
	style Style
}

func (h blockHighlighter) Highlight(line, _ string) string {
	return h.style.Apply(line)
}

// WithOSC8 enables or disables OSC 8 hyperlinks. Enabled by default.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithSoftWrap enables or disables wrapping of inline text at the render
// width. Enabled by default.
func WithSoftWrap(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.softWrap = enabled
	}
}

// WithTheme selects the theme used for styling and, unless WithStyler or
// WithHighlighter say otherwise, for code highlighting.
func WithTheme(t Theme) RenderOption {
	return func(cfg *renderConfig) {
		cfg.theme = t
	}
}

// WithStyler replaces the theme-derived styling capability.
func WithStyler(s Styler) RenderOption {
	return func(cfg *renderConfig) {
		cfg.styler = s
	}
}

// WithHighlighter replaces the theme-derived code highlighter.
func WithHighlighter(h Highlighter) RenderOption {
	return func(cfg *renderConfig) {
		cfg.highlighter = h
	}
}

// WithLogger sets the logger for rendering diagnostics. Only debug entries
// are written.
func WithLogger(l logrus.FieldLogger) RenderOption {
	return func(cfg *renderConfig) {
		cfg.log = l
	}
}
