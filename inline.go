package mdtty

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"pkt.systems/mdtty/internal/ansitext"
)

const imageGlyph = "🖼"

func decode(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	return html.UnescapeString(s)
}

type inlineRenderer struct {
	st   Styler
	osc8 bool
}

func (ir inlineRenderer) styleFor(k InlineKind) func(string) string {
	switch k {
	case InlineBold:
		return ir.st.Bold
	case InlineItalic:
		return ir.st.Italic
	case InlineBoldItalic:
		return ir.st.BoldItalic
	case InlineStrikeout:
		return ir.st.Strikethrough
	case InlineUnderline:
		return ir.st.Underline
	default:
		return nil
	}
}

func (ir inlineRenderer) linkLabel(label, url string) string {
	styled := ir.st.LinkLabel(decode(label))
	if !ir.osc8 || url == "" {
		return styled
	}
	return osc8Start + url + "\x1b\\" + styled + osc8End
}

func (ir inlineRenderer) linkURL(url string) string {
	return ir.st.LinkURL("(" + url + ")")
}

func image(alt string) string {
	return "[" + imageGlyph + " " + decode(alt) + "]"
}

// span renders one inline element without any wrapping.
func (ir inlineRenderer) span(sp Inline) string {
	switch sp.Kind {
	case InlineCode:
		return ir.st.InlineCode(sp.Text)
	case InlineLink:
		if sp.URL == "" {
			return ir.linkLabel(sp.Text, "")
		}
		return ir.linkLabel(sp.Text, sp.URL) + " " + ir.linkURL(sp.URL)
	case InlineImage:
		return image(sp.Text)
	case InlineFootnote:
		return sp.Text
	}
	if style := ir.styleFor(sp.Kind); style != nil {
		return style(decode(sp.Text))
	}
	return decode(sp.Text)
}

func (ir inlineRenderer) spans(spans []Inline) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(ir.span(sp))
	}
	return b.String()
}

// content renders the inline body of a block event.
func (ir inlineRenderer) content(ev Event) string {
	if len(ev.Inlines) > 0 {
		return ir.spans(ev.Inlines)
	}
	return decode(ev.Text)
}

// plainText flattens spans to their unstyled text.
func plainText(ev Event) string {
	if len(ev.Inlines) == 0 {
		return decode(ev.Text)
	}
	var b strings.Builder
	for _, sp := range ev.Inlines {
		switch sp.Kind {
		case InlineCode, InlineFootnote:
			b.WriteString(sp.Text)
		case InlineImage:
			b.WriteString(image(sp.Text))
		default:
			b.WriteString(decode(sp.Text))
		}
	}
	return b.String()
}

// renderHeading lays out a heading with its level marker. Continuation
// lines align under the heading text.
func renderHeading(level int, text string, width int, margin string, st Styler) []string {
	level = clampLevel(level)
	body := strings.Repeat("#", level) + " " + strings.TrimSpace(text)
	next := margin + strings.Repeat(" ", level+1)
	return ansitext.Wrap(st.Heading(level, body), width, margin, next)
}

// flowUnit is one piece of inline flow: a word that must not be broken, a
// run of spaces, or a hard newline.
type flowUnit struct {
	text    string
	width   int
	space   bool
	newline bool
}

// flow splits a span into units for soft wrapping. Styled text is styled
// word by word so a break never leaves a style open across lines. Links,
// inline code and images are unbreakable. width is used to fit overlong
// link URLs.
func (ir inlineRenderer) flow(sp Inline, width int) []flowUnit {
	word := func(s string) flowUnit {
		return flowUnit{text: s, width: ansitext.VisibleWidth(s)}
	}
	switch sp.Kind {
	case InlineCode:
		return []flowUnit{word(ir.st.InlineCode(sp.Text))}
	case InlineImage:
		return []flowUnit{word(image(sp.Text))}
	case InlineLink:
		units := []flowUnit{word(ir.linkLabel(sp.Text, sp.URL))}
		if sp.URL == "" {
			return units
		}
		url := sp.URL
		if width > 2 && ansitext.VisibleWidth(url)+2 > width {
			url = fitURL(url, width-2)
		}
		return append(units, flowUnit{text: " ", width: 1, space: true}, word(ir.linkURL(url)))
	}

	style := ir.styleFor(sp.Kind)
	text := sp.Text
	if sp.Kind != InlineFootnote {
		text = decode(text)
	}
	var units []flowUnit
	for len(text) > 0 {
		r, _ := utf8.DecodeRuneInString(text)
		if unicode.IsSpace(r) {
			end := strings.IndexFunc(text, func(r rune) bool { return !unicode.IsSpace(r) })
			if end < 0 {
				end = len(text)
			}
			run := text[:end]
			text = text[end:]
			if strings.ContainsAny(run, "\r\n") {
				units = append(units, flowUnit{newline: true})
				continue
			}
			n := utf8.RuneCountInString(run)
			units = append(units, flowUnit{text: strings.Repeat(" ", n), width: n, space: true})
			continue
		}
		end := strings.IndexFunc(text, unicode.IsSpace)
		if end < 0 {
			end = len(text)
		}
		w := text[:end]
		text = text[end:]
		if style != nil {
			w = style(w)
		}
		units = append(units, word(w))
	}
	return units
}
