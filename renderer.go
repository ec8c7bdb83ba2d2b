package mdtty

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"pkt.systems/mdtty/internal/ansitext"
)

// DefaultWidth is used when a renderer is given a non-positive width.
const DefaultWidth = 80

// ErrClosed is returned for events rendered after Finish.
var ErrClosed = errors.New("renderer is finished")

const (
	thinkHeader = "┌─ thinking ─"
	thinkBar    = "│"
	thinkFooter = "└"
	quoteBar    = "│"
	ruleGlyph   = "─"
)

// renderContext is all mutable state of a Renderer. Only the dispatcher
// changes it, one event at a time.
type renderContext struct {
	inBlockquote bool
	depth        int
	inThink      bool

	inCode   bool
	language string
	code     strings.Builder

	table [][]string
	list  listState

	// column is the visible width written since the last newline.
	column int
	// lineIndent is the column where soft-wrapped text resumes.
	lineIndent int
	// space holds spaces between inline words until the next word decides
	// whether they land on this line.
	space string
}

// Renderer turns events into width-constrained ANSI text written to w. It
// is not safe for concurrent use.
type Renderer struct {
	w      io.Writer
	width  int
	cfg    renderConfig
	inline inlineRenderer
	log    logrus.FieldLogger
	ctx    renderContext
	buf    bytes.Buffer
	closed bool
}

// NewRenderer returns a renderer writing to w at the given width.
func NewRenderer(w io.Writer, width int, opts ...RenderOption) *Renderer {
	cfg := newRenderConfig(opts)
	r := &Renderer{w: w, cfg: cfg, log: cfg.log}
	r.SetWidth(width)
	r.inline = inlineRenderer{st: cfg.styler, osc8: cfg.osc8}
	return r
}

// Width returns the output width in columns.
func (r *Renderer) Width() int { return r.width }

// SetWidth changes the output width. It takes effect with the next event.
func (r *Renderer) SetWidth(width int) {
	if width <= 0 {
		width = DefaultWidth
	}
	r.width = width
}

// SetStyler swaps the styling capability.
func (r *Renderer) SetStyler(s Styler) {
	if s == nil {
		return
	}
	r.cfg.styler = s
	r.inline.st = s
}

// SetHighlighter swaps the code highlighter.
func (r *Renderer) SetHighlighter(h Highlighter) {
	if h == nil {
		return
	}
	r.cfg.highlighter = h
}

// SetTheme swaps styling and code highlighting to those of t.
func (r *Renderer) SetTheme(t Theme) {
	if t == nil {
		return
	}
	r.cfg.theme = t
	r.SetStyler(ThemeStyler(t))
	r.SetHighlighter(themeHighlighter(t, r.log))
}

// RenderEvent processes one event and writes whatever output it produces.
// Output is flushed before returning when w supports flushing. Table rows
// are held until their table ends.
func (r *Renderer) RenderEvent(ev Event) error {
	if r.closed {
		r.log.WithField("event", ev.Kind).Debug("event after finish")
		return ErrClosed
	}
	r.buf.Reset()
	r.dispatch(ev)
	if err := r.emit(); err != nil {
		return fmt.Errorf("render %s: %w", ev.Kind, err)
	}
	return nil
}

// Finish renders any buffered table and closes the renderer. Later events
// return ErrClosed. Finish is idempotent.
func (r *Renderer) Finish() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.buf.Reset()
	r.flushTable()
	if err := r.emit(); err != nil {
		return fmt.Errorf("render finish: %w", err)
	}
	return nil
}

func (r *Renderer) emit() error {
	if r.buf.Len() > 0 {
		if _, err := r.w.Write(r.buf.Bytes()); err != nil {
			return err
		}
	}
	switch f := r.w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case interface{ Flush() }:
		f.Flush()
	}
	return nil
}

func (r *Renderer) dispatch(ev Event) {
	switch ev.Kind {
	case EventListItem, EventListEnd, EventEmptyLine, EventNewline:
	default:
		r.ctx.list.reset()
	}

	if kind, ok := inlineEventKind(ev.Kind); ok {
		r.writeInline(Inline{Kind: kind, Text: ev.Text, URL: ev.URL})
		return
	}

	st := r.cfg.styler
	switch ev.Kind {
	case EventInlineElements:
		for _, sp := range ev.Inlines {
			r.writeInline(sp)
		}

	case EventHeading:
		r.endLine()
		r.writeLines(renderHeading(ev.Level, plainText(ev), r.currentWidth(), r.margin(), st))

	case EventCodeBlockStart:
		r.endLine()
		r.ctx.inCode = true
		r.ctx.language = ev.Language
		r.ctx.code.Reset()

	case EventCodeBlockLine:
		r.endLine()
		if !r.ctx.inCode {
			r.log.Debug("code line outside code block")
		}
		if r.ctx.code.Len() > 0 {
			r.ctx.code.WriteByte('\n')
		}
		r.ctx.code.WriteString(ev.Text)
		r.writeLines(renderCodeLine(ev.Text, r.ctx.language, r.margin(), r.currentWidth(), r.cfg.highlighter))

	case EventCodeBlockEnd:
		r.log.WithFields(logrus.Fields{"language": r.ctx.language, "bytes": r.ctx.code.Len()}).Debug("code block end")
		r.ctx.inCode = false
		r.ctx.language = ""
		r.ctx.code.Reset()

	case EventListItem:
		r.endLine()
		r.writeLines(renderListItem(&r.ctx.list, ev, r.inline.content(ev), r.currentWidth(), r.margin(), st))

	case EventListEnd:
		r.ctx.list.end()

	case EventTableHeader, EventTableRow:
		r.ctx.table = append(r.ctx.table, append([]string(nil), ev.Cells...))

	case EventTableSeparator:

	case EventTableEnd:
		if len(r.ctx.table) == 0 {
			r.log.Debug("table end without rows")
		}
		r.flushTable()

	case EventBlockquoteStart:
		r.ctx.inBlockquote = true
		r.ctx.depth = max(ev.Depth, 0)

	case EventBlockquoteLine:
		r.endLine()
		margin := r.margin()
		lines := ansitext.Wrap(r.inline.content(ev), r.currentWidth(), margin, margin)
		if len(lines) == 0 {
			lines = []string{margin}
		}
		r.writeLines(lines)

	case EventBlockquoteEnd:
		r.ctx.inBlockquote = false
		r.ctx.depth = 0

	case EventThinkBlockStart:
		r.endLine()
		r.writeLine(st.ThinkBorder(thinkHeader))
		r.ctx.inThink = true
		r.ctx.inBlockquote = true
		r.ctx.depth = 1

	case EventThinkBlockLine:
		r.endLine()
		if !r.ctx.inThink {
			r.log.Debug("think line outside think block")
		}
		bar := st.ThinkBorder(thinkBar) + " "
		lines := ansitext.Wrap(st.ThinkBody(r.inline.content(ev)), r.width, bar, bar)
		if len(lines) == 0 {
			lines = []string{bar}
		}
		r.writeLines(lines)

	case EventThinkBlockEnd:
		r.endLine()
		r.writeLine(st.ThinkBorder(thinkFooter))
		r.ctx.inThink = false
		r.ctx.inBlockquote = false
		r.ctx.depth = 0

	case EventHorizontalRule:
		r.endLine()
		r.writeLine(r.margin() + st.HorizontalRule(strings.Repeat(ruleGlyph, r.currentWidth())))

	case EventEmptyLine, EventNewline:
		r.writeLine("")

	default:
		r.log.WithField("event", ev.Kind).Debug("unknown event")
	}
}

func (r *Renderer) flushTable() {
	if len(r.ctx.table) == 0 {
		return
	}
	rows := r.ctx.table
	r.ctx.table = nil
	r.endLine()
	decorate := func(cell string) string {
		return r.inline.spans(parseInlines(cell))
	}
	r.writeLines(renderTable(rows, r.margin(), r.cfg.styler, r.width, decorate))
}

// margin is the blockquote border repeated once per nesting level.
func (r *Renderer) margin() string {
	if !r.ctx.inBlockquote || r.ctx.depth <= 0 {
		return ""
	}
	return strings.Repeat(r.cfg.styler.BlockquoteBorder(quoteBar)+" ", r.ctx.depth)
}

// currentWidth is the render width less three columns per blockquote level.
func (r *Renderer) currentWidth() int {
	if !r.ctx.inBlockquote {
		return r.width
	}
	return max(r.width-3*r.ctx.depth, 0)
}

func (r *Renderer) writeLine(s string) {
	r.buf.WriteString(s)
	r.buf.WriteByte('\n')
	r.ctx.column = 0
	r.ctx.lineIndent = 0
	r.ctx.space = ""
}

func (r *Renderer) writeLines(lines []string) {
	for _, l := range lines {
		r.writeLine(l)
	}
}

// endLine terminates inline text still open on the current line.
func (r *Renderer) endLine() {
	if r.ctx.column > 0 {
		r.writeLine("")
	}
	r.ctx.space = ""
}

func (r *Renderer) writeInline(sp Inline) {
	if !r.cfg.softWrap {
		s := r.inline.span(sp)
		r.buf.WriteString(s)
		if i := strings.LastIndexByte(s, '\n'); i >= 0 {
			r.ctx.column = ansitext.VisibleWidth(s[i+1:])
		} else {
			r.ctx.column += ansitext.VisibleWidth(s)
		}
		return
	}
	width := r.currentWidth()
	for _, u := range r.inline.flow(sp, width) {
		switch {
		case u.newline:
			r.writeLine("")
		case u.space:
			if r.ctx.column > r.ctx.lineIndent {
				r.ctx.space += u.text
			}
		default:
			r.placeWord(u, width)
		}
	}
}

// placeWord writes a word, first breaking the line when the word and the
// spaces before it would pass width.
func (r *Renderer) placeWord(u flowUnit, width int) {
	ctx := &r.ctx
	if ctx.column > ctx.lineIndent && ctx.column+len(ctx.space)+u.width > width {
		r.writeLine("")
		if m := r.margin(); m != "" {
			r.buf.WriteString(m)
			ctx.column = ansitext.VisibleWidth(m)
			ctx.lineIndent = ctx.column
		}
	}
	r.buf.WriteString(ctx.space)
	r.buf.WriteString(u.text)
	ctx.column += len(ctx.space) + u.width
	ctx.space = ""
}
