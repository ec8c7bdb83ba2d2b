package mdtty

import (
	"bytes"
	"errors"
	"strings"
)

// ErrParserClosed is returned when writing to a closed Parser.
var ErrParserClosed = errors.New("parser is closed")

type pendingItem struct {
	indent int
	bullet Bullet
	number int
	text   string
}

// Parser is a streaming markdown tokenizer. Bytes written to it are split
// into lines and turned into events for its Sink as soon as each line is
// complete. List items wait for the following line, which may continue
// them.
type Parser struct {
	sink    Sink
	partial []byte

	inFence     bool
	fence       string
	fenceIndent int

	inThink    bool
	quoteDepth int
	inTable    bool
	tableRows  int
	inPara     bool
	hardBreak  bool
	listOpen   bool
	item       *pendingItem
	lastBlank  bool
	closed     bool
}

// NewParser returns a parser that emits events to sink.
func NewParser(sink Sink) *Parser {
	return &Parser{sink: sink, lastBlank: true}
}

// Write feeds markdown bytes. Input may be split at any byte boundary.
func (p *Parser) Write(b []byte) (int, error) {
	if p.closed {
		return 0, ErrParserClosed
	}
	p.partial = append(p.partial, b...)
	for {
		i := bytes.IndexByte(p.partial, '\n')
		if i < 0 {
			break
		}
		line := string(trimCR(p.partial[:i]))
		p.partial = p.partial[i+1:]
		if err := p.line(line); err != nil {
			return len(b), err
		}
	}
	return len(b), nil
}

// WriteString feeds markdown text.
func (p *Parser) WriteString(s string) (int, error) {
	return p.Write([]byte(s))
}

// Close processes a trailing partial line, closes every open construct and
// finishes the sink.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	if len(p.partial) > 0 {
		line := string(trimCR(p.partial))
		p.partial = nil
		if err := p.line(line); err != nil {
			return err
		}
	}
	p.closed = true
	if err := p.closeBlocks(false, false); err != nil {
		return err
	}
	if p.inFence {
		p.inFence = false
		if err := p.emit(Event{Kind: EventCodeBlockEnd}); err != nil {
			return err
		}
	}
	if p.inThink {
		p.inThink = false
		if err := p.emit(Event{Kind: EventThinkBlockEnd}); err != nil {
			return err
		}
	}
	return p.sink.Finish()
}

func (p *Parser) emit(ev Event) error {
	return p.sink.RenderEvent(ev)
}

func (p *Parser) line(line string) error {
	if p.inFence {
		return p.fenceLine(line)
	}
	trimmed := strings.TrimSpace(line)
	if p.inThink {
		if trimmed == "</think>" {
			p.inThink = false
			return p.emit(Event{Kind: EventThinkBlockEnd})
		}
		return p.emit(Event{Kind: EventThinkBlockLine, Text: trimmed})
	}

	if trimmed == "" {
		return p.blank()
	}
	p.lastBlank = false

	indent, idx := leadingIndentCount(line)
	rest := line[idx:]

	if trimmed == "<think>" {
		if err := p.closeBlocks(false, false); err != nil {
			return err
		}
		p.inThink = true
		return p.emit(Event{Kind: EventThinkBlockStart})
	}

	if marker := fenceMarker(rest); marker != "" && indent < 4 {
		if err := p.closeBlocks(false, false); err != nil {
			return err
		}
		info := strings.TrimLeft(strings.TrimSpace(rest), marker[:1])
		lang := ""
		if fields := strings.Fields(info); len(fields) > 0 {
			lang = fields[0]
		}
		p.inFence = true
		p.fence = strings.TrimSpace(rest)[:runLength(strings.TrimSpace(rest), 0, marker[0])]
		p.fenceIndent = indent
		return p.emit(Event{Kind: EventCodeBlockStart, Language: lang})
	}

	if depth, body, ok := parseQuotePrefix(line); ok {
		if err := p.closeBlocks(true, false); err != nil {
			return err
		}
		if depth != p.quoteDepth {
			p.quoteDepth = depth
			if err := p.emit(Event{Kind: EventBlockquoteStart, Depth: depth}); err != nil {
				return err
			}
		}
		return p.emit(Event{Kind: EventBlockquoteLine, Depth: depth, Inlines: parseInlines(strings.TrimSpace(body))})
	}

	if strings.HasPrefix(trimmed, "|") {
		return p.tableLine(trimmed)
	}

	if indent < 4 {
		if level, content, ok := parseHeading(rest); ok {
			if err := p.closeBlocks(false, false); err != nil {
				return err
			}
			return p.emit(Event{Kind: EventHeading, Level: level, Inlines: parseInlines(content)})
		}
		if isThematicBreak(rest) {
			if err := p.closeBlocks(false, false); err != nil {
				return err
			}
			return p.emit(Event{Kind: EventHorizontalRule})
		}
	}

	if ordered, marker, num, content, ok := parseListMarker(rest); ok {
		if err := p.closeBlocks(false, false); err != nil {
			return err
		}
		bullet := BulletDash
		switch {
		case ordered:
			bullet = BulletOrdered
		case marker == '*':
			bullet = BulletStar
		case marker == '+':
			bullet = BulletPlus
		}
		if after, found := strings.CutPrefix(content, "[+] "); found {
			bullet = BulletPlusExpand
			content = after
		}
		p.item = &pendingItem{indent: indent / 2, bullet: bullet, number: num, text: strings.TrimSpace(content)}
		p.listOpen = true
		return nil
	}

	if p.item != nil {
		p.item.text += " " + trimmed
		return nil
	}
	return p.paragraphLine(line, trimmed)
}

func (p *Parser) fenceLine(line string) error {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, p.fence) && strings.Trim(trimmed, p.fence[:1]) == "" {
		p.inFence = false
		p.lastBlank = false
		return p.emit(Event{Kind: EventCodeBlockEnd})
	}
	return p.emit(Event{Kind: EventCodeBlockLine, Text: trimIndent(line, p.fenceIndent)})
}

func (p *Parser) tableLine(trimmed string) error {
	if !p.inTable {
		if err := p.closeBlocks(false, false); err != nil {
			return err
		}
		p.inTable = true
		p.tableRows = 0
	}
	cells := splitTableCells(trimmed)
	kind := EventTableRow
	switch {
	case isTableSeparator(cells):
		return p.emit(Event{Kind: EventTableSeparator})
	case p.tableRows == 0:
		kind = EventTableHeader
	}
	p.tableRows++
	return p.emit(Event{Kind: kind, Cells: cells})
}

func (p *Parser) paragraphLine(line, trimmed string) error {
	if err := p.closeBlocks(false, true); err != nil {
		return err
	}
	if p.inPara {
		sep := TextEvent(" ")
		if p.hardBreak {
			sep = Event{Kind: EventNewline}
		}
		if err := p.emit(sep); err != nil {
			return err
		}
	}
	p.inPara = true
	p.hardBreak = hasHardLineBreak(line)
	return p.emit(Event{Kind: EventInlineElements, Inlines: parseInlines(trimmed)})
}

func (p *Parser) blank() error {
	if err := p.closeBlocks(false, false); err != nil {
		return err
	}
	if p.listOpen {
		p.listOpen = false
		if err := p.emit(Event{Kind: EventListEnd}); err != nil {
			return err
		}
	}
	if p.lastBlank {
		return nil
	}
	p.lastBlank = true
	return p.emit(Event{Kind: EventEmptyLine})
}

// closeBlocks emits the pending list item and ends the open table. The
// paragraph and blockquote are ended too unless the caller keeps them.
func (p *Parser) closeBlocks(keepQuote, keepPara bool) error {
	if p.item != nil {
		it := p.item
		p.item = nil
		ev := Event{Kind: EventListItem, Indent: it.indent, Bullet: it.bullet, Ordinal: it.number, Inlines: parseInlines(it.text)}
		if err := p.emit(ev); err != nil {
			return err
		}
	}
	if p.inTable {
		p.inTable = false
		if err := p.emit(Event{Kind: EventTableEnd}); err != nil {
			return err
		}
	}
	if p.inPara && !keepPara {
		p.inPara = false
		p.hardBreak = false
		if err := p.emit(Event{Kind: EventNewline}); err != nil {
			return err
		}
	}
	if p.quoteDepth > 0 && !keepQuote {
		p.quoteDepth = 0
		if err := p.emit(Event{Kind: EventBlockquoteEnd}); err != nil {
			return err
		}
	}
	return nil
}

func splitTableCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, "\\|") {
		line = line[:len(line)-1]
	}
	var (
		cells []string
		cell  strings.Builder
		code  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteByte('|')
			i++
			continue
		case c == '`':
			code = !code
		case c == '|' && !code:
			cells = append(cells, cell.String())
			cell.Reset()
			continue
		}
		cell.WriteByte(c)
	}
	return append(cells, cell.String())
}

func isTableSeparator(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		c = strings.TrimSpace(c)
		c = strings.TrimPrefix(c, ":")
		c = strings.TrimSuffix(c, ":")
		if c == "" || strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}

func parseQuotePrefix(line string) (int, string, bool) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	j := i
	depth := 0
	for j < len(line) && line[j] == '>' {
		depth++
		j++
		if j < len(line) && (line[j] == ' ' || line[j] == '\t') {
			j++
		}
	}
	if depth == 0 {
		return 0, line, false
	}
	return depth, line[j:], true
}

// parseListMarker recognizes "-", "*", "+" and "1." or "1)" list markers
// followed by whitespace. It reports whether the marker is ordered, the
// marker byte, the source number and the item content.
func parseListMarker(text string) (bool, byte, int, string, bool) {
	if text == "" {
		return false, 0, 0, "", false
	}
	switch text[0] {
	case '-', '+', '*':
		if len(text) < 2 || !isSpace(text[1]) {
			return false, 0, 0, "", false
		}
		_, idx := countSpaces(text[1:])
		return false, text[0], 0, text[1+idx:], true
	}
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == 0 || i > 9 || i >= len(text) {
		return false, 0, 0, "", false
	}
	if text[i] != '.' && text[i] != ')' {
		return false, 0, 0, "", false
	}
	if i+1 >= len(text) || !isSpace(text[i+1]) {
		return false, 0, 0, "", false
	}
	num := 0
	for j := 0; j < i; j++ {
		num = num*10 + int(text[j]-'0')
	}
	_, idx := countSpaces(text[i+1:])
	return true, text[i], num, text[i+1+idx:], true
}

func parseHeading(text string) (int, string, bool) {
	if !strings.HasPrefix(text, "#") {
		return 0, "", false
	}
	level := 0
	for level < len(text) && text[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	if level < len(text) && text[level] != ' ' {
		return 0, "", false
	}
	content := strings.TrimSpace(text[level:])
	content = strings.TrimSpace(strings.TrimRight(content, "#"))
	return level, content, true
}

func fenceMarker(text string) string {
	trim := strings.TrimSpace(text)
	if strings.HasPrefix(trim, "```") {
		return "```"
	}
	if strings.HasPrefix(trim, "~~~") {
		return "~~~"
	}
	return ""
}

func isThematicBreak(text string) bool {
	trim := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	if len(trim) < 3 {
		return false
	}
	ch := trim[0]
	if ch != '-' && ch != '*' && ch != '_' {
		return false
	}
	for i := 0; i < len(trim); i++ {
		if trim[i] != ch {
			return false
		}
	}
	return true
}

func leadingIndentCount(s string) (int, int) {
	count := 0
	i := 0
	for i < len(s) {
		if s[i] == ' ' {
			count++
			i++
			continue
		}
		if s[i] == '\t' {
			count += 4
			i++
			continue
		}
		break
	}
	return count, i
}

func trimIndent(s string, count int) string {
	i := 0
	for i < len(s) && count > 0 {
		if s[i] == ' ' {
			count--
			i++
			continue
		}
		if s[i] == '\t' {
			count -= 4
			i++
			continue
		}
		break
	}
	return s[i:]
}

func countSpaces(s string) (int, int) {
	count := 0
	i := 0
	for i < len(s) && isSpace(s[i]) {
		count++
		i++
	}
	return count, i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func hasHardLineBreak(line string) bool {
	count := 0
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == ' ' {
			count++
			continue
		}
		break
	}
	return count >= 2
}
