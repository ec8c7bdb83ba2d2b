package mdtty

import (
	"strconv"
	"strings"

	"pkt.systems/mdtty/internal/ansitext"
)

var bulletGlyphs = [...]string{"•", "◦", "▪", "‣"}

const expandGlyph = "⊞"

type listFrame struct {
	indent  int
	ordered bool
}

// listState tracks nested list frames. Frame indents strictly increase from
// the bottom of the stack to the top; numbers holds one ordinal counter per
// frame.
type listState struct {
	frames  []listFrame
	numbers []int
	// pending is armed by a list end and resolved by the next event: another
	// item resumes the list, anything but a blank line resets it.
	pending bool
}

func (l *listState) reset() {
	l.frames = l.frames[:0]
	l.numbers = l.numbers[:0]
	l.pending = false
}

func (l *listState) end() {
	l.pending = true
}

func (l *listState) level() int {
	return max(len(l.frames)-1, 0)
}

// adjustForIndent pops frames deeper than indent, then pushes a frame when
// the stack is empty or its top is shallower than indent.
func (l *listState) adjustForIndent(indent int, ordered bool) {
	for len(l.frames) > 0 && l.frames[len(l.frames)-1].indent > indent {
		l.frames = l.frames[:len(l.frames)-1]
		l.numbers = l.numbers[:len(l.numbers)-1]
	}
	if len(l.frames) == 0 || l.frames[len(l.frames)-1].indent < indent {
		l.frames = append(l.frames, listFrame{indent: indent, ordered: ordered})
		l.numbers = append(l.numbers, 0)
	}
}

func (l *listState) nextNumber() int {
	if len(l.numbers) == 0 {
		return 1
	}
	l.numbers[len(l.numbers)-1]++
	return l.numbers[len(l.numbers)-1]
}

// item registers a list item and returns its unstyled marker. Ordered
// markers come from the frame counter, never from the event.
func (l *listState) item(indent int, bullet Bullet) string {
	l.pending = false
	ordered := bullet == BulletOrdered
	l.adjustForIndent(max(indent, 0), ordered)
	switch bullet {
	case BulletOrdered:
		return strconv.Itoa(l.nextNumber()) + "."
	case BulletPlusExpand:
		return expandGlyph
	default:
		return bulletGlyphs[l.level()%len(bulletGlyphs)]
	}
}

// renderListItem lays out one list item. Continuation lines align under the
// item text rather than the marker. An item without content still emits its
// marker line.
func renderListItem(l *listState, ev Event, content string, width int, margin string, st Styler) []string {
	marker := l.item(ev.Indent, ev.Bullet)
	pad := strings.Repeat(" ", l.level()*2)
	styled := st.Bullet(marker)
	if ev.Bullet == BulletOrdered {
		styled = st.OrdinalMarker(marker)
	}
	first := margin + pad + styled + " "
	next := margin + pad + strings.Repeat(" ", ansitext.VisibleWidth(marker)+1)
	lines := ansitext.Wrap(content, width, first, next)
	if len(lines) == 0 {
		return []string{first}
	}
	return lines
}
