package mdtty

import "strconv"

// EventKind identifies the structural element an Event carries.
type EventKind uint8

const (
	EventText EventKind = iota
	EventBold
	EventItalic
	EventBoldItalic
	EventStrikeout
	EventUnderline
	EventInlineCode
	EventLink
	EventImage
	EventFootnote
	EventInlineElements
	EventHeading
	EventCodeBlockStart
	EventCodeBlockLine
	EventCodeBlockEnd
	EventListItem
	EventListEnd
	EventTableHeader
	EventTableRow
	EventTableSeparator
	EventTableEnd
	EventBlockquoteStart
	EventBlockquoteLine
	EventBlockquoteEnd
	EventThinkBlockStart
	EventThinkBlockLine
	EventThinkBlockEnd
	EventHorizontalRule
	EventEmptyLine
	EventNewline
)

var eventKindNames = [...]string{
	EventText:            "Text",
	EventBold:            "Bold",
	EventItalic:          "Italic",
	EventBoldItalic:      "BoldItalic",
	EventStrikeout:       "Strikeout",
	EventUnderline:       "Underline",
	EventInlineCode:      "InlineCode",
	EventLink:            "Link",
	EventImage:           "Image",
	EventFootnote:        "Footnote",
	EventInlineElements:  "InlineElements",
	EventHeading:         "Heading",
	EventCodeBlockStart:  "CodeBlockStart",
	EventCodeBlockLine:   "CodeBlockLine",
	EventCodeBlockEnd:    "CodeBlockEnd",
	EventListItem:        "ListItem",
	EventListEnd:         "ListEnd",
	EventTableHeader:     "TableHeader",
	EventTableRow:        "TableRow",
	EventTableSeparator:  "TableSeparator",
	EventTableEnd:        "TableEnd",
	EventBlockquoteStart: "BlockquoteStart",
	EventBlockquoteLine:  "BlockquoteLine",
	EventBlockquoteEnd:   "BlockquoteEnd",
	EventThinkBlockStart: "ThinkBlockStart",
	EventThinkBlockLine:  "ThinkBlockLine",
	EventThinkBlockEnd:   "ThinkBlockEnd",
	EventHorizontalRule:  "HorizontalRule",
	EventEmptyLine:       "EmptyLine",
	EventNewline:         "Newline",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "EventKind(" + strconv.Itoa(int(k)) + ")"
}

// InlineKind identifies a span inside a run of inline elements.
type InlineKind uint8

const (
	InlineText InlineKind = iota
	InlineBold
	InlineItalic
	InlineBoldItalic
	InlineStrikeout
	InlineUnderline
	InlineCode
	InlineLink
	InlineImage
	InlineFootnote
)

// Inline is one span of inline content. URL is set for links and images.
type Inline struct {
	Kind InlineKind
	Text string
	URL  string
}

// Bullet is the marker kind of a list item.
type Bullet uint8

const (
	BulletDash Bullet = iota
	BulletStar
	BulletPlus
	// BulletPlusExpand marks a collapsible item and renders as a fixed glyph.
	BulletPlusExpand
	BulletOrdered
)

// Event is one unit of markdown structure, delivered in document order.
//
// Which fields are meaningful depends on Kind:
//   - inline kinds use Text, and URL for links and images
//   - EventInlineElements uses Inlines
//   - EventHeading uses Level and Inlines
//   - EventCodeBlockStart uses Language, EventCodeBlockLine uses Text
//   - EventListItem uses Indent, Bullet, Ordinal and Inlines
//   - EventTableHeader and EventTableRow use Cells
//   - EventBlockquoteStart and EventBlockquoteLine use Depth; the line uses Inlines
//   - EventThinkBlockLine uses Text
type Event struct {
	Kind     EventKind
	Text     string
	URL      string
	Level    int
	Indent   int
	Bullet   Bullet
	Ordinal  int
	Language string
	Depth    int
	Cells    []string
	Inlines  []Inline
}

// inlineEventKind maps a single inline event to its span kind.
func inlineEventKind(k EventKind) (InlineKind, bool) {
	switch k {
	case EventText:
		return InlineText, true
	case EventBold:
		return InlineBold, true
	case EventItalic:
		return InlineItalic, true
	case EventBoldItalic:
		return InlineBoldItalic, true
	case EventStrikeout:
		return InlineStrikeout, true
	case EventUnderline:
		return InlineUnderline, true
	case EventInlineCode:
		return InlineCode, true
	case EventLink:
		return InlineLink, true
	case EventImage:
		return InlineImage, true
	case EventFootnote:
		return InlineFootnote, true
	default:
		return 0, false
	}
}

// Convenience constructors for producers and tests.

// TextEvent returns a plain text event.
func TextEvent(s string) Event { return Event{Kind: EventText, Text: s} }

// InlineEvent returns an EventInlineElements event carrying spans.
func InlineEvent(spans ...Inline) Event { return Event{Kind: EventInlineElements, Inlines: spans} }

// HeadingEvent returns a heading of the given level with plain text content.
func HeadingEvent(level int, text string) Event {
	return Event{Kind: EventHeading, Level: level, Inlines: []Inline{{Kind: InlineText, Text: text}}}
}

// ListItemEvent returns a list item with plain text content.
func ListItemEvent(indent int, bullet Bullet, text string) Event {
	return Event{Kind: EventListItem, Indent: indent, Bullet: bullet, Ordinal: 1, Inlines: []Inline{{Kind: InlineText, Text: text}}}
}
