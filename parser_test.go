package mdtty

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParserEventKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []EventKind
	}{
		{
			name: "paragraph lines join",
			src:  "# Title\n\nSome *text*\nmore\n",
			want: []EventKind{EventHeading, EventEmptyLine, EventInlineElements, EventText, EventInlineElements, EventNewline},
		},
		{
			name: "hard break",
			src:  "one  \ntwo",
			want: []EventKind{EventInlineElements, EventNewline, EventInlineElements, EventNewline},
		},
		{
			name: "blank lines collapse",
			src:  "a\n\n\n\nb\n",
			want: []EventKind{EventInlineElements, EventNewline, EventEmptyLine, EventInlineElements, EventNewline},
		},
		{
			name: "fenced code",
			src:  "```go\nx := 1\n\n```\n",
			want: []EventKind{EventCodeBlockStart, EventCodeBlockLine, EventCodeBlockLine, EventCodeBlockEnd},
		},
		{
			name: "unclosed fence ends at close",
			src:  "~~~\ncode",
			want: []EventKind{EventCodeBlockStart, EventCodeBlockLine, EventCodeBlockEnd},
		},
		{
			name: "list with lazy continuation",
			src:  "- a\n  continued\n- b\n\n",
			want: []EventKind{EventListItem, EventListItem, EventListEnd, EventEmptyLine},
		},
		{
			name: "table",
			src:  "| a | b |\n|---|---|\n| 1 | 2 |\n\nafter\n",
			want: []EventKind{EventTableHeader, EventTableSeparator, EventTableRow, EventTableEnd, EventEmptyLine, EventInlineElements, EventNewline},
		},
		{
			name: "blockquote",
			src:  "> one\n> > two\nplain\n",
			want: []EventKind{EventBlockquoteStart, EventBlockquoteLine, EventBlockquoteStart, EventBlockquoteLine, EventBlockquoteEnd, EventInlineElements, EventNewline},
		},
		{
			name: "think",
			src:  "<think>\nhm\n</think>\n",
			want: []EventKind{EventThinkBlockStart, EventThinkBlockLine, EventThinkBlockEnd},
		},
		{
			name: "rules",
			src:  "---\n* * *\n___\n",
			want: []EventKind{EventHorizontalRule, EventHorizontalRule, EventHorizontalRule},
		},
		{
			name: "paragraph ends before heading",
			src:  "text\n## H\n",
			want: []EventKind{EventInlineElements, EventNewline, EventHeading},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := parseEvents(t, tc.src)
			if diff := cmp.Diff(tc.want, rec.kinds()); diff != "" {
				t.Fatalf("unexpected events (-want +got):\n%s", diff)
			}
			if rec.finished != 1 {
				t.Fatalf("expected one finish, got %d", rec.finished)
			}
		})
	}
}

func TestParserEventFields(t *testing.T) {
	rec := parseEvents(t, "### Head ###\n```Python extra\n\tx = 1\n```\n- a\n  continued\n  - b\n3. three\n- [+] more\n| x \\| y | `a|b` |\n")
	want := []Event{
		{Kind: EventHeading, Level: 3, Inlines: []Inline{{Text: "Head"}}},
		{Kind: EventCodeBlockStart, Language: "Python"},
		{Kind: EventCodeBlockLine, Text: "\tx = 1"},
		{Kind: EventCodeBlockEnd},
		{Kind: EventListItem, Bullet: BulletDash, Inlines: []Inline{{Text: "a continued"}}},
		{Kind: EventListItem, Indent: 1, Bullet: BulletDash, Inlines: []Inline{{Text: "b"}}},
		{Kind: EventListItem, Bullet: BulletOrdered, Ordinal: 3, Inlines: []Inline{{Text: "three"}}},
		{Kind: EventListItem, Bullet: BulletPlusExpand, Inlines: []Inline{{Text: "more"}}},
		{Kind: EventTableHeader, Cells: []string{" x | y ", " `a|b` "}},
		{Kind: EventTableEnd},
	}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
}

func TestParserChunkingIsInvisible(t *testing.T) {
	src := "# T\r\n\nPara *one*\nline two  \nthree\n\n- a\n  - b\n\n> q\n\n```sh\necho hi\n```\n| h |\n|---|\n| c |\n<think>\nx\n</think>\nend"
	whole := parseEvents(t, src)

	rec := &recorder{}
	p := NewParser(rec)
	for i := 0; i < len(src); i++ {
		if _, err := p.WriteString(src[i : i+1]); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if diff := cmp.Diff(whole.events, rec.events); diff != "" {
		t.Fatalf("byte-at-a-time events differ (-whole +bytes):\n%s", diff)
	}
}

func TestParserClosed(t *testing.T) {
	rec := &recorder{}
	p := NewParser(rec)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := p.WriteString("x"); !errors.Is(err, ErrParserClosed) {
		t.Fatalf("expected ErrParserClosed, got %v", err)
	}
	if rec.finished != 1 {
		t.Fatalf("expected one finish, got %d", rec.finished)
	}
}

func TestParserPropagatesSinkErrors(t *testing.T) {
	errSink := errors.New("sink failed")
	calls := 0
	p := NewParser(SinkFunc(func(Event) error {
		calls++
		return errSink
	}))
	if _, err := p.WriteString("# a\n# b\n"); !errors.Is(err, errSink) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected parsing to stop at the first error, got %d calls", calls)
	}
}
