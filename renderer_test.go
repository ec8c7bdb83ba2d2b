package mdtty

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return nil
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestRenderInlineEmphasis(t *testing.T) {
	out := renderStream(t, []byte("**bold** and *italic*"), 80)
	if got, want := stripANSI(out), "bold and italic\n"; got != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, got)
	}
	styles := DefaultTheme().Styles()
	if !strings.Contains(out, styles.Strong.Prefix+"bold") {
		t.Fatalf("bold text not styled: %q", out)
	}
	if !strings.Contains(out, styles.Emphasis.Prefix+"italic") {
		t.Fatalf("italic text not styled: %q", out)
	}
}

func TestRenderInlineEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   string
	}{
		{
			name:   "styled words join",
			events: []Event{TextEvent("hello "), {Kind: EventBold, Text: "world"}, {Kind: EventNewline}},
			want:   "hello world\n",
		},
		{
			name:   "entities decoded",
			events: []Event{TextEvent("a &amp; b &lt;c&gt;"), {Kind: EventNewline}},
			want:   "a & b <c>\n",
		},
		{
			name:   "link without osc8",
			events: []Event{{Kind: EventLink, Text: "docs", URL: "https://x.io"}},
			want:   "docs (https://x.io)",
		},
		{
			name:   "image",
			events: []Event{{Kind: EventImage, Text: "a cat", URL: "cat.png"}},
			want:   "[🖼 a cat]",
		},
		{
			name:   "footnote",
			events: []Event{TextEvent("claim"), {Kind: EventFootnote, Text: "¹"}},
			want:   "claim¹",
		},
		{
			name:   "inline code",
			events: []Event{InlineEvent(Inline{Kind: InlineText, Text: "run "}, Inline{Kind: InlineCode, Text: "go  test"})},
			want:   "run go  test",
		},
		{
			name:   "empty line mid-line only ends the line",
			events: []Event{TextEvent("abc"), {Kind: EventEmptyLine}},
			want:   "abc\n",
		},
		{
			name:   "heading level clamped",
			events: []Event{HeadingEvent(9, "deep"), HeadingEvent(0, "top")},
			want:   "###### deep\n# top\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripANSI(renderEvents(t, 40, tc.events...)); got != tc.want {
				t.Fatalf("unexpected output\nwant: %q\n got: %q", tc.want, got)
			}
		})
	}
}

func TestRenderOSC8Link(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, 40, WithTheme(BoringTheme()), WithOSC8(true))
	if err := r.RenderEvent(Event{Kind: EventLink, Text: "docs", URL: "https://x.io"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "\x1b]8;;https://x.io\x1b\\docs\x1b]8;;\x1b\\ (https://x.io)"
	if out.String() != want {
		t.Fatalf("unexpected link\nwant: %q\n got: %q", want, out.String())
	}
}

func TestRenderLongURLFitsWidth(t *testing.T) {
	out := renderEvents(t, 20,
		Event{Kind: EventLink, Text: "x", URL: "https://example.com/a/very/long/path"},
		Event{Kind: EventNewline},
	)
	assertMaxWidth(t, out, 20)
	plain := stripANSI(out)
	if !strings.Contains(plain, "(example.com/") || !strings.Contains(plain, "…)") {
		t.Fatalf("expected shortened URL: %q", plain)
	}
}

func TestSoftWrap(t *testing.T) {
	events := []Event{TextEvent("alpha beta gamma delta"), {Kind: EventNewline}}
	if got, want := renderEvents(t, 11, events...), "alpha beta\ngamma delta\n"; got != want {
		t.Fatalf("unexpected wrap\nwant: %q\n got: %q", want, got)
	}

	var out bytes.Buffer
	r := NewRenderer(&out, 11, WithTheme(BoringTheme()), WithSoftWrap(false))
	for _, ev := range events {
		if err := r.RenderEvent(ev); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	if got, want := out.String(), "alpha beta gamma delta\n"; got != want {
		t.Fatalf("soft wrap disabled\nwant: %q\n got: %q", want, got)
	}
}

func TestSoftWrapAcrossEvents(t *testing.T) {
	got := renderEvents(t, 12,
		TextEvent("one two"),
		TextEvent(" "),
		InlineEvent(Inline{Kind: InlineItalic, Text: "three four"}),
		TextEvent(" five"),
		Event{Kind: EventNewline},
	)
	if want := "one two\nthree four\nfive\n"; got != want {
		t.Fatalf("unexpected wrap\nwant: %q\n got: %q", want, got)
	}
}

func TestBlockquoteMargin(t *testing.T) {
	got := outputLines(renderEvents(t, 20,
		Event{Kind: EventBlockquoteStart, Depth: 2},
		Event{Kind: EventBlockquoteLine, Depth: 2, Inlines: []Inline{{Text: "one two three four five six"}}},
		Event{Kind: EventBlockquoteLine, Depth: 2},
		Event{Kind: EventHorizontalRule},
		Event{Kind: EventBlockquoteEnd},
		Event{Kind: EventHorizontalRule},
	))
	want := []string{
		"│ │ one two",
		"│ │ three four",
		"│ │ five six",
		"│ │ ",
		"│ │ ──────────────",
		"────────────────────",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestSoftWrapInBlockquoteMatchesQuoteLines(t *testing.T) {
	inline := outputLines(renderEvents(t, 20,
		Event{Kind: EventBlockquoteStart, Depth: 1},
		TextEvent("abcde abcde abcde abcde abcde abcde abcde"),
		Event{Kind: EventBlockquoteEnd},
	))
	quoted := outputLines(renderEvents(t, 20,
		Event{Kind: EventBlockquoteStart, Depth: 1},
		Event{Kind: EventBlockquoteLine, Depth: 1, Inlines: []Inline{{Text: "abcde abcde abcde abcde"}}},
		Event{Kind: EventBlockquoteEnd},
	))
	want := []string{"abcde abcde abcde", "│ abcde abcde", "│ abcde abcde"}
	if diff := cmp.Diff(want, inline); diff != "" {
		t.Fatalf("unexpected inline lines (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(quoted, inline[1:]); diff != "" {
		t.Fatalf("wrapped inline lines differ from quote lines (-quote +inline):\n%s", diff)
	}
}

func TestParsedBlockquote(t *testing.T) {
	got := renderPlain(t, "> first *line*\n> > nested\n\nafter\n", 30)
	want := []string{"│ first line", "│ │ nested", "", "after"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestThinkBlock(t *testing.T) {
	got := outputLines(renderEvents(t, 12,
		Event{Kind: EventThinkBlockStart},
		Event{Kind: EventThinkBlockLine, Text: "alpha beta gamma"},
		Event{Kind: EventThinkBlockLine},
		Event{Kind: EventThinkBlockEnd},
		TextEvent("done"),
	))
	want := []string{"┌─ thinking ─", "│ alpha beta", "│ gamma", "│ ", "└", "done"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}

func TestParsedThinkBlock(t *testing.T) {
	out := renderStream(t, []byte("<think>\nhm, let me see\n</think>\nAnswer.\n"), 40)
	want := []string{"┌─ thinking ─", "│ hm, let me see", "└", "Answer."}
	if diff := cmp.Diff(want, outputLines(out)); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, DefaultTheme().Styles().Think.Prefix) {
		t.Fatalf("think body not styled: %q", out)
	}
}

func TestRenderAfterFinish(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, 40)
	if err := r.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("second finish: %v", err)
	}
	if err := r.RenderEvent(TextEvent("late")); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRenderWriteError(t *testing.T) {
	errDisk := errors.New("disk full")
	r := NewRenderer(failingWriter{err: errDisk}, 40)
	err := r.RenderEvent(HeadingEvent(1, "x"))
	if !errors.Is(err, errDisk) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "render Heading:") {
		t.Fatalf("unexpected error text %q", err)
	}
	if err := r.RenderEvent(Event{Kind: EventTableRow, Cells: []string{"a"}}); err != nil {
		t.Fatalf("buffered row should not write: %v", err)
	}
	if err := r.Finish(); !errors.Is(err, errDisk) {
		t.Fatalf("expected finish to report write error, got %v", err)
	}
}

func TestRendererFlushesEveryEvent(t *testing.T) {
	w := &flushRecorder{}
	r := NewRenderer(w, 40, WithTheme(BoringTheme()))
	events := []Event{HeadingEvent(1, "T"), TextEvent("a"), {Kind: EventNewline}, {Kind: EventTableRow, Cells: []string{"x"}}}
	for i, ev := range events {
		if err := r.RenderEvent(ev); err != nil {
			t.Fatalf("render: %v", err)
		}
		if w.flushes != i+1 {
			t.Fatalf("after event %d: %d flushes", i, w.flushes)
		}
	}
	if got := w.String(); got != "# T\na\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRendererToleratesMalformedSequences(t *testing.T) {
	got := renderEvents(t, 20,
		Event{Kind: EventKind(200)},
		Event{Kind: EventCodeBlockLine, Text: "stray"},
		Event{Kind: EventCodeBlockEnd},
		Event{Kind: EventListEnd},
		Event{Kind: EventBlockquoteEnd},
		Event{Kind: EventThinkBlockLine, Text: "loose"},
		Event{Kind: EventTableEnd},
		Event{Kind: EventTableSeparator},
	)
	want := "stray\n│ loose\n"
	if stripANSI(got) != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, stripANSI(got))
	}
	if s := EventKind(200).String(); s != "EventKind(200)" {
		t.Fatalf("unexpected kind name %q", s)
	}
}

func TestSetWidthAndTheme(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, 0, WithOSC8(false))
	if r.Width() != DefaultWidth {
		t.Fatalf("expected default width, got %d", r.Width())
	}
	r.SetWidth(5)
	if err := r.RenderEvent(Event{Kind: EventHorizontalRule}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := stripANSI(out.String()); got != "─────\n" {
		t.Fatalf("rule ignores new width: %q", got)
	}

	out.Reset()
	if err := r.RenderEvent(Event{Kind: EventBold, Text: "x"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[") {
		t.Fatalf("expected styled output: %q", out.String())
	}
	out.Reset()
	r.SetTheme(BoringTheme())
	if err := r.RenderEvent(Event{Kind: EventBold, Text: "y"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.String() != "y" {
		t.Fatalf("theme not swapped: %q", out.String())
	}
}

func TestRenderRespectsWidth(t *testing.T) {
	src := sampleDocument(3)
	for _, width := range []int{30, 50, 80} {
		out := renderStream(t, src, width)
		assertMaxWidth(t, out, width)
		plain := stripANSI(out)
		for _, want := range []string{"## Section 2", "markdown", "nested", "quoted", "return 1"} {
			if !strings.Contains(plain, want) {
				t.Fatalf("width %d: missing %q in %q", width, want, plain)
			}
		}
	}
}
