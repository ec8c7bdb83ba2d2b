package mdtty

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pkt.systems/mdtty/internal/ansitext"
	"pkt.systems/mdtty/internal/highlight"
)

func TestWrapCode(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		width      int
		wantIndent int
		want       []string
	}{
		{name: "empty", line: "", width: 10, want: []string{""}},
		{name: "blank", line: "   ", width: 10, wantIndent: 3, want: []string{"   "}},
		{name: "fits", line: "  x = 1", width: 20, wantIndent: 2, want: []string{"  x = 1"}},
		{name: "reserve", line: "abcdefghijkl", width: 10, want: []string{"abcdef", "ghijkl"}},
		{name: "narrow", line: "    print(1)", width: 8, wantIndent: 4, want: []string{"    prin", "t(1)"}},
		{name: "drops blank tail", line: "abcdef      ", width: 10, want: []string{"abcdef"}},
		{name: "no room", line: "      deep", width: 4, wantIndent: 6, want: []string{"      deep"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			indent, got := wrapCode(tc.line, tc.width)
			if indent != tc.wantIndent {
				t.Fatalf("indent = %d, want %d", indent, tc.wantIndent)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected chunks (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderCodeLine(t *testing.T) {
	got := renderCodeLine("    print(1)", "python", "", 8, highlight.Plain{})
	want := []string{"    prin" + ansitext.Reset, "      t(1)" + ansitext.Reset}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}

	got = renderCodeLine("\tx", "", "│ ", 40, highlight.Plain{})
	if diff := cmp.Diff([]string{"│     x" + ansitext.Reset}, got); diff != "" {
		t.Fatalf("tabs not expanded (-want +got):\n%s", diff)
	}
}

func TestCodeContinuationIndent(t *testing.T) {
	for indent, want := range map[int]int{0: 2, 2: 4, 3: 4, 4: 6, 8: 6} {
		line := strings.Repeat(" ", indent) + strings.Repeat("x", 30)
		lines := renderCodeLine(line, "", "", indent+10, highlight.Plain{})
		if len(lines) < 2 {
			t.Fatalf("indent %d: expected wrapped line, got %q", indent, lines)
		}
		cont := strings.TrimSuffix(lines[1], ansitext.Reset)
		if got := len(cont) - len(strings.TrimLeft(cont, " ")); got != want {
			t.Fatalf("indent %d: continuation indent %d, want %d", indent, got, want)
		}
	}
}

func TestRendererCodeBlock(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, 40, WithTheme(DefaultTheme()))
	events := []Event{
		TextEvent("intro"),
		{Kind: EventCodeBlockStart, Language: "go"},
		{Kind: EventCodeBlockLine, Text: "x := 1"},
		{Kind: EventCodeBlockLine, Text: ""},
		{Kind: EventCodeBlockLine, Text: "\treturn x"},
		{Kind: EventCodeBlockEnd},
	}
	for _, ev := range events {
		if err := r.RenderEvent(ev); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	want := []string{"intro", "x := 1", "", "    return x"}
	if diff := cmp.Diff(want, outputLines(out.String())); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")[1:] {
		if !strings.HasSuffix(line, ansitext.Reset) {
			t.Fatalf("code line does not end with a reset: %q", line)
		}
	}
	if !strings.Contains(out.String(), "\x1b[38;") {
		t.Fatalf("expected highlighted code: %q", out.String())
	}
}

func TestCodeBlockAfterBlockquote(t *testing.T) {
	got := renderPlain(t, "> quoted\n\n```\ncode\n```\n", 20)
	want := []string{"│ quoted", "", "code"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected lines (-want +got):\n%s", diff)
	}
}
