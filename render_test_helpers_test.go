package mdtty

import (
	"bytes"
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func renderStream(t *testing.T, src []byte, width int) string {
	t.Helper()
	return renderStreamWithOptions(t, src, width, WithOSC8(false))
}

func renderStreamWithOptions(t *testing.T, src []byte, width int, opts ...RenderOption) string {
	t.Helper()
	var buf bytes.Buffer
	err := Render(RenderRequest{
		Reader:  bytes.NewReader(src),
		Writer:  &buf,
		Width:   width,
		Options: opts,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

// renderPlain renders src without any styling and returns its lines.
func renderPlain(t *testing.T, src string, width int) []string {
	t.Helper()
	return outputLines(renderStreamWithOptions(t, []byte(src), width, WithOSC8(false), WithTheme(BoringTheme())))
}

// renderEvents feeds events straight into an unstyled renderer.
func renderEvents(t *testing.T, width int, events ...Event) string {
	t.Helper()
	var buf bytes.Buffer
	r := NewRenderer(&buf, width, WithOSC8(false), WithTheme(BoringTheme()))
	for _, ev := range events {
		if err := r.RenderEvent(ev); err != nil {
			t.Fatalf("render %s: %v", ev.Kind, err)
		}
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	return buf.String()
}

func stripANSI(s string) string {
	return xansi.Strip(s)
}

// outputLines strips styling and splits output into lines without the
// final newline.
func outputLines(s string) []string {
	s = strings.TrimSuffix(stripANSI(s), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func assertMaxWidth(t *testing.T, out string, width int) {
	t.Helper()
	for i, line := range strings.Split(out, "\n") {
		if w := xansi.StringWidth(line); w > width {
			t.Fatalf("line %d is %d columns, limit %d: %q", i+1, w, width, stripANSI(line))
		}
	}
}

type recorder struct {
	events   []Event
	finished int
}

func (r *recorder) RenderEvent(ev Event) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Finish() error {
	r.finished++
	return nil
}

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func parseEvents(t *testing.T, src string) *recorder {
	t.Helper()
	rec := &recorder{}
	p := NewParser(rec)
	if _, err := p.WriteString(src); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return rec
}
