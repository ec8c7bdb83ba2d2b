package ansitext

import (
	"strings"

	"github.com/rivo/uniseg"
)

// BreakPolicy selects where Slice may end a line.
type BreakPolicy int

const (
	// BreakWords breaks only between whitespace-delimited words. Runs of
	// whitespace collapse to a single space.
	BreakWords BreakPolicy = iota
	// BreakChars breaks between any two grapheme clusters and keeps
	// whitespace as written.
	BreakChars
)

type unit struct {
	text    string
	width   int
	visible bool
}

func wordUnits(s string) []unit {
	words := Tokenize(s)
	units := make([]unit, 0, len(words))
	for _, w := range words {
		units = append(units, unit{text: w, width: VisibleWidth(w), visible: true})
	}
	return units
}

func charUnits(s string) []unit {
	var units []unit
	state := -1
	for len(s) > 0 {
		if s[0] == esc {
			n := escapeLen(s, 0)
			units = append(units, unit{text: s[:n]})
			s = s[n:]
			continue
		}
		end := strings.IndexByte(s, esc)
		if end < 0 {
			end = len(s)
		}
		run := s[:end]
		for len(run) > 0 {
			var cluster string
			cluster, run, _, state = uniseg.FirstGraphemeClusterInString(run, state)
			units = append(units, unit{text: cluster, width: VisibleWidth(cluster), visible: true})
		}
		s = s[end:]
		state = -1
	}
	return units
}

// Slice breaks s into lines under policy. budget reports the visible width
// available to the line with the given zero-based index. Each line re-opens
// the style active at its start and closes whatever is still open at its
// end. A unit wider than its line's budget is placed alone on that line.
// Input without visible content yields nil.
func Slice(s string, policy BreakPolicy, budget func(line int) int) []string {
	var units []unit
	sep := 0
	switch policy {
	case BreakChars:
		units = charUnits(s)
	default:
		units = wordUnits(s)
		sep = 1
	}

	var (
		lines   []string
		st      styleState
		line    strings.Builder
		lineW   int
		content bool
		avail   = budget(0)
		seen    bool
	)
	for _, u := range units {
		if !u.visible {
			line.WriteString(u.text)
			st.scan(u.text)
			continue
		}
		seen = true
		gap := 0
		if content {
			gap = sep
		}
		if content && lineW+gap+u.width > avail {
			line.WriteString(st.close())
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(st.open())
			lineW, content, gap = 0, false, 0
			avail = budget(len(lines))
		}
		if gap > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(u.text)
		st.scan(u.text)
		lineW += gap + u.width
		content = true
	}
	if !seen {
		return nil
	}
	line.WriteString(st.close())
	return append(lines, line.String())
}

// Wrap reflows text into lines no wider than width columns, prefix
// included. The first line carries first, every later line carries next.
// A single word wider than its line's budget stays whole on its own line.
func Wrap(text string, width int, first, next string) []string {
	if width <= 0 {
		return nil
	}
	firstAvail := max(width-VisibleWidth(first), 0)
	nextAvail := max(width-VisibleWidth(next), 0)
	lines := Slice(text, BreakWords, func(i int) int {
		if i == 0 {
			return firstAvail
		}
		return nextAvail
	})
	for i := range lines {
		if i == 0 {
			lines[i] = first + lines[i]
		} else {
			lines[i] = next + lines[i]
		}
	}
	return lines
}

// SplitChars breaks s at grapheme boundaries into chunks of at most width
// visible columns. Escape sequences are never split.
func SplitChars(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	return Slice(s, BreakChars, func(int) int { return width })
}
