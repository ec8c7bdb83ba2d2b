// Package ansitext measures and reflows strings that carry embedded ANSI
// escape sequences.
//
// Escape sequences are zero-width: they never count toward visible width,
// never split a word, and are never cut in half when a string is broken into
// lines. Lines produced by Slice re-open the style that was active where the
// line starts and close it where the line ends, so every line can be written
// behind an independently styled prefix.
package ansitext

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const (
	esc = '\x1b'

	// Reset clears every SGR attribute.
	Reset = "\x1b[0m"

	osc8Prefix = "\x1b]8;"
	osc8Close  = "\x1b]8;;\x1b\\"
)

// escapeLen returns the byte length of the escape sequence that starts at
// s[i], which must be ESC. An unterminated sequence runs to the end of s and
// a lone ESC is one byte.
func escapeLen(s string, i int) int {
	_, _, n, _ := xansi.DecodeSequence(s[i:], xansi.NormalState, nil)
	if n < 1 {
		return 1
	}
	return n
}

// Strip removes every escape sequence from s.
func Strip(s string) string {
	if strings.IndexByte(s, esc) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == esc {
			i += escapeLen(s, i)
			continue
		}
		j := strings.IndexByte(s[i:], esc)
		if j < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+j])
		i += j
	}
	return b.String()
}

// styleState is the SGR attribute run and OSC 8 hyperlink in effect at some
// point of a styled string.
type styleState struct {
	sgr  string
	link string
}

func (st *styleState) consume(seq string) {
	switch {
	case isSGR(seq):
		params := seq[2 : len(seq)-1]
		switch {
		case params == "" || params == "0":
			st.sgr = ""
		case strings.HasPrefix(params, "0;"):
			st.sgr = seq
		default:
			st.sgr += seq
		}
	case strings.HasPrefix(seq, osc8Prefix):
		if hyperlinkURI(seq) == "" {
			st.link = ""
		} else {
			st.link = seq
		}
	}
}

// scan consumes every escape sequence in s.
func (st *styleState) scan(s string) {
	for i := 0; i < len(s); {
		if s[i] != esc {
			i++
			continue
		}
		n := escapeLen(s, i)
		st.consume(s[i : i+n])
		i += n
	}
}

func (st styleState) open() string {
	return st.sgr + st.link
}

func (st styleState) close() string {
	out := ""
	if st.link != "" {
		out += osc8Close
	}
	if st.sgr != "" {
		out += Reset
	}
	return out
}

func isSGR(seq string) bool {
	return len(seq) >= 3 && seq[1] == '[' && seq[len(seq)-1] == 'm'
}

func hyperlinkURI(seq string) string {
	body := strings.TrimPrefix(seq, osc8Prefix)
	switch {
	case strings.HasSuffix(body, "\x1b\\"):
		body = body[:len(body)-2]
	case strings.HasSuffix(body, "\x07"):
		body = body[:len(body)-1]
	}
	if i := strings.IndexByte(body, ';'); i >= 0 {
		return body[i+1:]
	}
	return ""
}
