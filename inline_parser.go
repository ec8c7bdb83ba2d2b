package mdtty

import (
	"strings"
)

var superscriptDigits = [...]string{"⁰", "¹", "²", "³", "⁴", "⁵", "⁶", "⁷", "⁸", "⁹"}

// parseInlines splits one line of markdown into inline spans. Entities are
// left encoded; the renderer decodes them. Delimiters without a partner
// stay literal.
func parseInlines(s string) []Inline {
	var (
		spans []Inline
		text  strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			spans = append(spans, Inline{Kind: InlineText, Text: text.String()})
			text.Reset()
		}
	}
	emit := func(sp Inline) {
		flush()
		spans = append(spans, sp)
	}

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]):
			text.WriteByte(s[i+1])
			i += 2
			continue

		case c == '`':
			n := runLength(s, i, '`')
			if end := strings.Index(s[i+n:], strings.Repeat("`", n)); end >= 0 {
				emit(Inline{Kind: InlineCode, Text: trimCodeSpan(s[i+n : i+n+end])})
				i += n + end + n
				continue
			}
			text.WriteString(s[i : i+n])
			i += n
			continue

		case c == '*' || c == '_':
			n := runLength(s, i, c)
			if sp, next, ok := parseEmphasis(s, i, c, n); ok {
				emit(sp)
				i = next
				continue
			}
			text.WriteString(s[i : i+n])
			i += n
			continue

		case c == '~' && strings.HasPrefix(s[i:], "~~"):
			if end := strings.Index(s[i+2:], "~~"); end > 0 {
				emit(Inline{Kind: InlineStrikeout, Text: s[i+2 : i+2+end]})
				i += end + 4
				continue
			}

		case c == '!' && strings.HasPrefix(s[i:], "!["):
			if label, url, next, ok := parseLink(s, i+1); ok {
				emit(Inline{Kind: InlineImage, Text: label, URL: url})
				i = next
				continue
			}

		case c == '[' && strings.HasPrefix(s[i:], "[^"):
			if end := strings.IndexByte(s[i:], ']'); end > 2 {
				emit(Inline{Kind: InlineFootnote, Text: superscript(s[i+2 : i+end])})
				i += end + 1
				continue
			}

		case c == '[':
			if label, url, next, ok := parseLink(s, i); ok {
				emit(Inline{Kind: InlineLink, Text: label, URL: url})
				i = next
				continue
			}

		case c == '<':
			if end := strings.IndexByte(s[i:], '>'); end > 1 {
				inner := s[i+1 : i+end]
				switch {
				case isSchemeAutolink(inner):
					emit(Inline{Kind: InlineLink, Text: inner, URL: inner})
					i += end + 1
					continue
				case isEmailAutolink(inner):
					emit(Inline{Kind: InlineLink, Text: inner, URL: "mailto:" + inner})
					i += end + 1
					continue
				}
			}
		}
		text.WriteByte(c)
		i++
	}
	flush()
	return spans
}

func runLength(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

// parseEmphasis matches a delimiter run of n (1 to 3) c characters at s[i]
// with a closing run of the same length.
func parseEmphasis(s string, i int, c byte, n int) (Inline, int, bool) {
	if n > 3 {
		return Inline{}, 0, false
	}
	start := i + n
	if start >= len(s) || s[start] == ' ' {
		return Inline{}, 0, false
	}
	if c == '_' && i > 0 && isWordByte(s[i-1]) {
		return Inline{}, 0, false
	}
	for j := start; j < len(s); {
		if s[j] != c {
			j++
			continue
		}
		m := runLength(s, j, c)
		if m == n && s[j-1] != ' ' && j > start {
			if c == '_' && j+m < len(s) && isWordByte(s[j+m]) {
				j += m
				continue
			}
			content := s[start:j]
			var kind InlineKind
			switch {
			case n == 3:
				kind = InlineBoldItalic
			case n == 2 && c == '_':
				kind = InlineUnderline
			case n == 2:
				kind = InlineBold
			default:
				kind = InlineItalic
			}
			return Inline{Kind: kind, Text: content}, j + m, true
		}
		j += m
	}
	return Inline{}, 0, false
}

// parseLink parses "[label](url)" starting at the '[' at s[i]. An optional
// quoted title after the URL is dropped.
func parseLink(s string, i int) (label, url string, next int, ok bool) {
	depth := 0
	closeIdx := -1
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				closeIdx = j
			}
		}
		if closeIdx >= 0 {
			break
		}
	}
	if closeIdx < 0 || closeIdx+1 >= len(s) || s[closeIdx+1] != '(' {
		return "", "", 0, false
	}
	end := strings.IndexByte(s[closeIdx+2:], ')')
	if end < 0 {
		return "", "", 0, false
	}
	target := strings.TrimSpace(s[closeIdx+2 : closeIdx+2+end])
	if sp := strings.IndexAny(target, " \t"); sp >= 0 {
		target = target[:sp]
	}
	target = strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">")
	return s[i+1 : closeIdx], target, closeIdx + 2 + end + 1, true
}

func trimCodeSpan(s string) string {
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.TrimSpace(s) != "" {
		return s[1 : len(s)-1]
	}
	return s
}

func superscript(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteString(superscriptDigits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIIPunct(b byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", b) >= 0
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func isEmailAutolink(text string) bool {
	if text == "" || strings.ContainsAny(text, " \t\r\n") {
		return false
	}
	if strings.Contains(text, "://") || strings.Contains(text, ":") {
		return false
	}
	at := strings.IndexByte(text, '@')
	if at <= 0 || at == len(text)-1 {
		return false
	}
	return strings.Count(text, "@") == 1
}

func isSchemeAutolink(text string) bool {
	if text == "" || strings.ContainsAny(text, " \t\r\n") {
		return false
	}
	colon := strings.IndexByte(text, ':')
	if colon <= 0 {
		return false
	}
	return isScheme(text[:colon])
}

func isScheme(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				return false
			}
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '+' || r == '-' || r == '.' {
			continue
		}
		return false
	}
	return len(s) > 0
}
