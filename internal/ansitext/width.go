package ansitext

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// widthCond pins ambiguous-width runes to one column regardless of locale.
var widthCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// RuneWidth returns the number of terminal columns r occupies.
func RuneWidth(r rune) int {
	return widthCond.RuneWidth(r)
}

// VisibleWidth returns the on-screen column count of s. Escape sequences
// count as zero columns, wide runes as two.
func VisibleWidth(s string) int {
	w := 0
	for i := 0; i < len(s); {
		if s[i] == esc {
			i += escapeLen(s, i)
			continue
		}
		if s[i] < utf8.RuneSelf {
			if s[i] >= 0x20 && s[i] != 0x7f {
				w++
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w += widthCond.RuneWidth(r)
		i += size
	}
	return w
}

// Tokenize splits s into whitespace-delimited words. Escape sequences stay
// attached to the word they touch: a sequence directly after a word joins
// that word, a sequence before a word joins the following word. Whitespace
// inside an escape sequence is not a boundary.
func Tokenize(s string) []string {
	var (
		words   []string
		current []byte
		pending []byte
	)
	for i := 0; i < len(s); {
		if s[i] == esc {
			n := escapeLen(s, i)
			if len(current) > 0 {
				current = append(current, s[i:i+n]...)
			} else {
				pending = append(pending, s[i:i+n]...)
			}
			i += n
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) {
			if len(current) > 0 {
				words = append(words, string(current))
				current = current[:0]
			}
			i += size
			continue
		}
		if len(pending) > 0 {
			current = append(current, pending...)
			pending = pending[:0]
		}
		current = append(current, s[i:i+size]...)
		i += size
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	if len(pending) > 0 && len(words) > 0 {
		words[len(words)-1] += string(pending)
	}
	return words
}
