package highlight

import (
	"strings"
	"testing"

	"pkt.systems/mdtty/internal/ansitext"
)

func TestPlainLeavesLineUntouched(t *testing.T) {
	if got := (Plain{}).Highlight("x := 1", "go"); got != "x := 1" {
		t.Fatalf("Plain.Highlight = %q", got)
	}
}

func TestChromaHighlightsKnownLanguage(t *testing.T) {
	h := New("monokai", nil)
	line := `func main() { fmt.Println("hi") }`
	got := h.Highlight(line, "go")
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected escape sequences in %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Fatalf("highlighted line contains newline: %q", got)
	}
	if plain := ansitext.Strip(got); plain != line {
		t.Fatalf("stripped output = %q, want %q", plain, line)
	}
}

func TestChromaFallsBackForUnknownLanguage(t *testing.T) {
	h := New("", nil)
	line := "just some words"
	for _, lang := range []string{"", "no-such-language-xyz"} {
		got := h.Highlight(line, lang)
		if plain := ansitext.Strip(got); plain != line {
			t.Fatalf("lang %q: stripped output = %q", lang, plain)
		}
	}
}

func TestChromaCachesLexers(t *testing.T) {
	h := New("dracula", nil)
	h.Highlight("a = 1", "Python")
	h.Highlight("b = 2", "python ")
	if len(h.lexers) != 1 {
		t.Fatalf("expected one cached lexer, got %d", len(h.lexers))
	}
}

func TestResolve(t *testing.T) {
	cases := map[string]string{
		"":         "plaintext",
		"python":   "Python",
		"go":       "Go",
		"rs":       "Rust",
		"main.go":  "Go",
		"mystery!": "plaintext",
	}
	for tag, want := range cases {
		if got := resolve(tag).Config().Name; got != want {
			t.Fatalf("resolve(%q) = %q, want %q", tag, got, want)
		}
	}
}
