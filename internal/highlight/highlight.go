// Package highlight colors single source lines for terminal output.
package highlight

import (
	"io"
	"path"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
	"github.com/sirupsen/logrus"
)

// DefaultStyle is used when no style name is given.
const DefaultStyle = "monokai"

// Plain returns lines unchanged.
type Plain struct{}

// Highlight implements the highlighter contract without adding color.
func (Plain) Highlight(line, _ string) string { return line }

// Chroma highlights lines with a chroma lexer chosen by language tag and a
// terminal256 formatter. Lexers are resolved once per tag and cached.
type Chroma struct {
	style     *chroma.Style
	formatter chroma.Formatter
	log       logrus.FieldLogger

	mu     sync.RWMutex
	lexers map[string]chroma.Lexer
}

// New returns a Chroma highlighter using the named chroma style. Unknown
// style names fall back to chroma's default style. A nil log discards
// diagnostics.
func New(styleName string, log logrus.FieldLogger) *Chroma {
	if styleName == "" {
		styleName = DefaultStyle
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return &Chroma{
		style:     styles.Get(styleName),
		formatter: formatter,
		log:       log,
		lexers:    make(map[string]chroma.Lexer),
	}
}

// Highlight returns line colored for language. An empty language or one no
// lexer recognizes is highlighted as plain text; any highlighting error
// yields the line unchanged.
func (h *Chroma) Highlight(line, language string) string {
	if line == "" {
		return line
	}
	lexer := h.lexer(language)
	it, err := lexer.Tokenise(nil, line)
	if err != nil {
		h.log.WithError(err).WithField("language", language).Debug("tokenise failed")
		return line
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		h.log.WithError(err).WithField("language", language).Debug("format failed")
		return line
	}
	return strings.ReplaceAll(b.String(), "\n", "")
}

func (h *Chroma) lexer(language string) chroma.Lexer {
	key := strings.ToLower(strings.TrimSpace(language))
	h.mu.RLock()
	lexer, ok := h.lexers[key]
	h.mu.RUnlock()
	if ok {
		return lexer
	}
	lexer = chroma.Coalesce(resolve(key))
	h.mu.Lock()
	h.lexers[key] = lexer
	h.mu.Unlock()
	h.log.WithFields(logrus.Fields{"language": key, "lexer": lexer.Config().Name}).Debug("lexer resolved")
	return lexer
}

// resolve maps a fence info tag to a lexer. Tags are tried as chroma names
// and aliases first, then through enry's linguist aliases and extensions.
func resolve(tag string) chroma.Lexer {
	if tag == "" {
		return plaintext()
	}
	if l := lexers.Get(tag); l != nil {
		return l
	}
	if lang, ok := enry.GetLanguageByAlias(tag); ok {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	file := "file." + tag
	if strings.Contains(tag, ".") {
		file = path.Base(tag)
	}
	if lang, ok := enry.GetLanguageByExtension(file); ok {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if l := lexers.Match(file); l != nil {
		return l
	}
	return plaintext()
}

func plaintext() chroma.Lexer {
	if l := lexers.Get("plaintext"); l != nil {
		return l
	}
	return lexers.Fallback
}
