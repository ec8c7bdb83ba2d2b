package mdtty

import (
	"strings"

	"pkt.systems/mdtty/internal/ansitext"
)

const (
	tabWidth = 4
	// codeReserve is held back from the chunk width for the continuation
	// indent of wrapped code lines.
	codeReserve  = 4
	minCodeChunk = 4
)

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// wrapCode splits a raw code line into chunks at character boundaries. The
// first chunk keeps the leading indentation; later chunks start at the
// content. Trailing blank chunks are dropped. It returns the indent width
// alongside the chunks.
func wrapCode(line string, width int) (int, []string) {
	if line == "" {
		return 0, []string{""}
	}
	content := strings.TrimLeft(line, " ")
	indent := len(line) - len(content)
	if content == "" {
		return indent, []string{line}
	}
	avail := width - indent
	if avail <= 0 {
		return indent, []string{line}
	}
	chunk := avail - codeReserve
	if chunk < minCodeChunk {
		chunk = min(avail, minCodeChunk)
	}
	if ansitext.VisibleWidth(content) <= chunk {
		return indent, []string{line}
	}
	parts := ansitext.SplitChars(content, chunk)
	parts[0] = line[:indent] + parts[0]
	for len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	return indent, parts
}

// renderCodeLine wraps and highlights one line of a code block. Each chunk
// is highlighted on its own; continuation chunks get an extra indent derived
// from the original one.
func renderCodeLine(line, language, margin string, width int, hl Highlighter) []string {
	indent, chunks := wrapCode(expandTabs(line), width)
	cont := strings.Repeat("  ", min(indent, 4)/2+1)
	out := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		lead := ""
		if i > 0 {
			lead = cont
		}
		out = append(out, margin+lead+hl.Highlight(chunk, language)+ansitext.Reset)
	}
	return out
}
