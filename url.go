package mdtty

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// fitURL shortens a link target shown after its label so it fits limit
// columns. The scheme goes first, then the tail is cut with an ellipsis.
func fitURL(url string, limit int) string {
	if ansi.PrintableRuneWidth(url) <= limit {
		return url
	}
	if _, rest, ok := strings.Cut(url, "://"); ok {
		url = rest
		if ansi.PrintableRuneWidth(url) <= limit {
			return url
		}
	}
	if limit <= 1 {
		return truncate.String(url, uint(max(limit, 0)))
	}
	return truncate.StringWithTail(url, uint(limit), "…")
}
