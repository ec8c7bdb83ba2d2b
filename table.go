package mdtty

import (
	"strings"

	"pkt.systems/mdtty/internal/ansitext"
)

// minColumnWidth is the narrowest a column is shrunk to when a table does
// not fit. Tables may overflow rather than go below it.
const minColumnWidth = 5

type tableBorder struct {
	left, mid, right string
}

var (
	borderTop    = tableBorder{"┌", "┬", "┐"}
	borderMiddle = tableBorder{"├", "┼", "┤"}
	borderBottom = tableBorder{"└", "┴", "┘"}
)

// renderTable lays out buffered rows as a box-drawn table no wider than
// maxWidth where possible. Cells are decorated with decorate before being
// measured. Ragged rows render missing cells empty. With more than one row,
// the first is the header. No rows or no columns yields nil.
func renderTable(rows [][]string, margin string, st Styler, maxWidth int, decorate func(string) string) []string {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if len(rows) == 0 || cols == 0 {
		return nil
	}

	cells := make([][]string, len(rows))
	widths := make([]int, cols)
	for i, row := range rows {
		cells[i] = make([]string, cols)
		for j, cell := range row {
			cells[i][j] = decorate(strings.TrimSpace(cell))
			widths[j] = max(widths[j], ansitext.VisibleWidth(cells[i][j]))
		}
	}
	widths = fitColumns(widths, ansitext.VisibleWidth(margin), maxWidth)

	hasHeader := len(rows) > 1
	bar := st.TableBorder("│")
	out := make([]string, 0, len(rows)+3)
	out = append(out, margin+borderLine(widths, borderTop, st))
	for i, row := range cells {
		header := hasHeader && i == 0
		out = append(out, tableRowLines(row, widths, margin, bar, header, st)...)
		if header {
			out = append(out, margin+borderLine(widths, borderMiddle, st))
		}
	}
	out = append(out, margin+borderLine(widths, borderBottom, st))
	return out
}

// fitColumns shrinks widths proportionally when the table overflows
// maxWidth. Every shrunk column keeps at least minColumnWidth.
func fitColumns(widths []int, marginWidth, maxWidth int) []int {
	overhead := marginWidth + 1 + 3*len(widths)
	total := 0
	for _, w := range widths {
		total += w
	}
	if overhead+total <= maxWidth || maxWidth <= overhead || total == 0 {
		return widths
	}
	avail := maxWidth - overhead
	out := make([]int, len(widths))
	for i, w := range widths {
		out[i] = max(w*avail/total, minColumnWidth)
	}
	return out
}

func borderLine(widths []int, b tableBorder, st Styler) string {
	var sb strings.Builder
	sb.WriteString(b.left)
	for i, w := range widths {
		if i > 0 {
			sb.WriteString(b.mid)
		}
		sb.WriteString(strings.Repeat("─", w+2))
	}
	sb.WriteString(b.right)
	return st.TableBorder(sb.String())
}

// tableRowLines wraps every cell of a row to its column width and emits as
// many lines as the tallest cell needs.
func tableRowLines(row []string, widths []int, margin, bar string, header bool, st Styler) []string {
	chunks := make([][]string, len(widths))
	height := 1
	for i, w := range widths {
		c := ansitext.SplitChars(row[i], w)
		if len(c) == 0 {
			c = []string{""}
		}
		chunks[i] = c
		height = max(height, len(c))
	}

	lines := make([]string, 0, height)
	for l := 0; l < height; l++ {
		var sb strings.Builder
		sb.WriteString(margin)
		sb.WriteString(bar)
		for i, w := range widths {
			text := ""
			if l < len(chunks[i]) {
				text = chunks[i][l]
			}
			pad := max(w-ansitext.VisibleWidth(text), 0)
			if header && text != "" {
				text = st.TableHeader(text)
			}
			sb.WriteByte(' ')
			sb.WriteString(text)
			sb.WriteString(strings.Repeat(" ", pad+1))
			sb.WriteString(bar)
		}
		lines = append(lines, sb.String())
	}
	return lines
}
