package stats

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Align controls how a table column is padded.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table is a simple aligned text table with a header row.
type Table struct {
	Aligns []Align
	Header []string
	Rows   [][]string
}

// Render writes the table to w, one row per line, with a separator
// after the header.
func (t Table) Render(w io.Writer) {
	if len(t.Rows) == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}

	widths := make([]int, len(t.Header))
	measure := func(row []string) {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}

	writeRow := func(row []string) {
		fmt.Fprint(w, "|")
		for i, cell := range row {
			fmt.Fprintf(w, " %s |", t.pad(cell, widths[i], i))
		}
		fmt.Fprintln(w)
	}

	writeRow(t.Header)

	fmt.Fprint(w, "|")
	for _, width := range widths {
		fmt.Fprintf(w, " %s |", strings.Repeat("-", width))
	}
	fmt.Fprintln(w)

	for _, row := range t.Rows {
		writeRow(row)
	}
}

func (t Table) pad(cell string, width, column int) string {
	fill := width - utf8.RuneCountInString(cell)
	if fill <= 0 {
		return cell
	}
	if column < len(t.Aligns) && t.Aligns[column] == AlignRight {
		return strings.Repeat(" ", fill) + cell
	}
	return cell + strings.Repeat(" ", fill)
}
