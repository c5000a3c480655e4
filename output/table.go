package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align controls the padding side of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table lays out rows in aligned columns. Widths are measured in terminal cells, so
// descriptions with wide characters still line up.
type Table struct {
	headers []string
	align   []Align
	rows    [][]string
	// styled holds the rendered (possibly escape-coded) cell; rows keeps the plain text
	// used for width measurement.
	styled [][]string
}

// NewTable creates a table with the given column headers, all left aligned.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, align: make([]Align, len(headers))}
}

// Align sets the alignment of column i.
func (t *Table) Align(i int, a Align) *Table {
	if i >= 0 && i < len(t.align) {
		t.align[i] = a
	}
	return t
}

// AddRow appends a row of plain cells.
func (t *Table) AddRow(cells ...string) {
	t.AddStyledRow(cells, cells)
}

// AddStyledRow appends a row whose display form differs from its plain text, such as
// cells wrapped in terminal colours.
func (t *Table) AddStyledRow(plain, styled []string) {
	t.rows = append(t.rows, plain)
	t.styled = append(t.styled, styled)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w with two spaces between columns.
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if cw := runewidth.StringWidth(row[i]); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	if err := t.writeLine(w, t.headers, t.headers, widths); err != nil {
		return err
	}
	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	if err := t.writeLine(w, rule, rule, widths); err != nil {
		return err
	}
	for i := range t.rows {
		if err := t.writeLine(w, t.rows[i], t.styled[i], widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) writeLine(w io.Writer, plain, styled []string, widths []int) error {
	var b strings.Builder
	for i, width := range widths {
		var p, s string
		if i < len(plain) {
			p, s = plain[i], styled[i]
		}
		pad := strings.Repeat(" ", width-runewidth.StringWidth(p))
		if t.align[i] == AlignRight {
			b.WriteString(pad + s)
		} else if i < len(widths)-1 {
			b.WriteString(s + pad)
		} else {
			b.WriteString(s)
		}
		if i < len(widths)-1 {
			b.WriteString("  ")
		}
	}
	_, err := fmt.Fprintln(w, b.String())
	return err
}
