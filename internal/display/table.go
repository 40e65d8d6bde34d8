package display

import (
	"fmt"
	"io"
	"strings"
)

// Border selects how a Table is framed.
type Border int

const (
	BorderNone  Border = iota // columns only, two spaces apart
	BorderInner               // rules between columns and around the header
	BorderFull                // fully boxed
)

// ParseBorder accepts 0, 1 or 2.
func ParseBorder(n int) (Border, error) {
	if n < int(BorderNone) || n > int(BorderFull) {
		return 0, fmt.Errorf("border style must be 0, 1 or 2 (got: %d)", n)
	}
	return Border(n), nil
}

type rules struct {
	vertical, horizontal, junction string
	left, right                    string
	leftJunction, rightJunction    string
}

func (b Border) rules() rules {
	r := rules{vertical: "  "}
	if b >= BorderInner {
		r.vertical, r.horizontal, r.junction = " | ", "-", "-+-"
	}
	if b >= BorderFull {
		r.left, r.right = "| ", " |"
		r.leftJunction, r.rightJunction = "+-", "-+"
	}
	return r
}

// Table renders left-aligned text tables.
type Table struct {
	headers []string
	rows    [][]string // raw values (no color) for width calculation
	colored [][]string // colored values for rendering
	widths  []int

	Border Border
	// Color bolds the header and dims the rules.
	Color  bool
}

// NewTable creates a fully boxed table with the given headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{headers: headers, widths: widths, Border: BorderFull}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	t.AddColoredRow(cols, cols)
}

// AddColoredRow adds a row with separate raw (for widths) and colored (for display) values.
func (t *Table) AddColoredRow(raw []string, colored []string) {
	for i, c := range raw {
		if i < len(t.widths) && len(c) > t.widths[i] {
			t.widths[i] = len(c)
		}
	}
	t.rows = append(t.rows, raw)
	t.colored = append(t.colored, colored)
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) {
	if len(t.headers) == 0 {
		return
	}
	r := t.Border.rules()
	ruled := r.horizontal != ""

	if ruled {
		t.line(w, r)
	}
	hdr := make([]string, len(t.headers))
	for i, h := range t.headers {
		hdr[i] = h
		if t.Color {
			hdr[i] = Bold(h)
		}
	}
	t.row(w, r, t.headers, hdr)
	if ruled {
		t.line(w, r)
	}
	for i := range t.rows {
		t.row(w, r, t.rows[i], t.colored[i])
	}
	if ruled {
		t.line(w, r)
	}
}

func (t *Table) paint(s string) string {
	if t.Color && s != "" {
		return Dim(s)
	}
	return s
}

func (t *Table) line(w io.Writer, r rules) {
	var b strings.Builder
	b.WriteString(r.leftJunction)
	for i, width := range t.widths {
		b.WriteString(strings.Repeat(r.horizontal, width))
		if i < len(t.widths)-1 {
			b.WriteString(r.junction)
		}
	}
	b.WriteString(r.rightJunction)
	fmt.Fprintln(w, t.paint(b.String()))
}

func (t *Table) row(w io.Writer, r rules, rawCols, colorCols []string) {
	var b strings.Builder
	b.WriteString(t.paint(r.left))
	for i, width := range t.widths {
		raw, col := "", ""
		if i < len(rawCols) {
			raw = rawCols[i]
		}
		if i < len(colorCols) {
			col = colorCols[i]
		}
		b.WriteString(col)
		// Pad based on raw (visible) length
		if pad := width - len(raw); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		if i < len(t.widths)-1 {
			b.WriteString(t.paint(r.vertical))
		}
	}
	b.WriteString(t.paint(r.right))
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}
