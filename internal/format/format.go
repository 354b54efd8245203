// Package format implements §4.10's "failing-statement image" sibling:
// rendering a committed Value back to the display text a REPL prints
// after an uncommitted statement (§4.6 "the reducer does not print a
// committed result automatically"). It is deliberately small — just
// enough to validate the worked scenarios of §8 — not a full APL
// display-format engine (nested boxing, column alignment across a
// matrix's rows by field width, etc. are out of scope; see DESIGN.md).
//
// Grounded on the teacher's internal/interp value-printing helpers:
// one function per Cell kind, composed bottom-up, the same shape this
// package uses for cell.Kind.
package format

import (
	"strconv"
	"strings"

	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/value"
)

// Value renders v at the given print precision (⎕PP), following the
// ordinary display rules: a char vector prints as raw characters, a
// numeric vector/scalar prints space-separated, and rank>1 prints one
// row per line (the row's own ravel segment formatted like a vector).
func Value(v *value.Value, pp int) string {
	if v == nil {
		return ""
	}
	if v.Rank() <= 1 {
		return formatRow(v.Ravel(), pp)
	}
	rows := v.Shape()[0]
	rowLen := v.Shape().Volume() / rows
	ravel := v.Ravel()
	lines := make([]string, rows)
	for r := 0; r < rows; r++ {
		lines[r] = formatRow(ravel[r*rowLen:(r+1)*rowLen], pp)
	}
	return strings.Join(lines, "\n")
}

func formatRow(cells []cell.Cell, pp int) string {
	if allChar(cells) {
		var sb strings.Builder
		for _, c := range cells {
			sb.WriteRune(c.CharValue())
		}
		return sb.String()
	}
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = Cell(c, pp)
	}
	return strings.Join(parts, " ")
}

func allChar(cells []cell.Cell) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c.Kind() != cell.Char {
			return false
		}
	}
	return true
}

// Cell renders a single ravel element. Negative numbers use APL's
// high-minus ¯ rather than '-', matching §4.3's lexing of numeric
// literals (display is the inverse of that read).
func Cell(c cell.Cell, pp int) string {
	switch c.Kind() {
	case cell.Char:
		return string(c.CharValue())
	case cell.Int:
		return formatInt(c.IntValue())
	case cell.Float:
		return formatFloat(c.FloatValue(), pp)
	case cell.Complex:
		v := c.ComplexValue()
		return formatFloat(real(v), pp) + "J" + formatFloat(imag(v), pp)
	case cell.Pointer:
		if inner, ok := c.Inner().(*value.Value); ok {
			return Value(inner, pp)
		}
		return ""
	case cell.LeftValue:
		return ""
	default:
		return ""
	}
}

func formatInt(n int64) string {
	if n < 0 {
		return "¯" + strconv.FormatInt(-n, 10)
	}
	return strconv.FormatInt(n, 10)
}

func formatFloat(f float64, pp int) string {
	if pp < 1 {
		pp = 10
	}
	s := strconv.FormatFloat(f, 'g', pp, 64)
	s = strings.Replace(s, "-", "¯", 1)
	return s
}
