package survey

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber coerces a cell to a finite float. Anything else is reported as not numeric.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Numbers returns the numeric values of a column at the given rows, dropping
// missing and non-numeric cells. A nil rows slice selects every row.
func (c *Column) Numbers(rows []int) []float64 {
	var out []float64
	visit(len(c.Cells), rows, func(i int) {
		cell := c.Cells[i]
		if !cell.Valid {
			return
		}
		if f, ok := ParseNumber(cell.Text); ok {
			out = append(out, f)
		}
	})
	return out
}

// NumberAt returns the numeric value of row i, or 0 when the cell is missing or non-numeric.
func (c *Column) NumberAt(i int) float64 {
	if i < 0 || i >= len(c.Cells) || !c.Cells[i].Valid {
		return 0
	}
	f, _ := ParseNumber(c.Cells[i].Text)
	return f
}
