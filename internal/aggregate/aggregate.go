// Package aggregate computes grouped counts and percentages over a survey table.
package aggregate

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/surveydash/internal/survey"
)

// AllCountries selects every respondent.
const AllCountries = "All"

// Filter restricts aggregation to the respondents of one country.
type Filter struct {
	CountryColumn string
	Country       string
}

// All reports whether the filter keeps every row.
func (f Filter) All() bool {
	c := strings.TrimSpace(f.Country)
	return c == "" || strings.EqualFold(c, AllCountries) || f.CountryColumn == ""
}

// Scope is the display name of the selected population.
func (f Filter) Scope() string {
	if f.All() {
		return AllCountries
	}
	return strings.TrimSpace(f.Country)
}

// Rows returns the selected row indices, or nil for every row.
func (f Filter) Rows(t *survey.Table) []int {
	if f.All() {
		return nil
	}
	return t.RowsWhere(f.CountryColumn, f.Country)
}

// Percent returns part/total as a percentage rounded to one decimal, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, 1)
}

// Round rounds x half away from zero to the given number of decimals.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// lookupColumn returns the named column or an error naming it.
func lookupColumn(t *survey.Table, name string) (*survey.Column, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	return col, nil
}
