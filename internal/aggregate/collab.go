package aggregate

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/surveydash/internal/schema"
	"github.com/KaramelBytes/surveydash/internal/survey"
)

// CountryCount is a per-country tally.
type CountryCount struct {
	Country string
	Count   int
}

// CollabResult counts the respondents who selected one collaboration option.
// Collaboration is always reported network-wide.
type CollabResult struct {
	Label string
	// Fallback is true when the label had no selector and rows were matched by free-text search.
	Fallback bool

	ByCountry []CountryCount // count desc, then country
	Total     int
	Top       string
	TopCount  int
	// ZeroAdoption means nobody selected the option. It is reported, not treated as an error.
	ZeroAdoption bool
}

// Collaboration counts, per country, the rows whose selector matches label.
// Rows without a country are not counted.
func Collaboration(t *survey.Table, m *schema.CollabMap, label, countryColumn string) CollabResult {
	r := CollabResult{Label: label}
	if _, ok := m.Lookup(label); !ok {
		r.Fallback = true
	}
	country, _ := t.Column(countryColumn)
	counts := map[string]int{}
	for i := 0; i < t.Len(); i++ {
		if country == nil || !country.Cells[i].Valid {
			continue
		}
		name := strings.TrimSpace(country.Cells[i].Text)
		if name == "" || !m.Selects(t, label, i) {
			continue
		}
		counts[name]++
		r.Total++
	}
	r.ByCountry = sortedCounts(counts)
	if len(r.ByCountry) == 0 {
		r.ZeroAdoption = true
		return r
	}
	r.Top, r.TopCount = r.ByCountry[0].Country, r.ByCountry[0].Count
	return r
}

func sortedCounts(counts map[string]int) []CountryCount {
	out := make([]CountryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CountryCount{Country: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Country < out[j].Country
	})
	return out
}
