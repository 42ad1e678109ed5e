package aggregate

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/KaramelBytes/surveydash/internal/metric"
	"github.com/KaramelBytes/surveydash/internal/survey"
)

// GenderCount holds male and female totals for one country.
type GenderCount struct {
	Country string
	Male    int
	Female  int
}

// Total is Male + Female.
func (g GenderCount) Total() int { return g.Male + g.Female }

// GraduateResult sums a metric's male and female columns per country.
type GraduateResult struct {
	Pair  metric.Pair
	Scope string

	ByCountry []GenderCount // alphabetical
	Male      int
	Female    int
	Total     int
	MalePct   float64
	FemalePct float64
	Top       string
	TopTotal  int
}

// Graduates sums pair's columns per country within the filter. Missing and
// non-numeric cells count as zero; rows without a country are not counted.
func Graduates(t *survey.Table, pair metric.Pair, f Filter) (GraduateResult, error) {
	male, err := lookupColumn(t, pair.Male)
	if err != nil {
		return GraduateResult{}, err
	}
	female, err := lookupColumn(t, pair.Female)
	if err != nil {
		return GraduateResult{}, err
	}
	country, err := lookupColumn(t, f.CountryColumn)
	if err != nil {
		return GraduateResult{}, err
	}
	r := GraduateResult{Pair: pair, Scope: f.Scope()}
	by := map[string]*GenderCount{}
	each(t.Len(), f.Rows(t), func(i int) {
		if !country.Cells[i].Valid {
			return
		}
		name := strings.TrimSpace(country.Cells[i].Text)
		if name == "" {
			return
		}
		g, ok := by[name]
		if !ok {
			g = &GenderCount{Country: name}
			by[name] = g
		}
		g.Male += int(male.NumberAt(i))
		g.Female += int(female.NumberAt(i))
	})
	for _, g := range by {
		r.ByCountry = append(r.ByCountry, *g)
		r.Male += g.Male
		r.Female += g.Female
	}
	sort.Slice(r.ByCountry, func(i, j int) bool { return r.ByCountry[i].Country < r.ByCountry[j].Country })
	r.Total = r.Male + r.Female
	r.MalePct = Percent(r.Male, r.Total)
	r.FemalePct = Percent(r.Female, r.Total)
	for _, g := range r.ByCountry {
		if r.Top == "" || g.Total() > r.TopTotal {
			r.Top, r.TopTotal = g.Country, g.Total()
		}
	}
	return r, nil
}

// TrendPoint is one year of a metric's totals.
type TrendPoint struct {
	Year   string
	Male   int
	Female int
	Total  int
}

// Trend resolves m for every year and sums its columns over every row. The
// trend is network-wide: no country filter applies and rows without a country
// still count. Years whose columns cannot be resolved are skipped. Points are
// ordered by year.
func Trend(t *survey.Table, m metric.Metric, years []string) []TrendPoint {
	var out []TrendPoint
	for _, y := range years {
		pair, err := metric.Resolve(t.Columns(), m, y)
		if err != nil {
			if errors.Is(err, metric.ErrMetricNotFound) {
				slog.Debug("trend year skipped", "metric", m, "year", y)
			}
			continue
		}
		male, err := lookupColumn(t, pair.Male)
		if err != nil {
			continue
		}
		female, err := lookupColumn(t, pair.Female)
		if err != nil {
			continue
		}
		p := TrendPoint{Year: y}
		for i := 0; i < t.Len(); i++ {
			p.Male += int(male.NumberAt(i))
			p.Female += int(female.NumberAt(i))
		}
		p.Total = p.Male + p.Female
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func each(n int, rows []int, fn func(int)) {
	if rows == nil {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	for _, i := range rows {
		fn(i)
	}
}
