package dashboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/surveydash/internal/aggregate"
	"github.com/KaramelBytes/surveydash/internal/chart"
	"github.com/KaramelBytes/surveydash/internal/metric"
	"github.com/KaramelBytes/surveydash/internal/report"
	"github.com/KaramelBytes/surveydash/internal/schema"
)

var numbers = message.NewPrinter(language.English)

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func count(n int) string { return numbers.Sprintf("%d", n) }

// emptyState turns a missing-columns error into a notice section.
func emptyState(title string, err error) (report.Section, error) {
	var nc *schema.NoColumnsError
	if !errors.As(err, &nc) {
		return report.Section{}, err
	}
	switch nc.Kind {
	case schema.YesNo:
		return report.Section{Title: title, Notice: "No yes/no questions detected."}, nil
	case schema.Rating:
		return report.Section{Title: title, Notice: "No rating (1-5) questions detected."}, nil
	case schema.CollaborationOption:
		return report.Section{Title: title, Notice: "No collaboration multi-select columns detected (columns normally include the option in brackets)."}, nil
	}
	return report.Section{Title: title, Notice: err.Error()}, nil
}

// YesNo summarises one yes/no question for a country selection.
func (s *Session) YesNo(ref, country string) (report.Section, error) {
	q, err := s.Pick(schema.YesNo, ref)
	if err != nil {
		return emptyState(kindTitles[schema.YesNo], err)
	}
	return s.yesNoSection(q, country)
}

func (s *Session) yesNoSection(q, country string) (report.Section, error) {
	f, err := s.Filter(country)
	if err != nil {
		return report.Section{}, err
	}
	r, err := aggregate.YesNo(s.Table, q, f)
	if err != nil {
		return report.Section{}, err
	}
	sec := report.Section{
		Title: q,
		Meta:  []report.Field{{Name: "Country", Value: r.Scope}, {Name: "Type", Value: schema.YesNo.String()}},
	}
	if r.Total == 0 {
		sec.Notice = fmt.Sprintf("No answers to this question for %s.", r.Scope)
		return sec, nil
	}
	sec.KPIs = []report.Field{
		{Name: "Responses", Value: strconv.Itoa(r.Total)},
		{Name: "Yes (%)", Value: pct(r.YesPct)},
		{Name: "No (%)", Value: pct(r.NoPct)},
	}
	if r.Other > 0 {
		sec.KPIs = append(sec.KPIs, report.Field{Name: "Other (%)", Value: pct(r.OtherPct)})
	}
	spec := &chart.Spec{Kind: chart.Bar, Title: q + " - " + r.Scope, YLabel: "Respondents", PerCategoryColor: true}
	values := []float64{}
	bd := &report.Table{Header: []string{"Response", "Count", "Percent"}}
	for _, row := range []struct {
		name string
		n    int
		p    float64
	}{{"Yes", r.Yes, r.YesPct}, {"No", r.No, r.NoPct}, {"Other", r.Other, r.OtherPct}} {
		if row.n == 0 {
			continue
		}
		spec.Categories = append(spec.Categories, row.name)
		values = append(values, float64(row.n))
		bd.Rows = append(bd.Rows, []string{row.name, strconv.Itoa(row.n), pct(row.p)})
	}
	spec.Series = []chart.Series{{Name: "Responses", Values: values}}
	sec.Breakdown = bd
	sec.Chart = spec
	sec.Caption = spec.Title
	sec.Body = fmt.Sprintf("%d responses examined. %d answered Yes (%s), %d answered No (%s).",
		r.Total, r.Yes, pct(r.YesPct), r.No, pct(r.NoPct))
	sec.Recommendation = aggregate.RecommendYesNo(r)
	return sec, nil
}

// Rating summarises one 1-5 rating question for a country selection.
func (s *Session) Rating(ref, country string) (report.Section, error) {
	q, err := s.Pick(schema.Rating, ref)
	if err != nil {
		return emptyState(kindTitles[schema.Rating], err)
	}
	return s.ratingSection(q, country)
}

func (s *Session) ratingSection(q, country string) (report.Section, error) {
	f, err := s.Filter(country)
	if err != nil {
		return report.Section{}, err
	}
	r, err := aggregate.Rating(s.Table, q, f)
	if err != nil {
		return report.Section{}, err
	}
	sec := report.Section{
		Title: q,
		Meta:  []report.Field{{Name: "Country", Value: r.Scope}, {Name: "Type", Value: schema.Rating.String()}},
	}
	if r.Count == 0 {
		sec.Notice = "No numeric ratings available for this question/country."
		return sec, nil
	}
	sec.KPIs = []report.Field{
		{Name: "Valid responses", Value: strconv.Itoa(r.Count)},
		{Name: "Average", Value: strconv.FormatFloat(r.Mean, 'f', 2, 64)},
		{Name: "Median", Value: strconv.FormatFloat(r.Median, 'f', 2, 64)},
		{Name: "4-5 (%)", Value: pct(r.HighPct)},
	}
	spec := &chart.Spec{Kind: chart.Bar, Title: q + " - " + r.Scope, XLabel: "Score", YLabel: "Respondents", PerCategoryColor: true}
	values := make([]float64, 0, len(r.Distribution))
	bd := &report.Table{Header: []string{"Score", "Count", "Percent"}}
	for _, d := range r.Distribution {
		spec.Categories = append(spec.Categories, strconv.Itoa(d.Score))
		values = append(values, float64(d.Count))
		bd.Rows = append(bd.Rows, []string{strconv.Itoa(d.Score), strconv.Itoa(d.Count), pct(aggregate.Percent(d.Count, r.Count))})
	}
	spec.Series = []chart.Series{{Name: "Ratings", Values: values}}
	sec.Breakdown = bd
	sec.Chart = spec
	sec.Caption = spec.Title
	sec.Body = fmt.Sprintf("%d valid ratings. Average: %.2f; median: %.2f. %s rated 4 or 5.",
		r.Count, r.Mean, r.Median, pct(r.HighPct))
	sec.Recommendation = aggregate.RecommendRating(r)
	return sec, nil
}

// Collaboration summarises one collaboration option across every country.
// A reference that matches no known option is searched for as free text.
func (s *Session) Collaboration(ref string) (report.Section, error) {
	if strings.TrimSpace(ref) == "" {
		return report.Section{}, errors.New("a collaboration option is required")
	}
	label, err := s.Pick(schema.CollaborationOption, ref)
	if err != nil {
		if _, nerr := strconv.Atoi(strings.TrimSpace(ref)); !errors.Is(err, ErrUnknownQuestion) || nerr == nil {
			return emptyState(kindTitles[schema.CollaborationOption], err)
		}
		label = strings.TrimSpace(ref)
	}
	return s.collaborationSection(label), nil
}

func (s *Session) collaborationSection(label string) report.Section {
	r := aggregate.Collaboration(s.Table, s.Schema.Collaboration, label, s.CountryColumn)
	sec := report.Section{
		Title:  "Collaboration: " + r.Label,
		Meta:   []report.Field{{Name: "Country", Value: aggregate.AllCountries}, {Name: "Type", Value: schema.CollaborationOption.String()}},
		Notice: "Collaboration analysis is shown network-wide (country filter disabled).",
	}
	if r.Fallback {
		sec.Notice += " No option column matches this label, so answers were searched for the text."
	}
	if r.ZeroAdoption {
		sec.Notice = fmt.Sprintf("No respondents selected '%s'.", r.Label)
		return sec
	}
	sec.KPIs = []report.Field{
		{Name: "Respondents", Value: strconv.Itoa(r.Total)},
		{Name: "Countries", Value: strconv.Itoa(len(r.ByCountry))},
		{Name: "Top country", Value: fmt.Sprintf("%s (%d)", r.Top, r.TopCount)},
	}
	spec := &chart.Spec{Kind: chart.Bar, Title: fmt.Sprintf("Respondents selecting %q - All countries", r.Label), YLabel: "Respondents", PerCategoryColor: true}
	values := make([]float64, 0, len(r.ByCountry))
	bd := &report.Table{Header: []string{"Country", "Count"}}
	for _, c := range r.ByCountry {
		spec.Categories = append(spec.Categories, c.Country)
		values = append(values, float64(c.Count))
		bd.Rows = append(bd.Rows, []string{c.Country, strconv.Itoa(c.Count)})
	}
	spec.Series = []chart.Series{{Name: "Respondents", Values: values}}
	sec.Breakdown = bd
	sec.Chart = spec
	sec.Caption = spec.Title
	sec.Body = fmt.Sprintf("%d respondents reported %s. Top country: %s (%d).", r.Total, r.Label, r.Top, r.TopCount)
	sec.Recommendation = aggregate.RecommendCollaboration(r)
	return sec
}

// Graduates summarises a graduate metric for one year: a summary with its
// gender split, a by-country breakdown when any graduates were counted, and a
// network-wide trend across every detected year when trend is set.
func (s *Session) Graduates(metricName, year, country string, trend bool) ([]report.Section, error) {
	m, year, err := s.Metric(metricName, year)
	if err != nil {
		return nil, err
	}
	f, err := s.Filter(country)
	if err != nil {
		return nil, err
	}
	sec := report.Section{
		Title: fmt.Sprintf("%s (%s)", m.Title(), year),
		Meta:  []report.Field{{Name: "Country", Value: f.Scope()}, {Name: "Year", Value: year}},
	}
	pair, err := metric.Resolve(s.Table.Columns(), m, year)
	if err != nil {
		if !errors.Is(err, metric.ErrMetricNotFound) {
			return nil, err
		}
		sec.Notice = fmt.Sprintf("Could not find male/female columns for '%s' in %s. Check column names.", m.Title(), year)
		out := []report.Section{sec}
		if trend {
			out = append(out, s.trend(m))
		}
		return out, nil
	}
	r, err := aggregate.Graduates(s.Table, pair, f)
	if err != nil {
		return nil, err
	}
	sec.Meta = append(sec.Meta, report.Field{Name: "Columns", Value: pair.Male + " / " + pair.Female})
	sec.KPIs = []report.Field{
		{Name: "Total graduates", Value: count(r.Total)},
		{Name: "Male (%)", Value: pct(r.MalePct)},
		{Name: "Female (%)", Value: pct(r.FemalePct)},
	}
	if r.Total > 0 {
		sec.Chart = &chart.Spec{
			Kind:             chart.Bar,
			Title:            fmt.Sprintf("%s (%s) - gender split", m.Title(), year),
			YLabel:           "Graduates",
			Categories:       []string{"Male", "Female"},
			Series:           []chart.Series{{Name: "Graduates", Values: []float64{float64(r.Male), float64(r.Female)}}},
			PerCategoryColor: true,
		}
		sec.Caption = sec.Chart.Title
	}
	sec.Body = fmt.Sprintf("For %s in %s, total %s graduates (%s male; %s female).",
		m.Title(), year, count(r.Total), count(r.Male), count(r.Female))
	if r.Top != "" {
		sec.Body += fmt.Sprintf(" Top country: %s (%s).", r.Top, count(r.TopTotal))
	}
	out := []report.Section{sec}
	if r.Total > 0 {
		out = append(out, byCountry(m, year, f, r))
	}
	if trend {
		out = append(out, s.trend(m))
	}
	return out, nil
}

// byCountry breaks a graduate result down by country and gender.
func byCountry(m metric.Metric, year string, f aggregate.Filter, r aggregate.GraduateResult) report.Section {
	sec := report.Section{
		Title: fmt.Sprintf("%s (%s) by country", m.Title(), year),
		Meta:  []report.Field{{Name: "Country", Value: f.Scope()}, {Name: "Year", Value: year}},
	}
	bd := &report.Table{Header: []string{"Country", "Male", "Female", "Total"}}
	spec := &chart.Spec{Kind: chart.GroupedBar, Title: fmt.Sprintf("%s (%s) - by gender and country", m.Title(), year), YLabel: "Graduates"}
	male := make([]float64, 0, len(r.ByCountry))
	female := make([]float64, 0, len(r.ByCountry))
	for _, g := range r.ByCountry {
		spec.Categories = append(spec.Categories, g.Country)
		male = append(male, float64(g.Male))
		female = append(female, float64(g.Female))
		bd.Rows = append(bd.Rows, []string{g.Country, count(g.Male), count(g.Female), count(g.Total())})
	}
	spec.Series = []chart.Series{{Name: "Male", Values: male}, {Name: "Female", Values: female}}
	sec.Breakdown = bd
	sec.Chart = spec
	sec.Caption = spec.Title
	return sec
}

// trend charts the metric's network-wide total for every detected year.
func (s *Session) trend(m metric.Metric) report.Section {
	sec := report.Section{
		Title: fmt.Sprintf("Trend: %s (Total) across years", m.Title()),
		Meta:  []report.Field{{Name: "Scope", Value: "Network-wide"}},
	}
	points := aggregate.Trend(s.Table, m, s.Years)
	if len(points) == 0 {
		sec.Notice = fmt.Sprintf("No year has male/female columns for '%s'.", m.Title())
		return sec
	}
	spec := &chart.Spec{Kind: chart.Line, Title: sec.Title, XLabel: "Year", YLabel: "Graduates"}
	totals := make([]float64, 0, len(points))
	bd := &report.Table{Header: []string{"Year", "Male", "Female", "Total"}}
	for _, p := range points {
		spec.Categories = append(spec.Categories, p.Year)
		totals = append(totals, float64(p.Total))
		bd.Rows = append(bd.Rows, []string{p.Year, count(p.Male), count(p.Female), count(p.Total)})
	}
	spec.Series = []chart.Series{{Name: "Total", Values: totals}}
	sec.Breakdown = bd
	sec.Chart = spec
	sec.Caption = spec.Title
	first, last := points[0], points[len(points)-1]
	sec.Body = fmt.Sprintf("%d years with data, from %s (%s) to %s (%s).",
		len(points), first.Year, count(first.Total), last.Year, count(last.Total))
	return sec
}
