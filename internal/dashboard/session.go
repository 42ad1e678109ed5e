// Package dashboard turns a loaded survey into report sections: it owns the
// classified schema and the country list, resolves user selections and wraps
// each aggregate with its KPIs, chart and recommendation.
package dashboard

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/KaramelBytes/surveydash/internal/aggregate"
	"github.com/KaramelBytes/surveydash/internal/metric"
	"github.com/KaramelBytes/surveydash/internal/schema"
	"github.com/KaramelBytes/surveydash/internal/survey"
)

// ErrUnknownCountry is returned by Filter for a country absent from the data.
var ErrUnknownCountry = errors.New("unknown country")

// ErrUnknownQuestion is returned by Pick when a reference matches no question.
var ErrUnknownQuestion = errors.New("unknown question")

// Session is one loaded survey and everything derived from it.
type Session struct {
	Table         *survey.Table
	CountryColumn string
	Schema        *schema.Schema
	// Years are the reporting years found in the headers, newest first.
	Years []string

	countries []string
}

// Open loads path through the memoizing loader and classifies it.
func Open(l *survey.Loader, path, sheet string, opt schema.Options) (*Session, error) {
	t, err := l.Load(path, sheet)
	if err != nil {
		return nil, err
	}
	return New(t, opt)
}

// New classifies an already loaded table. A table without a country column
// cannot be filtered or grouped and is rejected as a load failure.
func New(t *survey.Table, opt schema.Options) (*Session, error) {
	cc, err := t.CountryColumn()
	if err != nil {
		return nil, &survey.LoadError{Path: t.Source, Sheet: t.Sheet, Err: err}
	}
	s := &Session{
		Table:         t,
		CountryColumn: cc,
		Schema:        schema.Classify(t, opt),
		Years:         metric.DetectYears(t.Columns()),
		countries:     t.Countries(cc),
	}
	for _, w := range s.Schema.Warnings {
		slog.Debug("schema warning", "detail", w)
	}
	return s, nil
}

// Countries returns "All" followed by the sorted distinct countries.
func (s *Session) Countries() []string {
	return append([]string{aggregate.AllCountries}, s.countries...)
}

// Filter resolves a country selection, ignoring case. Empty means all countries.
func (s *Session) Filter(country string) (aggregate.Filter, error) {
	f := aggregate.Filter{CountryColumn: s.CountryColumn, Country: aggregate.AllCountries}
	c := strings.TrimSpace(country)
	if c == "" || strings.EqualFold(c, aggregate.AllCountries) {
		return f, nil
	}
	for _, name := range s.countries {
		if strings.EqualFold(name, c) {
			f.Country = name
			return f, nil
		}
	}
	return f, fmt.Errorf("%w %q (known: %s)", ErrUnknownCountry, country, strings.Join(s.countries, ", "))
}

// Pick resolves a question reference of kind k: an exact name, a
// case-insensitive name, a 1-based number from the schema listing, or a unique
// case-insensitive fragment, in that order. Names win over numbers because
// packed collaboration options can themselves be numeric. An empty question
// list is a *schema.NoColumnsError.
func (s *Session) Pick(k schema.Kind, ref string) (string, error) {
	qs, err := s.Schema.Questions(k)
	if err != nil {
		return "", err
	}
	ref = strings.TrimSpace(ref)
	for _, q := range qs {
		if q == ref {
			return q, nil
		}
	}
	for _, q := range qs {
		if strings.EqualFold(q, ref) {
			return q, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(qs) {
			return "", fmt.Errorf("%w: %s question #%d (have %d)", ErrUnknownQuestion, k, n, len(qs))
		}
		return qs[n-1], nil
	}
	var partial []string
	for _, q := range qs {
		if ref != "" && strings.Contains(strings.ToLower(q), strings.ToLower(ref)) {
			partial = append(partial, q)
		}
	}
	if len(partial) == 1 {
		return partial[0], nil
	}
	if len(partial) > 1 {
		return "", fmt.Errorf("%w: %q matches %d %s questions", ErrUnknownQuestion, ref, len(partial), k)
	}
	return "", fmt.Errorf("%w: no %s question matches %q", ErrUnknownQuestion, k, ref)
}

// Metric parses a metric name and defaults year to the newest detected one.
func (s *Session) Metric(name, year string) (metric.Metric, string, error) {
	m, err := metric.Parse(name)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(year) == "" && len(s.Years) > 0 {
		year = s.Years[0]
	}
	return m, strings.TrimSpace(year), nil
}
