// Package metric locates the paired male/female graduate-count columns for an
// outcome measure in a reporting year.
package metric

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Metric is a graduate outcome measure reported per year and gender.
type Metric string

const (
	Placed       Metric = "placed"
	Employed     Metric = "employed"
	SelfEmployed Metric = "self-employed"
)

var titles = map[Metric]string{
	Placed:       "Number of graduates placed by the JSO",
	Employed:     "Number of graduates employed",
	SelfEmployed: "Number of graduates self-employed",
}

var keywords = map[Metric][]string{
	Placed:       {"placed by the jso", "placed by jso", "placed by the jso in"},
	Employed:     {"graduates employed", "number of graduates employed", "employed in the following years"},
	SelfEmployed: {"self-employed", "self employed", "were self-employed"},
}

// All lists the supported metrics in display order.
func All() []Metric { return []Metric{Placed, Employed, SelfEmployed} }

// Title is the human-readable name of the metric.
func (m Metric) Title() string {
	if t, ok := titles[m]; ok {
		return t
	}
	return string(m)
}

// Keywords returns the header phrases associated with the metric.
func (m Metric) Keywords() []string { return keywords[m] }

// Parse accepts a metric id ("placed") or its full title, ignoring case.
func Parse(s string) (Metric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range All() {
		if s == string(m) || s == strings.ToLower(m.Title()) {
			return m, nil
		}
	}
	if s == "self employed" || s == "selfemployed" {
		return SelfEmployed, nil
	}
	return "", fmt.Errorf("unknown metric %q (use placed, employed or self-employed)", s)
}

// ErrMetricNotFound matches every *NotFoundError via errors.Is.
var ErrMetricNotFound = errors.New("metric columns not found")

// NotFoundError reports that no male/female column pair exists for a metric and year.
type NotFoundError struct {
	Metric Metric
	Year   string
	// Missing names the gender(s) that could not be resolved.
	Missing []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s columns found for %q in %s", strings.Join(e.Missing, "/"), e.Metric.Title(), e.Year)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrMetricNotFound }

// Pair is the resolved male and female count columns for a metric and year.
type Pair struct {
	Metric Metric
	Year   string
	Male   string
	Female string
}

// Resolve finds the male and female columns for m in year. Headers carrying
// the year, the gender and one of the metric's keywords win; a gender still
// unresolved falls back to the first header with just the year and gender.
// The first match in header order is always taken.
func Resolve(headers []string, m Metric, year string) (Pair, error) {
	if strings.TrimSpace(year) == "" {
		return Pair{}, &NotFoundError{Metric: m, Year: year, Missing: []string{"male", "female"}}
	}
	p := Pair{Metric: m, Year: year}
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(h)
	}
	kw := m.Keywords()
	find := func(gender func(string) bool, needKeyword bool) string {
		for i, h := range lower {
			if !strings.Contains(h, year) || !gender(h) {
				continue
			}
			if needKeyword && !containsAny(h, kw) {
				continue
			}
			return headers[i]
		}
		return ""
	}
	p.Male = find(hasMale, true)
	p.Female = find(hasFemale, true)
	if p.Male == "" {
		p.Male = find(hasMale, false)
	}
	if p.Female == "" {
		p.Female = find(hasFemale, false)
	}

	var missing []string
	if p.Male == "" {
		missing = append(missing, "male")
	}
	if p.Female == "" {
		missing = append(missing, "female")
	}
	if len(missing) > 0 {
		return Pair{}, &NotFoundError{Metric: m, Year: year, Missing: missing}
	}
	return p, nil
}

func hasFemale(h string) bool { return strings.Contains(h, "female") }

// hasMale matches "male" only where it is not the tail of "female".
func hasMale(h string) bool {
	for off := 0; ; {
		i := strings.Index(h[off:], "male")
		if i < 0 {
			return false
		}
		i += off
		if i < 2 || h[i-2:i] != "fe" {
			return true
		}
		off = i + len("male")
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// DefaultYears is used when no header carries a reporting year.
var DefaultYears = []string{"2024", "2023", "2022", "2021"}

// DetectYears returns the distinct years mentioned in headers, newest first.
func DetectYears(headers []string) []string {
	set := map[string]struct{}{}
	for _, h := range headers {
		for _, y := range yearPattern.FindAllString(h, -1) {
			set[y] = struct{}{}
		}
	}
	if len(set) == 0 {
		return append([]string(nil), DefaultYears...)
	}
	out := make([]string, 0, len(set))
	for y := range set {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
