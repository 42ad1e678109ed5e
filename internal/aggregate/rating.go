package aggregate

import (
	"math"
	"sort"

	"github.com/KaramelBytes/surveydash/internal/survey"
)

// ScoreCount is how many respondents gave one integer score.
type ScoreCount struct {
	Score int
	Count int
}

// RatingResult summarises the numeric answers to a 1–5 rating question.
type RatingResult struct {
	Question string
	Scope    string

	// Count is the number of numerically coercible answers; 0 means nothing to report.
	Count   int
	Mean    float64
	Median  float64
	HighPct float64 // share of answers >= 4

	Distribution []ScoreCount
}

// Rating computes mean, median and the share of 4–5 answers over the numeric
// answers of question within the filter.
func Rating(t *survey.Table, question string, f Filter) (RatingResult, error) {
	col, err := lookupColumn(t, question)
	if err != nil {
		return RatingResult{}, err
	}
	r := RatingResult{Question: question, Scope: f.Scope()}
	vals := col.Numbers(f.Rows(t))
	r.Count = len(vals)
	if r.Count == 0 {
		return r, nil
	}
	sum, high := 0.0, 0
	dist := map[int]int{}
	for _, v := range vals {
		sum += v
		if v >= 4 {
			high++
		}
		dist[int(math.Trunc(v))]++
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	r.Mean = Round(sum/float64(r.Count), 2)
	r.Median = Round(quantile(sorted, 0.5), 2)
	r.HighPct = Percent(high, r.Count)
	for score, n := range dist {
		r.Distribution = append(r.Distribution, ScoreCount{Score: score, Count: n})
	}
	sort.Slice(r.Distribution, func(i, j int) bool { return r.Distribution[i].Score < r.Distribution[j].Score })
	return r, nil
}

// quantile linearly interpolates the q-th quantile of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
