package aggregate

import (
	"github.com/KaramelBytes/surveydash/internal/schema"
	"github.com/KaramelBytes/surveydash/internal/survey"
)

// YesNoResult counts affirmative, negative and other answers to one question.
type YesNoResult struct {
	Question string
	Scope    string

	Yes, No, Other, Total int
	// Percentages are over the non-missing answers, not the row count.
	YesPct, NoPct, OtherPct float64
}

// YesNo tallies the non-missing answers of question within the filter.
func YesNo(t *survey.Table, question string, f Filter) (YesNoResult, error) {
	col, err := lookupColumn(t, question)
	if err != nil {
		return YesNoResult{}, err
	}
	r := YesNoResult{Question: question, Scope: f.Scope()}
	for _, v := range col.Values(f.Rows(t)) {
		switch {
		case schema.IsYes(v):
			r.Yes++
		case schema.IsNo(v):
			r.No++
		default:
			r.Other++
		}
		r.Total++
	}
	r.YesPct = Percent(r.Yes, r.Total)
	r.NoPct = Percent(r.No, r.Total)
	r.OtherPct = Percent(r.Other, r.Total)
	return r, nil
}
