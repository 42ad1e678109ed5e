package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/surveydash/internal/metric"
	"github.com/KaramelBytes/surveydash/internal/schema"
	"github.com/KaramelBytes/surveydash/internal/survey"
)

func fixture() *survey.Table {
	return survey.NewTable(
		[]string{"Country", "Trained?", "Rate support", "How do you collaborate?",
			"2023 male placed by the JSO", "2023 female placed by the JSO", "2022 male placed by jso", "2022 female placed by jso"},
		[][]string{
			{"Kenya", "Yes", "5", "Mentoring; Exchange visits", "3", "2", "1", "1"},
			{"Kenya", "No", "4", "Exchange visits", "", "4", "1", "0"},
			{"Ghana", "yes", "2", "Mentoring", "5", "n/a", "2", "2"},
			{"Ghana", "", "x", "", "1", "1", "0", "0"},
			{"", "maybe", "3", "Mentoring", "7", "7", "9", "9"},
		},
		survey.DefaultOptions(),
	)
}

var all = Filter{CountryColumn: "Country", Country: AllCountries}

func TestYesNoPercentagesOverNonMissing(t *testing.T) {
	r, err := YesNo(fixture(), "Trained?", Filter{CountryColumn: "Country", Country: "Kenya"})
	require.NoError(t, err)
	assert.Equal(t, YesNoResult{Question: "Trained?", Scope: "Kenya", Yes: 1, No: 1, Total: 2, YesPct: 50, NoPct: 50}, r)

	r, err = YesNo(fixture(), "Trained?", all)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Total, "missing answers are not counted")
	assert.Equal(t, 2, r.Yes)
	assert.Equal(t, 1, r.Other)
	assert.Equal(t, 50.0, r.YesPct)
	assert.Equal(t, 25.0, r.OtherPct)
}

func TestYesNoThreeRows(t *testing.T) {
	tbl := survey.NewTable([]string{"Country", "Q"}, [][]string{{"A", "Yes"}, {"A", "yes"}, {"A", "No"}}, survey.DefaultOptions())
	r, err := YesNo(tbl, "Q", Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Yes)
	assert.Equal(t, 1, r.No)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 66.7, r.YesPct)
	assert.Equal(t, 33.3, r.NoPct)
}

func TestYesNoPercentagesSumToHundred(t *testing.T) {
	for n := 1; n <= 40; n++ {
		var rows [][]string
		for i := 0; i < n; i++ {
			rows = append(rows, []string{"A", []string{"yes", "no", "other", "y"}[i%4]})
		}
		tbl := survey.NewTable([]string{"Country", "Q"}, rows, survey.DefaultOptions())
		r, err := YesNo(tbl, "Q", Filter{})
		require.NoError(t, err)
		assert.InDelta(t, 100, r.YesPct+r.NoPct+r.OtherPct, 0.15, "n=%d", n)
	}
}

func TestYesNoEmptySelection(t *testing.T) {
	r, err := YesNo(fixture(), "Trained?", Filter{CountryColumn: "Country", Country: "Togo"})
	require.NoError(t, err)
	assert.Zero(t, r.Total)
	assert.Zero(t, r.YesPct)
	assert.Zero(t, r.NoPct)

	_, err = YesNo(fixture(), "nope", all)
	assert.Error(t, err)
}

func TestRatingStats(t *testing.T) {
	r, err := Rating(fixture(), "Rate support", all)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Count, "non-numeric answers are dropped")
	assert.Equal(t, 3.5, r.Mean)
	assert.Equal(t, 3.5, r.Median)
	assert.Equal(t, 50.0, r.HighPct)
	assert.Equal(t, []ScoreCount{{2, 1}, {3, 1}, {4, 1}, {5, 1}}, r.Distribution)

	r, err = Rating(fixture(), "Rate support", Filter{CountryColumn: "Country", Country: "Ghana"})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count)
	assert.Equal(t, 2.0, r.Median)
}

func TestUnknownQuestionColumn(t *testing.T) {
	_, err := YesNo(fixture(), "Not a column", all)
	assert.EqualError(t, err, `unknown column "Not a column"`)
	_, err = Rating(fixture(), "Not a column", all)
	assert.EqualError(t, err, `unknown column "Not a column"`)
}

func TestRatingNoNumericAnswers(t *testing.T) {
	r, err := Rating(fixture(), "Trained?", all)
	require.NoError(t, err)
	assert.Zero(t, r.Count)
	assert.Empty(t, r.Distribution)
}

func TestCollaborationIsNetworkWide(t *testing.T) {
	tbl := fixture()
	m := schema.ResolveCollaboration(tbl, schema.DefaultOptions())
	r := Collaboration(tbl, m, "Exchange Visits", "Country")
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, []CountryCount{{"Kenya", 2}}, r.ByCountry)
	assert.Equal(t, "Kenya", r.Top)
	assert.False(t, r.Fallback)

	r = Collaboration(tbl, m, "Mentoring", "Country")
	assert.Equal(t, []CountryCount{{"Ghana", 1}, {"Kenya", 1}}, r.ByCountry, "row without a country is not counted")
	assert.Equal(t, 2, r.Total)
}

func TestCollaborationZeroAdoption(t *testing.T) {
	tbl := fixture()
	m := schema.ResolveCollaboration(tbl, schema.DefaultOptions())
	r := Collaboration(tbl, m, "Joint research", "Country")
	assert.True(t, r.Fallback)
	assert.True(t, r.ZeroAdoption)
	assert.Zero(t, r.Total)
	assert.Empty(t, r.Top)
}

func TestGraduatesByCountry(t *testing.T) {
	tbl := fixture()
	pair, err := metric.Resolve(tbl.Columns(), metric.Placed, "2023")
	require.NoError(t, err)
	r, err := Graduates(tbl, pair, all)
	require.NoError(t, err)
	assert.Equal(t, []GenderCount{{"Ghana", 6, 1}, {"Kenya", 3, 6}}, r.ByCountry)
	assert.Equal(t, 9, r.Male)
	assert.Equal(t, 7, r.Female)
	assert.Equal(t, 16, r.Total)
	assert.Equal(t, 56.3, r.MalePct)
	assert.Equal(t, 43.8, r.FemalePct)
	assert.Equal(t, "Kenya", r.Top)
	assert.Equal(t, 9, r.TopTotal)

	r, err = Graduates(tbl, pair, Filter{CountryColumn: "Country", Country: "Ghana"})
	require.NoError(t, err)
	assert.Equal(t, 7, r.Total)
}

func TestTrendSumsEveryRow(t *testing.T) {
	tbl := fixture()
	pts := Trend(tbl, metric.Placed, metric.DetectYears(tbl.Columns()))
	assert.Equal(t, []TrendPoint{
		{Year: "2022", Male: 13, Female: 12, Total: 25},
		{Year: "2023", Male: 16, Female: 14, Total: 30},
	}, pts, "rows without a country are part of the trend")

	g, err := Graduates(tbl, metric.Pair{Male: "2023 male placed by the JSO", Female: "2023 female placed by the JSO"}, all)
	require.NoError(t, err)
	assert.Less(t, g.Total, pts[1].Total, "per-country summaries skip rows without a country")
}

func TestTrendSkipsUnresolvedYears(t *testing.T) {
	tbl := fixture()
	pts := Trend(tbl, metric.Placed, []string{"2024", "2023"})
	require.Len(t, pts, 1)
	assert.Equal(t, "2023", pts[0].Year)
}

func TestPercentGuardsZero(t *testing.T) {
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 100.0, Percent(3, 3))
}

func TestRecommendations(t *testing.T) {
	assert.Contains(t, RecommendYesNo(YesNoResult{YesPct: 80}), "strong adoption")
	assert.Contains(t, RecommendYesNo(YesNoResult{YesPct: 50}), "not universal")
	assert.Contains(t, RecommendYesNo(YesNoResult{YesPct: 49.9}), "low")
	assert.Contains(t, RecommendRating(RatingResult{Mean: 4}), "strong")
	assert.Contains(t, RecommendRating(RatingResult{Mean: 3}), "moderate")
	assert.Contains(t, RecommendRating(RatingResult{Mean: 2.99}), "low")
	for total, want := range map[int]string{30: "High", 10: "Moderate", 9: "Low"} {
		got := RecommendCollaboration(CollabResult{Label: "Mentoring", Total: total, Top: "Kenya"})
		assert.Contains(t, got, want, fmt.Sprint(total))
	}
}
