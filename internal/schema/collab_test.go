package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOneHotColumns(t *testing.T) {
	tbl := table(
		[]string{"Country", "Do you collaborate on: [Mentoring]", "Do you collaborate on: [ Joint training ]", "Do you collaborate on: [Exchange]"},
		[]string{"Kenya", "Yes", "", "√"},
		[]string{"Ghana", "no", "Joint training", ""},
		[]string{"Kenya", "X", "we do joint training sometimes", "No"},
	)
	s := Classify(tbl, DefaultOptions())
	m := s.Collaboration
	assert.Equal(t, []string{"Mentoring", "Joint training", "Exchange"}, m.Labels())
	assert.Equal(t, CollaborationOption, s.Kind("Do you collaborate on: [Mentoring]"))
	assert.Empty(t, s.YesNo, "collaboration columns are reported through their labels")

	sel, ok := m.Lookup("joint TRAINING")
	require.True(t, ok)
	assert.False(t, sel.Packed())
	assert.False(t, sel.Matches(tbl, 0))
	assert.True(t, sel.Matches(tbl, 1), "value equal to the label selects")
	assert.True(t, sel.Matches(tbl, 2), "value containing the label selects")

	assert.True(t, m.Selects(tbl, "Mentoring", 0))
	assert.False(t, m.Selects(tbl, "Mentoring", 1))
	assert.True(t, m.Selects(tbl, "Exchange", 0), "square-root tick is affirmative")

	opts, err := s.Questions(CollaborationOption)
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestResolvePackedColumn(t *testing.T) {
	tbl := table(
		[]string{"Country", "How do you collaborate with other JSOs?"},
		[]string{"Kenya", "Mentoring; Exchange visits"},
		[]string{"Ghana", "Exchange visits"},
		[]string{"Kenya", "Mentoring"},
		[]string{"Kenya", ""},
	)
	m := Classify(tbl, DefaultOptions()).Collaboration
	assert.ElementsMatch(t, []string{"Exchange Visits", "Mentoring"}, m.Labels())

	sel, ok := m.Lookup("Exchange Visits")
	require.True(t, ok)
	assert.True(t, sel.Packed())
	assert.Equal(t, "exchange visits", sel.Token)

	var hits []int
	for i := 0; i < tbl.Len(); i++ {
		if m.Selects(tbl, "Exchange Visits", i) {
			hits = append(hits, i)
		}
	}
	assert.Equal(t, []int{0, 1}, hits)
}

func TestPackedSelectionIgnoresDelimiterAndSpacing(t *testing.T) {
	tbl := table(
		[]string{"Country", "Areas we collaborate on"},
		[]string{"Kenya", "Alpha; Beta"},
		[]string{"Kenya", "Alpha,Beta"},
		[]string{"Ghana", "Alpha | Beta"},
		[]string{"Ghana", "  alpha/BETA  "},
	)
	m := Classify(tbl, DefaultOptions()).Collaboration
	assert.Equal(t, []string{"Alpha", "Beta"}, m.Labels())
	for i := 0; i < tbl.Len(); i++ {
		assert.True(t, m.Selects(tbl, "Alpha", i), "row %d", i)
		assert.True(t, m.Selects(tbl, "beta", i), "row %d", i)
	}
}

func TestPackedLabelsAreDistinctAndCapped(t *testing.T) {
	var rows [][]string
	for i := 0; i < 30; i++ {
		rows = append(rows, []string{"Kenya", fmt.Sprintf("Opt%02d | opt%02d / Shared", i, i)})
	}
	tbl := table([]string{"Country", "Collaboration areas"}, rows...)
	opt := DefaultOptions()
	m := ResolveCollaboration(tbl, opt)

	labels := m.Labels()
	assert.Len(t, labels, opt.PackedTopTokens)
	assert.Equal(t, "Shared", labels[0], "most frequent option comes first")

	seen := map[string]bool{}
	for _, l := range labels {
		key := strings.ToLower(l)
		assert.False(t, seen[key], "duplicate label %q", l)
		seen[key] = true
		sel, ok := m.Lookup(l)
		require.True(t, ok)
		assert.Equal(t, key, sel.Token)
	}
}

func TestPackedDetectionNeedsDelimiter(t *testing.T) {
	tbl := table([]string{"Country", "Main collaboration partner"}, []string{"Kenya", "Ghana JSO"}, []string{"Ghana", "Kenya JSO"})
	m := ResolveCollaboration(tbl, DefaultOptions())
	assert.Empty(t, m.Labels())
	assert.False(t, m.IsColumn("Main collaboration partner"))
}

func TestSelectsFallsBackToRowSearch(t *testing.T) {
	tbl := table(
		[]string{"Country", "Notes"},
		[]string{"Kenya", "We ran a Peer Review together"},
		[]string{"Ghana", "nothing"},
	)
	m := ResolveCollaboration(tbl, DefaultOptions())
	assert.True(t, m.Selects(tbl, "peer review", 0))
	assert.False(t, m.Selects(tbl, "peer review", 1))
	assert.False(t, m.Selects(tbl, "  ", 0))
}
