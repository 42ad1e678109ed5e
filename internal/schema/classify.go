package schema

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/surveydash/internal/survey"
)

// Options controls column classification.
type Options struct {
	// ExcludeKeywords drop identity-like columns whose lowercased name contains any keyword.
	ExcludeKeywords []string
	// CollabKeywords mark headers that belong to the multi-select collaboration question.
	CollabKeywords []string
	// PackedSampleRows bounds the rows scanned when detecting and tokenizing packed columns.
	PackedSampleRows int
	// PackedTopTokens caps the number of options taken from one packed column.
	PackedTopTokens int
}

// DefaultOptions returns the classifier settings used by the dashboard.
func DefaultOptions() Options {
	return Options{
		ExcludeKeywords:  []string{"name", "respondent", "email", "phone", "id", "contact"},
		CollabKeywords:   []string{"collaborat"},
		PackedSampleRows: 500,
		PackedTopTokens:  20,
	}
}

// Schema is the classification of every column of a table.
type Schema struct {
	Kinds map[string]Kind

	YesNo        []string
	Rating       []string
	Unclassified []string
	// Excluded lists identity-like columns, Empty lists columns with no answers.
	Excluded []string
	Empty    []string

	Collaboration *CollabMap
	// Warnings explains every fallback taken while classifying.
	Warnings []string
}

// Classify assigns a Kind to every column of t. Collaboration columns are
// recognised from their headers first; the remaining columns are tested for
// yes/no vocabulary, then for a 1–5 rating scale.
func Classify(t *survey.Table, opt Options) *Schema {
	s := &Schema{
		Kinds:         make(map[string]Kind, len(t.Columns())),
		Collaboration: ResolveCollaboration(t, opt),
	}
	for _, name := range t.Columns() {
		if s.Collaboration.IsColumn(name) {
			s.Kinds[name] = CollaborationOption
			continue
		}
		s.Kinds[name] = Unclassified
		if hasKeyword(name, opt.ExcludeKeywords) {
			s.Excluded = append(s.Excluded, name)
			continue
		}
		col, _ := t.Column(name)
		values := col.Values(nil)
		if len(values) == 0 {
			s.Empty = append(s.Empty, name)
			continue
		}
		switch kind := classifyValues(values); kind {
		case YesNo:
			s.YesNo = append(s.YesNo, name)
			s.Kinds[name] = kind
		case Rating:
			s.Rating = append(s.Rating, name)
			s.Kinds[name] = kind
		default:
			s.Unclassified = append(s.Unclassified, name)
		}
	}

	if len(s.YesNo) == 0 {
		s.Warnings = append(s.Warnings, "no yes/no questions detected")
	}
	if len(s.Rating) == 0 {
		s.Warnings = append(s.Warnings, "no rating questions detected")
	}
	if len(s.Collaboration.Labels()) == 0 {
		s.Warnings = append(s.Warnings, "no collaboration options detected")
	}
	if len(s.Excluded) > 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%d identity column(s) excluded: %s", len(s.Excluded), strings.Join(s.Excluded, ", ")))
	}
	if len(s.Empty) > 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%d empty column(s) skipped", len(s.Empty)))
	}
	slog.Debug("classified columns",
		"yes_no", len(s.YesNo), "rating", len(s.Rating), "collab_labels", len(s.Collaboration.Labels()),
		"unclassified", len(s.Unclassified), "excluded", len(s.Excluded), "empty", len(s.Empty))
	return s
}

// Kind returns the classification of a column; unknown columns are Unclassified.
func (s *Schema) Kind(column string) Kind {
	return s.Kinds[column]
}

// Questions returns the columns (or, for CollaborationOption, the option
// labels) of the given kind. An empty result is a *NoColumnsError.
func (s *Schema) Questions(k Kind) ([]string, error) {
	var out []string
	switch k {
	case YesNo:
		out = s.YesNo
	case Rating:
		out = s.Rating
	case CollaborationOption:
		out = s.Collaboration.Labels()
	default:
		out = s.Unclassified
	}
	if len(out) == 0 {
		return nil, &NoColumnsError{Kind: k}
	}
	return out, nil
}

// classifyValues decides the kind of a column from its trimmed, non-missing values.
func classifyValues(values []string) Kind {
	yesNo := true
	for _, v := range values {
		if !isYesNoVocabulary(strings.ToLower(v)) {
			yesNo = false
			break
		}
	}
	if yesNo {
		return YesNo
	}
	numeric := 0
	for _, v := range values {
		f, ok := survey.ParseNumber(v)
		if !ok {
			continue
		}
		if f < 1 || f > 5 {
			return Unclassified
		}
		numeric++
	}
	if numeric > 0 && float64(numeric) >= 0.5*float64(len(values)) {
		return Rating
	}
	return Unclassified
}

func hasKeyword(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
