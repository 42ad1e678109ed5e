package schema

import "strings"

var (
	yesTokens   = setOf("yes", "y", "true", "1", "x", "✓", "selected", "checked")
	noTokens    = setOf("no", "n", "false", "0")
	blankTokens = setOf("", "nan", "none")
	// One-hot collaboration columns also accept the square-root tick some forms export.
	affirmativeTokens = setOf("yes", "y", "true", "1", "x", "✓", "√", "selected", "checked")
)

func setOf(vals ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

func normalize(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

// IsYes reports whether v is an affirmative answer.
func IsYes(v string) bool {
	_, ok := yesTokens[normalize(v)]
	return ok
}

// IsNo reports whether v is a negative answer.
func IsNo(v string) bool {
	_, ok := noTokens[normalize(v)]
	return ok
}

func isYesNoVocabulary(v string) bool {
	if _, ok := yesTokens[v]; ok {
		return true
	}
	if _, ok := noTokens[v]; ok {
		return true
	}
	_, ok := blankTokens[v]
	return ok
}
