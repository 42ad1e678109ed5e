package schema

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/surveydash/internal/survey"
)

var packedDelims = regexp.MustCompile(`[;,/|]`)

// Selector identifies the respondents who picked one collaboration option.
// One-hot options own a whole column; packed options are a token inside a
// delimiter-joined column.
type Selector struct {
	Label  string
	Column string
	// Token is the canonical lowercase option inside a packed column; empty for one-hot columns.
	Token string
}

// Packed reports whether the option lives inside a delimiter-joined column.
func (s Selector) Packed() bool { return s.Token != "" }

// Matches reports whether row i of t selected this option.
func (s Selector) Matches(t *survey.Table, i int) bool {
	col, ok := t.Column(s.Column)
	if !ok || i < 0 || i >= len(col.Cells) || !col.Cells[i].Valid {
		return false
	}
	v := normalize(col.Cells[i].Text)
	if s.Packed() {
		for _, part := range packedDelims.Split(v, -1) {
			if strings.TrimSpace(part) == s.Token {
				return true
			}
		}
		return false
	}
	if _, ok := affirmativeTokens[v]; ok {
		return true
	}
	label := strings.ToLower(s.Label)
	return label != "" && strings.Contains(v, label)
}

// CollabMap maps every collaboration option label to exactly one Selector.
type CollabMap struct {
	labels    []string
	selectors map[string]Selector
	columns   map[string]struct{}
}

// Labels returns option labels in registration order: one-hot columns in
// header order, then packed options by descending frequency.
func (m *CollabMap) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Lookup finds the selector for a label, ignoring case.
func (m *CollabMap) Lookup(label string) (Selector, bool) {
	s, ok := m.selectors[normalize(label)]
	return s, ok
}

// IsColumn reports whether column feeds at least one collaboration option.
func (m *CollabMap) IsColumn(column string) bool {
	_, ok := m.columns[column]
	return ok
}

// Selects reports whether row i picked label. Labels without a selector fall
// back to a case-insensitive substring search over every answer in the row.
func (m *CollabMap) Selects(t *survey.Table, label string, i int) bool {
	if s, ok := m.Lookup(label); ok {
		return s.Matches(t, i)
	}
	needle := normalize(label)
	if needle == "" {
		return false
	}
	for _, cell := range t.Row(i) {
		if cell.Valid && strings.Contains(strings.ToLower(cell.Text), needle) {
			return true
		}
	}
	return false
}

func (m *CollabMap) add(s Selector) {
	key := normalize(s.Label)
	if key == "" {
		return
	}
	m.columns[s.Column] = struct{}{}
	if prev, dup := m.selectors[key]; dup {
		slog.Debug("duplicate collaboration label ignored", "label", s.Label, "kept_column", prev.Column, "column", s.Column)
		return
	}
	m.selectors[key] = s
	m.labels = append(m.labels, s.Label)
}

// ResolveCollaboration builds the label→selector map from one-hot columns
// ("...collaborate... [Label]") and delimiter-packed collaboration columns.
func ResolveCollaboration(t *survey.Table, opt Options) *CollabMap {
	m := &CollabMap{selectors: map[string]Selector{}, columns: map[string]struct{}{}}
	var packed []string
	for _, name := range t.Columns() {
		if !hasKeyword(name, opt.CollabKeywords) {
			continue
		}
		if i := strings.LastIndex(name, "["); i >= 0 {
			label := strings.TrimSpace(strings.ReplaceAll(name[i+1:], "]", ""))
			if label != "" {
				m.add(Selector{Label: label, Column: name})
			}
			continue
		}
		packed = append(packed, name)
	}
	title := cases.Title(language.Und)
	for _, name := range packed {
		col, _ := t.Column(name)
		tokens := packedTokens(col, opt.PackedSampleRows, opt.PackedTopTokens)
		for _, tok := range tokens {
			m.add(Selector{Label: title.String(tok), Column: name, Token: tok})
		}
		if len(tokens) > 0 {
			slog.Debug("packed collaboration column", "column", name, "options", len(tokens))
		}
	}
	return m
}

// packedTokens returns the most frequent options of a packed column, or nil
// when no sampled answer contains a delimiter.
func packedTokens(col *survey.Column, sampleRows, top int) []string {
	n := len(col.Cells)
	if sampleRows > 0 && sampleRows < n {
		n = sampleRows
	}
	counts := map[string]int{}
	delimited := false
	for i := 0; i < n; i++ {
		cell := col.Cells[i]
		if !cell.Valid {
			continue
		}
		v := normalize(cell.Text)
		if packedDelims.MatchString(v) {
			delimited = true
		}
		seen := map[string]struct{}{}
		for _, part := range packedDelims.Split(v, -1) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			counts[part]++
		}
	}
	if !delimited {
		return nil
	}
	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(a, b int) bool {
		if counts[tokens[a]] != counts[tokens[b]] {
			return counts[tokens[a]] > counts[tokens[b]]
		}
		return tokens[a] < tokens[b]
	})
	if top > 0 && len(tokens) > top {
		tokens = tokens[:top]
	}
	return tokens
}
