// Package report assembles dashboard summaries into documents and renders
// them to the terminal or to files.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/surveydash/internal/chart"
)

// Field is a labelled value shown in metadata lines and KPI tables.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Table is a small breakdown table, e.g. counts per country.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Section is one summary: a title, metadata, KPIs, a plain-text body and an optional chart.
type Section struct {
	Title          string  `json:"title"`
	Meta           []Field `json:"meta,omitempty"`
	KPIs           []Field `json:"kpis,omitempty"`
	Breakdown      *Table  `json:"breakdown,omitempty"`
	Body           string  `json:"body,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`

	// Notice carries an empty-state or informational message shown instead of, or beside, results.
	Notice string `json:"notice,omitempty"`

	Chart   *chart.Spec `json:"-"`
	Caption string      `json:"caption,omitempty"`

	// ChartFile is set by exporters that write chart images.
	ChartFile string `json:"chart_file,omitempty"`
}

// Document is an ordered list of sections with a generation stamp.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source,omitempty"`
	Theme     string    `json:"theme,omitempty"`
	Generated time.Time `json:"generated"`
	Sections  []Section `json:"sections"`
}

// NewDocument returns an empty document stamped with a fresh ID and the current time.
func NewDocument(title, source string) *Document {
	return &Document{
		ID:        uuid.NewString(),
		Title:     title,
		Source:    source,
		Generated: time.Now(),
	}
}

// Add appends a section.
func (d *Document) Add(s Section) { d.Sections = append(d.Sections, s) }
