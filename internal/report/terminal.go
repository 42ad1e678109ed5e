package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	titleColor  = color.New(color.FgCyan, color.Bold)
	metaColor   = color.New(color.Faint)
	recColor    = color.New(color.FgGreen)
	noticeColor = color.New(color.FgYellow)
	errColor    = color.New(color.FgRed)
)

// Terminal renders sections as coloured text and tables.
type Terminal struct {
	w io.Writer
}

// NewTerminal writes to w.
func NewTerminal(w io.Writer) *Terminal { return &Terminal{w: w} }

// Section prints one summary.
func (t *Terminal) Section(s Section) {
	titleColor.Fprintln(t.w, s.Title)
	if len(s.Meta) > 0 {
		parts := make([]string, 0, len(s.Meta))
		for _, f := range s.Meta {
			parts = append(parts, f.Name+": "+f.Value)
		}
		metaColor.Fprintln(t.w, strings.Join(parts, " | "))
	}
	if s.Notice != "" {
		noticeColor.Fprintln(t.w, "ℹ "+s.Notice)
	}
	if len(s.KPIs) > 0 {
		rows := make([][]string, len(s.KPIs))
		for i, f := range s.KPIs {
			rows[i] = []string{f.Name, f.Value}
		}
		t.Table([]string{"Metric", "Value"}, rows)
	}
	if s.Breakdown != nil && len(s.Breakdown.Rows) > 0 {
		t.Table(s.Breakdown.Header, s.Breakdown.Rows)
	}
	if s.Body != "" {
		fmt.Fprintln(t.w, s.Body)
	}
	if s.Recommendation != "" {
		recColor.Fprintln(t.w, "💡 Recommendation: "+s.Recommendation)
	}
	if s.ChartFile != "" {
		metaColor.Fprintf(t.w, "chart: %s\n", s.ChartFile)
	}
	fmt.Fprintln(t.w)
}

// Notice prints an informational line.
func (t *Terminal) Notice(format string, args ...any) {
	noticeColor.Fprintf(t.w, "ℹ "+format+"\n", args...)
}

// Error prints a failure that did not abort the command.
func (t *Terminal) Error(format string, args ...any) {
	errColor.Fprintf(t.w, "✗ "+format+"\n", args...)
}

// List prints a numbered list under a heading, for picking questions by number.
func (t *Terminal) List(heading string, items []string) {
	titleColor.Fprintf(t.w, "%s (%d)\n", heading, len(items))
	for i, it := range items {
		fmt.Fprintf(t.w, "  %2d. %s\n", i+1, it)
	}
	fmt.Fprintln(t.w)
}

// Table prints rows under header as a bordered table.
func (t *Terminal) Table(header []string, rows [][]string) {
	tw := tablewriter.NewWriter(t.w)
	tw.SetHeader(header)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(rows)
	tw.Render()
}
