package survey

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Cell is one respondent's answer to one question. Missing answers have Valid == false.
type Cell struct {
	Text  string
	Valid bool
}

// Column is a named, ordered sequence of answers.
type Column struct {
	Name  string
	Cells []Cell
}

// Values returns the trimmed text of every non-missing cell at the given rows.
// A nil rows slice selects every row.
func (c *Column) Values(rows []int) []string {
	var out []string
	visit(len(c.Cells), rows, func(i int) {
		if cell := c.Cells[i]; cell.Valid {
			out = append(out, strings.TrimSpace(cell.Text))
		}
	})
	return out
}

// Table is an immutable, column-oriented survey response table.
type Table struct {
	Source string
	Sheet  string

	columns []Column
	index   map[string]int
	rows    int
}

// Options controls how raw records become cells.
type Options struct {
	// MissingMarkers are cell texts treated as missing answers (matched after trimming).
	MissingMarkers []string
}

// DefaultOptions mirrors the usual spreadsheet notion of an empty answer.
func DefaultOptions() Options {
	return Options{
		MissingMarkers: []string{"", "#N/A", "N/A", "n/a", "NA", "NaN", "nan", "NULL", "null", "None"},
	}
}

// NewTable builds a Table from a header row and data records. Short records are
// padded with missing cells; blank headers become "Unnamed: N" and repeated
// headers get a ".N" suffix so every column name is unique.
func NewTable(header []string, records [][]string, opt Options) *Table {
	missing := make(map[string]struct{}, len(opt.MissingMarkers))
	for _, m := range opt.MissingMarkers {
		missing[strings.TrimSpace(m)] = struct{}{}
	}
	width := len(header)
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	t := &Table{index: make(map[string]int, width), rows: len(records)}
	seen := map[string]int{}
	for j := 0; j < width; j++ {
		name := ""
		if j < len(header) {
			name = strings.TrimSpace(header[j])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		col := Column{Name: name, Cells: make([]Cell, len(records))}
		for i, rec := range records {
			if j >= len(rec) {
				continue
			}
			if _, isMissing := missing[strings.TrimSpace(rec[j])]; isMissing {
				continue
			}
			col.Cells[i] = Cell{Text: rec[j], Valid: true}
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t
}

// Columns returns the column names in source order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.columns[i], true
}

// Len returns the number of respondent rows.
func (t *Table) Len() int { return t.rows }

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Cell {
	out := make([]Cell, len(t.columns))
	for j := range t.columns {
		out[j] = t.columns[j].Cells[i]
	}
	return out
}

// CountryColumn returns the first column whose name mentions "country".
func (t *Table) CountryColumn() (string, error) {
	for _, c := range t.columns {
		if strings.Contains(strings.ToLower(c.Name), "country") {
			return c.Name, nil
		}
	}
	return "", ErrNoCountryColumn
}

// Countries returns the sorted distinct non-missing values of the country column.
func (t *Table) Countries(countryCol string) []string {
	col, ok := t.Column(countryCol)
	if !ok {
		return nil
	}
	set := map[string]struct{}{}
	for _, v := range col.Values(nil) {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// RowsWhere returns the indices of rows whose trimmed value in col equals value.
func (t *Table) RowsWhere(col, value string) []int {
	c, ok := t.Column(col)
	if !ok {
		return []int{}
	}
	want := strings.TrimSpace(value)
	out := []int{}
	for i, cell := range c.Cells {
		if cell.Valid && strings.TrimSpace(cell.Text) == want {
			out = append(out, i)
		}
	}
	return out
}

// WriteCSV writes the header and up to limit rows as CSV. limit <= 0 writes every row.
func (t *Table) WriteCSV(w io.Writer, limit int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	n := t.rows
	if limit > 0 && limit < n {
		n = limit
	}
	rec := make([]string, len(t.columns))
	for i := 0; i < n; i++ {
		for j := range t.columns {
			rec[j] = t.columns[j].Cells[i].Text
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// visit calls fn for each selected row; nil rows means all rows in [0,n).
func visit(n int, rows []int, fn func(int)) {
	if rows == nil {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	for _, i := range rows {
		if i >= 0 && i < n {
			fn(i)
		}
	}
}
