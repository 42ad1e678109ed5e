package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Load reads a survey table from an .xlsx workbook or a .csv/.tsv file.
// Every failure is returned as a *LoadError.
func Load(path, sheet string, opt Options) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return LoadCSV(path, opt)
	default:
		return LoadXLSX(path, sheet, opt)
	}
}

// LoadXLSX reads the named worksheet. An empty sheet name selects the first sheet.
func LoadXLSX(path, sheet string, opt Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, &LoadError{Path: path, Err: ErrSheetNotFound}
		}
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: fmt.Errorf("%w (have %s)", ErrSheetNotFound, strings.Join(sheets, ", "))}
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: err}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: errors.New("sheet has no header row")}
	}
	t := NewTable(rows[0], rows[1:], opt)
	t.Source, t.Sheet = path, sheet
	if _, err := t.CountryColumn(); err != nil {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: err}
	}
	slog.Debug("loaded workbook", "path", path, "sheet", sheet, "rows", t.Len(), "columns", len(t.columns))
	return t, nil
}

// LoadCSV reads a delimited text file whose first record is the header.
func LoadCSV(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		r.Comma = '\t'
	}
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("file has no header row")
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	header = slices.Clone(header)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("read csv: %w", err)}
	}
	t := NewTable(header, records, opt)
	t.Source = path
	if _, err := t.CountryColumn(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	slog.Debug("loaded csv", "path", path, "rows", t.Len(), "columns", len(t.columns))
	return t, nil
}

// Loader memoizes loaded tables for the lifetime of the process. Sources are
// assumed not to change while the program runs, so entries are never invalidated.
type Loader struct {
	opt   Options
	mu    sync.Mutex
	cache map[string]*Table
}

// NewLoader returns a Loader that parses sources with opt.
func NewLoader(opt Options) *Loader {
	return &Loader{opt: opt, cache: map[string]*Table{}}
}

// Load returns the cached table for (path, sheet), reading it on first use.
func (l *Loader) Load(path, sheet string) (*Table, error) {
	key := path + "\x00" + sheet
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.cache[key]; ok {
		return t, nil
	}
	t, err := Load(path, sheet, l.opt)
	if err != nil {
		return nil, err
	}
	l.cache[key] = t
	return t, nil
}
