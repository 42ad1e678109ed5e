package survey

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadXLSXNamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Cleaned Data", [][]any{
		{"Country", "Rate the training", "Do you mentor?"},
		{"Kenya", 4, "Yes"},
		{"Ghana", 5, ""},
	})
	tbl, err := Load(path, "Cleaned Data", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Cleaned Data", tbl.Sheet)
	assert.Equal(t, 2, tbl.Len())
	col, ok := tbl.Column("Rate the training")
	require.True(t, ok)
	assert.Equal(t, []float64{4, 5}, col.Numbers(nil))
	mentor, _ := tbl.Column("Do you mentor?")
	assert.False(t, mentor.Cells[1].Valid)
}

func TestLoadXLSXMissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Raw", [][]any{{"Country"}, {"Kenya"}})
	_, err := Load(path, "Cleaned Data", DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataLoad)
	assert.ErrorIs(t, err, ErrSheetNotFound)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "Cleaned Data", le.Sheet)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.xlsx"), "Cleaned Data", DefaultOptions())
	assert.ErrorIs(t, err, ErrDataLoad)
}

func TestLoadCSVRequiresCountry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.csv")
	require.NoError(t, os.WriteFile(path, []byte("Q1,Q2\nyes,3\n"), 0o644))
	_, err := Load(path, "", DefaultOptions())
	assert.ErrorIs(t, err, ErrDataLoad)
	assert.ErrorIs(t, err, ErrNoCountryColumn)
}

func TestLoaderMemoizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffCountry of JSO,Q1\nKenya,yes\n"), 0o644))
	l := NewLoader(DefaultOptions())
	a, err := l.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Country of JSO", a.Columns()[0])

	require.NoError(t, os.Remove(path))
	b, err := l.Load(path, "")
	require.NoError(t, err, "second load should be served from memory")
	assert.Same(t, a, b)
}
