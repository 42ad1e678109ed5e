package survey

import (
	"errors"
	"fmt"
)

var (
	// ErrDataLoad matches every *LoadError via errors.Is.
	ErrDataLoad = errors.New("survey data could not be loaded")
	// ErrNoCountryColumn indicates no header mentions "country".
	ErrNoCountryColumn = errors.New("no country column found")
	// ErrSheetNotFound indicates the requested worksheet is absent from the workbook.
	ErrSheetNotFound = errors.New("sheet not found")
)

// LoadError reports a failure to open or parse the survey source. It is fatal for the session.
type LoadError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("load %s (sheet %q): %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDataLoad) match any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrDataLoad }
