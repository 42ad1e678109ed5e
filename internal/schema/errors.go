package schema

import (
	"errors"
	"fmt"
)

// ErrNoColumns matches every *NoColumnsError via errors.Is.
var ErrNoColumns = errors.New("no columns of requested type")

// NoColumnsError reports that a table has no columns of a kind. It is an
// empty state to show the user, not a failure.
type NoColumnsError struct {
	Kind Kind
}

func (e *NoColumnsError) Error() string {
	return fmt.Sprintf("no %s questions detected in the data", e.Kind)
}

func (e *NoColumnsError) Is(target error) bool { return target == ErrNoColumns }
