package geom

import (
	"fmt"

	"github.com/matzehuels/hyperstairs/pkg/errors"
)

// DegenerateInputError reports inputs from which no proper shape can be
// built: coincident axis points, a non-positive width, or non-finite values.
// The inputs came from a user and must be collected again; retrying with the
// same values always fails.
type DegenerateInputError struct {
	Shape  string // "rectangle", "line", "stairs"
	Reason string
}

func degenerate(shape, format string, args ...any) *DegenerateInputError {
	return &DegenerateInputError{Shape: shape, Reason: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate %s: %s", e.Shape, e.Reason)
}

// Unwrap exposes the structured error so errors.Is(err, ErrCodeDegenerateInput)
// from pkg/errors matches.
func (e *DegenerateInputError) Unwrap() error {
	return errors.New(errors.ErrCodeDegenerateInput, "%s: %s", e.Shape, e.Reason)
}
