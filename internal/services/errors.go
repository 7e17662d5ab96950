package services

import (
	"errors"
	"strings"
)

// ErrLastVariant is returned when a removal would leave a product with no
// variants. The operation must fail loudly, never no-op.
var ErrLastVariant = errors.New("cannot remove the last variant")

// ValidationError carries the ordered list of violation messages produced
// by input validation. Callers branch on the type with errors.As instead of
// matching message strings.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, ", ")
}

// AsValidationError unwraps err into a *ValidationError, or returns nil.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
