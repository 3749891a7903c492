package domain

import (
	"fmt"
	"strings"
)

// Validator is implemented by request values that support client-side validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// Validate runs v.Validate and joins any messages into an ErrInvalidInput error.
// Callers must not issue a network call when Validate returns an error.
func Validate(v Validator) error {
	if errs := v.Validate(); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}
