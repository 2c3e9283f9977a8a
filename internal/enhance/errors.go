package enhance

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

type Reason string

const (
	ReasonDimensionMismatch Reason = "buffer/dimension mismatch"
	ReasonParamOutOfRange   Reason = "parameter out of range"
)

// InvalidInputError reports a contract violation by the caller. No output
// is produced when one is returned.
type InvalidInputError struct {
	Reason Reason
	Detail string
}

func (e *InvalidInputError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Reason, e.Detail)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(reason Reason, format string, args ...any) error {
	return &InvalidInputError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
