package readonly

import (
	"errors"
	"fmt"
)

// Violation is returned when a write operation or an unsafe aggregation
// stage is attempted through a read-only handle. It always names the exact
// operation or stage that was blocked so callers can assert on it.
type Violation struct {
	// Op is the blocked operation name (e.g. "insertOne", "dropDatabase").
	Op string

	// Stage is the offending aggregation stage (e.g. "$out") when the
	// violation came from pipeline validation. Empty otherwise.
	Stage string
}

// Error implements the error interface.
func (e *Violation) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("read-only mode: aggregation stage %q is not allowed", e.Stage)
	}
	return fmt.Sprintf("read-only mode: operation %q is not allowed", e.Op)
}

// Is reports whether target is also a Violation, ignoring the specific
// operation or stage. This lets callers match with errors.Is(err, ErrViolation).
func (e *Violation) Is(target error) bool {
	_, ok := target.(*Violation)
	return ok
}

// ErrViolation is a sentinel for errors.Is checks against any Violation.
var ErrViolation = &Violation{}

// IsViolation reports whether err (or anything it wraps) is a Violation.
func IsViolation(err error) bool {
	var v *Violation
	return errors.As(err, &v)
}

func blockedOp(op string) error {
	return &Violation{Op: op}
}
