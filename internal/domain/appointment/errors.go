package appointment

import (
	"errors"
	"fmt"
	"time"
)

// ErrSerialization marks a store-level transaction failure (e.g. a
// serialization conflict between concurrent creates). Callers retry once
// with a fresh availability check before giving up.
var ErrSerialization = errors.New("transaction serialization failure")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationError(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// NewValidationError reports malformed scheduler input.
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ConflictError carries the conflicting appointment for client display.
// ConflictingID is zero when the overlap was detected structurally by the
// store rather than by the availability check.
type ConflictError struct {
	ConflictingID uint
	Start         time.Time
	End           time.Time
}

func (e *ConflictError) Error() string {
	if e.ConflictingID == 0 {
		return "time slot is no longer available"
	}
	return fmt.Sprintf(
		"time slot conflicts with appointment %d (%s - %s)",
		e.ConflictingID,
		e.Start.Format("2006-01-02 15:04"),
		e.End.Format("15:04"),
	)
}

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InvalidStateError rejects a reschedule of a terminal appointment.
type InvalidStateError struct {
	Status Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("appointment in terminal status %q cannot be modified", e.Status)
}

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %q -> %q", e.From, e.To)
}
