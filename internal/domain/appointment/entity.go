package appointment

import (
	"time"

	"github.com/agendaplus/salon-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition applies a status change, stamping the transition time on the
// terminal markers. The caller persists the mutated record.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
	return nil
}

// Reschedule moves an appointment to a new interval. Terminal appointments
// are not reschedulable; conflict checking against other appointments is
// the scheduler's responsibility.
func Reschedule(ap *models.Appointment, newStart, newEnd time.Time) error {
	if IsTerminal(Status(ap.Status)) {
		return &InvalidStateError{Status: Status(ap.Status)}
	}
	if err := ValidateInterval(newStart, newEnd); err != nil {
		return err
	}

	ap.StartTime = newStart
	ap.EndTime = newEnd
	return nil
}
