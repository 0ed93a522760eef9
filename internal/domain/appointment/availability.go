package appointment

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not conflict: an
// appointment ending at T is compatible with one starting at T.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidateInterval enforces the end > start invariant shared by create and
// reschedule.
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return validationError("start_time and end_time are required")
	}
	if !end.After(start) {
		return validationError("end_time must be after start_time")
	}
	return nil
}

type AvailabilityInput struct {
	SalonID        uint
	ProfessionalID uint
	ServiceID      uint
	Date           time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
