package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ActiveStatuses are the statuses that count toward conflict detection.
// Cancelled and completed appointments free their slot.
func ActiveStatuses() []Status {
	return []Status{StatusScheduled, StatusConfirmed}
}

func IsActive(s Status) bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(s Status) bool {
	return s == StatusCancelled || s == StatusCompleted
}

var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition validates a status change against the lifecycle machine.
func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

func IsValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

func InitialStatus() Status {
	return StatusScheduled
}
