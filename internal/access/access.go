package access

import "fmt"

// ===============================
// Principals
// ===============================

type Role string

const (
	RoleSalon        Role = "salon"
	RoleProfessional Role = "professional"
	RoleClient       Role = "client"
)

// Principal is the authenticated caller resolved from a bearer token.
// SalonID is the tenant the principal belongs to; for a salon principal it
// equals ID.
type Principal struct {
	Role    Role
	ID      uint
	SalonID uint
}

// ===============================
// Actions
// ===============================

type Action string

const (
	ActionCreateAppointment  Action = "appointment:create"
	ActionRescheduleAppt     Action = "appointment:reschedule"
	ActionCancelAppointment  Action = "appointment:cancel"
	ActionConfirmAppointment Action = "appointment:confirm"
	ActionCompleteAppt       Action = "appointment:complete"
	ActionDeleteAppointment  Action = "appointment:delete"
	ActionViewAppointment    Action = "appointment:view"
)

// Target identifies the entities an action applies to. Zero fields are
// ignored by rules that do not need them.
type Target struct {
	SalonID        uint
	ClientID       uint
	ProfessionalID uint
}

type ForbiddenError struct {
	Action Action
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not authorized to perform %s", e.Action)
}

// ===============================
// Authorization
// ===============================

// Authorize decides whether a principal may perform an action on a target.
// Rules:
//   - a salon may do anything within its own tenant;
//   - a client may create appointments only for itself, and view, cancel,
//     reschedule or delete only its own appointments;
//   - a professional may view, confirm, complete, cancel, reschedule or
//     delete appointments assigned to it;
//   - cross-tenant access is never granted.
func Authorize(p Principal, action Action, t Target) error {
	if p.SalonID != t.SalonID {
		return &ForbiddenError{Action: action}
	}

	switch p.Role {
	case RoleSalon:
		if p.ID == t.SalonID {
			return nil
		}

	case RoleClient:
		if p.ID != t.ClientID {
			break
		}
		switch action {
		case ActionCreateAppointment,
			ActionViewAppointment,
			ActionCancelAppointment,
			ActionRescheduleAppt,
			ActionDeleteAppointment:
			return nil
		}

	case RoleProfessional:
		if p.ID != t.ProfessionalID {
			break
		}
		switch action {
		case ActionViewAppointment,
			ActionConfirmAppointment,
			ActionCompleteAppt,
			ActionCancelAppointment,
			ActionRescheduleAppt,
			ActionDeleteAppointment:
			return nil
		}
	}

	return &ForbiddenError{Action: action}
}
