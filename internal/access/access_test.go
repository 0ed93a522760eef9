package access

import (
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	target := Target{SalonID: 1, ClientID: 10, ProfessionalID: 20}

	salon := Principal{Role: RoleSalon, ID: 1, SalonID: 1}
	client := Principal{Role: RoleClient, ID: 10, SalonID: 1}
	otherClient := Principal{Role: RoleClient, ID: 11, SalonID: 1}
	pro := Principal{Role: RoleProfessional, ID: 20, SalonID: 1}
	otherPro := Principal{Role: RoleProfessional, ID: 21, SalonID: 1}
	foreignSalon := Principal{Role: RoleSalon, ID: 2, SalonID: 2}

	cases := []struct {
		name    string
		p       Principal
		action  Action
		allowed bool
	}{
		{"salon creates", salon, ActionCreateAppointment, true},
		{"salon confirms", salon, ActionConfirmAppointment, true},
		{"salon deletes", salon, ActionDeleteAppointment, true},

		{"client creates own", client, ActionCreateAppointment, true},
		{"client views own", client, ActionViewAppointment, true},
		{"client cancels own", client, ActionCancelAppointment, true},
		{"client reschedules own", client, ActionRescheduleAppt, true},
		{"client cannot confirm", client, ActionConfirmAppointment, false},
		{"client cannot complete", client, ActionCompleteAppt, false},
		{"client cannot delete others", otherClient, ActionDeleteAppointment, false},
		{"other client denied", otherClient, ActionViewAppointment, false},

		{"professional confirms assigned", pro, ActionConfirmAppointment, true},
		{"professional completes assigned", pro, ActionCompleteAppt, true},
		{"professional cancels assigned", pro, ActionCancelAppointment, true},
		{"professional cannot create", pro, ActionCreateAppointment, false},
		{"other professional denied", otherPro, ActionViewAppointment, false},

		{"cross-tenant salon denied", foreignSalon, ActionViewAppointment, false},
		{"cross-tenant cancel denied", foreignSalon, ActionCancelAppointment, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.p, tc.action, target)
			if tc.allowed && err != nil {
				t.Fatalf("Authorize = %v, want nil", err)
			}
			if !tc.allowed {
				var forbidden *ForbiddenError
				if !errors.As(err, &forbidden) {
					t.Fatalf("Authorize = %v, want ForbiddenError", err)
				}
				if forbidden.Action != tc.action {
					t.Fatalf("error action = %s, want %s", forbidden.Action, tc.action)
				}
			}
		})
	}
}
