package appointment

import (
	"context"

	"github.com/agendaplus/salon-scheduler/internal/access"
	"github.com/agendaplus/salon-scheduler/internal/audit"
	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache SlotCache
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache SlotCache,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

// Execute hard-deletes an appointment. Only the client, the assigned
// professional or the owning salon may do so.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	principal access.Principal,
	appointmentID uint,
) error {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}

	if err := access.Authorize(
		principal,
		access.ActionDeleteAppointment,
		targetOf(ap),
	); err != nil {
		return err
	}

	if err := uc.repo.DeleteAppointment(ctx, appointmentID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:   ap.SalonID,
		ActorRole: string(principal.Role),
		ActorID:   &principal.ID,
		Action:    "appointment_deleted",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})
	uc.cache.Invalidate(ctx, ap.ProfessionalID, ap.StartTime)

	return nil
}
