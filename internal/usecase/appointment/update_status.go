package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/agendaplus/salon-scheduler/internal/access"
	"github.com/agendaplus/salon-scheduler/internal/audit"
	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
	"github.com/agendaplus/salon-scheduler/internal/models"
)

type UpdateStatusInput struct {
	Principal     access.Principal
	AppointmentID uint
	NewStatus     domain.Status
}

type UpdateStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache SlotCache
}

func NewUpdateStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache SlotCache,
) *UpdateStatus {
	return &UpdateStatus{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

func statusAction(to domain.Status) access.Action {
	switch to {
	case domain.StatusConfirmed:
		return access.ActionConfirmAppointment
	case domain.StatusCompleted:
		return access.ActionCompleteAppt
	default:
		return access.ActionCancelAppointment
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Appointment, error) {

	if !domain.IsValidStatus(in.NewStatus) {
		return nil, domain.NewValidationError("unknown status")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(
		in.Principal,
		statusAction(in.NewStatus),
		targetOf(ap),
	); err != nil {
		return nil, err
	}

	updated, err := uc.attempt(ctx, ap.ProfessionalID, ap.ID, in.NewStatus)
	if errors.Is(err, domain.ErrSerialization) {
		updated, err = uc.attempt(ctx, ap.ProfessionalID, ap.ID, in.NewStatus)
		if errors.Is(err, domain.ErrSerialization) {
			err = &domain.ConflictError{Start: ap.StartTime, End: ap.EndTime}
		}
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:   updated.SalonID,
		ActorRole: string(in.Principal.Role),
		ActorID:   &in.Principal.ID,
		Action:    "appointment_" + string(in.NewStatus),
		Entity:    "appointment",
		EntityID:  &updated.ID,
	})

	// Cancellation frees the slot, so cached availability for that day is
	// stale either way.
	uc.cache.Invalidate(ctx, updated.ProfessionalID, updated.StartTime)

	return updated, nil
}

func (uc *UpdateStatus) attempt(
	ctx context.Context,
	professionalID uint,
	appointmentID uint,
	to domain.Status,
) (*models.Appointment, error) {

	var updated *models.Appointment

	err := uc.repo.InProfessionalTx(ctx, professionalID,
		func(ctx context.Context, tx domain.Repository) error {

			current, err := tx.GetAppointment(ctx, appointmentID)
			if err != nil {
				return err
			}

			if err := domain.Transition(current, to, time.Now()); err != nil {
				return err
			}

			if err := tx.UpdateAppointment(ctx, current); err != nil {
				return err
			}

			updated = current
			return nil
		})

	if err != nil {
		return nil, err
	}
	return updated, nil
}
