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

type RescheduleAppointmentInput struct {
	Principal     access.Principal
	AppointmentID uint
	NewStart      time.Time
	NewEnd        time.Time
}

type RescheduleAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache SlotCache
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache SlotCache,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(
		in.Principal,
		access.ActionRescheduleAppt,
		targetOf(ap),
	); err != nil {
		return nil, err
	}

	oldStart := ap.StartTime

	moved, err := uc.attempt(ctx, ap, in.NewStart, in.NewEnd)
	if errors.Is(err, domain.ErrSerialization) {
		moved, err = uc.attempt(ctx, ap, in.NewStart, in.NewEnd)
		if errors.Is(err, domain.ErrSerialization) {
			err = &domain.ConflictError{Start: in.NewStart, End: in.NewEnd}
		}
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:   moved.SalonID,
		ActorRole: string(in.Principal.Role),
		ActorID:   &in.Principal.ID,
		Action:    "appointment_rescheduled",
		Entity:    "appointment",
		EntityID:  &moved.ID,
		Metadata: map[string]any{
			"old_start": oldStart,
			"new_start": moved.StartTime,
		},
	})
	uc.cache.Invalidate(ctx, moved.ProfessionalID, oldStart)
	uc.cache.Invalidate(ctx, moved.ProfessionalID, moved.StartTime)

	return moved, nil
}

func (uc *RescheduleAppointment) attempt(
	ctx context.Context,
	ap *models.Appointment,
	newStart time.Time,
	newEnd time.Time,
) (*models.Appointment, error) {

	var moved *models.Appointment

	err := uc.repo.InProfessionalTx(ctx, ap.ProfessionalID,
		func(ctx context.Context, tx domain.Repository) error {

			// Re-read inside the transaction: the status may have changed
			// since the authorization lookup.
			current, err := tx.GetAppointment(ctx, ap.ID)
			if err != nil {
				return err
			}

			// State and interval checks come first: a terminal appointment
			// fails as immutable even when the target slot is occupied.
			if err := domain.Reschedule(current, newStart, newEnd); err != nil {
				return err
			}

			// The record being moved must not conflict with itself.
			conflict, err := tx.FindConflict(
				ctx,
				current.ProfessionalID,
				newStart,
				newEnd,
				current.ID,
			)
			if err != nil {
				return err
			}
			if conflict != nil {
				return &domain.ConflictError{
					ConflictingID: conflict.ID,
					Start:         conflict.StartTime,
					End:           conflict.EndTime,
				}
			}

			if err := tx.UpdateAppointment(ctx, current); err != nil {
				return err
			}

			moved = current
			return nil
		})

	if err != nil {
		return nil, err
	}
	return moved, nil
}

func targetOf(ap *models.Appointment) access.Target {
	return access.Target{
		SalonID:        ap.SalonID,
		ClientID:       ap.ClientID,
		ProfessionalID: ap.ProfessionalID,
	}
}
