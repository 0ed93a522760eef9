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

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Principal access.Principal

	SalonID        uint
	ClientID       uint
	ProfessionalID uint
	ServiceID      uint

	StartTime time.Time
	// EndTime may be zero, in which case it is derived from the service
	// duration.
	EndTime time.Time
	Notes   string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache SlotCache
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache SlotCache,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if err := access.Authorize(
		in.Principal,
		access.ActionCreateAppointment,
		access.Target{
			SalonID:        in.SalonID,
			ClientID:       in.ClientID,
			ProfessionalID: in.ProfessionalID,
		},
	); err != nil {
		return nil, err
	}

	// Tenant scoping: every referenced entity must belong to the salon.
	if _, err := uc.repo.GetSalonByID(ctx, in.SalonID); err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetProfessional(ctx, in.SalonID, in.ProfessionalID); err != nil {
		return nil, err
	}
	svc, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetClient(ctx, in.SalonID, in.ClientID); err != nil {
		return nil, err
	}

	end := in.EndTime
	if end.IsZero() {
		end = in.StartTime.Add(time.Duration(svc.DurationMinutes) * time.Minute)
	}

	if err := domain.ValidateInterval(in.StartTime, end); err != nil {
		return nil, err
	}

	ap, err := uc.attempt(ctx, in, end)
	if errors.Is(err, domain.ErrSerialization) {
		// One retry with a fresh availability check; a second failure is
		// reported as a plain conflict.
		ap, err = uc.attempt(ctx, in, end)
		if errors.Is(err, domain.ErrSerialization) {
			err = &domain.ConflictError{Start: in.StartTime, End: end}
		}
	}

	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			uc.audit.Dispatch(audit.Event{
				SalonID:   in.SalonID,
				ActorRole: string(in.Principal.Role),
				ActorID:   &in.Principal.ID,
				Action:    "appointment_conflict",
				Entity:    "appointment",
				Metadata: map[string]any{
					"start": in.StartTime,
					"end":   end,
				},
			})
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:   in.SalonID,
		ActorRole: string(in.Principal.Role),
		ActorID:   &in.Principal.ID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})
	uc.cache.Invalidate(ctx, in.ProfessionalID, ap.StartTime)

	return ap, nil
}

// attempt runs the availability check and the insert in one transaction
// scope so two concurrent creates cannot both observe a free slot.
func (uc *CreateAppointment) attempt(
	ctx context.Context,
	in CreateAppointmentInput,
	end time.Time,
) (*models.Appointment, error) {

	var created *models.Appointment

	err := uc.repo.InProfessionalTx(ctx, in.ProfessionalID,
		func(ctx context.Context, tx domain.Repository) error {

			conflict, err := tx.FindConflict(
				ctx,
				in.ProfessionalID,
				in.StartTime,
				end,
				0,
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

			ap := &models.Appointment{
				SalonID:        in.SalonID,
				ProfessionalID: in.ProfessionalID,
				ClientID:       in.ClientID,
				ServiceID:      in.ServiceID,
				StartTime:      in.StartTime,
				EndTime:        end,
				Status:         string(domain.InitialStatus()),
				Notes:          in.Notes,
			}

			if err := tx.CreateAppointment(ctx, ap); err != nil {
				return err
			}

			created = ap
			return nil
		})

	if err != nil {
		return nil, err
	}
	return created, nil
}
