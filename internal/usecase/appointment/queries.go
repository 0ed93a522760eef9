package appointment

import (
	"context"
	"time"

	"github.com/agendaplus/salon-scheduler/internal/access"
	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
	"github.com/agendaplus/salon-scheduler/internal/models"
)

// Queries bundles the read accessors the request layer needs. Missing rows
// during a list are an empty collection, never an error.
type Queries struct {
	repo domain.Repository
}

func NewQueries(repo domain.Repository) *Queries {
	return &Queries{repo: repo}
}

func (q *Queries) Get(
	ctx context.Context,
	principal access.Principal,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := q.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(
		principal,
		access.ActionViewAppointment,
		targetOf(ap),
	); err != nil {
		return nil, err
	}

	return ap, nil
}

func (q *Queries) ListByClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {
	return q.repo.ListByClient(ctx, clientID)
}

// ListByProfessional returns the professional's appointments whose start
// falls within the [dayStart, dayStart+24h) window.
func (q *Queries) ListByProfessional(
	ctx context.Context,
	professionalID uint,
	dayStart time.Time,
) ([]models.Appointment, error) {
	return q.repo.ListByProfessional(
		ctx,
		professionalID,
		dayStart,
		dayStart.Add(24*time.Hour),
	)
}

func (q *Queries) ListBySalon(
	ctx context.Context,
	salonID uint,
) ([]models.Appointment, error) {
	return q.repo.ListBySalon(ctx, salonID)
}
