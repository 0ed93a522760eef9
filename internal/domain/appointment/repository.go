package appointment

import (
	"context"
	"time"

	"github.com/agendaplus/salon-scheduler/internal/models"
)

type Repository interface {
	// -------- Salon --------
	GetSalonByID(
		ctx context.Context,
		id uint,
	) (*models.Salon, error)

	// -------- Tenant-scoped references --------
	GetProfessional(
		ctx context.Context,
		salonID uint,
		professionalID uint,
	) (*models.Professional, error)

	GetService(
		ctx context.Context,
		salonID uint,
		serviceID uint,
	) (*models.Service, error)

	GetClient(
		ctx context.Context,
		salonID uint,
		clientID uint,
	) (*models.Client, error)

	// -------- Appointment (availability / conflict) --------

	// FindConflict returns the first active appointment for the
	// professional whose interval overlaps [start, end), or nil when the
	// slot is free. excludeID, when non-zero, ignores the appointment
	// being rescheduled. Must run inside InProfessionalTx together with
	// the subsequent write.
	FindConflict(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) (*models.Appointment, error)

	ListActiveForDay(
		ctx context.Context,
		professionalID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment (writes) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	// -------- Appointment (reads) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListByClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)

	ListByProfessional(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListBySalon(
		ctx context.Context,
		salonID uint,
	) ([]models.Appointment, error)

	// -------- Transaction scope --------

	// InProfessionalTx runs fn inside a store transaction that serializes
	// all writes to one professional's timeline, closing the window
	// between availability check and insert.
	InProfessionalTx(
		ctx context.Context,
		professionalID uint,
		fn func(ctx context.Context, tx Repository) error,
	) error
}
