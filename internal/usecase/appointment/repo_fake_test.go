package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agendaplus/salon-scheduler/internal/access"
	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
	"github.com/agendaplus/salon-scheduler/internal/models"
)

// memRepo is an in-memory Repository. InProfessionalTx takes a single
// mutex, mirroring the per-professional serialization of the real store,
// which makes the concurrency tests deterministic.
type memRepo struct {
	mu sync.Mutex

	salons        map[uint]*models.Salon
	professionals map[uint]*models.Professional
	services      map[uint]*models.Service
	clients       map[uint]*models.Client
	appointments  map[uint]*models.Appointment

	nextID uint
}

func newMemRepo() *memRepo {
	return &memRepo{
		salons:        map[uint]*models.Salon{},
		professionals: map[uint]*models.Professional{},
		services:      map[uint]*models.Service{},
		clients:       map[uint]*models.Client{},
		appointments:  map[uint]*models.Appointment{},
		nextID:        1,
	}
}

// seededRepo returns a repo with salon 1 (09:00-18:00), professional 1,
// a 30-minute service 1 and client 1, plus a second tenant (salon 2,
// professional 20, client 50) for cross-tenant cases.
func seededRepo() *memRepo {
	r := newMemRepo()

	r.salons[1] = &models.Salon{
		Name:        "Studio Um",
		OpeningTime: "09:00",
		ClosingTime: "18:00",
	}
	r.salons[1].ID = 1
	r.salons[2] = &models.Salon{
		Name:        "Studio Dois",
		OpeningTime: "09:00",
		ClosingTime: "18:00",
	}
	r.salons[2].ID = 2

	r.professionals[1] = &models.Professional{SalonID: 1, Name: "Ana"}
	r.professionals[1].ID = 1
	r.professionals[20] = &models.Professional{SalonID: 2, Name: "Bia"}
	r.professionals[20].ID = 20

	r.services[1] = &models.Service{SalonID: 1, Name: "Corte", DurationMinutes: 30, Active: true}
	r.services[1].ID = 1

	r.clients[1] = &models.Client{SalonID: 1, Name: "Carlos"}
	r.clients[1].ID = 1
	r.clients[50] = &models.Client{SalonID: 2, Name: "Duda"}
	r.clients[50].ID = 50

	return r
}

func (r *memRepo) GetSalonByID(_ context.Context, id uint) (*models.Salon, error) {
	s, ok := r.salons[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "salon", ID: id}
	}
	return s, nil
}

func (r *memRepo) GetProfessional(_ context.Context, salonID, id uint) (*models.Professional, error) {
	p, ok := r.professionals[id]
	if !ok || p.SalonID != salonID {
		return nil, &domain.NotFoundError{Entity: "professional", ID: id}
	}
	return p, nil
}

func (r *memRepo) GetService(_ context.Context, salonID, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok || s.SalonID != salonID {
		return nil, &domain.NotFoundError{Entity: "service", ID: id}
	}
	return s, nil
}

func (r *memRepo) GetClient(_ context.Context, salonID, id uint) (*models.Client, error) {
	c, ok := r.clients[id]
	if !ok || c.SalonID != salonID {
		return nil, &domain.NotFoundError{Entity: "client", ID: id}
	}
	return c, nil
}

func (r *memRepo) FindConflict(_ context.Context, professionalID uint, start, end time.Time, excludeID uint) (*models.Appointment, error) {
	var found *models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID != professionalID || ap.ID == excludeID {
			continue
		}
		if domain.IsTerminal(domain.Status(ap.Status)) {
			continue
		}
		if !domain.Overlaps(start, end, ap.StartTime, ap.EndTime) {
			continue
		}
		if found == nil || ap.ID < found.ID {
			found = ap
		}
	}
	return found, nil
}

func (r *memRepo) ListActiveForDay(_ context.Context, professionalID uint, dayStart, dayEnd time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID != professionalID {
			continue
		}
		if domain.IsTerminal(domain.Status(ap.Status)) {
			continue
		}
		if !domain.Overlaps(dayStart, dayEnd, ap.StartTime, ap.EndTime) {
			continue
		}
		out = append(out, *ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	ap.ID = r.nextID
	r.nextID++
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := r.appointments[ap.ID]; !ok {
		return &domain.NotFoundError{Entity: "appointment", ID: ap.ID}
	}
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *memRepo) DeleteAppointment(_ context.Context, id uint) error {
	if _, ok := r.appointments[id]; !ok {
		return &domain.NotFoundError{Entity: "appointment", ID: id}
	}
	delete(r.appointments, id)
	return nil
}

func (r *memRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "appointment", ID: id}
	}
	cp := *ap
	return &cp, nil
}

func (r *memRepo) ListByClient(_ context.Context, clientID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ClientID == clientID {
			out = append(out, *ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memRepo) ListByProfessional(_ context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID != professionalID {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, *ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memRepo) ListBySalon(_ context.Context, salonID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.SalonID == salonID {
			out = append(out, *ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memRepo) InProfessionalTx(ctx context.Context, _ uint, fn func(ctx context.Context, tx domain.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx, r)
}

var _ domain.Repository = (*memRepo)(nil)

// ----- shared fixtures -----

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func clientPrincipal() access.Principal {
	return access.Principal{Role: access.RoleClient, ID: 1, SalonID: 1}
}

func salonPrincipal() access.Principal {
	return access.Principal{Role: access.RoleSalon, ID: 1, SalonID: 1}
}

func proPrincipal() access.Principal {
	return access.Principal{Role: access.RoleProfessional, ID: 1, SalonID: 1}
}
