package appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
)

type recordingCache struct {
	entries map[string][]domain.TimeSlot
	hits    int
	sets    int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[string][]domain.TimeSlot{}}
}

func (c *recordingCache) key(professionalID, serviceID uint, day string) string {
	return fmt.Sprintf("%d:%d:%s", professionalID, serviceID, day)
}

func (c *recordingCache) Get(_ context.Context, professionalID, serviceID uint, day string) ([]domain.TimeSlot, bool) {
	slots, ok := c.entries[c.key(professionalID, serviceID, day)]
	if ok {
		c.hits++
	}
	return slots, ok
}

func (c *recordingCache) Set(_ context.Context, professionalID, serviceID uint, day string, slots []domain.TimeSlot) {
	c.sets++
	c.entries[c.key(professionalID, serviceID, day)] = slots
}

func (c *recordingCache) Invalidate(_ context.Context, professionalID uint, day time.Time) {
	for k := range c.entries {
		delete(c.entries, k)
	}
}

func availabilityInput() domain.AvailabilityInput {
	return domain.AvailabilityInput{
		SalonID:        1,
		ProfessionalID: 1,
		ServiceID:      1,
		Date:           time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetAvailabilityFullDay(t *testing.T) {
	repo := seededRepo()
	uc := NewGetAvailability(repo, NopSlotCache{})

	slots, err := uc.Execute(context.Background(), availabilityInput())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	// 09:00-18:00 in 30-minute steps.
	if len(slots) != 18 {
		t.Fatalf("%d slots, want 18", len(slots))
	}
	if slots[0].Start != "09:00" || slots[0].End != "09:30" {
		t.Fatalf("first slot = %+v, want 09:00-09:30", slots[0])
	}
	if slots[len(slots)-1].End != "18:00" {
		t.Fatalf("last slot ends %s, want 18:00", slots[len(slots)-1].End)
	}
}

func TestGetAvailabilitySkipsBookedSlots(t *testing.T) {
	repo := seededRepo()
	create := NewCreateAppointment(repo, nil, NopSlotCache{})
	uc := NewGetAvailability(repo, NopSlotCache{})
	ctx := context.Background()

	if _, err := create.Execute(ctx, createInput(at(10, 0), at(10, 30))); err != nil {
		t.Fatalf("create: %v", err)
	}

	slots, err := uc.Execute(ctx, availabilityInput())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(slots) != 17 {
		t.Fatalf("%d slots, want 17", len(slots))
	}
	for _, s := range slots {
		if s.Start == "10:00" {
			t.Fatal("booked slot still listed")
		}
	}
}

func TestGetAvailabilityCancelledDoesNotBlock(t *testing.T) {
	repo := seededRepo()
	create := NewCreateAppointment(repo, nil, NopSlotCache{})
	status := NewUpdateStatus(repo, nil, NopSlotCache{})
	uc := NewGetAvailability(repo, NopSlotCache{})
	ctx := context.Background()

	ap, err := create.Execute(ctx, createInput(at(10, 0), at(10, 30)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := status.Execute(ctx, UpdateStatusInput{
		Principal:     clientPrincipal(),
		AppointmentID: ap.ID,
		NewStatus:     domain.StatusCancelled,
	}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	slots, err := uc.Execute(ctx, availabilityInput())
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(slots) != 18 {
		t.Fatalf("%d slots, want 18 after cancellation", len(slots))
	}
}

func TestGetAvailabilityUsesCache(t *testing.T) {
	repo := seededRepo()
	cache := newRecordingCache()
	uc := NewGetAvailability(repo, cache)
	ctx := context.Background()

	if _, err := uc.Execute(ctx, availabilityInput()); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("%d cache writes, want 1", cache.sets)
	}

	if _, err := uc.Execute(ctx, availabilityInput()); err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("%d cache hits, want 1", cache.hits)
	}
	if cache.sets != 1 {
		t.Fatal("cached listing recomputed")
	}
}

func TestGetAvailabilityUnknownService(t *testing.T) {
	repo := seededRepo()
	uc := NewGetAvailability(repo, NopSlotCache{})

	in := availabilityInput()
	in.ServiceID = 42
	_, err := uc.Execute(context.Background(), in)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
}
