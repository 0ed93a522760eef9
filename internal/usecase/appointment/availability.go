package appointment

import (
	"context"
	"time"

	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
)

type GetAvailability struct {
	repo  domain.Repository
	cache SlotCache
}

func NewGetAvailability(repo domain.Repository, cache SlotCache) *GetAvailability {
	return &GetAvailability{repo: repo, cache: cache}
}

// Execute lists the free slots for a professional on one day, stepping by
// the service duration across the salon's opening hours. Listings are
// advisory: the create path re-checks availability inside its
// transaction, so a stale cache entry cannot admit a double booking.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetProfessional(ctx, in.SalonID, in.ProfessionalID); err != nil {
		return nil, err
	}
	svc, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	day := in.Date.Format("2006-01-02")
	if slots, ok := uc.cache.Get(ctx, in.ProfessionalID, in.ServiceID, day); ok {
		return slots, nil
	}

	dayStart, err := atClock(in.Date, salon.OpeningTime)
	if err != nil {
		dayStart = in.Date
	}
	dayEnd, err := atClock(in.Date, salon.ClosingTime)
	if err != nil || !dayEnd.After(dayStart) {
		return []domain.TimeSlot{}, nil
	}

	booked, err := uc.repo.ListActiveForDay(ctx, in.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	step := time.Duration(svc.DurationMinutes) * time.Minute
	if step <= 0 {
		return []domain.TimeSlot{}, nil
	}

	slots := []domain.TimeSlot{}
	idx := 0

	for cur := dayStart; !cur.Add(step).After(dayEnd); cur = cur.Add(step) {
		slotStart := cur
		slotEnd := cur.Add(step)

		// booked is sorted by start; skip appointments already behind us.
		for idx < len(booked) && !booked[idx].EndTime.After(slotStart) {
			idx++
		}

		conflict := false
		if idx < len(booked) {
			ap := booked[idx]
			if domain.Overlaps(slotStart, slotEnd, ap.StartTime, ap.EndTime) {
				conflict = true
			}
		}

		if !conflict {
			slots = append(slots, domain.TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	uc.cache.Set(ctx, in.ProfessionalID, in.ServiceID, day, slots)

	return slots, nil
}

// atClock anchors an "15:04" clock string on the given date.
func atClock(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), nil
}
