package appointment

import (
	"context"
	"time"

	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
)

// SlotCache holds computed availability listings. NopSlotCache is used
// when no cache backend is configured.
type SlotCache interface {
	Get(ctx context.Context, professionalID, serviceID uint, day string) ([]domain.TimeSlot, bool)
	Set(ctx context.Context, professionalID, serviceID uint, day string, slots []domain.TimeSlot)
	Invalidate(ctx context.Context, professionalID uint, day time.Time)
}

type NopSlotCache struct{}

func (NopSlotCache) Get(context.Context, uint, uint, string) ([]domain.TimeSlot, bool) {
	return nil, false
}
func (NopSlotCache) Set(context.Context, uint, uint, string, []domain.TimeSlot) {}
func (NopSlotCache) Invalidate(context.Context, uint, time.Time)                {}
