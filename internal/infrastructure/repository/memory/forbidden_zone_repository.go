package memory

import (
	"context"
	"sync"

	"github.com/gw2hardcore/contest-server/internal/domain/zone"
)

type ForbiddenZoneRepository struct {
	mu     sync.RWMutex
	items  map[int]zone.Restriction
	orders []int
}

func NewForbiddenZoneRepository(restrictions []zone.Restriction) *ForbiddenZoneRepository {
	items := make(map[int]zone.Restriction, len(restrictions))
	orders := make([]int, 0, len(restrictions))

	for _, z := range restrictions {
		items[z.ZoneID] = z
		orders = append(orders, z.ZoneID)
	}

	return &ForbiddenZoneRepository{
		items:  items,
		orders: orders,
	}
}

func (r *ForbiddenZoneRepository) List(_ context.Context) ([]zone.Restriction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]zone.Restriction, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *ForbiddenZoneRepository) GetByZoneID(_ context.Context, zoneID int) (zone.Restriction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	z, ok := r.items[zoneID]
	if !ok {
		return zone.Restriction{}, false, nil
	}

	return z, true, nil
}
