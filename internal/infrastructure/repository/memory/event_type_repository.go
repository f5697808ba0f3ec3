package memory

import (
	"context"
	"sync"

	"github.com/gw2hardcore/contest-server/internal/domain/event"
)

type EventTypeRepository struct {
	mu     sync.RWMutex
	items  map[string]event.TypeDefinition
	orders []string
}

func NewEventTypeRepository(definitions []event.TypeDefinition) *EventTypeRepository {
	items := make(map[string]event.TypeDefinition, len(definitions))
	orders := make([]string, 0, len(definitions))

	for _, d := range definitions {
		items[d.Code] = d
		orders = append(orders, d.Code)
	}

	return &EventTypeRepository{
		items:  items,
		orders: orders,
	}
}

func (r *EventTypeRepository) List(_ context.Context) ([]event.TypeDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.TypeDefinition, 0, len(r.orders))
	for _, code := range r.orders {
		out = append(out, r.items[code])
	}

	return out, nil
}

func (r *EventTypeRepository) GetByCode(_ context.Context, code string) (event.TypeDefinition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.items[code]
	if !ok {
		return event.TypeDefinition{}, false, nil
	}

	return d, true, nil
}
