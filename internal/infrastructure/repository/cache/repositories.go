package cache

import (
	"context"
	"strconv"

	"github.com/gw2hardcore/contest-server/internal/domain/event"
	"github.com/gw2hardcore/contest-server/internal/domain/zone"
	basecache "github.com/gw2hardcore/contest-server/internal/platform/cache"
)

// EventTypeRepository is a read-through cache in front of the event-type
// catalog. Invalidate drops the cached snapshot so the next read hits the
// backing store.
type EventTypeRepository struct {
	next  event.Repository
	cache *basecache.Store
}

func NewEventTypeRepository(next event.Repository, cache *basecache.Store) *EventTypeRepository {
	return &EventTypeRepository{next: next, cache: cache}
}

func (r *EventTypeRepository) List(ctx context.Context) ([]event.TypeDefinition, error) {
	v, err := r.cache.GetOrLoad(ctx, "eventtype:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]event.TypeDefinition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]event.TypeDefinition)
	return append([]event.TypeDefinition(nil), items...), nil
}

func (r *EventTypeRepository) GetByCode(ctx context.Context, code string) (event.TypeDefinition, bool, error) {
	key := "eventtype:code:" + code
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		return cachedEventType{value: item, exists: exists}, nil
	})
	if err != nil {
		return event.TypeDefinition{}, false, err
	}

	cached, _ := v.(cachedEventType)
	return cached.value, cached.exists, nil
}

func (r *EventTypeRepository) Invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, "eventtype:")
}

type cachedEventType struct {
	value  event.TypeDefinition
	exists bool
}

// ForbiddenZoneRepository is a read-through cache in front of the
// forbidden-zone catalog.
type ForbiddenZoneRepository struct {
	next  zone.Repository
	cache *basecache.Store
}

func NewForbiddenZoneRepository(next zone.Repository, cache *basecache.Store) *ForbiddenZoneRepository {
	return &ForbiddenZoneRepository{next: next, cache: cache}
}

func (r *ForbiddenZoneRepository) List(ctx context.Context) ([]zone.Restriction, error) {
	v, err := r.cache.GetOrLoad(ctx, "zone:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]zone.Restriction(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]zone.Restriction)
	return append([]zone.Restriction(nil), items...), nil
}

func (r *ForbiddenZoneRepository) GetByZoneID(ctx context.Context, zoneID int) (zone.Restriction, bool, error) {
	key := "zone:id:" + strconv.Itoa(zoneID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByZoneID(ctx, zoneID)
		if err != nil {
			return nil, err
		}
		return cachedZone{value: item, exists: exists}, nil
	})
	if err != nil {
		return zone.Restriction{}, false, err
	}

	cached, _ := v.(cachedZone)
	return cached.value, cached.exists, nil
}

func (r *ForbiddenZoneRepository) Invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, "zone:")
}

type cachedZone struct {
	value  zone.Restriction
	exists bool
}
