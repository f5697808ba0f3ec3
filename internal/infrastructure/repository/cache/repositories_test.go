package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gw2hardcore/contest-server/internal/domain/event"
	"github.com/gw2hardcore/contest-server/internal/domain/zone"
	basecache "github.com/gw2hardcore/contest-server/internal/platform/cache"
)

type countingEventTypeRepo struct {
	listCalls int
	getCalls  int
	items     []event.TypeDefinition
}

func (r *countingEventTypeRepo) List(_ context.Context) ([]event.TypeDefinition, error) {
	r.listCalls++
	return r.items, nil
}

func (r *countingEventTypeRepo) GetByCode(_ context.Context, code string) (event.TypeDefinition, bool, error) {
	r.getCalls++
	for _, d := range r.items {
		if d.Code == code {
			return d, true, nil
		}
	}
	return event.TypeDefinition{}, false, nil
}

type countingZoneRepo struct {
	getCalls int
	items    []zone.Restriction
}

func (r *countingZoneRepo) List(_ context.Context) ([]zone.Restriction, error) {
	return r.items, nil
}

func (r *countingZoneRepo) GetByZoneID(_ context.Context, zoneID int) (zone.Restriction, bool, error) {
	r.getCalls++
	for _, z := range r.items {
		if z.ZoneID == zoneID {
			return z, true, nil
		}
	}
	return zone.Restriction{}, false, nil
}

func TestEventTypeRepository_ReadThrough(t *testing.T) {
	backing := &countingEventTypeRepo{items: []event.TypeDefinition{
		{Code: "LOGIN", Title: "Login"},
		{Code: "DEAD", Title: "Death", Points: -200, IsCritical: true},
	}}
	repo := NewEventTypeRepository(backing, basecache.NewStore(time.Minute))

	first, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, backing.listCalls, "second list must be served from cache")

	d, found, err := repo.GetByCode(context.Background(), "DEAD")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, d.IsCritical)

	_, _, err = repo.GetByCode(context.Background(), "DEAD")
	require.NoError(t, err)
	require.Equal(t, 1, backing.getCalls)
}

func TestEventTypeRepository_CachesMisses(t *testing.T) {
	backing := &countingEventTypeRepo{}
	repo := NewEventTypeRepository(backing, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		_, found, err := repo.GetByCode(context.Background(), "NOPE")
		require.NoError(t, err)
		require.False(t, found)
	}
	require.Equal(t, 1, backing.getCalls, "misses are cached too")
}

func TestEventTypeRepository_InvalidateDropsSnapshot(t *testing.T) {
	backing := &countingEventTypeRepo{items: []event.TypeDefinition{{Code: "LOGIN", Title: "Login"}}}
	repo := NewEventTypeRepository(backing, basecache.NewStore(time.Minute))

	_, err := repo.List(context.Background())
	require.NoError(t, err)

	repo.Invalidate(context.Background())

	_, err = repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, backing.listCalls, "invalidate must force a reload")
}

func TestForbiddenZoneRepository_ReadThrough(t *testing.T) {
	backing := &countingZoneRepo{items: []zone.Restriction{
		{ZoneID: 50, Name: "Lion's Arch", Class: zone.ClassCity},
	}}
	repo := NewForbiddenZoneRepository(backing, basecache.NewStore(time.Minute))

	z, found, err := repo.GetByZoneID(context.Background(), 50)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Lion's Arch", z.Name)

	_, _, err = repo.GetByZoneID(context.Background(), 50)
	require.NoError(t, err)
	require.Equal(t, 1, backing.getCalls)

	repo.Invalidate(context.Background())

	_, _, err = repo.GetByZoneID(context.Background(), 50)
	require.NoError(t, err)
	require.Equal(t, 2, backing.getCalls)
}
