package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"

	"github.com/gw2hardcore/contest-server/internal/domain/event"
	"github.com/gw2hardcore/contest-server/internal/domain/zone"
	"github.com/gw2hardcore/contest-server/internal/platform/logging"
)

// CatalogInvalidator is implemented by read-through catalog repositories that
// can drop their cached snapshot so the next read hits the backing store.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}

// CatalogService exposes the event-type and forbidden-zone catalogs and
// refreshes their read-through caches on demand. Catalog rows are immutable
// during request processing; a refresh swaps the cached snapshot atomically.
type CatalogService struct {
	eventTypes event.Repository
	zones      zone.Repository
	logger     *logging.Logger
}

func NewCatalogService(eventTypes event.Repository, zones zone.Repository, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CatalogService{
		eventTypes: eventTypes,
		zones:      zones,
		logger:     logger,
	}
}

func (s *CatalogService) ListEventTypes(ctx context.Context) ([]event.TypeDefinition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListEventTypes")
	defer span.End()

	items, err := s.eventTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list event types: %w", err)
	}
	return items, nil
}

func (s *CatalogService) ListForbiddenZones(ctx context.Context) ([]zone.Restriction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListForbiddenZones")
	defer span.End()

	items, err := s.zones.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list forbidden zones: %w", err)
	}
	return items, nil
}

// Refresh drops both catalog caches and re-warms them concurrently. Errors
// from either catalog are collected; a failed warm leaves the cache cold
// rather than stale.
func (s *CatalogService) Refresh(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Refresh")
	defer span.End()

	if inv, ok := s.eventTypes.(CatalogInvalidator); ok {
		inv.Invalidate(ctx)
	}
	if inv, ok := s.zones.(CatalogInvalidator); ok {
		inv.Invalidate(ctx)
	}

	var eventErr, zoneErr error
	var wg conc.WaitGroup
	wg.Go(func() {
		_, eventErr = s.eventTypes.List(ctx)
	})
	wg.Go(func() {
		_, zoneErr = s.zones.List(ctx)
	})
	wg.Wait()

	if eventErr != nil {
		return fmt.Errorf("refresh event type catalog: %w", eventErr)
	}
	if zoneErr != nil {
		return fmt.Errorf("refresh forbidden zone catalog: %w", zoneErr)
	}

	s.logger.InfoContext(ctx, "catalog caches refreshed")
	return nil
}
