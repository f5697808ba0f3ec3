package httpapi

import (
	"net/http"
)

// ListEventTypes publishes the rule vocabulary so clients can render titles,
// colors and point values without hardcoding them.
func (h *Handler) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventTypes")
	defer span.End()

	items, err := h.catalogService.ListEventTypes(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]eventTypeDTO, 0, len(items))
	for _, item := range items {
		out = append(out, mapEventTypeToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListForbiddenZones(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListForbiddenZones")
	defer span.End()

	items, err := h.catalogService.ListForbiddenZones(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]forbiddenZoneDTO, 0, len(items))
	for _, item := range items {
		out = append(out, mapForbiddenZoneToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// RefreshCatalog drops and re-warms both catalog caches. Guarded by the
// internal job token; operators call it after editing catalog rows.
func (h *Handler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshCatalog")
	defer span.End()

	if err := h.catalogService.Refresh(ctx); err != nil {
		h.logger.ErrorContext(ctx, "catalog refresh failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "refreshed"})
}
