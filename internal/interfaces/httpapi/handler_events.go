package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gw2hardcore/contest-server/internal/domain/character"
)

type positionPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type snapshotPayload struct {
	ZoneType    *string          `json:"zone_type,omitempty"`
	Profession  *int             `json:"profession_id,omitempty"`
	EliteSpec   *int             `json:"elite_spec_id,omitempty"`
	Race        *int             `json:"race_id,omitempty"`
	GroupType   *string          `json:"group_type,omitempty"`
	GroupSize   *int             `json:"group_size,omitempty" validate:"omitempty,gte=0"`
	IsCommander *bool            `json:"is_commander,omitempty"`
	IsLogin     *bool            `json:"is_login,omitempty"`
	MountIndex  *int             `json:"mount_index,omitempty" validate:"omitempty,gte=0"`
	Position    *positionPayload `json:"position,omitempty"`
}

type submitEventRequest struct {
	Token      string          `json:"token" validate:"required"`
	Character  string          `json:"character" validate:"required,max=64"`
	EventCode  string          `json:"event_code" validate:"required,max=64"`
	ZoneID     int             `json:"zone_id" validate:"gte=0"`
	StatusBits int             `json:"status_bits" validate:"gte=0"`
	Level      *int            `json:"level,omitempty" validate:"omitempty,gte=1,lte=80"`
	Profession *string         `json:"profession,omitempty" validate:"omitempty,max=32"`
	Details    string          `json:"details,omitempty" validate:"omitempty,max=500"`
	DetectedAt *time.Time      `json:"detected_at,omitempty"`
	Snapshot   snapshotPayload `json:"snapshot"`
}

// SubmitEvent runs one addon report through the ingestion pipeline and
// returns the scoring verdict.
func (h *Handler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitEvent")
	defer span.End()

	var req submitEventRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	verdict, err := h.ingestionService.Ingest(ctx, mapSubmitRequestToReport(req))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapVerdictToDTO(verdict))
}

func mapSubmitRequestToReport(req submitEventRequest) character.Report {
	report := character.Report{
		Token:         req.Token,
		CharacterName: strings.TrimSpace(req.Character),
		EventCode:     req.EventCode,
		ZoneID:        req.ZoneID,
		StatusBits:    req.StatusBits,
		Level:         req.Level,
		Profession:    req.Profession,
		Details:       req.Details,
		Snapshot: character.Snapshot{
			ZoneType:    req.Snapshot.ZoneType,
			Profession:  req.Snapshot.Profession,
			EliteSpec:   req.Snapshot.EliteSpec,
			Race:        req.Snapshot.Race,
			GroupType:   req.Snapshot.GroupType,
			GroupSize:   req.Snapshot.GroupSize,
			IsCommander: req.Snapshot.IsCommander,
			IsLogin:     req.Snapshot.IsLogin,
			MountIndex:  req.Snapshot.MountIndex,
		},
	}
	if req.DetectedAt != nil {
		report.DetectedAt = req.DetectedAt.UTC()
	}
	if req.Snapshot.Position != nil {
		report.Snapshot.Position = &character.Position{
			X: req.Snapshot.Position.X,
			Y: req.Snapshot.Position.Y,
			Z: req.Snapshot.Position.Z,
		}
	}
	return report
}

// GetCharacter returns a character's contest state with its recent events.
func (h *Handler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCharacter")
	defer span.End()

	name := r.PathValue("characterName")
	status, err := h.queryService.GetCharacterStatus(ctx, name)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events := make([]characterEventDTO, 0, len(status.Events))
	for _, e := range status.Events {
		events = append(events, mapCharacterEventToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, struct {
		Character characterDTO        `json:"character"`
		Events    []characterEventDTO `json:"events"`
	}{
		Character: mapCharacterToDTO(status.Character),
		Events:    events,
	})
}

// Leaderboard returns characters ranked by score; disqualified characters
// sort below everyone still in the running.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ranked, err := h.queryService.Leaderboard(ctx, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]leaderboardEntryDTO, 0, len(ranked))
	for i, c := range ranked {
		entries = append(entries, leaderboardEntryDTO{
			Rank:         i + 1,
			Name:         c.Name,
			Level:        c.Level,
			Profession:   c.Profession,
			Score:        c.Score,
			Disqualified: c.IsDisqualified(),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, entries)
}
