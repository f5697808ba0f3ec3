package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/gw2hardcore/contest-server/internal/domain/account"
	"github.com/gw2hardcore/contest-server/internal/domain/character"
	"github.com/gw2hardcore/contest-server/internal/domain/event"
	"github.com/gw2hardcore/contest-server/internal/domain/zone"
	"github.com/gw2hardcore/contest-server/internal/platform/logging"
	"github.com/gw2hardcore/contest-server/internal/usecase"
)

type Handler struct {
	ingestionService    *usecase.IngestionService
	registrationService *usecase.RegistrationService
	queryService        *usecase.ContestQueryService
	catalogService      *usecase.CatalogService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	ingestionService *usecase.IngestionService,
	registrationService *usecase.RegistrationService,
	queryService *usecase.ContestQueryService,
	catalogService *usecase.CatalogService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ingestionService:    ingestionService,
		registrationService: registrationService,
		queryService:        queryService,
		catalogService:      catalogService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSONBody(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type accountDTO struct {
	ID          int64     `json:"id"`
	AccountName string    `json:"account_name"`
	Token       string    `json:"token,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func mapAccountToDTO(a account.Account, includeToken bool) accountDTO {
	dto := accountDTO{
		ID:          a.ID,
		AccountName: a.AccountName,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
	}
	if includeToken {
		dto.Token = a.Token
	}
	return dto
}

type characterDTO struct {
	Name           string     `json:"name"`
	Level          *int       `json:"level,omitempty"`
	Profession     *string    `json:"profession,omitempty"`
	LastZoneID     *int       `json:"last_zone_id,omitempty"`
	LastStatusBits *int       `json:"last_status_bits,omitempty"`
	LastCheckAt    *time.Time `json:"last_check_at,omitempty"`
	Score          int        `json:"score"`
	Disqualified   bool       `json:"disqualified"`
	DisqualifiedAt *time.Time `json:"disqualified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func mapCharacterToDTO(c character.Character) characterDTO {
	return characterDTO{
		Name:           c.Name,
		Level:          c.Level,
		Profession:     c.Profession,
		LastZoneID:     c.LastZoneID,
		LastStatusBits: c.LastStatusBits,
		LastCheckAt:    c.LastCheckAt,
		Score:          c.Score,
		Disqualified:   c.IsDisqualified(),
		DisqualifiedAt: c.DisqualifiedAt,
		CreatedAt:      c.CreatedAt,
	}
}

type characterEventDTO struct {
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	Details    string    `json:"details,omitempty"`
	Points     int       `json:"points"`
	ZoneID     int       `json:"zone_id"`
	StatusBits int       `json:"status_bits"`
	DetectedAt time.Time `json:"detected_at"`
}

func mapCharacterEventToDTO(e character.Event) characterEventDTO {
	return characterEventDTO{
		Code:       e.Code,
		Title:      e.Title,
		Details:    e.Details,
		Points:     e.Points,
		ZoneID:     e.Snapshot.ZoneID,
		StatusBits: e.Snapshot.StatusBits,
		DetectedAt: e.DetectedAt,
	}
}

type verdictDTO struct {
	Code           string     `json:"code"`
	Points         int        `json:"points"`
	Critical       bool       `json:"critical"`
	Disqualified   bool       `json:"disqualified"`
	DisqualifiedAt *time.Time `json:"disqualified_at,omitempty"`
	Score          int        `json:"score"`
}

func mapVerdictToDTO(v character.Verdict) verdictDTO {
	return verdictDTO{
		Code:           v.Code,
		Points:         v.Points,
		Critical:       v.Critical,
		Disqualified:   v.Disqualified,
		DisqualifiedAt: v.DisqualifiedAt,
		Score:          v.Score,
	}
}

type leaderboardEntryDTO struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"name"`
	Level        *int    `json:"level,omitempty"`
	Profession   *string `json:"profession,omitempty"`
	Score        int     `json:"score"`
	Disqualified bool    `json:"disqualified"`
}

type eventTypeDTO struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Points      int    `json:"points"`
	IsCritical  bool   `json:"is_critical"`
	Color       string `json:"color,omitempty"`
}

func mapEventTypeToDTO(d event.TypeDefinition) eventTypeDTO {
	return eventTypeDTO{
		Code:        d.Code,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Points:      d.Points,
		IsCritical:  d.IsCritical,
		Color:       d.Color,
	}
}

type forbiddenZoneDTO struct {
	ZoneID int    `json:"zone_id"`
	Name   string `json:"name"`
	Class  string `json:"class,omitempty"`
}

func mapForbiddenZoneToDTO(z zone.Restriction) forbiddenZoneDTO {
	return forbiddenZoneDTO{
		ZoneID: z.ZoneID,
		Name:   z.Name,
		Class:  z.Class,
	}
}
