package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gw2hardcore/contest-server/internal/domain/account"
	"github.com/gw2hardcore/contest-server/internal/domain/character"
	"github.com/gw2hardcore/contest-server/internal/domain/event"
	"github.com/gw2hardcore/contest-server/internal/domain/zone"
	"github.com/gw2hardcore/contest-server/internal/platform/logging"
)

// IngestionService runs the event ingestion pipeline: authenticate the
// contestant, resolve the event code against the forbidden-zone table,
// validate the report, load or create the character, reject disqualified
// characters, then persist and score the event as one atomic unit.
//
// Every rejection before the persisting step is side-effect free, so retries
// of rejected submissions are safe. Point deltas always come from the event
// catalog, never from client input.
type IngestionService struct {
	accountRepo   account.Repository
	characterRepo character.Repository
	eventTypes    event.Repository
	zones         zone.Repository
	validator     *EventValidator
	logger        *logging.Logger
	now           func() time.Time
}

func NewIngestionService(
	accountRepo account.Repository,
	characterRepo character.Repository,
	eventTypes event.Repository,
	zones zone.Repository,
	validator *EventValidator,
	logger *logging.Logger,
) *IngestionService {
	if validator == nil {
		validator = NewEventValidator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		accountRepo:   accountRepo,
		characterRepo: characterRepo,
		eventTypes:    eventTypes,
		zones:         zones,
		validator:     validator,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *IngestionService) Ingest(ctx context.Context, report character.Report) (character.Verdict, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	if err := report.Validate(); err != nil {
		return character.Verdict{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	acct, err := s.authenticate(ctx, report.Token)
	if err != nil {
		return character.Verdict{}, err
	}

	code, err := s.resolveCode(ctx, report)
	if err != nil {
		return character.Verdict{}, err
	}

	definition, found, err := s.eventTypes.GetByCode(ctx, code)
	if err != nil {
		return character.Verdict{}, fmt.Errorf("resolve event type %s: %w", code, err)
	}
	if !found {
		return character.Verdict{}, fmt.Errorf("%w: %s", ErrUnknownEventCode, code)
	}

	if reasons := s.validator.Validate(code, report); len(reasons) > 0 {
		return character.Verdict{}, &ValidationError{Reasons: reasons}
	}

	char, err := s.characterRepo.GetOrCreate(ctx, report.CharacterName, acct.ID, character.Seed{
		Level:      report.Level,
		Profession: report.Profession,
	})
	if err != nil {
		return character.Verdict{}, fmt.Errorf("load character %s: %w", report.CharacterName, err)
	}

	if char.IsDisqualified() {
		return character.Verdict{}, fmt.Errorf("%w: %s", character.ErrAlreadyDisqualified, char.Name)
	}

	detectedAt := report.DetectedAt
	if detectedAt.IsZero() {
		detectedAt = s.now().UTC()
	}

	snapshot := report.Snapshot
	snapshot.ZoneID = report.ZoneID
	snapshot.StatusBits = report.StatusBits

	outcome, err := s.characterRepo.RecordEvent(ctx, char.ID, character.Event{
		CharacterID: char.ID,
		Code:        definition.Code,
		Title:       definition.Title,
		Details:     report.Details,
		Points:      definition.Points,
		Snapshot:    snapshot,
		DetectedAt:  detectedAt,
	}, definition.IsCritical)
	if err != nil {
		return character.Verdict{}, fmt.Errorf("record event %s for character %s: %w", definition.Code, char.Name, err)
	}

	if definition.IsCritical {
		s.logger.WarnContext(ctx, "critical event recorded",
			"character", outcome.Character.Name,
			"code", definition.Code,
			"points", definition.Points,
		)
	}

	return character.Verdict{
		Code:           definition.Code,
		Points:         outcome.Event.Points,
		Critical:       definition.IsCritical,
		Disqualified:   outcome.Character.IsDisqualified(),
		DisqualifiedAt: outcome.Character.DisqualifiedAt,
		Score:          outcome.Character.Score,
	}, nil
}

func (s *IngestionService) authenticate(ctx context.Context, token string) (account.Account, error) {
	acct, found, err := s.accountRepo.GetByToken(ctx, token)
	if err != nil {
		return account.Account{}, fmt.Errorf("resolve contest token: %w", err)
	}
	if !found || !acct.Active {
		return account.Account{}, ErrUnknownToken
	}
	return acct, nil
}

// resolveCode normalizes the reported code and applies the forbidden-zone
// override: a map change into a restricted zone is unconditionally rewritten
// to the forbidden variant before catalog resolution, and the original code
// is discarded for the rest of the request.
func (s *IngestionService) resolveCode(ctx context.Context, report character.Report) (string, error) {
	code := event.NormalizeCode(report.EventCode)
	if code != event.CodeMapChanged {
		return code, nil
	}

	restriction, found, err := s.zones.GetByZoneID(ctx, report.ZoneID)
	if err != nil {
		return "", fmt.Errorf("resolve zone restriction for zone %d: %w", report.ZoneID, err)
	}
	if !found {
		return code, nil
	}

	s.logger.InfoContext(ctx, "map change into restricted zone",
		"zone_id", restriction.ZoneID,
		"zone_name", restriction.Name,
		"zone_class", restriction.Class,
	)
	return event.CodeForbiddenMap, nil
}
