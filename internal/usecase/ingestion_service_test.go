package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gw2hardcore/contest-server/internal/domain/account"
	"github.com/gw2hardcore/contest-server/internal/domain/character"
	"github.com/gw2hardcore/contest-server/internal/domain/event"
	"github.com/gw2hardcore/contest-server/internal/infrastructure/repository/memory"
	"github.com/gw2hardcore/contest-server/internal/platform/logging"
)

func newIngestionFixture(t *testing.T) (*IngestionService, *memory.CharacterRepository) {
	t.Helper()

	accounts := memory.NewAccountRepository()
	if _, err := accounts.Create(context.Background(), account.Account{
		APIKey:      "key-1",
		AccountName: "Tester.1234",
		Token:       "token-1",
		Active:      true,
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	characters := memory.NewCharacterRepository()
	eventTypes := memory.NewEventTypeRepository(memory.SeedEventTypes())
	zones := memory.NewForbiddenZoneRepository(memory.SeedForbiddenZones())

	svc := NewIngestionService(accounts, characters, eventTypes, zones, NewEventValidator(), logging.NewNop())
	return svc, characters
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func loginReport(name string) character.Report {
	return character.Report{
		Token:         "token-1",
		CharacterName: name,
		EventCode:     event.CodeLogin,
		ZoneID:        15,
		StatusBits:    event.StateBitAlive,
		DetectedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestIngest_AcceptsLoginAndCreatesCharacter(t *testing.T) {
	svc, characters := newIngestionFixture(t)

	report := loginReport("Brave Soul")
	report.Level = intPtr(3)
	report.Profession = strPtr("Ranger")

	verdict, err := svc.Ingest(context.Background(), report)
	if err != nil {
		t.Fatalf("ingest login: %v", err)
	}
	if verdict.Code != event.CodeLogin {
		t.Fatalf("unexpected code: got=%s want=%s", verdict.Code, event.CodeLogin)
	}
	if verdict.Points != 0 || verdict.Score != 0 {
		t.Fatalf("login must not change score: points=%d score=%d", verdict.Points, verdict.Score)
	}
	if verdict.Disqualified {
		t.Fatalf("login must not disqualify")
	}

	char, found, err := characters.GetByName(context.Background(), "brave soul")
	if err != nil || !found {
		t.Fatalf("character lookup after ingest: found=%v err=%v", found, err)
	}
	if char.Level == nil || *char.Level != 3 {
		t.Fatalf("seed level not applied: %v", char.Level)
	}
}

func TestIngest_CatalogPointsOverrideClientInput(t *testing.T) {
	svc, _ := newIngestionFixture(t)

	report := loginReport("Point Smuggler")
	if _, err := svc.Ingest(context.Background(), report); err != nil {
		t.Fatalf("ingest login: %v", err)
	}

	downed := loginReport("Point Smuggler")
	downed.EventCode = event.CodeDowned
	downed.StatusBits = event.StateBitAlive | event.StateBitDowned

	verdict, err := svc.Ingest(context.Background(), downed)
	if err != nil {
		t.Fatalf("ingest downed: %v", err)
	}
	if verdict.Points != -50 {
		t.Fatalf("downed points must come from catalog: got=%d want=-50", verdict.Points)
	}
	if !verdict.Critical || !verdict.Disqualified {
		t.Fatalf("downed is a critical rule: critical=%v disqualified=%v", verdict.Critical, verdict.Disqualified)
	}
	if verdict.Score != -50 {
		t.Fatalf("unexpected score: got=%d want=-50", verdict.Score)
	}
}

func TestIngest_UnknownTokenRejected(t *testing.T) {
	svc, _ := newIngestionFixture(t)

	report := loginReport("Nobody")
	report.Token = "no-such-token"

	if _, err := svc.Ingest(context.Background(), report); !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
}

func TestIngest_InactiveAccountRejected(t *testing.T) {
	accounts := memory.NewAccountRepository()
	if _, err := accounts.Create(context.Background(), account.Account{
		APIKey: "key-2",
		Token:  "token-2",
		Active: false,
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	svc := NewIngestionService(
		accounts,
		memory.NewCharacterRepository(),
		memory.NewEventTypeRepository(memory.SeedEventTypes()),
		memory.NewForbiddenZoneRepository(memory.SeedForbiddenZones()),
		nil,
		logging.NewNop(),
	)

	report := loginReport("Ghost")
	report.Token = "token-2"

	if _, err := svc.Ingest(context.Background(), report); !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("inactive account must look like an unknown token, got %v", err)
	}
}

func TestIngest_UnknownEventCodeRejected(t *testing.T) {
	svc, _ := newIngestionFixture(t)

	report := loginReport("Confused")
	report.EventCode = "NOT_A_RULE"

	if _, err := svc.Ingest(context.Background(), report); !errors.Is(err, ErrUnknownEventCode) {
		t.Fatalf("expected ErrUnknownEventCode, got %v", err)
	}
}

func TestIngest_EventCodeNormalized(t *testing.T) {
	svc, _ := newIngestionFixture(t)

	report := loginReport("Lower Case")
	report.EventCode = "  login "

	verdict, err := svc.Ingest(context.Background(), report)
	if err != nil {
		t.Fatalf("ingest normalized code: %v", err)
	}
	if verdict.Code != event.CodeLogin {
		t.Fatalf("code not normalized: got=%s", verdict.Code)
	}
}

func TestIngest_ValidationFailureIsItemized(t *testing.T) {
	svc, characters := newIngestionFixture(t)

	report := loginReport("Faker")
	report.EventCode = event.CodeDowned
	report.StatusBits = event.StateBitAlive

	_, err := svc.Ingest(context.Background(), report)

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Reasons) != 1 {
		t.Fatalf("unexpected reason count: got=%d want=1", len(vErr.Reasons))
	}

	if _, found, _ := characters.GetByName(context.Background(), "Faker"); found {
		t.Fatalf("rejected report must not create the character")
	}
}

func TestIngest_MapChangeIntoForbiddenZoneOverridden(t *testing.T) {
	svc, _ := newIngestionFixture(t)

	report := loginReport("City Visitor")
	report.EventCode = event.CodeMapChanged
	report.ZoneID = 50
	report.Snapshot.ZoneType = strPtr("City")

	verdict, err := svc.Ingest(context.Background(), report)
	if err != nil {
		t.Fatalf("ingest forbidden map change: %v", err)
	}
	if verdict.Code != event.CodeForbiddenMap {
		t.Fatalf("expected forbidden override: got=%s", verdict.Code)
	}
	if verdict.Points != -300 || !verdict.Disqualified {
		t.Fatalf("forbidden map change must disqualify at -300: points=%d disqualified=%v", verdict.Points, verdict.Disqualified)
	}
	if verdict.DisqualifiedAt == nil || !verdict.DisqualifiedAt.Equal(report.DetectedAt) {
		t.Fatalf("disqualification timestamp must match detection time: %v", verdict.DisqualifiedAt)
	}
}

func TestIngest_MapChangeIntoOpenZoneStaysPlain(t *testing.T) {
	svc, _ := newIngestionFixture(t)

	report := loginReport("Explorer")
	report.EventCode = event.CodeMapChanged
	report.ZoneID = 15
	report.Snapshot.ZoneType = strPtr("Open World")

	verdict, err := svc.Ingest(context.Background(), report)
	if err != nil {
		t.Fatalf("ingest plain map change: %v", err)
	}
	if verdict.Code != event.CodeMapChanged {
		t.Fatalf("open zone must not be rewritten: got=%s", verdict.Code)
	}
	if verdict.Disqualified {
		t.Fatalf("plain map change must not disqualify")
	}
}

func TestIngest_DisqualifiedCharacterRejectsFurtherEvents(t *testing.T) {
	svc, _ := newIngestionFixture(t)

	dead := loginReport("Fallen Hero")
	dead.EventCode = event.CodeDead
	dead.StatusBits = 0

	verdict, err := svc.Ingest(context.Background(), dead)
	if err != nil {
		t.Fatalf("ingest dead: %v", err)
	}
	if !verdict.Disqualified {
		t.Fatalf("dead must disqualify")
	}

	followUp := loginReport("Fallen Hero")
	if _, err := svc.Ingest(context.Background(), followUp); !errors.Is(err, character.ErrAlreadyDisqualified) {
		t.Fatalf("expected ErrAlreadyDisqualified, got %v", err)
	}
}

func TestIngest_DisqualificationTimestampIsSetOnce(t *testing.T) {
	svc, characters := newIngestionFixture(t)

	downed := loginReport("Double Trouble")
	downed.EventCode = event.CodeDowned
	downed.StatusBits = event.StateBitAlive | event.StateBitDowned

	first, err := svc.Ingest(context.Background(), downed)
	if err != nil {
		t.Fatalf("ingest first critical: %v", err)
	}

	char, _, err := characters.GetByName(context.Background(), "Double Trouble")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if char.DisqualifiedAt == nil || !char.DisqualifiedAt.Equal(*first.DisqualifiedAt) {
		t.Fatalf("stored timestamp must match verdict: %v vs %v", char.DisqualifiedAt, first.DisqualifiedAt)
	}
}

func TestIngest_MissingDetectedAtDefaultsToServerClock(t *testing.T) {
	svc, characters := newIngestionFixture(t)

	fixed := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	report := loginReport("Clockless")
	report.DetectedAt = time.Time{}

	if _, err := svc.Ingest(context.Background(), report); err != nil {
		t.Fatalf("ingest without timestamp: %v", err)
	}

	char, _, err := characters.GetByName(context.Background(), "Clockless")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if char.LastCheckAt == nil || !char.LastCheckAt.Equal(fixed) {
		t.Fatalf("server clock not applied: %v", char.LastCheckAt)
	}
}

func TestIngest_ConcurrentCriticalSubmissionsLoseNoDelta(t *testing.T) {
	svc, characters := newIngestionFixture(t)

	if _, err := svc.Ingest(context.Background(), loginReport("Race Runner")); err != nil {
		t.Fatalf("seed character: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	accepted := make(chan character.Verdict, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			downed := loginReport("Race Runner")
			downed.EventCode = event.CodeDowned
			downed.StatusBits = event.StateBitAlive | event.StateBitDowned

			verdict, err := svc.Ingest(context.Background(), downed)
			if err == nil {
				accepted <- verdict
			} else if !errors.Is(err, character.ErrAlreadyDisqualified) {
				t.Errorf("unexpected ingest error: %v", err)
			}
		}()
	}
	wg.Wait()
	close(accepted)

	var winners int
	timestamps := make(map[time.Time]struct{})
	for verdict := range accepted {
		winners++
		if verdict.DisqualifiedAt == nil {
			t.Fatalf("accepted critical verdict without disqualification timestamp")
		}
		timestamps[*verdict.DisqualifiedAt] = struct{}{}
	}
	if winners < 1 {
		t.Fatalf("at least one critical submission must land")
	}
	if len(timestamps) != 1 {
		t.Fatalf("disqualification timestamp must be set exactly once: saw %d distinct values", len(timestamps))
	}

	char, _, err := characters.GetByName(context.Background(), "Race Runner")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if char.Score != -50*winners {
		t.Fatalf("every accepted delta must land: got=%d want=%d", char.Score, -50*winners)
	}

	history, err := characters.ListEventsByCharacter(context.Background(), char.ID, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(history) != winners+1 {
		t.Fatalf("unexpected event count: got=%d want=%d", len(history), winners+1)
	}
}

func TestIngest_SimultaneousCriticalEventsBothScore(t *testing.T) {
	svc, characters := newIngestionFixture(t)

	if _, err := svc.Ingest(context.Background(), loginReport("Twice Downed")); err != nil {
		t.Fatalf("seed character: %v", err)
	}
	char, _, err := characters.GetByName(context.Background(), "Twice Downed")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	// Two in-flight detections of the same rule break, landing back to back
	// before either result is visible to the client.
	detectedAt := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := characters.RecordEvent(context.Background(), char.ID, character.Event{
				Code:       event.CodeDowned,
				Title:      "Downed",
				Points:     -50,
				DetectedAt: detectedAt.Add(time.Duration(n) * time.Second),
			}, true)
			if err != nil {
				t.Errorf("record critical event: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _, err := characters.GetByName(context.Background(), "Twice Downed")
	if err != nil {
		t.Fatalf("lookup after events: %v", err)
	}
	if got.Score != -100 {
		t.Fatalf("both deltas must land: got=%d want=-100", got.Score)
	}
	if got.DisqualifiedAt == nil {
		t.Fatalf("critical events must disqualify")
	}

	history, err := characters.ListEventsByCharacter(context.Background(), char.ID, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("both events must be recorded: got=%d want=3", len(history))
	}
}
