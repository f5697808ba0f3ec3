package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gw2hardcore/contest-server/internal/domain/character"
)

func TestCharacterRepository_GetOrCreateIsCaseInsensitive(t *testing.T) {
	repo := NewCharacterRepository()

	first, err := repo.GetOrCreate(context.Background(), "Brave Soul", 1, character.Seed{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second, err := repo.GetOrCreate(context.Background(), "  BRAVE SOUL ", 2, character.Seed{})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("name lookup must be case-insensitive: %d vs %d", second.ID, first.ID)
	}
	if second.AccountID != 1 {
		t.Fatalf("first submission owns the name, account=%d", second.AccountID)
	}
}

func TestCharacterRepository_RecordEventUpdatesSnapshot(t *testing.T) {
	repo := NewCharacterRepository()
	char, err := repo.GetOrCreate(context.Background(), "Scout", 1, character.Seed{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	detectedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	outcome, err := repo.RecordEvent(context.Background(), char.ID, character.Event{
		Code:       "HEALING_USED",
		Title:      "Healing skill used",
		Points:     -20,
		Snapshot:   character.Snapshot{ZoneID: 15, StatusBits: 1},
		DetectedAt: detectedAt,
	}, false)
	if err != nil {
		t.Fatalf("record event: %v", err)
	}

	got := outcome.Character
	if got.Score != -20 {
		t.Fatalf("unexpected score: got=%d want=-20", got.Score)
	}
	if got.LastZoneID == nil || *got.LastZoneID != 15 {
		t.Fatalf("last zone not updated: %v", got.LastZoneID)
	}
	if got.LastStatusBits == nil || *got.LastStatusBits != 1 {
		t.Fatalf("last status bits not updated: %v", got.LastStatusBits)
	}
	if got.LastCheckAt == nil || !got.LastCheckAt.Equal(detectedAt) {
		t.Fatalf("last check time not updated: %v", got.LastCheckAt)
	}
	if got.IsDisqualified() {
		t.Fatalf("non-critical event must not disqualify")
	}
}

func TestCharacterRepository_CriticalTimestampSetOnce(t *testing.T) {
	repo := NewCharacterRepository()
	char, err := repo.GetOrCreate(context.Background(), "Doomed", 1, character.Seed{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	firstAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	outcome, err := repo.RecordEvent(context.Background(), char.ID, character.Event{
		Code: "DEAD", Title: "Death", Points: -200, DetectedAt: firstAt,
	}, true)
	if err != nil {
		t.Fatalf("record critical event: %v", err)
	}
	if outcome.Character.DisqualifiedAt == nil || !outcome.Character.DisqualifiedAt.Equal(firstAt) {
		t.Fatalf("disqualification timestamp must equal detection time: %v", outcome.Character.DisqualifiedAt)
	}

	outcome, err = repo.RecordEvent(context.Background(), char.ID, character.Event{
		Code: "DOWNED", Title: "Downed", Points: -50, DetectedAt: firstAt.Add(time.Minute),
	}, true)
	if err != nil {
		t.Fatalf("record second critical event: %v", err)
	}
	if outcome.Character.Score != -250 {
		t.Fatalf("both deltas must land: got=%d want=-250", outcome.Character.Score)
	}
	if !outcome.Character.DisqualifiedAt.Equal(firstAt) {
		t.Fatalf("a later critical event must not move the timestamp: %v", outcome.Character.DisqualifiedAt)
	}
}

func TestCharacterRepository_RecordEventUnknownCharacter(t *testing.T) {
	repo := NewCharacterRepository()

	if _, err := repo.RecordEvent(context.Background(), 42, character.Event{Code: "LOGIN"}, false); err == nil {
		t.Fatalf("expected error for unknown character")
	}
}

func TestCharacterRepository_ConcurrentCriticalEventsKeepEveryDelta(t *testing.T) {
	repo := NewCharacterRepository()
	char, err := repo.GetOrCreate(context.Background(), "Contested", 1, character.Seed{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	timestamps := make(map[time.Time]struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			outcome, err := repo.RecordEvent(context.Background(), char.ID, character.Event{
				Code:       "DOWNED",
				Title:      "Downed",
				Points:     -50,
				DetectedAt: time.Date(2026, 3, 1, 9, 0, n, 0, time.UTC),
			}, true)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if outcome.Character.DisqualifiedAt == nil {
				t.Errorf("critical outcome without disqualification timestamp")
				return
			}
			mu.Lock()
			timestamps[*outcome.Character.DisqualifiedAt] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	got, _, err := repo.GetByName(context.Background(), "Contested")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Score != -50*workers {
		t.Fatalf("every delta must land: got=%d want=%d", got.Score, -50*workers)
	}
	if len(timestamps) != 1 {
		t.Fatalf("disqualification timestamp must be set exactly once: saw %d distinct values", len(timestamps))
	}

	history, err := repo.ListEventsByCharacter(context.Background(), char.ID, 0)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(history) != workers {
		t.Fatalf("unexpected event count: got=%d want=%d", len(history), workers)
	}
}

func TestCharacterRepository_ListEventsOrderingAndLimit(t *testing.T) {
	repo := NewCharacterRepository()
	char, err := repo.GetOrCreate(context.Background(), "Historian", 1, character.Seed{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if _, err := repo.RecordEvent(context.Background(), char.ID, character.Event{
			Code:       "STATUS_UPDATE",
			Title:      "Status update",
			DetectedAt: base.Add(time.Duration(i) * time.Minute),
		}, false); err != nil {
			t.Fatalf("record event %d: %v", i, err)
		}
	}

	events, err := repo.ListEventsByCharacter(context.Background(), char.ID, 2)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("limit not applied: got=%d", len(events))
	}
	if !events[0].DetectedAt.After(events[1].DetectedAt) {
		t.Fatalf("events must be newest first: %v then %v", events[0].DetectedAt, events[1].DetectedAt)
	}
}

func TestCharacterRepository_ListRankedTieBreaksByName(t *testing.T) {
	repo := NewCharacterRepository()
	for _, name := range []string{"Zeta", "Alpha"} {
		if _, err := repo.GetOrCreate(context.Background(), name, 1, character.Seed{}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	ranked, err := repo.ListRanked(context.Background(), 0)
	if err != nil {
		t.Fatalf("list ranked: %v", err)
	}
	if ranked[0].Name != "Alpha" || ranked[1].Name != "Zeta" {
		t.Fatalf("equal scores must tie-break by name: %s, %s", ranked[0].Name, ranked[1].Name)
	}
}
