package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gw2hardcore/contest-server/internal/domain/character"
)

// CharacterRepository keeps characters and their event history in memory.
// RecordEvent serializes per character through a dedicated mutex so two
// concurrent submissions for the same character never interleave between
// reading and updating the score.
type CharacterRepository struct {
	mu          sync.RWMutex
	nextID      int64
	nextEventID int64
	items       map[int64]character.Character
	byName      map[string]int64
	events      map[int64][]character.Event
	locks       map[int64]*sync.Mutex
}

func NewCharacterRepository() *CharacterRepository {
	return &CharacterRepository{
		nextID:      1,
		nextEventID: 1,
		items:       make(map[int64]character.Character),
		byName:      make(map[string]int64),
		events:      make(map[int64][]character.Event),
		locks:       make(map[int64]*sync.Mutex),
	}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *CharacterRepository) GetByName(_ context.Context, name string) (character.Character, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[nameKey(name)]
	if !ok {
		return character.Character{}, false, nil
	}

	return r.items[id], true, nil
}

func (r *CharacterRepository) GetOrCreate(_ context.Context, name string, accountID int64, seed character.Seed) (character.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byName[nameKey(name)]; ok {
		return r.items[id], nil
	}

	now := time.Now().UTC()
	c := character.Character{
		ID:         r.nextID,
		AccountID:  accountID,
		Name:       name,
		Level:      seed.Level,
		Profession: seed.Profession,
		Score:      0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.nextID++
	r.items[c.ID] = c
	r.byName[nameKey(name)] = c.ID
	r.locks[c.ID] = &sync.Mutex{}

	return c, nil
}

func (r *CharacterRepository) RecordEvent(_ context.Context, characterID int64, item character.Event, critical bool) (character.RecordOutcome, error) {
	lock, err := r.characterLock(characterID)
	if err != nil {
		return character.RecordOutcome{}, err
	}
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[characterID]
	if !ok {
		return character.RecordOutcome{}, fmt.Errorf("record event: character %d not found", characterID)
	}

	now := time.Now().UTC()
	item.ID = r.nextEventID
	item.CharacterID = characterID
	item.CreatedAt = now
	r.nextEventID++
	r.events[characterID] = append(r.events[characterID], item)

	c.Score += item.Points
	zoneID := item.Snapshot.ZoneID
	statusBits := item.Snapshot.StatusBits
	detectedAt := item.DetectedAt
	c.LastZoneID = &zoneID
	c.LastStatusBits = &statusBits
	c.LastCheckAt = &detectedAt
	c.UpdatedAt = now
	if critical && c.DisqualifiedAt == nil {
		c.DisqualifiedAt = &detectedAt
	}
	r.items[characterID] = c

	return character.RecordOutcome{Event: item, Character: c}, nil
}

func (r *CharacterRepository) ListEventsByCharacter(_ context.Context, characterID int64, limit int) ([]character.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.events[characterID]
	out := make([]character.Event, len(history))
	copy(out, history)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DetectedAt.Equal(out[j].DetectedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].DetectedAt.After(out[j].DetectedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *CharacterRepository) ListRanked(_ context.Context, limit int) ([]character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]character.Character, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDisqualified() != out[j].IsDisqualified() {
			return !out[i].IsDisqualified()
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return nameKey(out[i].Name) < nameKey(out[j].Name)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *CharacterRepository) characterLock(characterID int64) (*sync.Mutex, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[characterID]
	if !ok {
		return nil, fmt.Errorf("record event: character %d not found", characterID)
	}

	return lock, nil
}
