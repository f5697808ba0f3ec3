package character

import (
	"context"
	"errors"
)

// ErrAlreadyDisqualified rejects submissions for a character whose
// disqualification was already observable when the report arrived. The
// pipeline raises it before RecordEvent; events that were already in flight
// when the critical one landed still record normally.
var ErrAlreadyDisqualified = errors.New("character is disqualified")

// RecordOutcome reports the state a RecordEvent transaction committed.
type RecordOutcome struct {
	Event     Event
	Character Character
}

// Repository describes character persistence needs from use cases.
//
// RecordEvent is the single effectful pipeline step: inside one atomic unit it
// must lock the character, append the event row, apply its point delta to the
// score, set the disqualification timestamp when the definition is critical
// (at most once; an already-set timestamp is never touched), and refresh the
// last-seen snapshot. Implementations serialize concurrent RecordEvent calls
// for the same character so no score delta is lost.
type Repository interface {
	GetByName(ctx context.Context, name string) (Character, bool, error)
	GetOrCreate(ctx context.Context, name string, accountID int64, seed Seed) (Character, error)
	RecordEvent(ctx context.Context, characterID int64, item Event, critical bool) (RecordOutcome, error)
	ListEventsByCharacter(ctx context.Context, characterID int64, limit int) ([]Event, error)
	ListRanked(ctx context.Context, limit int) ([]Character, error)
}

// Seed holds the optional attributes applied when GetOrCreate inserts a new
// character. Score starts at zero and disqualification at null regardless.
type Seed struct {
	Level      *int
	Profession *string
}
