package character

import (
	"fmt"
	"strings"
	"time"
)

// Character is one in-game avatar being leveled for the contest. Names are
// unique across the whole contest, not per account: the first submission
// under a name wins ownership.
type Character struct {
	ID             int64
	AccountID      int64
	Name           string
	Level          *int
	Profession     *string
	LastZoneID     *int
	LastStatusBits *int
	LastCheckAt    *time.Time
	Score          int
	DisqualifiedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c Character) IsDisqualified() bool {
	return c.DisqualifiedAt != nil
}

// Event is one accepted, append-only record of a game occurrence. Points and
// disqualification effects already applied are never retroactively changed;
// corrections happen by recording a compensating event.
type Event struct {
	ID          int64
	CharacterID int64
	Code        string
	Title       string
	Details     string
	Points      int
	Snapshot    Snapshot
	DetectedAt  time.Time
	CreatedAt   time.Time
}

// Snapshot carries the full addon-reported context stored alongside an event.
type Snapshot struct {
	ZoneID      int
	ZoneType    *string
	Profession  *int
	EliteSpec   *int
	Race        *int
	StatusBits  int
	GroupType   *string
	GroupSize   *int
	IsCommander *bool
	IsLogin     *bool
	MountIndex  *int
	Position    *Position
}

type Position struct {
	X float64
	Y float64
	Z float64
}

// Report is one raw character-update submission from the addon, before any
// catalog resolution.
type Report struct {
	Token         string
	CharacterName string
	EventCode     string
	ZoneID        int
	StatusBits    int
	Level         *int
	Profession    *string
	Snapshot      Snapshot
	Details       string
	DetectedAt    time.Time
}

func (r Report) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return fmt.Errorf("contest token is required")
	}
	if strings.TrimSpace(r.CharacterName) == "" {
		return fmt.Errorf("character name is required")
	}
	if strings.TrimSpace(r.EventCode) == "" {
		return fmt.Errorf("event code is required")
	}
	return nil
}

// Verdict is the pipeline outcome for one accepted event.
type Verdict struct {
	Code           string
	Points         int
	Critical       bool
	Disqualified   bool
	DisqualifiedAt *time.Time
	Score          int
}
