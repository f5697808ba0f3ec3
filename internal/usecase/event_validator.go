package usecase

import (
	"github.com/gw2hardcore/contest-server/internal/domain/character"
	"github.com/gw2hardcore/contest-server/internal/domain/event"
)

// EventValidator cross-checks an event report against the minimal evidence
// each event type requires. The checks are keyed by the resolved code because
// every type has a different evidentiary requirement; the state-bit checks
// catch spoofed or malformed client reports without replaying game state
// server side.
type EventValidator struct{}

func NewEventValidator() *EventValidator {
	return &EventValidator{}
}

// Validate returns an empty slice when the report is structurally consistent
// with the resolved code, or the itemized human-readable violations otherwise.
// It never mutates anything.
func (v *EventValidator) Validate(resolvedCode string, report character.Report) []string {
	var reasons []string

	switch resolvedCode {
	case event.CodeLogin:
		if report.Snapshot.IsLogin != nil && !*report.Snapshot.IsLogin {
			reasons = append(reasons, "Login event submitted with login flag set to false")
		}
	case event.CodeDowned:
		if report.StatusBits&event.StateBitDowned == 0 {
			reasons = append(reasons, "State bit does not indicate DOWNED")
		}
	case event.CodeDead:
		if report.StatusBits&event.StateBitAlive != 0 {
			reasons = append(reasons, "State bit still indicates the character is alive")
		}
	case event.CodeRespawn:
		if report.StatusBits&event.StateBitAlive == 0 {
			reasons = append(reasons, "State bit does not indicate the character is alive")
		}
	case event.CodeMountChanged:
		if report.Snapshot.MountIndex == nil {
			reasons = append(reasons, "Mount change reported without a mount index")
		}
	case event.CodeMapChanged, event.CodeForbiddenMap:
		if report.Snapshot.ZoneType == nil || *report.Snapshot.ZoneType == "" {
			reasons = append(reasons, "Map change reported without zone type metadata")
		}
	}

	return reasons
}
