package memory

import (
	"github.com/gw2hardcore/contest-server/internal/domain/event"
	"github.com/gw2hardcore/contest-server/internal/domain/zone"
)

// SeedEventTypes returns the contest rule vocabulary. Points are deltas
// applied to a character's score; critical codes disqualify on first hit.
func SeedEventTypes() []event.TypeDefinition {
	return []event.TypeDefinition{
		{
			Code:        event.CodeLogin,
			Title:       "Logged in",
			Description: "Character came online and reported its state.",
			Category:    "session",
			Points:      0,
			IsCritical:  false,
			Color:       "#8bc34a",
		},
		{
			Code:        event.CodeStatusUpdate,
			Title:       "Status update",
			Description: "Periodic heartbeat with the current character state.",
			Category:    "session",
			Points:      0,
			IsCritical:  false,
			Color:       "#9e9e9e",
		},
		{
			Code:        event.CodeDowned,
			Title:       "Downed",
			Description: "Character entered the downed state.",
			Category:    "combat",
			Points:      -50,
			IsCritical:  true,
			Color:       "#ff9800",
		},
		{
			Code:        event.CodeDead,
			Title:       "Died",
			Description: "Character was defeated.",
			Category:    "combat",
			Points:      -200,
			IsCritical:  true,
			Color:       "#f44336",
		},
		{
			Code:        event.CodeRespawn,
			Title:       "Respawned",
			Description: "Character returned from defeat at a waypoint.",
			Category:    "combat",
			Points:      -10,
			IsCritical:  false,
			Color:       "#03a9f4",
		},
		{
			Code:        event.CodeHealingUsed,
			Title:       "Healing consumable used",
			Description: "Character consumed a restricted healing item.",
			Category:    "rules",
			Points:      -20,
			IsCritical:  false,
			Color:       "#ffc107",
		},
		{
			Code:        event.CodeMountChanged,
			Title:       "Mounted up",
			Description: "Character used a mount, which is not allowed.",
			Category:    "rules",
			Points:      -150,
			IsCritical:  true,
			Color:       "#e91e63",
		},
		{
			Code:        event.CodeMapChanged,
			Title:       "Changed map",
			Description: "Character moved to a different map.",
			Category:    "movement",
			Points:      0,
			IsCritical:  false,
			Color:       "#607d8b",
		},
		{
			Code:        event.CodeForbiddenMap,
			Title:       "Entered forbidden map",
			Description: "Character entered a map that is off-limits for the contest.",
			Category:    "rules",
			Points:      -300,
			IsCritical:  true,
			Color:       "#9c27b0",
		},
		{
			Code:        event.CodeFoodViolation,
			Title:       "Forbidden food buff",
			Description: "Character has an active food or utility buff that is not allowed.",
			Category:    "rules",
			Points:      -100,
			IsCritical:  true,
			Color:       "#795548",
		},
		{
			Code:        event.CodeDisqualification,
			Title:       "Disqualified",
			Description: "Character was removed from the contest by an operator.",
			Category:    "rules",
			Points:      -999,
			IsCritical:  true,
			Color:       "#000000",
		},
	}
}

// SeedForbiddenZones returns the maps that are off-limits during the contest:
// the main cities plus the world-versus-world maps.
func SeedForbiddenZones() []zone.Restriction {
	return []zone.Restriction{
		{ZoneID: 18, Name: "Divinity's Reach", Class: zone.ClassCity},
		{ZoneID: 50, Name: "Lion's Arch", Class: zone.ClassCity},
		{ZoneID: 91, Name: "The Grove", Class: zone.ClassCity},
		{ZoneID: 139, Name: "Rata Sum", Class: zone.ClassCity},
		{ZoneID: 218, Name: "Black Citadel", Class: zone.ClassCity},
		{ZoneID: 326, Name: "Hoelbrak", Class: zone.ClassCity},
		{ZoneID: 38, Name: "Eternal Battlegrounds", Class: zone.ClassWvW},
		{ZoneID: 95, Name: "Alpine Borderlands (Green)", Class: zone.ClassWvW},
		{ZoneID: 96, Name: "Alpine Borderlands (Blue)", Class: zone.ClassWvW},
		{ZoneID: 899, Name: "Obsidian Sanctum", Class: zone.ClassWvW},
		{ZoneID: 1099, Name: "Desert Borderlands", Class: zone.ClassWvW},
	}
}
