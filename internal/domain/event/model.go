package event

import (
	"fmt"
	"strings"
)

// Well-known event codes referenced by pipeline logic. The full vocabulary,
// including points and criticality, lives in the catalog and is configuration.
const (
	CodeLogin            = "LOGIN"
	CodeStatusUpdate     = "STATUS_UPDATE"
	CodeDowned           = "DOWNED"
	CodeDead             = "DEAD"
	CodeRespawn          = "RESPAWN"
	CodeMountChanged     = "MOUNT_CHANGED"
	CodeMapChanged       = "MAP_CHANGED"
	CodeForbiddenMap     = "MAP_CHANGED_FORBIDDEN"
	CodeHealingUsed      = "HEALING_USED"
	CodeFoodViolation    = "RULE_FOOD_001"
	CodeDisqualification = "DISQUALIFIED"
)

// Character status bitmask layout reported by the addon.
const (
	StateBitAlive  = 1 << 0
	StateBitDowned = 1 << 1
)

// TypeDefinition is one catalog entry describing how an event code scores.
type TypeDefinition struct {
	Code        string
	Title       string
	Description string
	Category    string
	Points      int
	IsCritical  bool
	Color       string
}

func (d TypeDefinition) Validate() error {
	if strings.TrimSpace(d.Code) == "" {
		return fmt.Errorf("event type code is required")
	}
	if d.Code != NormalizeCode(d.Code) {
		return fmt.Errorf("event type code must be uppercase: %s", d.Code)
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("event type title is required")
	}
	return nil
}

// NormalizeCode maps client-reported codes onto catalog keys. Codes are
// matched case-insensitively and without surrounding whitespace.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
