package usecase

import (
	"testing"

	"github.com/gw2hardcore/contest-server/internal/domain/character"
	"github.com/gw2hardcore/contest-server/internal/domain/event"
)

func TestEventValidator_DownedRequiresDownedBit(t *testing.T) {
	v := NewEventValidator()

	report := character.Report{StatusBits: event.StateBitAlive}
	if reasons := v.Validate(event.CodeDowned, report); len(reasons) != 1 {
		t.Fatalf("expected one violation, got %v", reasons)
	}

	report.StatusBits = event.StateBitAlive | event.StateBitDowned
	if reasons := v.Validate(event.CodeDowned, report); len(reasons) != 0 {
		t.Fatalf("downed bit set, expected no violations, got %v", reasons)
	}
}

func TestEventValidator_DeadRequiresAliveBitCleared(t *testing.T) {
	v := NewEventValidator()

	report := character.Report{StatusBits: event.StateBitAlive}
	if reasons := v.Validate(event.CodeDead, report); len(reasons) != 1 {
		t.Fatalf("alive bit set, expected one violation, got %v", reasons)
	}

	report.StatusBits = 0
	if reasons := v.Validate(event.CodeDead, report); len(reasons) != 0 {
		t.Fatalf("dead with alive bit cleared must pass, got %v", reasons)
	}
}

func TestEventValidator_RespawnRequiresAliveBit(t *testing.T) {
	v := NewEventValidator()

	report := character.Report{StatusBits: 0}
	if reasons := v.Validate(event.CodeRespawn, report); len(reasons) != 1 {
		t.Fatalf("expected one violation, got %v", reasons)
	}
}

func TestEventValidator_MountChangeRequiresMountIndex(t *testing.T) {
	v := NewEventValidator()

	report := character.Report{}
	if reasons := v.Validate(event.CodeMountChanged, report); len(reasons) != 1 {
		t.Fatalf("expected one violation, got %v", reasons)
	}

	idx := 2
	report.Snapshot.MountIndex = &idx
	if reasons := v.Validate(event.CodeMountChanged, report); len(reasons) != 0 {
		t.Fatalf("mount index present, expected no violations, got %v", reasons)
	}
}

func TestEventValidator_MapChangeRequiresZoneType(t *testing.T) {
	v := NewEventValidator()

	report := character.Report{}
	if reasons := v.Validate(event.CodeMapChanged, report); len(reasons) != 1 {
		t.Fatalf("expected one violation, got %v", reasons)
	}
	if reasons := v.Validate(event.CodeForbiddenMap, report); len(reasons) != 1 {
		t.Fatalf("forbidden variant shares the requirement, got %v", reasons)
	}

	zoneType := "City"
	report.Snapshot.ZoneType = &zoneType
	if reasons := v.Validate(event.CodeMapChanged, report); len(reasons) != 0 {
		t.Fatalf("zone type present, expected no violations, got %v", reasons)
	}
}

func TestEventValidator_LoginFlagContradiction(t *testing.T) {
	v := NewEventValidator()

	flag := false
	report := character.Report{}
	report.Snapshot.IsLogin = &flag
	if reasons := v.Validate(event.CodeLogin, report); len(reasons) != 1 {
		t.Fatalf("expected one violation, got %v", reasons)
	}

	report.Snapshot.IsLogin = nil
	if reasons := v.Validate(event.CodeLogin, report); len(reasons) != 0 {
		t.Fatalf("absent flag is acceptable, got %v", reasons)
	}
}

func TestEventValidator_UnconstrainedCodesPass(t *testing.T) {
	v := NewEventValidator()

	for _, code := range []string{event.CodeStatusUpdate, event.CodeHealingUsed, event.CodeFoodViolation} {
		if reasons := v.Validate(code, character.Report{}); len(reasons) != 0 {
			t.Fatalf("code %s carries no evidentiary requirement, got %v", code, reasons)
		}
	}
}
