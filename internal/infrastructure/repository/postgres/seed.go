package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gw2hardcore/contest-server/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the rule vocabulary and forbidden-zone list on first
// boot. It is a no-op once the event_types table has rows, so operator edits
// made after launch survive restarts.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM event_types WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count event types for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, d := range memory.SeedEventTypes() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO event_types (code, title, description, category, points, is_critical, color)
VALUES (:code, :title, :description, :category, :points, :is_critical, :color)
ON CONFLICT (code) DO NOTHING`, map[string]any{
			"code":        d.Code,
			"title":       d.Title,
			"description": d.Description,
			"category":    d.Category,
			"points":      d.Points,
			"is_critical": d.IsCritical,
			"color":       d.Color,
		})
		if err != nil {
			return fmt.Errorf("bind seed event type %s query: %w", d.Code, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed event type %s: %w", d.Code, err)
		}
	}

	for _, z := range memory.SeedForbiddenZones() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO forbidden_zones (zone_id, name, class)
VALUES (:zone_id, :name, :class)
ON CONFLICT (zone_id) DO NOTHING`, map[string]any{
			"zone_id": z.ZoneID,
			"name":    z.Name,
			"class":   z.Class,
		})
		if err != nil {
			return fmt.Errorf("bind seed forbidden zone %d query: %w", z.ZoneID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed forbidden zone %d: %w", z.ZoneID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
