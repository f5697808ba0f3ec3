package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gw2hardcore/contest-server/internal/domain/zone"
	qb "github.com/gw2hardcore/contest-server/internal/platform/querybuilder"
)

type ForbiddenZoneRepository struct {
	db *sqlx.DB
}

func NewForbiddenZoneRepository(db *sqlx.DB) *ForbiddenZoneRepository {
	return &ForbiddenZoneRepository{db: db}
}

func (r *ForbiddenZoneRepository) List(ctx context.Context) ([]zone.Restriction, error) {
	query, args, err := qb.Select("*").From("forbidden_zones").
		Where(qb.IsNull("deleted_at")).
		OrderBy("zone_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select forbidden zones query: %w", err)
	}

	var rows []forbiddenZoneTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select forbidden zones: %w", err)
	}

	out := make([]zone.Restriction, 0, len(rows))
	for _, row := range rows {
		out = append(out, forbiddenZoneFromRow(row))
	}
	return out, nil
}

func (r *ForbiddenZoneRepository) GetByZoneID(ctx context.Context, zoneID int) (zone.Restriction, bool, error) {
	query, args, err := qb.Select("*").From("forbidden_zones").
		Where(
			qb.Eq("zone_id", zoneID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return zone.Restriction{}, false, fmt.Errorf("build get forbidden zone query: %w", err)
	}

	var row forbiddenZoneTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return zone.Restriction{}, false, nil
		}
		return zone.Restriction{}, false, fmt.Errorf("get forbidden zone: %w", err)
	}

	return forbiddenZoneFromRow(row), true, nil
}

func forbiddenZoneFromRow(row forbiddenZoneTableModel) zone.Restriction {
	return zone.Restriction{
		ZoneID: row.ZoneID,
		Name:   row.Name,
		Class:  row.Class,
	}
}
