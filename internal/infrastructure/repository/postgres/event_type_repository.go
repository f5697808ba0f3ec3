package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gw2hardcore/contest-server/internal/domain/event"
	qb "github.com/gw2hardcore/contest-server/internal/platform/querybuilder"
)

type EventTypeRepository struct {
	db *sqlx.DB
}

func NewEventTypeRepository(db *sqlx.DB) *EventTypeRepository {
	return &EventTypeRepository{db: db}
}

func (r *EventTypeRepository) List(ctx context.Context) ([]event.TypeDefinition, error) {
	query, args, err := qb.Select("*").From("event_types").
		Where(qb.IsNull("deleted_at")).
		OrderBy("code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select event types query: %w", err)
	}

	var rows []eventTypeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select event types: %w", err)
	}

	out := make([]event.TypeDefinition, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventTypeFromRow(row))
	}
	return out, nil
}

func (r *EventTypeRepository) GetByCode(ctx context.Context, code string) (event.TypeDefinition, bool, error) {
	query, args, err := qb.Select("*").From("event_types").
		Where(
			qb.Eq("code", code),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return event.TypeDefinition{}, false, fmt.Errorf("build get event type by code query: %w", err)
	}

	var row eventTypeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.TypeDefinition{}, false, nil
		}
		return event.TypeDefinition{}, false, fmt.Errorf("get event type by code: %w", err)
	}

	return eventTypeFromRow(row), true, nil
}

func eventTypeFromRow(row eventTypeTableModel) event.TypeDefinition {
	return event.TypeDefinition{
		Code:        row.Code,
		Title:       row.Title,
		Description: row.Description,
		Category:    row.Category,
		Points:      row.Points,
		IsCritical:  row.IsCritical,
		Color:       row.Color,
	}
}
