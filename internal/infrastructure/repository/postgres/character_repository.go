package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gw2hardcore/contest-server/internal/domain/character"
	qb "github.com/gw2hardcore/contest-server/internal/platform/querybuilder"
)

type CharacterRepository struct {
	db *sqlx.DB
}

func NewCharacterRepository(db *sqlx.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func (r *CharacterRepository) GetByName(ctx context.Context, name string) (character.Character, bool, error) {
	query, args, err := qb.Select("*").From("characters").
		Where(
			qb.Expr("LOWER(name) = LOWER(?)", name),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return character.Character{}, false, fmt.Errorf("build get character by name query: %w", err)
	}

	var row characterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return character.Character{}, false, nil
		}
		return character.Character{}, false, fmt.Errorf("get character by name: %w", err)
	}

	return characterFromRow(row), true, nil
}

// GetOrCreate inserts the character under a unique lowercase name index and
// falls back to a read when another submission won the insert race.
func (r *CharacterRepository) GetOrCreate(ctx context.Context, name string, accountID int64, seed character.Seed) (character.Character, error) {
	existing, found, err := r.GetByName(ctx, name)
	if err != nil {
		return character.Character{}, err
	}
	if found {
		return existing, nil
	}

	insertModel := characterInsertModel{
		AccountID:  accountID,
		Name:       name,
		Level:      nullInt(seed.Level),
		Profession: nullString(seed.Profession),
		Score:      0,
	}
	query, args, err := qb.InsertModel("characters", insertModel, "ON CONFLICT DO NOTHING RETURNING *")
	if err != nil {
		return character.Character{}, fmt.Errorf("build create character query: %w", err)
	}

	var row characterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			// Lost the insert race; the winner's row is authoritative.
			winner, found, err := r.GetByName(ctx, name)
			if err != nil {
				return character.Character{}, err
			}
			if !found {
				return character.Character{}, fmt.Errorf("create character: conflict row vanished")
			}
			return winner, nil
		}
		return character.Character{}, fmt.Errorf("create character: %w", err)
	}

	return characterFromRow(row), nil
}

// RecordEvent appends one event and applies its effects in a single
// transaction. The character row is locked with SELECT ... FOR UPDATE so
// concurrent submissions for the same character serialize here: every
// accepted event lands its score delta, and a critical event sets
// disqualified_at only when it is still null. Eligibility rejection is the
// pipeline's job, before this call.
func (r *CharacterRepository) RecordEvent(ctx context.Context, characterID int64, item character.Event, critical bool) (character.RecordOutcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return character.RecordOutcome{}, fmt.Errorf("begin tx record event: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var current characterTableModel
	lockQuery := "SELECT * FROM characters WHERE id = $1 AND deleted_at IS NULL FOR UPDATE"
	if err := tx.GetContext(ctx, &current, lockQuery, characterID); err != nil {
		if isNotFound(err) {
			return character.RecordOutcome{}, fmt.Errorf("record event: character %d not found", characterID)
		}
		return character.RecordOutcome{}, fmt.Errorf("lock character: %w", err)
	}

	insertModel := eventInsertFromDomain(characterID, item)
	insertQuery, insertArgs, err := qb.InsertModel("character_events", insertModel, "RETURNING id, created_at")
	if err != nil {
		return character.RecordOutcome{}, fmt.Errorf("build insert character event query: %w", err)
	}

	var inserted characterEventTableModel
	if err := tx.GetContext(ctx, &inserted, insertQuery, insertArgs...); err != nil {
		return character.RecordOutcome{}, fmt.Errorf("insert character event: %w", err)
	}
	item.ID = inserted.ID
	item.CharacterID = characterID
	item.CreatedAt = inserted.CreatedAt

	update := qb.Update("characters").
		SetExpr("score", "score + ?", item.Points).
		Set("last_zone_id", item.Snapshot.ZoneID).
		Set("last_status_bits", item.Snapshot.StatusBits).
		Set("last_check_at", item.DetectedAt).
		SetExpr("updated_at", "NOW()")
	if critical {
		// The first critical event owns the timestamp; later ones keep it.
		update = update.SetExpr("disqualified_at", "COALESCE(disqualified_at, ?)", item.DetectedAt)
	}
	updateQuery, updateArgs, err := update.
		Where(qb.Eq("id", characterID), qb.IsNull("deleted_at")).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return character.RecordOutcome{}, fmt.Errorf("build update character query: %w", err)
	}

	var updated characterTableModel
	if err := tx.GetContext(ctx, &updated, updateQuery, updateArgs...); err != nil {
		return character.RecordOutcome{}, fmt.Errorf("update character: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return character.RecordOutcome{}, fmt.Errorf("commit record event: %w", err)
	}

	return character.RecordOutcome{
		Event:     item,
		Character: characterFromRow(updated),
	}, nil
}

func (r *CharacterRepository) ListEventsByCharacter(ctx context.Context, characterID int64, limit int) ([]character.Event, error) {
	builder := qb.Select("*").From("character_events").
		Where(
			qb.Eq("character_id", characterID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("detected_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list character events query: %w", err)
	}

	var rows []characterEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list character events: %w", err)
	}

	out := make([]character.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func (r *CharacterRepository) ListRanked(ctx context.Context, limit int) ([]character.Character, error) {
	builder := qb.Select("*").From("characters").
		Where(qb.IsNull("deleted_at")).
		OrderBy("disqualified_at IS NOT NULL", "score DESC", "LOWER(name)")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ranked characters query: %w", err)
	}

	var rows []characterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ranked characters: %w", err)
	}

	out := make([]character.Character, 0, len(rows))
	for _, row := range rows {
		out = append(out, characterFromRow(row))
	}
	return out, nil
}

func characterFromRow(row characterTableModel) character.Character {
	return character.Character{
		ID:             row.ID,
		AccountID:      row.AccountID,
		Name:           row.Name,
		Level:          intPtr(row.Level),
		Profession:     stringPtr(row.Profession),
		LastZoneID:     intPtr(row.LastZoneID),
		LastStatusBits: intPtr(row.LastStatusBits),
		LastCheckAt:    timePtr(row.LastCheckAt),
		Score:          row.Score,
		DisqualifiedAt: timePtr(row.DisqualifiedAt),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func eventInsertFromDomain(characterID int64, item character.Event) characterEventInsertModel {
	snap := item.Snapshot
	model := characterEventInsertModel{
		CharacterID: characterID,
		EventCode:   item.Code,
		Title:       item.Title,
		Points:      item.Points,
		ZoneID:      snap.ZoneID,
		ZoneType:    nullString(snap.ZoneType),
		Profession:  nullInt(snap.Profession),
		EliteSpec:   nullInt(snap.EliteSpec),
		Race:        nullInt(snap.Race),
		StatusBits:  snap.StatusBits,
		GroupType:   nullString(snap.GroupType),
		GroupSize:   nullInt(snap.GroupSize),
		IsCommander: nullBool(snap.IsCommander),
		IsLogin:     nullBool(snap.IsLogin),
		MountIndex:  nullInt(snap.MountIndex),
		DetectedAt:  item.DetectedAt,
	}
	if item.Details != "" {
		model.Details = nullString(&item.Details)
	}
	if snap.Position != nil {
		model.PosX = nullFloat(&snap.Position.X)
		model.PosY = nullFloat(&snap.Position.Y)
		model.PosZ = nullFloat(&snap.Position.Z)
	}
	return model
}

func eventFromRow(row characterEventTableModel) character.Event {
	item := character.Event{
		ID:          row.ID,
		CharacterID: row.CharacterID,
		Code:        row.EventCode,
		Title:       row.Title,
		Points:      row.Points,
		DetectedAt:  row.DetectedAt,
		CreatedAt:   row.CreatedAt,
		Snapshot: character.Snapshot{
			ZoneID:      row.ZoneID,
			ZoneType:    stringPtr(row.ZoneType),
			Profession:  intPtr(row.Profession),
			EliteSpec:   intPtr(row.EliteSpec),
			Race:        intPtr(row.Race),
			StatusBits:  row.StatusBits,
			GroupType:   stringPtr(row.GroupType),
			GroupSize:   intPtr(row.GroupSize),
			IsCommander: boolPtr(row.IsCommander),
			IsLogin:     boolPtr(row.IsLogin),
			MountIndex:  intPtr(row.MountIndex),
		},
	}
	if row.Details.Valid {
		item.Details = row.Details.String
	}
	if row.PosX.Valid && row.PosY.Valid && row.PosZ.Valid {
		item.Snapshot.Position = &character.Position{
			X: row.PosX.Float64,
			Y: row.PosY.Float64,
			Z: row.PosZ.Float64,
		}
	}
	return item
}
