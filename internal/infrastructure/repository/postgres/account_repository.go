package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gw2hardcore/contest-server/internal/domain/account"
	qb "github.com/gw2hardcore/contest-server/internal/platform/querybuilder"
)

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByToken(ctx context.Context, token string) (account.Account, bool, error) {
	return r.getBy(ctx, qb.Eq("account_token", token), "get account by token")
}

func (r *AccountRepository) GetByAPIKey(ctx context.Context, apiKey string) (account.Account, bool, error) {
	return r.getBy(ctx, qb.Eq("api_key", apiKey), "get account by api key")
}

func (r *AccountRepository) getBy(ctx context.Context, cond qb.Condition, op string) (account.Account, bool, error) {
	query, args, err := qb.Select("*").From("accounts").
		Where(cond, qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return account.Account{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row accountTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return account.Account{}, false, nil
		}
		return account.Account{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return accountFromRow(row), true, nil
}

func (r *AccountRepository) Create(ctx context.Context, item account.Account) (account.Account, error) {
	insertModel := accountInsertModel{
		APIKey:      item.APIKey,
		AccountName: item.AccountName,
		Token:       item.Token,
		Active:      item.Active,
	}
	query, args, err := qb.InsertModel("accounts", insertModel, "RETURNING id, created_at, updated_at")
	if err != nil {
		return account.Account{}, fmt.Errorf("build create account query: %w", err)
	}

	var row accountTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return account.Account{}, fmt.Errorf("create account: %w", err)
	}

	item.ID = row.ID
	item.CreatedAt = row.CreatedAt
	item.UpdatedAt = row.UpdatedAt
	return item, nil
}

func accountFromRow(row accountTableModel) account.Account {
	return account.Account{
		ID:          row.ID,
		APIKey:      row.APIKey,
		AccountName: row.AccountName,
		Token:       row.Token,
		Active:      row.Active,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
