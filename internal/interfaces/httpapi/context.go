package httpapi

import (
	"context"

	"github.com/gw2hardcore/contest-server/internal/domain/account"
)

type contextKey string

const accountContextKey contextKey = "contest_account"

func withAccount(ctx context.Context, a account.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, a)
}

func accountFromContext(ctx context.Context) (account.Account, bool) {
	a, ok := ctx.Value(accountContextKey).(account.Account)
	return a, ok
}
