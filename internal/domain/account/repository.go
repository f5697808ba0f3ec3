package account

import "context"

// Repository describes account persistence needs from use cases.
type Repository interface {
	GetByToken(ctx context.Context, token string) (Account, bool, error)
	GetByAPIKey(ctx context.Context, apiKey string) (Account, bool, error)
	Create(ctx context.Context, item Account) (Account, error)
}
