package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gw2hardcore/contest-server/internal/domain/account"
)

type AccountRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]account.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		nextID: 1,
		items:  make(map[int64]account.Account),
	}
}

func (r *AccountRepository) GetByToken(_ context.Context, token string) (account.Account, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.items {
		if a.Token == token {
			return a, true, nil
		}
	}

	return account.Account{}, false, nil
}

func (r *AccountRepository) GetByAPIKey(_ context.Context, apiKey string) (account.Account, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.items {
		if a.APIKey == apiKey {
			return a, true, nil
		}
	}

	return account.Account{}, false, nil
}

func (r *AccountRepository) Create(_ context.Context, item account.Account) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	item.ID = r.nextID
	item.CreatedAt = now
	item.UpdatedAt = now
	r.nextID++
	r.items[item.ID] = item

	return item, nil
}
