package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/ports"
)

// AccountStore persists registered users, one KV entry per email.
type AccountStore struct {
	kv ports.KVStore
}

func NewAccountStore(kv ports.KVStore) *AccountStore {
	return &AccountStore{kv: kv}
}

func (s *AccountStore) Create(ctx context.Context, acc *domain.Account) error {
	if _, err := s.kv.Get(ctx, ports.NamespaceAccounts, acc.Email); err == nil {
		return domain.ErrEmailTaken
	} else if !domain.IsNotFound(err) {
		return err
	}
	raw, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encoding account %q: %w", acc.Email, err)
	}
	return s.kv.Put(ctx, ports.NamespaceAccounts, acc.Email, raw)
}

func (s *AccountStore) Get(ctx context.Context, email string) (*domain.Account, error) {
	raw, err := s.kv.Get(ctx, ports.NamespaceAccounts, email)
	if err != nil {
		return nil, err
	}
	var acc domain.Account
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, fmt.Errorf("decoding account %q: %w", email, err)
	}
	return &acc, nil
}
