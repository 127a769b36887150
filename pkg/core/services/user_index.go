package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/ports"
)

// UserIndex keeps one KV entry per owner holding the ordered list of codes
// they created, so listing a user's links doesn't scan the whole links
// namespace. It is a derived cache: LinkRecord.OwnerID stays the source of
// truth, and readers drop entries whose record has gone missing.
type UserIndex struct {
	kv ports.KVStore
}

func NewUserIndex(kv ports.KVStore) *UserIndex {
	return &UserIndex{kv: kv}
}

// Append adds a code at the end of the owner's list (most recent last).
func (u *UserIndex) Append(ctx context.Context, ownerID, code string, createdAt int64) error {
	entries, err := u.Entries(ctx, ownerID)
	if err != nil {
		return err
	}
	entries = append(entries, domain.UserIndexEntry{Code: code, CreatedAt: createdAt})
	return u.put(ctx, ownerID, entries)
}

// Entries returns the owner's list in insertion order. A missing index is
// an empty list, not an error.
func (u *UserIndex) Entries(ctx context.Context, ownerID string) ([]domain.UserIndexEntry, error) {
	raw, err := u.kv.Get(ctx, ports.NamespaceIndex, ownerID)
	if domain.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []domain.UserIndexEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding index for %q: %w", ownerID, err)
	}
	return entries, nil
}

// Remove drops the code from the owner's list. Removing an absent code is
// a no-op.
func (u *UserIndex) Remove(ctx context.Context, ownerID, code string) error {
	entries, err := u.Entries(ctx, ownerID)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Code != code {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return u.put(ctx, ownerID, kept)
}

func (u *UserIndex) put(ctx context.Context, ownerID string, entries []domain.UserIndexEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding index for %q: %w", ownerID, err)
	}
	return u.kv.Put(ctx, ports.NamespaceIndex, ownerID, raw)
}
