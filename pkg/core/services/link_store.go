package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/ports"
)

// LinkStore is typed access to link records over the KV adapter. One KV
// entry per code, JSON-serialized.
type LinkStore struct {
	kv ports.KVStore
}

func NewLinkStore(kv ports.KVStore) *LinkStore {
	return &LinkStore{kv: kv}
}

// Create writes the record after a best-effort existence check. The check
// and the put are two KV round trips with no mutual exclusion: two
// concurrent creates of the same code can both pass the check, and the last
// writer wins.
func (s *LinkStore) Create(ctx context.Context, rec *domain.LinkRecord) error {
	if _, err := s.kv.Get(ctx, ports.NamespaceLinks, rec.Code); err == nil {
		return domain.ErrConflict
	} else if !domain.IsNotFound(err) {
		return err
	}
	return s.put(ctx, rec)
}

func (s *LinkStore) Get(ctx context.Context, code string) (*domain.LinkRecord, error) {
	raw, err := s.kv.Get(ctx, ports.NamespaceLinks, code)
	if err != nil {
		return nil, err
	}
	var rec domain.LinkRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decoding link record %q: %w", code, err)
	}
	if rec.Code == "" {
		rec.Code = code
	}
	return &rec, nil
}

// Delete returns domain.ErrNotFound when the code has no record, on the
// first call and every call after it.
func (s *LinkStore) Delete(ctx context.Context, code string) error {
	if _, err := s.kv.Get(ctx, ports.NamespaceLinks, code); err != nil {
		return err
	}
	return s.kv.Delete(ctx, ports.NamespaceLinks, code)
}

// IncrementClicks adds one to the stored counter with a read-modify-write.
// Concurrent redirects for the same code can interleave here and lose an
// update; that is the accepted cost of a store with single-key writes only.
func (s *LinkStore) IncrementClicks(ctx context.Context, code string) error {
	rec, err := s.Get(ctx, code)
	if err != nil {
		return err
	}
	rec.Clicks++
	return s.put(ctx, rec)
}

func (s *LinkStore) Codes(ctx context.Context) ([]string, error) {
	return s.kv.List(ctx, ports.NamespaceLinks, "")
}

func (s *LinkStore) put(ctx context.Context, rec *domain.LinkRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding link record %q: %w", rec.Code, err)
	}
	return s.kv.Put(ctx, ports.NamespaceLinks, rec.Code, raw)
}
