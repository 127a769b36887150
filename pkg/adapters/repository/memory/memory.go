// Package memory is an in-process ports.KVStore used by tests and local
// development. It mirrors the adapter contract: per-key atomicity via a
// single lock, nothing transactional across keys.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shorterhq/shorter/pkg/core/domain"
)

type KVStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte // ns -> key -> value
}

func New() *KVStore {
	return &KVStore{data: make(map[string]map[string][]byte)}
}

func (s *KVStore) Get(_ context.Context, ns, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[ns][key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *KVStore) Put(_ context.Context, ns, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[ns] == nil {
		s.data[ns] = make(map[string][]byte)
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[ns][key] = v
	return nil
}

func (s *KVStore) Delete(_ context.Context, ns, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[ns], key)
	return nil
}

func (s *KVStore) List(_ context.Context, ns, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.data[ns] {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *KVStore) Close() error { return nil }
