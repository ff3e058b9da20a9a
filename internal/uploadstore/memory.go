package uploadstore

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries for the lifetime of the process.
type MemoryStore struct {
	entries *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: cache.New(cache.NoExpiration, 0),
	}
}

func (s *MemoryStore) Put(_ context.Context, documentID, path string) error {
	s.entries.Set(documentID, path, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, documentID string) (string, error) {
	v, ok := s.entries.Get(documentID)
	if !ok {
		return "", ErrNotFound
	}
	return v.(string), nil
}

func (s *MemoryStore) Remove(_ context.Context, documentID string) error {
	s.entries.Delete(documentID)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	s.entries.Flush()
	return nil
}
