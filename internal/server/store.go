package server

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

const (
	CollectionUsers    = "users"
	CollectionTokens   = "tokens"
	CollectionServices = "services"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrExists   = errors.New("record already exists")
)

// Store keeps JSON documents addressed by (collection, key).
//
// Read returns "" with a nil error when the record does not exist.
type Store interface {
	Read(ctx context.Context, collection, key string) (string, error)
	Create(ctx context.Context, collection, key, payload string) error
	Update(ctx context.Context, collection, key, payload string) error
	Delete(ctx context.Context, collection, key string) error
	List(ctx context.Context, collection string) ([]string, error)
}

// MemoryStore is a Store for tests and for running without a database.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]map[string]string{}}
}

func (s *MemoryStore) Read(_ context.Context, collection, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[collection][key], nil
}

func (s *MemoryStore) Create(_ context.Context, collection, key, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.records[collection]
	if c == nil {
		c = map[string]string{}
		s.records[collection] = c
	}
	if _, ok := c[key]; ok {
		return ErrExists
	}
	c[key] = payload
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, key, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.records[collection]
	if _, ok := c[key]; !ok {
		return ErrNotFound
	}
	c[key] = payload
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.records[collection]
	if _, ok := c[key]; !ok {
		return ErrNotFound
	}
	delete(c, key)
	return nil
}

func (s *MemoryStore) List(_ context.Context, collection string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.records[collection]))
	for k := range s.records[collection] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
