// Package memory provides an in-process repository.Store used for tests and
// for running without a database.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/mamadbah2/ganaderia/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store keeps JSON-encoded records per collection.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{collections: map[string]map[string][]byte{}}
}

// FetchAll decodes every record of the collection ordered by id.
func (s *Store) FetchAll(_ context.Context, collection string, out any) error {
	s.mu.RLock()
	records := s.collections[collection]
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	raw := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, records[id])
	}
	s.mu.RUnlock()

	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// Get decodes a single record.
func (s *Store) Get(_ context.Context, collection, id string, out any) error {
	s.mu.RLock()
	data, ok := s.collections[collection][id]
	s.mu.RUnlock()
	if !ok {
		return repository.ErrNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// Save upserts a record.
func (s *Store) Save(_ context.Context, collection, id string, doc any) error {
	if id == "" {
		return fmt.Errorf("save into %s: empty id", collection)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = map[string][]byte{}
	}
	s.collections[collection][id] = data
	return nil
}

// Delete removes a record; missing ids are ignored.
func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

// Close is a no-op.
func (s *Store) Close(context.Context) error {
	return nil
}

// Len returns the number of records held in a collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}
