package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// MemoryStore keeps collections in process memory, in insertion order.
// It backs local development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Record)}
}

// Seed appends records to a collection without any checks.
func (s *MemoryStore) Seed(collection string, recs ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		s.collections[collection] = append(s.collections[collection], rec.Clone())
	}
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("insert", collection, err)
	}
	if len(rec) == 0 {
		return nil, wrap("insert", collection, fmt.Errorf("record must not be empty"))
	}
	stored := rec.Clone()

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], stored)
	s.mu.Unlock()

	return stored.Clone(), nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filter Filter, columns ...string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("query", collection, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0)
	for _, rec := range s.collections[collection] {
		if matches(rec, filter) {
			out = append(out, project(rec, columns))
		}
	}
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection string, filter Filter, fields Record) ([]Record, error) {
	if len(filter) == 0 {
		return nil, wrap("update", collection, ErrEmptyFilter)
	}
	if len(fields) == 0 {
		return s.Query(ctx, collection, filter)
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap("update", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0)
	for _, rec := range s.collections[collection] {
		if !matches(rec, filter) {
			continue
		}
		for k, v := range fields {
			rec[k] = v
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	if len(filter) == 0 {
		return nil, wrap("delete", collection, ErrEmptyFilter)
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap("delete", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.collections[collection][:0]
	removed := make([]Record, 0)
	for _, rec := range s.collections[collection] {
		if matches(rec, filter) {
			removed = append(removed, rec.Clone())
			continue
		}
		kept = append(kept, rec)
	}
	s.collections[collection] = kept
	return removed, nil
}

func matches(rec Record, filter Filter) bool {
	for k, want := range filter {
		got, ok := rec[k]
		if !ok || !equalValues(got, want) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func project(rec Record, columns []string) Record {
	if len(columns) == 0 {
		return rec.Clone()
	}
	out := make(Record, len(columns))
	for _, c := range columns {
		if v, ok := rec[c]; ok {
			out[c] = v
		}
	}
	return out
}
