// Package store is the record store adapter: typed-agnostic create, query,
// update and delete over named collections with equality filters.
package store

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Record is a single stored row keyed by column name.
type Record map[string]any

// String returns the value stored under key rendered as a string.
// Missing keys and nil values yield "".
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.DateOnly)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Keys returns the record's column names in sorted order.
func (r Record) Keys() []string {
	return sortedKeys(r)
}

// Filter matches records whose columns equal every given value.
type Filter map[string]any

// Keys returns the filter's column names in sorted order.
func (f Filter) Keys() []string {
	return sortedKeys(f)
}

// Store is implemented by every backend. Each call is a single remote
// operation; there is no cross-call atomicity.
type Store interface {
	// Insert stores rec in collection and returns the stored record.
	Insert(ctx context.Context, collection string, rec Record) (Record, error)
	// Query returns all records matching filter. When columns are given only
	// those columns are returned.
	Query(ctx context.Context, collection string, filter Filter, columns ...string) ([]Record, error)
	// Update applies fields to all records matching filter and returns them.
	// An empty fields set changes nothing and returns the current records.
	Update(ctx context.Context, collection string, filter Filter, fields Record) ([]Record, error)
	// Delete removes all records matching filter and returns what was removed.
	Delete(ctx context.Context, collection string, filter Filter) ([]Record, error)
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
