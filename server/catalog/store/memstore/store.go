// Package memstore provides an in-memory Store for tests and embedded use.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/gear6io/glacier/pkg/errors"
	"github.com/gear6io/glacier/server/catalog/store"
)

// keySep joins the two key columns into one map key. It cannot occur in
// identifiers or namespace names.
const keySep = "\x1f"

// Store implements store.Store with a mutex-guarded map. Condition
// evaluation happens under the write lock, so concurrent callers observe
// the same win-or-conflict semantics as a remote conditional write.
type Store struct {
	mu   sync.RWMutex
	recs map[string]store.Record
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{recs: make(map[string]store.Record)}
}

func mapKey(k store.Key) string {
	return k.Identifier + keySep + k.Namespace
}

func (s *Store) Get(ctx context.Context, key store.Key) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[mapKey(key)]
	if !ok {
		return store.Record{}, errors.New(store.ErrRecordNotFound, "record not found", nil).
			AddContext("identifier", key.Identifier)
	}
	return cloneRecord(rec), nil
}

func (s *Store) Put(ctx context.Context, rec store.Record, cond store.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := mapKey(rec.Key())
	_, exists := s.recs[k]
	if cond == store.IfAbsent && exists {
		return conditionFailed(rec.Key(), cond)
	}
	if cond == store.IfPresent && !exists {
		return conditionFailed(rec.Key(), cond)
	}
	s.recs[k] = cloneRecord(rec)
	return nil
}

func (s *Store) Delete(ctx context.Context, key store.Key, cond store.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := mapKey(key)
	_, exists := s.recs[k]
	if cond == store.IfAbsent && exists {
		return conditionFailed(key, cond)
	}
	if cond == store.IfPresent && !exists {
		return conditionFailed(key, cond)
	}
	delete(s.recs, k)
	return nil
}

// Query scans the map; results come back in key order so tests are
// deterministic.
func (s *Store) Query(ctx context.Context, f store.Filter) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.recs))
	for k := range s.recs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []store.Record
	for _, k := range keys {
		rec := s.recs[k]
		if f.Identifier != "" && rec.Identifier != f.Identifier {
			continue
		}
		if f.Namespace != "" && rec.Namespace != f.Namespace {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

func conditionFailed(key store.Key, cond store.Condition) error {
	return errors.New(store.ErrConditionFailed, "conditional write rejected", nil).
		AddContext("identifier", key.Identifier).
		AddContext("condition", cond.String())
}

func cloneRecord(rec store.Record) store.Record {
	out := store.Record{
		Identifier: rec.Identifier,
		Namespace:  rec.Namespace,
		Attributes: make(map[string]string, len(rec.Attributes)),
	}
	for k, v := range rec.Attributes {
		out.Attributes[k] = v
	}
	return out
}
