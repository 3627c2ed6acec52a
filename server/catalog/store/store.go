// Package store defines the conditional key-value contract the catalog
// persists through. Any backend honoring get, conditional put, conditional
// delete and query is a valid substitute.
package store

import (
	"context"

	"github.com/gear6io/glacier/pkg/errors"
)

// Error codes shared by all store backends. Condition failures are the
// concurrency-control signal and are always kept distinct from transport
// failures, which surface unmodified and are never retried here.
var (
	ErrConditionFailed = errors.MustNewCode("store.condition_failed")
	ErrRecordNotFound  = errors.MustNewCode("store.record_not_found")
	ErrUnavailable     = errors.MustNewCode("store.unavailable")
)

// Key addresses a record by its composite primary key.
type Key struct {
	Identifier string
	Namespace  string
}

// Record is one row of the shared catalog table. Attributes holds every
// column besides the two key columns, all string-typed.
type Record struct {
	Identifier string
	Namespace  string
	Attributes map[string]string
}

// Key returns the record's primary key.
func (r Record) Key() Key {
	return Key{Identifier: r.Identifier, Namespace: r.Namespace}
}

// Condition is a server-evaluated predicate on the key's current state.
type Condition int

const (
	// IfAbsent succeeds only when no record exists under the key.
	IfAbsent Condition = iota
	// IfPresent succeeds only when a record already exists under the key.
	IfPresent
)

func (c Condition) String() string {
	switch c {
	case IfAbsent:
		return "if-absent"
	case IfPresent:
		return "if-present"
	default:
		return "unknown"
	}
}

// Filter selects records for Query. Exactly one field is set: Identifier
// matches on the primary hash column, Namespace on the namespace index.
type Filter struct {
	Identifier string
	Namespace  string
}

// Store is the sole atomicity primitive available to the catalog.
type Store interface {
	// Get returns the record under key, or an ErrRecordNotFound-coded error.
	Get(ctx context.Context, key Key) (Record, error)

	// Put writes the record iff cond holds at apply time; a violated
	// condition yields an ErrConditionFailed-coded error.
	Put(ctx context.Context, rec Record, cond Condition) error

	// Delete removes the record under key iff cond holds at apply time.
	Delete(ctx context.Context, key Key, cond Condition) error

	// Query returns all records matching the filter.
	Query(ctx context.Context, f Filter) ([]Record, error)
}

// IsConditionFailed reports whether err is a condition rejection.
func IsConditionFailed(err error) bool {
	return errors.HasCode(err, ErrConditionFailed)
}

// IsNotFound reports whether err is a missing-record lookup.
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrRecordNotFound)
}
