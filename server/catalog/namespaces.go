package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"github.com/apache/iceberg-go/table"
	"github.com/gear6io/glacier/pkg/errors"
	"github.com/gear6io/glacier/server/catalog/props"
	"github.com/gear6io/glacier/server/catalog/store"
)

// NamespaceRepository persists namespace records. Uniqueness and
// non-empty-on-delete are enforced here; atomicity is delegated to the
// store's conditional writes.
type NamespaceRepository struct {
	store store.Store
}

// NewNamespaceRepository creates a repository over the given store.
func NewNamespaceRepository(s store.Store) *NamespaceRepository {
	return &NamespaceRepository{store: s}
}

// Create writes a new namespace record with the encoded properties.
// A racing create of the same namespace resolves to exactly one winner.
func (r *NamespaceRepository) Create(ctx context.Context, namespace table.Identifier, properties iceberg.Properties) error {
	if err := validateNamespaceIdent(namespace); err != nil {
		return err
	}

	key := namespaceKey(namespace)
	attrs := props.Encode(properties)
	attrs[props.ColCreatedAt] = nowTimestamp()
	attrs[props.ColUpdatedAt] = attrs[props.ColCreatedAt]

	err := r.store.Put(ctx, store.Record{
		Identifier: key.Identifier,
		Namespace:  key.Namespace,
		Attributes: attrs,
	}, store.IfAbsent)
	if store.IsConditionFailed(err) {
		return icebergcatalog.ErrNamespaceAlreadyExists
	}
	return err
}

// Drop removes an empty namespace. A namespace with at least one
// referencing table cannot be dropped.
func (r *NamespaceRepository) Drop(ctx context.Context, namespace table.Identifier) error {
	if err := validateNamespaceIdent(namespace); err != nil {
		return err
	}

	key := namespaceKey(namespace)
	if _, err := r.store.Get(ctx, key); err != nil {
		if store.IsNotFound(err) {
			return icebergcatalog.ErrNoSuchNamespace
		}
		return err
	}

	recs, err := r.store.Query(ctx, store.Filter{Namespace: key.Namespace})
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.Identifier != namespaceSentinel {
			return icebergcatalog.ErrNamespaceNotEmpty
		}
	}

	err = r.store.Delete(ctx, key, store.IfPresent)
	if store.IsConditionFailed(err) {
		// deleted concurrently between the read and the delete
		return icebergcatalog.ErrNoSuchNamespace
	}
	return err
}

// Exists reports whether the namespace record is present.
func (r *NamespaceRepository) Exists(ctx context.Context, namespace table.Identifier) (bool, error) {
	if err := validateNamespaceIdent(namespace); err != nil {
		return false, err
	}
	_, err := r.store.Get(ctx, namespaceKey(namespace))
	if err != nil {
		if store.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// LoadProperties returns the decoded property mapping; empty, not missing,
// when none are set.
func (r *NamespaceRepository) LoadProperties(ctx context.Context, namespace table.Identifier) (iceberg.Properties, error) {
	if err := validateNamespaceIdent(namespace); err != nil {
		return nil, err
	}
	rec, err := r.store.Get(ctx, namespaceKey(namespace))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, icebergcatalog.ErrNoSuchNamespace
		}
		return nil, err
	}
	return props.Decode(rec.Attributes), nil
}

// List returns all namespace identifiers.
func (r *NamespaceRepository) List(ctx context.Context) ([]table.Identifier, error) {
	recs, err := r.store.Query(ctx, store.Filter{Identifier: namespaceSentinel})
	if err != nil {
		return nil, err
	}
	namespaces := make([]table.Identifier, 0, len(recs))
	for _, rec := range recs {
		namespaces = append(namespaces, stringToNamespace(rec.Namespace))
	}
	return namespaces, nil
}

// UpdateProperties applies removals and updates in one conditional write.
// A request whose removal and update key sets intersect is rejected
// wholesale before any mutation. Removal keys that are absent are reported
// as missing, not treated as errors.
func (r *NamespaceRepository) UpdateProperties(
	ctx context.Context,
	namespace table.Identifier,
	removals []string,
	updates iceberg.Properties,
) (icebergcatalog.PropertiesUpdateSummary, error) {
	var summary icebergcatalog.PropertiesUpdateSummary

	if err := validateNamespaceIdent(namespace); err != nil {
		return summary, err
	}
	for _, key := range removals {
		if _, ok := updates[key]; ok {
			return summary, errors.New(ErrInvalidInput,
				"conflict between removals and updates for a namespace property", nil).
				AddContext("property", key)
		}
	}

	key := namespaceKey(namespace)
	rec, err := r.store.Get(ctx, key)
	if err != nil {
		if store.IsNotFound(err) {
			return summary, icebergcatalog.ErrNoSuchNamespace
		}
		return summary, err
	}

	attrs := make(map[string]string, len(rec.Attributes))
	for k, v := range rec.Attributes {
		attrs[k] = v
	}
	for _, k := range removals {
		if _, ok := attrs[props.Add(k)]; ok {
			delete(attrs, props.Add(k))
			summary.Removed = append(summary.Removed, k)
		} else {
			summary.Missing = append(summary.Missing, k)
		}
	}
	for k, v := range updates {
		attrs[props.Add(k)] = v
		summary.Updated = append(summary.Updated, k)
	}
	attrs[props.ColUpdatedAt] = nowTimestamp()

	err = r.store.Put(ctx, store.Record{
		Identifier: rec.Identifier,
		Namespace:  rec.Namespace,
		Attributes: attrs,
	}, store.IfPresent)
	if store.IsConditionFailed(err) {
		return icebergcatalog.PropertiesUpdateSummary{}, icebergcatalog.ErrNoSuchNamespace
	}
	if err != nil {
		return icebergcatalog.PropertiesUpdateSummary{}, err
	}
	return summary, nil
}

func nowTimestamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
