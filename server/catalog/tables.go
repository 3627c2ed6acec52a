package catalog

import (
	"context"

	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"github.com/apache/iceberg-go/table"
	"github.com/gear6io/glacier/pkg/errors"
	"github.com/gear6io/glacier/server/catalog/props"
	"github.com/gear6io/glacier/server/catalog/store"
	"github.com/rs/zerolog"
)

// TableTypeMarker is the sentinel identifying records managed by this
// catalog. Any other value, or its absence, classifies the record as not a
// table of this format. External readers depend on this value.
const TableTypeMarker = "ICEBERG"

// TableRecord is a loaded table record: the identifier plus the stored
// metadata-location pointer.
type TableRecord struct {
	Identifier       table.Identifier
	MetadataLocation string
	CreatedAt        string
}

// TableRepository persists table records under the combined
// "<namespace>.<table>" key. Namespace existence is the facade's concern;
// everything keyed here is enforced through conditional writes.
type TableRepository struct {
	store  store.Store
	logger zerolog.Logger
}

// NewTableRepository creates a repository over the given store.
func NewTableRepository(s store.Store, logger zerolog.Logger) *TableRepository {
	return &TableRepository{store: s, logger: logger}
}

// Create writes a new table record pointing at metadataLocation. The
// if-absent condition makes racing creates resolve to one winner.
func (r *TableRepository) Create(ctx context.Context, identifier table.Identifier, metadataLocation string) error {
	if err := validateTableIdent(identifier); err != nil {
		return err
	}

	key := tableKey(identifier)
	now := nowTimestamp()
	err := r.store.Put(ctx, store.Record{
		Identifier: key.Identifier,
		Namespace:  key.Namespace,
		Attributes: map[string]string{
			props.ColCreatedAt:                now,
			props.ColUpdatedAt:                now,
			props.Add(props.TableType):        TableTypeMarker,
			props.Add(props.MetadataLocation): metadataLocation,
		},
	}, store.IfAbsent)
	if store.IsConditionFailed(err) {
		return icebergcatalog.ErrTableAlreadyExists
	}
	return err
}

// Load returns the table record, rejecting records that are present but not
// managed by this catalog.
func (r *TableRepository) Load(ctx context.Context, identifier table.Identifier) (TableRecord, error) {
	if err := validateTableIdent(identifier); err != nil {
		return TableRecord{}, err
	}

	rec, err := r.store.Get(ctx, tableKey(identifier))
	if err != nil {
		if store.IsNotFound(err) {
			return TableRecord{}, icebergcatalog.ErrNoSuchTable
		}
		return TableRecord{}, err
	}
	return recordToTable(identifier, rec)
}

// Exists reports whether Load would succeed.
func (r *TableRepository) Exists(ctx context.Context, identifier table.Identifier) (bool, error) {
	_, err := r.Load(ctx, identifier)
	if err == nil {
		return true, nil
	}
	if err == icebergcatalog.ErrNoSuchTable || IsInvalidTable(err) {
		return false, nil
	}
	return false, err
}

// Drop deletes the table record.
func (r *TableRepository) Drop(ctx context.Context, identifier table.Identifier) error {
	if err := validateTableIdent(identifier); err != nil {
		return err
	}

	err := r.store.Delete(ctx, tableKey(identifier), store.IfPresent)
	if store.IsConditionFailed(err) {
		return icebergcatalog.ErrNoSuchTable
	}
	return err
}

// Rename re-keys a table without touching its metadata-location. It is a
// two-step saga: insert the record under the new key, then delete the old
// one. A failure of the second step leaves a stale duplicate under the old
// key; the rename's observable effect has already happened, so the failure
// is logged and reported through RepairRename rather than rolled back.
func (r *TableRepository) Rename(ctx context.Context, from, to table.Identifier) error {
	if err := validateTableIdent(from); err != nil {
		return err
	}
	if err := validateTableIdent(to); err != nil {
		return err
	}

	fromKey := tableKey(from)
	rec, err := r.store.Get(ctx, fromKey)
	if err != nil {
		if store.IsNotFound(err) {
			return icebergcatalog.ErrNoSuchTable
		}
		return err
	}
	// legacy or partial records: every bookkeeping attribute must be present
	// before the marker value is even judged
	for _, attr := range []string{props.ColCreatedAt, props.Add(props.TableType), props.Add(props.MetadataLocation)} {
		if _, ok := rec.Attributes[attr]; !ok {
			return errors.New(ErrPropertyMissing, "table record lacks a required bookkeeping attribute", nil).
				AddContext("identifier", fromKey.Identifier).
				AddContext("attribute", attr)
		}
	}
	loaded, err := recordToTable(from, rec)
	if err != nil {
		return err
	}

	toKey := tableKey(to)
	err = r.store.Put(ctx, store.Record{
		Identifier: toKey.Identifier,
		Namespace:  toKey.Namespace,
		Attributes: map[string]string{
			props.ColCreatedAt:                loaded.CreatedAt,
			props.ColUpdatedAt:                nowTimestamp(),
			props.Add(props.TableType):        TableTypeMarker,
			props.Add(props.MetadataLocation): loaded.MetadataLocation,
		},
	}, store.IfAbsent)
	if store.IsConditionFailed(err) {
		return icebergcatalog.ErrTableAlreadyExists
	}
	if err != nil {
		return err
	}

	if err := r.store.Delete(ctx, fromKey, store.IfPresent); err != nil {
		r.logger.Warn().
			Str("from", fromKey.Identifier).
			Str("to", toKey.Identifier).
			Err(err).
			Msg("rename left a stale source record; run RepairRename to reconcile")
	}
	return nil
}

// RepairRename removes a stale source record left behind by an interrupted
// rename. It only deletes when the source still points at the same
// metadata-location as the destination, so an unrelated re-created table is
// never touched.
func (r *TableRepository) RepairRename(ctx context.Context, from, to table.Identifier) error {
	stale, err := r.Load(ctx, from)
	if err != nil {
		if err == icebergcatalog.ErrNoSuchTable {
			return nil // nothing to repair
		}
		return err
	}
	current, err := r.Load(ctx, to)
	if err != nil {
		return err
	}
	if stale.MetadataLocation != current.MetadataLocation {
		return errors.New(ErrRenameCleanupFailed,
			"source record does not match the rename destination; refusing to delete", nil).
			AddContext("from", namespaceToString(from)).
			AddContext("to", namespaceToString(to))
	}
	return r.Drop(ctx, from)
}

// UpdateMetadataLocation repoints the record at a freshly committed
// metadata document, keeping the previous pointer for external readers.
func (r *TableRepository) UpdateMetadataLocation(ctx context.Context, identifier table.Identifier, newLocation, previousLocation string) error {
	rec, err := r.store.Get(ctx, tableKey(identifier))
	if err != nil {
		if store.IsNotFound(err) {
			return icebergcatalog.ErrNoSuchTable
		}
		return err
	}

	attrs := make(map[string]string, len(rec.Attributes)+1)
	for k, v := range rec.Attributes {
		attrs[k] = v
	}
	attrs[props.Add(props.MetadataLocation)] = newLocation
	attrs[props.Add(props.PreviousMetadataLocation)] = previousLocation
	attrs[props.ColUpdatedAt] = nowTimestamp()

	err = r.store.Put(ctx, store.Record{
		Identifier: rec.Identifier,
		Namespace:  rec.Namespace,
		Attributes: attrs,
	}, store.IfPresent)
	if store.IsConditionFailed(err) {
		return icebergcatalog.ErrNoSuchTable
	}
	return err
}

// List returns the identifiers of all tables in the namespace.
func (r *TableRepository) List(ctx context.Context, namespace table.Identifier) ([]table.Identifier, error) {
	if err := validateNamespaceIdent(namespace); err != nil {
		return nil, err
	}

	recs, err := r.store.Query(ctx, store.Filter{Namespace: namespaceToString(namespace)})
	if err != nil {
		return nil, err
	}
	identifiers := make([]table.Identifier, 0, len(recs))
	for _, rec := range recs {
		if rec.Identifier == namespaceSentinel {
			continue
		}
		identifiers = append(identifiers, identifierToTableIdent(rec))
	}
	return identifiers, nil
}

func validateTableRecord(rec store.Record) error {
	marker, ok := rec.Attributes[props.Add(props.TableType)]
	if !ok || marker != TableTypeMarker {
		return errors.New(ErrInvalidTable, "record is not a table managed by this catalog", nil).
			AddContext("identifier", rec.Identifier).
			AddContext("table_type", marker)
	}
	return nil
}

func recordToTable(identifier table.Identifier, rec store.Record) (TableRecord, error) {
	if err := validateTableRecord(rec); err != nil {
		return TableRecord{}, err
	}
	location, ok := rec.Attributes[props.Add(props.MetadataLocation)]
	if !ok || location == "" {
		return TableRecord{}, errors.New(ErrPropertyMissing, "table record has no metadata location", nil).
			AddContext("identifier", rec.Identifier)
	}
	return TableRecord{
		Identifier:       identifier,
		MetadataLocation: location,
		CreatedAt:        rec.Attributes[props.ColCreatedAt],
	}, nil
}
