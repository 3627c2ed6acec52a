// Package catalog implements the Iceberg catalog on a conditional
// key-value store. Two record kinds share one store table: namespace
// records under a fixed identifier sentinel and table records under the
// combined "<namespace>.<table>" key. Every mutation is a conditional
// write, which is the only concurrency control in the system.
package catalog

import (
	"context"
	"iter"

	"github.com/apache/iceberg-go"
	icebergcatalog "github.com/apache/iceberg-go/catalog"
	icebergio "github.com/apache/iceberg-go/io"
	"github.com/apache/iceberg-go/table"
	"github.com/gear6io/glacier/pkg/errors"
	"github.com/gear6io/glacier/server/catalog/store"
	"github.com/gear6io/glacier/server/metadata"
	"github.com/gear6io/glacier/server/shared"
	"github.com/gear6io/glacier/server/storage"
	"github.com/rs/zerolog"
)

// ComponentType defines the catalog component type identifier
const ComponentType = "catalog"

var _ shared.Component = (*Catalog)(nil)

// Catalog orchestrates the namespace and table repositories plus the
// metadata codec behind the iceberg-go catalog surface.
type Catalog struct {
	name       string
	warehouse  string
	store      store.Store
	namespaces *NamespaceRepository
	tables     *TableRepository
	codec      *metadata.Codec
	fileIO     icebergio.IO
	logger     zerolog.Logger
}

// NewCatalogWithStore assembles a catalog over an existing store and FileIO.
func NewCatalogWithStore(name, warehouse string, s store.Store, fio storage.FileIO, logger zerolog.Logger) *Catalog {
	return &Catalog{
		name:       name,
		warehouse:  warehouse,
		store:      s,
		namespaces: NewNamespaceRepository(s),
		tables:     NewTableRepository(s, logger),
		codec:      metadata.NewCodec(fio),
		fileIO:     icebergio.LocalFS{},
		logger:     logger.With().Str("component", ComponentType).Logger(),
	}
}

// CatalogType returns the catalog type.
func (c *Catalog) CatalogType() icebergcatalog.Type {
	return icebergcatalog.DynamoDB
}

// Name returns the catalog name.
func (c *Catalog) Name() string {
	return c.name
}

// GetType returns the component type identifier.
func (c *Catalog) GetType() string {
	return ComponentType
}

// Shutdown gracefully shuts down the catalog. The store holds no local
// state, so this only reports.
func (c *Catalog) Shutdown(ctx context.Context) error {
	c.logger.Info().Msg("catalog shut down")
	return nil
}

// Close is a no-op for the KV-backed catalog; connections are managed by
// the underlying SDK client.
func (c *Catalog) Close() error {
	return nil
}

// CreateTable creates a new table using the default location resolution.
// Options are acknowledged for interface compatibility; location and
// properties are controlled through CreateTableAt.
func (c *Catalog) CreateTable(ctx context.Context, identifier table.Identifier, schema *iceberg.Schema, opts ...icebergcatalog.CreateTableOpt) (*table.Table, error) {
	// iceberg-go does not expose option application; acknowledged, defaults apply
	for _, opt := range opts {
		_ = opt
	}
	return c.CreateTableAt(ctx, identifier, schema, "", nil)
}

// CreateTableAt creates a new table with an explicit location and initial
// properties. An empty location falls back to the namespace "location"
// property, then the catalog warehouse; each candidate is stripped of one
// trailing separator before joining.
func (c *Catalog) CreateTableAt(ctx context.Context, identifier table.Identifier, schema *iceberg.Schema, location string, properties iceberg.Properties) (*table.Table, error) {
	if err := validateTableIdent(identifier); err != nil {
		return nil, err
	}

	namespace := icebergcatalog.NamespaceFromIdent(identifier)
	exists, err := c.namespaces.Exists(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, icebergcatalog.ErrNoSuchNamespace
	}

	resolved, err := c.resolveTableLocation(ctx, location, identifier)
	if err != nil {
		return nil, err
	}

	metadataLocation, err := c.codec.WriteInitial(schema, resolved, properties)
	if err != nil {
		return nil, err
	}

	if err := c.tables.Create(ctx, identifier, metadataLocation); err != nil {
		return nil, err
	}
	return c.LoadTable(ctx, identifier, nil)
}

// CreateTableIfNotExists creates the table, or returns the existing one
// unchanged when another caller already won the create.
func (c *Catalog) CreateTableIfNotExists(ctx context.Context, identifier table.Identifier, schema *iceberg.Schema, location string, properties iceberg.Properties) (*table.Table, error) {
	tbl, err := c.CreateTableAt(ctx, identifier, schema, location, properties)
	if err == icebergcatalog.ErrTableAlreadyExists {
		return c.LoadTable(ctx, identifier, nil)
	}
	return tbl, err
}

// LoadTable returns a handle bound to the table's stored metadata-location.
func (c *Catalog) LoadTable(ctx context.Context, identifier table.Identifier, props iceberg.Properties) (*table.Table, error) {
	rec, err := c.tables.Load(ctx, identifier)
	if err != nil {
		return nil, err
	}
	md, err := c.codec.Read(rec.MetadataLocation)
	if err != nil {
		return nil, err
	}
	return table.New(identifier, md, rec.MetadataLocation, c.fileIO, c), nil
}

// CommitTable validates the requirements, applies the updates and repoints
// the record at the freshly written metadata document.
func (c *Catalog) CommitTable(ctx context.Context, tbl *table.Table, reqs []table.Requirement, updates []table.Update) (table.Metadata, string, error) {
	identifier := tbl.Identifier()
	rec, err := c.tables.Load(ctx, identifier)
	if err != nil {
		return nil, "", err
	}

	current := tbl.Metadata()
	for _, req := range reqs {
		if err := req.Validate(current); err != nil {
			return nil, "", errors.New(ErrCommitFailed, "commit requirement validation failed", err)
		}
	}

	builder, err := table.MetadataBuilderFromBase(current)
	if err != nil {
		return nil, "", errors.New(ErrCommitFailed, "failed to create metadata builder", err)
	}
	for _, update := range updates {
		if err := update.Apply(builder); err != nil {
			return nil, "", errors.New(ErrCommitFailed, "failed to apply metadata update", err).
				AddContext("action", update.Action())
		}
	}
	next, err := builder.Build()
	if err != nil {
		return nil, "", errors.New(ErrCommitFailed, "failed to build new metadata", err)
	}

	version := metadata.VersionFromLocation(rec.MetadataLocation) + 1
	newLocation, err := c.codec.WriteVersion(next, next.Location(), version)
	if err != nil {
		return nil, "", err
	}
	if err := c.tables.UpdateMetadataLocation(ctx, identifier, newLocation, rec.MetadataLocation); err != nil {
		return nil, "", err
	}
	return next, newLocation, nil
}

// DropTable drops a table from the catalog. The metadata documents behind
// the pointer are left in place.
func (c *Catalog) DropTable(ctx context.Context, identifier table.Identifier) error {
	return c.tables.Drop(ctx, identifier)
}

// RenameTable repoints a table record to a new identifier; the
// metadata-location is carried over, never rewritten.
func (c *Catalog) RenameTable(ctx context.Context, from, to table.Identifier) (*table.Table, error) {
	if err := c.tables.Rename(ctx, from, to); err != nil {
		return nil, err
	}
	return c.LoadTable(ctx, to, nil)
}

// RepairRename reconciles the rename saga's partial-failure window by
// removing a stale source record that still matches the destination.
func (c *Catalog) RepairRename(ctx context.Context, from, to table.Identifier) error {
	return c.tables.RepairRename(ctx, from, to)
}

// CheckTableExists reports whether LoadTable would succeed.
func (c *Catalog) CheckTableExists(ctx context.Context, identifier table.Identifier) (bool, error) {
	return c.tables.Exists(ctx, identifier)
}

// ListTables lists all tables in a namespace.
func (c *Catalog) ListTables(ctx context.Context, namespace table.Identifier) iter.Seq2[table.Identifier, error] {
	return func(yield func(table.Identifier, error) bool) {
		identifiers, err := c.tables.List(ctx, namespace)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, identifier := range identifiers {
			if !yield(identifier, nil) {
				return
			}
		}
	}
}

// CreateNamespace creates a new namespace with the given properties.
func (c *Catalog) CreateNamespace(ctx context.Context, namespace table.Identifier, props iceberg.Properties) error {
	return c.namespaces.Create(ctx, namespace, props)
}

// DropNamespace drops an empty namespace.
func (c *Catalog) DropNamespace(ctx context.Context, namespace table.Identifier) error {
	return c.namespaces.Drop(ctx, namespace)
}

// CheckNamespaceExists reports whether the namespace exists.
func (c *Catalog) CheckNamespaceExists(ctx context.Context, namespace table.Identifier) (bool, error) {
	return c.namespaces.Exists(ctx, namespace)
}

// LoadNamespaceProperties loads the namespace's property mapping.
func (c *Catalog) LoadNamespaceProperties(ctx context.Context, namespace table.Identifier) (iceberg.Properties, error) {
	return c.namespaces.LoadProperties(ctx, namespace)
}

// UpdateNamespaceProperties applies a partial property update and reports
// the updated, removed and missing key sets.
func (c *Catalog) UpdateNamespaceProperties(ctx context.Context, namespace table.Identifier, removals []string, updates iceberg.Properties) (icebergcatalog.PropertiesUpdateSummary, error) {
	return c.namespaces.UpdateProperties(ctx, namespace, removals, updates)
}

// ListNamespaces lists all namespaces, optionally filtered by parent.
func (c *Catalog) ListNamespaces(ctx context.Context, parent table.Identifier) ([]table.Identifier, error) {
	namespaces, err := c.namespaces.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(parent) == 0 {
		return namespaces, nil
	}

	var filtered []table.Identifier
	for _, namespace := range namespaces {
		if len(namespace) <= len(parent) {
			continue
		}
		match := true
		for i, part := range parent {
			if namespace[i] != part {
				match = false
				break
			}
		}
		if match {
			filtered = append(filtered, namespace)
		}
	}
	return filtered, nil
}
