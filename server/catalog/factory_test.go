package catalog

import (
	"context"
	"testing"

	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"github.com/apache/iceberg-go/table"
	"github.com/gear6io/glacier/server/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogMemoryStore(t *testing.T) {
	cfg := config.LoadDefaultConfig()
	cfg.Catalog.Name = "factory-test"
	cfg.Catalog.Store = "memory"
	cfg.Catalog.Warehouse = "file://warehouse"

	cat, err := NewCatalog(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, cat)

	assert.Equal(t, "factory-test", cat.Name())
	assert.Equal(t, icebergcatalog.DynamoDB, cat.CatalogType())

	// the assembled catalog must be usable end to end
	ctx := context.Background()
	require.NoError(t, cat.CreateNamespace(ctx, table.Identifier{"smoke"}, nil))
	exists, err := cat.CheckNamespaceExists(ctx, table.Identifier{"smoke"})
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cat.Shutdown(ctx))
	require.NoError(t, cat.Close())
}

func TestNewCatalogUnsupportedStore(t *testing.T) {
	cfg := config.LoadDefaultConfig()
	cfg.Catalog.Store = "postgres"

	cat, err := NewCatalog(context.Background(), cfg, zerolog.Nop())
	assert.Nil(t, cat)
	require.Error(t, err)
	assert.True(t, IsUnsupportedStoreType(err))
}
