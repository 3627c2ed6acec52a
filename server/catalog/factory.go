package catalog

import (
	"context"

	"github.com/gear6io/glacier/pkg/errors"
	"github.com/gear6io/glacier/server/catalog/store/dynamo"
	"github.com/gear6io/glacier/server/catalog/store/memstore"
	"github.com/gear6io/glacier/server/config"
	"github.com/gear6io/glacier/server/storage"
	"github.com/rs/zerolog"
)

// NewCatalog creates a catalog backed by the store named in the
// configuration.
func NewCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Catalog, error) {
	switch cfg.Catalog.Store {
	case "dynamodb":
		s, err := dynamo.New(ctx, dynamo.Config{
			TableName:       cfg.GetStoreTable(),
			Region:          cfg.Catalog.AWS.Region,
			Endpoint:        cfg.Catalog.AWS.Endpoint,
			Profile:         cfg.Catalog.AWS.Profile,
			AccessKeyID:     cfg.Catalog.AWS.AccessKeyID,
			SecretAccessKey: cfg.Catalog.AWS.SecretAccessKey,
			SessionToken:    cfg.Catalog.AWS.SessionToken,
		})
		if err != nil {
			return nil, err
		}
		return NewCatalogWithStore(cfg.GetCatalogName(), cfg.GetWarehouse(), s, storage.NewFilesystemIO(), logger), nil
	case "memory":
		return NewCatalogWithStore(cfg.GetCatalogName(), cfg.GetWarehouse(), memstore.New(), storage.NewMemoryIO(), logger), nil
	default:
		return nil, errors.New(ErrUnsupportedStoreType, "unsupported catalog store type", nil).
			AddContext("store", cfg.Catalog.Store)
	}
}
