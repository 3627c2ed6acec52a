package catalog

import (
	"context"
	"fmt"
	"strings"

	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"github.com/apache/iceberg-go/table"
	"github.com/gear6io/glacier/pkg/errors"
)

// locationProperty on a namespace overrides the warehouse root for tables
// created under it.
const locationProperty = "location"

// resolveTableLocation picks the table's base location with the precedence
// explicit argument > namespace "location" property > catalog warehouse.
// Every input is stripped of one trailing separator before joining.
func (c *Catalog) resolveTableLocation(ctx context.Context, location string, identifier table.Identifier) (string, error) {
	if location != "" {
		return strings.TrimSuffix(location, "/"), nil
	}
	return c.defaultWarehouseLocation(ctx, identifier)
}

func (c *Catalog) defaultWarehouseLocation(ctx context.Context, identifier table.Identifier) (string, error) {
	namespace := icebergcatalog.NamespaceFromIdent(identifier)
	tableName := icebergcatalog.TableNameFromIdent(identifier)

	properties, err := c.namespaces.LoadProperties(ctx, namespace)
	if err != nil {
		return "", err
	}
	if nsLocation := properties[locationProperty]; nsLocation != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(nsLocation, "/"), tableName), nil
	}
	if c.warehouse != "" {
		return fmt.Sprintf("%s/%s.db/%s",
			strings.TrimSuffix(c.warehouse, "/"), namespaceToString(namespace), tableName), nil
	}
	return "", errors.New(ErrInvalidInput,
		"no default path is set, please specify a location when creating a table", nil).
		AddContext("identifier", tableKey(identifier).Identifier)
}
