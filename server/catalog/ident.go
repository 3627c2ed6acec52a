package catalog

import (
	"strings"

	icebergcatalog "github.com/apache/iceberg-go/catalog"
	"github.com/apache/iceberg-go/table"
	"github.com/gear6io/glacier/pkg/errors"
	"github.com/gear6io/glacier/server/catalog/store"
)

// namespaceSentinel is the identifier column value shared by every namespace
// record. Table records always carry "<namespace>.<table>" there, so the two
// key spaces cannot alias.
const namespaceSentinel = "NAMESPACE"

// namespaceToString flattens namespace segments into the stored form.
// stringToNamespace is its exact inverse for segment names without dots.
func namespaceToString(namespace table.Identifier) string {
	return strings.Join(namespace, ".")
}

func stringToNamespace(s string) table.Identifier {
	if s == "" {
		return table.Identifier{}
	}
	return table.Identifier(strings.Split(s, "."))
}

// tableKey maps a table identifier onto the combined store key.
func tableKey(identifier table.Identifier) store.Key {
	namespace := namespaceToString(icebergcatalog.NamespaceFromIdent(identifier))
	return store.Key{
		Identifier: namespace + "." + icebergcatalog.TableNameFromIdent(identifier),
		Namespace:  namespace,
	}
}

// namespaceKey maps a namespace identifier onto the combined store key.
func namespaceKey(namespace table.Identifier) store.Key {
	return store.Key{
		Identifier: namespaceSentinel,
		Namespace:  namespaceToString(namespace),
	}
}

// identifierToTableIdent recovers the table identifier from a stored record.
func identifierToTableIdent(rec store.Record) table.Identifier {
	ns := stringToNamespace(rec.Namespace)
	name := strings.TrimPrefix(rec.Identifier, rec.Namespace+".")
	return append(ns, name)
}

func validateTableIdent(identifier table.Identifier) error {
	if len(identifier) < 2 {
		return errors.New(ErrInvalidInput, "table identifier requires at least a namespace and a table name", nil).
			AddContext("identifier", strings.Join(identifier, "."))
	}
	for _, segment := range identifier {
		if segment == "" {
			return errors.New(ErrInvalidInput, "identifier segments cannot be empty", nil)
		}
	}
	return nil
}

func validateNamespaceIdent(namespace table.Identifier) error {
	if len(namespace) == 0 {
		return errors.New(ErrInvalidInput, "namespace identifier cannot be empty", nil)
	}
	for _, segment := range namespace {
		if segment == "" {
			return errors.New(ErrInvalidInput, "namespace segments cannot be empty", nil)
		}
	}
	return nil
}
