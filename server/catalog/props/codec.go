// Package props maps string properties to and from a record's flattened
// attribute set. User keys are stored under a reserved prefix so they cannot
// collide with the bookkeeping columns.
package props

import (
	"strings"

	"github.com/apache/iceberg-go"
)

// Prefix marks user and bookkeeping properties in the attribute set.
const Prefix = "p."

// Reserved bookkeeping columns that never decode into properties.
const (
	ColIdentifier = "identifier"
	ColNamespace  = "namespace"
	ColCreatedAt  = "created_at"
	ColUpdatedAt  = "updated_at"
)

// Well-known property keys.
const (
	TableType                = "table_type"
	MetadataLocation         = "metadata_location"
	PreviousMetadataLocation = "previous_metadata_location"
)

// Add prefixes a single property key for storage.
func Add(key string) string {
	return Prefix + key
}

// Encode flattens a property mapping into prefixed attributes.
// Decode(Encode(p)) == p for any mapping whose keys, once prefixed, do not
// collide with a reserved column; that collision is not enforced here.
func Encode(properties iceberg.Properties) map[string]string {
	attrs := make(map[string]string, len(properties))
	for k, v := range properties {
		attrs[Add(k)] = v
	}
	return attrs
}

// Decode strips the prefix from prefixed attributes and skips everything
// else. The result is empty, never nil, when no properties are set.
func Decode(attrs map[string]string) iceberg.Properties {
	properties := iceberg.Properties{}
	for k, v := range attrs {
		if !strings.HasPrefix(k, Prefix) {
			continue
		}
		properties[strings.TrimPrefix(k, Prefix)] = v
	}
	return properties
}
