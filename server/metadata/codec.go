// Package metadata materializes Iceberg metadata documents. The catalog
// stores only the location pointer returned from here; these functions own
// serialization and placement of the documents themselves.
package metadata

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/apache/iceberg-go"
	"github.com/apache/iceberg-go/table"
	"github.com/gear6io/glacier/pkg/errors"
	"github.com/gear6io/glacier/server/storage"
	"github.com/google/uuid"
)

// Package-specific error codes
var (
	ErrBuildFailed     = errors.MustNewCode("metadata.build_failed")
	ErrSerializeFailed = errors.MustNewCode("metadata.serialize_failed")
	ErrWriteFailed     = errors.MustNewCode("metadata.write_failed")
	ErrReadFailed      = errors.MustNewCode("metadata.read_failed")
	ErrParseFailed     = errors.MustNewCode("metadata.parse_failed")
)

// Codec writes and reads metadata documents through a FileIO.
type Codec struct {
	io storage.FileIO
}

// NewCodec creates a codec over the given FileIO.
func NewCodec(io storage.FileIO) *Codec {
	return &Codec{io: io}
}

// WriteInitial builds version-0 metadata for a fresh table at location and
// persists it, returning the metadata-location pointer.
func (c *Codec) WriteInitial(schema *iceberg.Schema, location string, properties iceberg.Properties) (string, error) {
	md, err := table.NewMetadata(schema, iceberg.UnpartitionedSpec, table.UnsortedSortOrder, location, properties)
	if err != nil {
		return "", errors.New(ErrBuildFailed, "failed to build initial table metadata", err).
			AddContext("location", location)
	}
	return c.WriteVersion(md, location, 0)
}

// WriteVersion persists a metadata document as the given version under the
// table location's metadata directory.
func (c *Codec) WriteVersion(md table.Metadata, tableLocation string, version int) (string, error) {
	data, err := json.Marshal(md)
	if err != nil {
		return "", errors.New(ErrSerializeFailed, "failed to serialize table metadata", err)
	}

	metadataLocation := fmt.Sprintf("%s/metadata/%s", strings.TrimSuffix(tableLocation, "/"), FileName(version))
	if err := c.io.Write(metadataLocation, data); err != nil {
		return "", errors.New(ErrWriteFailed, "failed to write metadata document", err).
			AddContext("metadata_location", metadataLocation)
	}
	return metadataLocation, nil
}

// Read loads and parses the document behind a metadata-location pointer.
func (c *Codec) Read(metadataLocation string) (table.Metadata, error) {
	data, err := c.io.Read(metadataLocation)
	if err != nil {
		return nil, errors.New(ErrReadFailed, "failed to read metadata document", err).
			AddContext("metadata_location", metadataLocation)
	}
	md, err := table.ParseMetadataBytes(data)
	if err != nil {
		return nil, errors.New(ErrParseFailed, "failed to parse metadata document", err).
			AddContext("metadata_location", metadataLocation)
	}
	return md, nil
}

// FileName renders the canonical metadata file name for a version.
func FileName(version int) string {
	return fmt.Sprintf("%05d-%s.metadata.json", version, uuid.New().String())
}

// VersionFromLocation extracts the version from a metadata-location, or -1
// when the name does not follow the canonical form.
func VersionFromLocation(metadataLocation string) int {
	base := path.Base(metadataLocation)
	idx := strings.Index(base, "-")
	if idx <= 0 || !strings.HasSuffix(base, ".metadata.json") {
		return -1
	}
	version, err := strconv.Atoi(base[:idx])
	if err != nil {
		return -1
	}
	return version
}
