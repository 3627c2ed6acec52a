package metadata

import (
	"strings"
	"testing"

	"github.com/apache/iceberg-go"
	"github.com/gear6io/glacier/server/storage"
)

func testSchema() *iceberg.Schema {
	return iceberg.NewSchema(0, iceberg.NestedField{
		ID:       1,
		Name:     "id",
		Type:     iceberg.PrimitiveTypes.Int64,
		Required: true,
	})
}

func TestWriteInitialProducesReadableDocument(t *testing.T) {
	fio := storage.NewMemoryIO()
	codec := NewCodec(fio)

	location := "s3://bucket/db.db/orders"
	metadataLocation, err := codec.WriteInitial(testSchema(), location, iceberg.Properties{})
	if err != nil {
		t.Fatalf("WriteInitial failed: %v", err)
	}

	if !strings.HasPrefix(metadataLocation, location+"/metadata/00000-") {
		t.Errorf("unexpected metadata location: %s", metadataLocation)
	}
	if !strings.HasSuffix(metadataLocation, ".metadata.json") {
		t.Errorf("unexpected metadata suffix: %s", metadataLocation)
	}

	md, err := codec.Read(metadataLocation)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if md.Location() != location {
		t.Errorf("expected location '%s', got '%s'", location, md.Location())
	}
}

func TestWriteVersionStripsTrailingSeparator(t *testing.T) {
	fio := storage.NewMemoryIO()
	codec := NewCodec(fio)

	metadataLocation, err := codec.WriteInitial(testSchema(), "s3://bucket/db.db/orders", nil)
	if err != nil {
		t.Fatalf("WriteInitial failed: %v", err)
	}
	md, err := codec.Read(metadataLocation)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	next, err := codec.WriteVersion(md, "s3://bucket/db.db/orders/", 1)
	if err != nil {
		t.Fatalf("WriteVersion failed: %v", err)
	}
	if strings.Contains(next, "orders//metadata") {
		t.Errorf("trailing separator leaked into the path: %s", next)
	}
	if !strings.Contains(next, "/metadata/00001-") {
		t.Errorf("expected version 1 file name, got: %s", next)
	}
}

func TestVersionFromLocation(t *testing.T) {
	cases := []struct {
		location string
		want     int
	}{
		{"s3://bucket/t/metadata/00000-abc.metadata.json", 0},
		{"s3://bucket/t/metadata/00042-abc.metadata.json", 42},
		{"s3://bucket/t/metadata/borked.json", -1},
		{"s3://bucket/t/metadata/-abc.metadata.json", -1},
		{"s3://bucket/t/metadata/x-abc.metadata.json", -1},
	}
	for _, tc := range cases {
		if got := VersionFromLocation(tc.location); got != tc.want {
			t.Errorf("VersionFromLocation(%s): expected %d, got %d", tc.location, tc.want, got)
		}
	}
}

func TestReadMissingDocument(t *testing.T) {
	codec := NewCodec(storage.NewMemoryIO())
	if _, err := codec.Read("s3://bucket/missing.metadata.json"); err == nil {
		t.Error("expected error reading a missing document")
	}
}
