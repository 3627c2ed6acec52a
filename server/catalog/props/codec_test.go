package props

import (
	"testing"

	"github.com/apache/iceberg-go"
)

func TestEncodeAddsPrefix(t *testing.T) {
	attrs := Encode(iceberg.Properties{
		"comment":  "raw events",
		"location": "s3://bucket/db.db",
	})

	if attrs["p.comment"] != "raw events" {
		t.Errorf("expected prefixed comment, got %v", attrs)
	}
	if attrs["p.location"] != "s3://bucket/db.db" {
		t.Errorf("expected prefixed location, got %v", attrs)
	}
	if len(attrs) != 2 {
		t.Errorf("expected 2 attributes, got %d", len(attrs))
	}
}

func TestDecodeSkipsBookkeepingColumns(t *testing.T) {
	properties := Decode(map[string]string{
		ColCreatedAt:          "1693000000000",
		ColUpdatedAt:          "1693000000001",
		Add(TableType):        "ICEBERG",
		Add(MetadataLocation): "s3://bucket/db.db/t/metadata/00000-x.metadata.json",
		Add("comment"):        "raw events",
	})

	if _, ok := properties[ColCreatedAt]; ok {
		t.Error("created_at must not decode into properties")
	}
	if properties[TableType] != "ICEBERG" {
		t.Errorf("expected table_type property, got %v", properties)
	}
	if properties["comment"] != "raw events" {
		t.Errorf("expected comment property, got %v", properties)
	}
}

func TestRoundTrip(t *testing.T) {
	original := iceberg.Properties{
		"comment":        "this is a test description",
		"location":       "s3://bucket/db.db",
		"test_property1": "1",
		"test_property2": "2",
	}

	decoded := Decode(Encode(original))
	if len(decoded) != len(original) {
		t.Fatalf("expected %d properties, got %d", len(original), len(decoded))
	}
	for k, v := range original {
		if decoded[k] != v {
			t.Errorf("property %s: expected '%s', got '%s'", k, v, decoded[k])
		}
	}
}

func TestDecodeEmptyIsNonNil(t *testing.T) {
	properties := Decode(map[string]string{ColCreatedAt: "123"})
	if properties == nil {
		t.Fatal("expected empty, non-nil properties")
	}
	if len(properties) != 0 {
		t.Errorf("expected no properties, got %v", properties)
	}
}
