package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gear6io/glacier/server/catalog/store"
)

func TestMarshalRecordRoundTrip(t *testing.T) {
	rec := store.Record{
		Identifier: "db.orders",
		Namespace:  "db",
		Attributes: map[string]string{
			"created_at":          "1693000000000",
			"p.table_type":        "ICEBERG",
			"p.metadata_location": "s3://bucket/db.db/orders/metadata/00000-x.metadata.json",
		},
	}

	item := marshalRecord(rec)
	if len(item) != 5 {
		t.Fatalf("expected 5 attributes, got %d", len(item))
	}
	if v := item[colIdentifier].(*types.AttributeValueMemberS).Value; v != "db.orders" {
		t.Errorf("unexpected identifier attribute: %s", v)
	}

	back := unmarshalRecord(item)
	if back.Identifier != rec.Identifier || back.Namespace != rec.Namespace {
		t.Errorf("key columns did not survive the round trip: %+v", back)
	}
	if len(back.Attributes) != len(rec.Attributes) {
		t.Fatalf("expected %d attributes, got %d", len(rec.Attributes), len(back.Attributes))
	}
	for k, v := range rec.Attributes {
		if back.Attributes[k] != v {
			t.Errorf("attribute %s: expected '%s', got '%s'", k, v, back.Attributes[k])
		}
	}
}

func TestUnmarshalSkipsNonStringAttributes(t *testing.T) {
	item := map[string]types.AttributeValue{
		colIdentifier: &types.AttributeValueMemberS{Value: "db.orders"},
		colNamespace:  &types.AttributeValueMemberS{Value: "db"},
		"flag":        &types.AttributeValueMemberBOOL{Value: true},
	}
	rec := unmarshalRecord(item)
	if _, ok := rec.Attributes["flag"]; ok {
		t.Error("non-string attributes must be skipped")
	}
}

func TestConditionExpression(t *testing.T) {
	if got := conditionExpression(store.IfAbsent); got != "attribute_not_exists(identifier)" {
		t.Errorf("unexpected if-absent expression: %s", got)
	}
	if got := conditionExpression(store.IfPresent); got != "attribute_exists(identifier)" {
		t.Errorf("unexpected if-present expression: %s", got)
	}
}

func TestTranslateWriteError(t *testing.T) {
	key := store.Key{Identifier: "db.orders", Namespace: "db"}

	if err := translateWriteError(nil, key, store.IfAbsent); err != nil {
		t.Errorf("nil error must pass through: %v", err)
	}

	condErr := translateWriteError(&types.ConditionalCheckFailedException{}, key, store.IfAbsent)
	if !store.IsConditionFailed(condErr) {
		t.Errorf("expected condition-failed code, got: %v", condErr)
	}

	transport := translateWriteError(&types.ProvisionedThroughputExceededException{}, key, store.IfAbsent)
	if store.IsConditionFailed(transport) {
		t.Error("throughput errors must not be classified as condition failures")
	}
}
