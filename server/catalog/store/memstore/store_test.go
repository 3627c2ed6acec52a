package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/gear6io/glacier/server/catalog/store"
)

func record(ident, ns string, attrs map[string]string) store.Record {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return store.Record{Identifier: ident, Namespace: ns, Attributes: attrs}
}

func TestPutIfAbsentThenGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := record("db.orders", "db", map[string]string{"created_at": "123"})
	if err := s.Put(ctx, rec, store.IfAbsent); err != nil {
		t.Fatalf("first put failed: %v", err)
	}

	got, err := s.Get(ctx, rec.Key())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Attributes["created_at"] != "123" {
		t.Errorf("expected created_at '123', got '%s'", got.Attributes["created_at"])
	}

	// second create of the same key must lose
	err = s.Put(ctx, rec, store.IfAbsent)
	if !store.IsConditionFailed(err) {
		t.Errorf("expected condition failure, got: %v", err)
	}
}

func TestPutIfPresentRequiresRecord(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := record("db.orders", "db", nil)
	err := s.Put(ctx, rec, store.IfPresent)
	if !store.IsConditionFailed(err) {
		t.Errorf("expected condition failure for if-present on empty store, got: %v", err)
	}

	if err := s.Put(ctx, rec, store.IfAbsent); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Put(ctx, rec, store.IfPresent); err != nil {
		t.Errorf("overwrite of existing record should succeed: %v", err)
	}
}

func TestDeleteConditions(t *testing.T) {
	s := New()
	ctx := context.Background()
	key := store.Key{Identifier: "db.orders", Namespace: "db"}

	err := s.Delete(ctx, key, store.IfPresent)
	if !store.IsConditionFailed(err) {
		t.Errorf("expected condition failure deleting missing record, got: %v", err)
	}

	if err := s.Put(ctx, record("db.orders", "db", nil), store.IfAbsent); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Delete(ctx, key, store.IfPresent); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Get(ctx, key); !store.IsNotFound(err) {
		t.Errorf("expected not-found after delete, got: %v", err)
	}
}

func TestQueryByNamespaceAndIdentifier(t *testing.T) {
	s := New()
	ctx := context.Background()

	seed := []store.Record{
		record("NAMESPACE", "db1", nil),
		record("NAMESPACE", "db2", nil),
		record("db1.orders", "db1", nil),
		record("db1.users", "db1", nil),
		record("db2.events", "db2", nil),
	}
	for _, rec := range seed {
		if err := s.Put(ctx, rec, store.IfAbsent); err != nil {
			t.Fatalf("seed put failed: %v", err)
		}
	}

	byNS, err := s.Query(ctx, store.Filter{Namespace: "db1"})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(byNS) != 3 {
		t.Errorf("expected 3 records in db1 (namespace row + 2 tables), got %d", len(byNS))
	}

	byIdent, err := s.Query(ctx, store.Filter{Identifier: "NAMESPACE"})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(byIdent) != 2 {
		t.Errorf("expected 2 namespace records, got %d", len(byIdent))
	}
	if byIdent[0].Namespace != "db1" || byIdent[1].Namespace != "db2" {
		t.Errorf("expected deterministic key order, got %v, %v", byIdent[0].Namespace, byIdent[1].Namespace)
	}
}

func TestRacingCreatesResolveToOneWinner(t *testing.T) {
	s := New()
	ctx := context.Background()
	rec := record("db.orders", "db", nil)

	const racers = 16
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Put(ctx, rec, store.IfAbsent)
		}()
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case store.IsConditionFailed(err):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != racers-1 {
		t.Errorf("expected exactly one winner, got %d wins / %d losses", wins, losses)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Put(ctx, record("db.orders", "db", map[string]string{"k": "v"}), store.IfAbsent); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, err := s.Get(ctx, store.Key{Identifier: "db.orders", Namespace: "db"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got.Attributes["k"] = "mutated"

	again, _ := s.Get(ctx, store.Key{Identifier: "db.orders", Namespace: "db"})
	if again.Attributes["k"] != "v" {
		t.Error("mutating a returned record must not affect stored state")
	}
}
