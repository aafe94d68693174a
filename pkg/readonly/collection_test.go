package readonly

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestGuardedCollectionBlocksWrites(t *testing.T) {
	ctx := context.Background()
	fake := &fakeCollection{name: "users"}
	coll := WrapCollection(fake)

	tests := []struct {
		op   string
		call func() error
	}{
		{"insertOne", func() error { _, err := coll.InsertOne(ctx, bson.D{}); return err }},
		{"insertMany", func() error { _, err := coll.InsertMany(ctx, []interface{}{bson.D{}}); return err }},
		{"updateOne", func() error { _, err := coll.UpdateOne(ctx, bson.D{}, bson.D{}); return err }},
		{"updateMany", func() error { _, err := coll.UpdateMany(ctx, bson.D{}, bson.D{}); return err }},
		{"replaceOne", func() error { _, err := coll.ReplaceOne(ctx, bson.D{}, bson.D{}); return err }},
		{"deleteOne", func() error { _, err := coll.DeleteOne(ctx, bson.D{}); return err }},
		{"deleteMany", func() error { _, err := coll.DeleteMany(ctx, bson.D{}); return err }},
		{"bulkWrite", func() error { _, err := coll.BulkWrite(ctx, nil); return err }},
		{"createIndex", func() error { _, err := coll.CreateIndex(ctx, mongo.IndexModel{}); return err }},
		{"dropIndex", func() error { _, err := coll.DropIndex(ctx, "idx_1"); return err }},
		{"dropCollection", func() error { return coll.Drop(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			err := tt.call()
			var v *Violation
			if !errors.As(err, &v) {
				t.Fatalf("expected *Violation, got %v", err)
			}
			if v.Op != tt.op {
				t.Errorf("violation names %q, want %q", v.Op, tt.op)
			}
		})
	}

	if len(fake.calls) != 0 {
		t.Errorf("blocked operations must not reach the underlying collection, got %v", fake.calls)
	}
}

func TestGuardedCollectionForwardsReads(t *testing.T) {
	ctx := context.Background()
	fake := &fakeCollection{name: "users"}
	coll := WrapCollection(fake)

	if got := coll.Name(); got != "users" {
		t.Errorf("Name() = %q, want %q", got, "users")
	}
	if _, err := coll.Find(ctx, bson.D{}); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res := coll.FindOne(ctx, bson.D{}); res == nil {
		t.Fatal("FindOne returned nil result")
	}
	if _, err := coll.CountDocuments(ctx, bson.D{}); err != nil {
		t.Fatalf("CountDocuments: %v", err)
	}
	if _, err := coll.EstimatedDocumentCount(ctx); err != nil {
		t.Fatalf("EstimatedDocumentCount: %v", err)
	}
	if _, err := coll.Distinct(ctx, "a", bson.D{}); err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	if _, err := coll.ListIndexes(ctx); err != nil {
		t.Fatalf("ListIndexes: %v", err)
	}

	want := []string{"find", "findOne", "countDocuments", "estimatedDocumentCount", "distinct", "listIndexes"}
	if len(fake.calls) != len(want) {
		t.Fatalf("forwarded calls %v, want %v", fake.calls, want)
	}
	for i, op := range want {
		if fake.calls[i] != op {
			t.Errorf("call %d = %q, want %q", i, fake.calls[i], op)
		}
	}
}

func TestGuardedCollectionAggregate(t *testing.T) {
	ctx := context.Background()
	fake := &fakeCollection{name: "users"}
	coll := WrapCollection(fake)

	// Safe pipeline forwards.
	safe := mongo.Pipeline{{{Key: "$match", Value: bson.D{{Key: "a", Value: 1}}}}}
	if _, err := coll.Aggregate(ctx, safe); err != nil {
		t.Fatalf("Aggregate(safe): %v", err)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "aggregate" {
		t.Fatalf("safe pipeline should forward, calls = %v", fake.calls)
	}

	// Mutating pipeline is rejected before reaching the collection.
	unsafe := mongo.Pipeline{{{Key: "$out", Value: "x"}}}
	_, err := coll.Aggregate(ctx, unsafe)
	var v *Violation
	if !errors.As(err, &v) || v.Stage != "$out" {
		t.Fatalf("Aggregate(unsafe) = %v, want violation naming $out", err)
	}
	if len(fake.calls) != 1 {
		t.Errorf("unsafe pipeline must not forward, calls = %v", fake.calls)
	}
}
