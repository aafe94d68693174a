package readonly

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the slice of driver collection operations the gateway calls.
// Implementations: the passthrough returned by NewCollection and the
// read-only decorator returned by WrapCollection.
type Collection interface {
	Name() string

	// Read operations. Always forwarded.
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error)
	Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error)
	ListIndexes(ctx context.Context, opts ...*options.ListIndexesOptions) (*mongo.Cursor, error)

	// Aggregate is content-sensitive: the read-only decorator validates the
	// pipeline before forwarding.
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)

	// Write operations. The read-only decorator rejects every one of these
	// with a *Violation naming the operation.
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	ReplaceOne(ctx context.Context, filter, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	CreateIndex(ctx context.Context, model mongo.IndexModel, opts ...*options.CreateIndexesOptions) (string, error)
	DropIndex(ctx context.Context, name string, opts ...*options.DropIndexesOptions) (bson.Raw, error)
	Drop(ctx context.Context) error
}

// NewCollection returns a passthrough Collection over a driver handle.
func NewCollection(coll *mongo.Collection) Collection {
	return &rawCollection{coll: coll}
}

// NewReadOnlyCollection returns a Collection over a driver handle that
// rejects writes and validates aggregation pipelines.
func NewReadOnlyCollection(coll *mongo.Collection) Collection {
	return WrapCollection(NewCollection(coll))
}

// WrapCollection decorates any Collection with read-only enforcement.
func WrapCollection(coll Collection) Collection {
	return &guardedCollection{next: coll}
}

type rawCollection struct {
	coll *mongo.Collection
}

func (c *rawCollection) Name() string { return c.coll.Name() }

func (c *rawCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return c.coll.Find(ctx, filter, opts...)
}

func (c *rawCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	return c.coll.FindOne(ctx, filter, opts...)
}

func (c *rawCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.coll.CountDocuments(ctx, filter, opts...)
}

func (c *rawCollection) EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error) {
	return c.coll.EstimatedDocumentCount(ctx, opts...)
}

func (c *rawCollection) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	return c.coll.Distinct(ctx, fieldName, filter, opts...)
}

func (c *rawCollection) ListIndexes(ctx context.Context, opts ...*options.ListIndexesOptions) (*mongo.Cursor, error) {
	return c.coll.Indexes().List(ctx, opts...)
}

func (c *rawCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	return c.coll.Aggregate(ctx, pipeline, opts...)
}

func (c *rawCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return c.coll.InsertOne(ctx, document, opts...)
}

func (c *rawCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	return c.coll.InsertMany(ctx, documents, opts...)
}

func (c *rawCollection) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.coll.UpdateOne(ctx, filter, update, opts...)
}

func (c *rawCollection) UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.coll.UpdateMany(ctx, filter, update, opts...)
}

func (c *rawCollection) ReplaceOne(ctx context.Context, filter, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	return c.coll.ReplaceOne(ctx, filter, replacement, opts...)
}

func (c *rawCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return c.coll.DeleteOne(ctx, filter, opts...)
}

func (c *rawCollection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return c.coll.DeleteMany(ctx, filter, opts...)
}

func (c *rawCollection) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	return c.coll.BulkWrite(ctx, models, opts...)
}

func (c *rawCollection) CreateIndex(ctx context.Context, model mongo.IndexModel, opts ...*options.CreateIndexesOptions) (string, error) {
	return c.coll.Indexes().CreateOne(ctx, model, opts...)
}

func (c *rawCollection) DropIndex(ctx context.Context, name string, opts ...*options.DropIndexesOptions) (bson.Raw, error) {
	return c.coll.Indexes().DropOne(ctx, name, opts...)
}

func (c *rawCollection) Drop(ctx context.Context) error {
	return c.coll.Drop(ctx)
}

// guardedCollection rejects writes and gates aggregation. Reads are bound to
// the wrapped collection and forwarded unmodified.
type guardedCollection struct {
	next Collection
}

func (c *guardedCollection) Name() string { return c.next.Name() }

func (c *guardedCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return c.next.Find(ctx, filter, opts...)
}

func (c *guardedCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	return c.next.FindOne(ctx, filter, opts...)
}

func (c *guardedCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.next.CountDocuments(ctx, filter, opts...)
}

func (c *guardedCollection) EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error) {
	return c.next.EstimatedDocumentCount(ctx, opts...)
}

func (c *guardedCollection) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	return c.next.Distinct(ctx, fieldName, filter, opts...)
}

func (c *guardedCollection) ListIndexes(ctx context.Context, opts ...*options.ListIndexesOptions) (*mongo.Cursor, error) {
	return c.next.ListIndexes(ctx, opts...)
}

func (c *guardedCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	if err := ValidatePipeline(pipeline); err != nil {
		return nil, err
	}
	return c.next.Aggregate(ctx, pipeline, opts...)
}

func (c *guardedCollection) InsertOne(ctx context.Context, _ interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return nil, blockedOp("insertOne")
}

func (c *guardedCollection) InsertMany(ctx context.Context, _ []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	return nil, blockedOp("insertMany")
}

func (c *guardedCollection) UpdateOne(ctx context.Context, _, _ interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return nil, blockedOp("updateOne")
}

func (c *guardedCollection) UpdateMany(ctx context.Context, _, _ interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return nil, blockedOp("updateMany")
}

func (c *guardedCollection) ReplaceOne(ctx context.Context, _, _ interface{}, _ ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	return nil, blockedOp("replaceOne")
}

func (c *guardedCollection) DeleteOne(ctx context.Context, _ interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return nil, blockedOp("deleteOne")
}

func (c *guardedCollection) DeleteMany(ctx context.Context, _ interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return nil, blockedOp("deleteMany")
}

func (c *guardedCollection) BulkWrite(ctx context.Context, _ []mongo.WriteModel, _ ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	return nil, blockedOp("bulkWrite")
}

func (c *guardedCollection) CreateIndex(ctx context.Context, _ mongo.IndexModel, _ ...*options.CreateIndexesOptions) (string, error) {
	return "", blockedOp("createIndex")
}

func (c *guardedCollection) DropIndex(ctx context.Context, _ string, _ ...*options.DropIndexesOptions) (bson.Raw, error) {
	return nil, blockedOp("dropIndex")
}

func (c *guardedCollection) Drop(ctx context.Context) error {
	return blockedOp("dropCollection")
}

var (
	_ Collection = (*rawCollection)(nil)
	_ Collection = (*guardedCollection)(nil)
)
