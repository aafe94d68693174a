package readonly

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection records the operations forwarded to it.
type fakeCollection struct {
	name  string
	calls []string
}

func (c *fakeCollection) record(op string) {
	c.calls = append(c.calls, op)
}

func (c *fakeCollection) Name() string { return c.name }

func (c *fakeCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	c.record("find")
	return nil, nil
}

func (c *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	c.record("findOne")
	return &mongo.SingleResult{}
}

func (c *fakeCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	c.record("countDocuments")
	return 7, nil
}

func (c *fakeCollection) EstimatedDocumentCount(ctx context.Context, opts ...*options.EstimatedDocumentCountOptions) (int64, error) {
	c.record("estimatedDocumentCount")
	return 7, nil
}

func (c *fakeCollection) Distinct(ctx context.Context, fieldName string, filter interface{}, opts ...*options.DistinctOptions) ([]interface{}, error) {
	c.record("distinct")
	return []interface{}{"a"}, nil
}

func (c *fakeCollection) ListIndexes(ctx context.Context, opts ...*options.ListIndexesOptions) (*mongo.Cursor, error) {
	c.record("listIndexes")
	return nil, nil
}

func (c *fakeCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	c.record("aggregate")
	return nil, nil
}

func (c *fakeCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	c.record("insertOne")
	return &mongo.InsertOneResult{}, nil
}

func (c *fakeCollection) InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	c.record("insertMany")
	return &mongo.InsertManyResult{}, nil
}

func (c *fakeCollection) UpdateOne(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	c.record("updateOne")
	return &mongo.UpdateResult{}, nil
}

func (c *fakeCollection) UpdateMany(ctx context.Context, filter, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	c.record("updateMany")
	return &mongo.UpdateResult{}, nil
}

func (c *fakeCollection) ReplaceOne(ctx context.Context, filter, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	c.record("replaceOne")
	return &mongo.UpdateResult{}, nil
}

func (c *fakeCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.record("deleteOne")
	return &mongo.DeleteResult{}, nil
}

func (c *fakeCollection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.record("deleteMany")
	return &mongo.DeleteResult{}, nil
}

func (c *fakeCollection) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	c.record("bulkWrite")
	return &mongo.BulkWriteResult{}, nil
}

func (c *fakeCollection) CreateIndex(ctx context.Context, model mongo.IndexModel, opts ...*options.CreateIndexesOptions) (string, error) {
	c.record("createIndex")
	return "idx_1", nil
}

func (c *fakeCollection) DropIndex(ctx context.Context, name string, opts ...*options.DropIndexesOptions) (bson.Raw, error) {
	c.record("dropIndex")
	return nil, nil
}

func (c *fakeCollection) Drop(ctx context.Context) error {
	c.record("drop")
	return nil
}

// fakeDatabase records forwarded operations and hands out fakeCollections.
type fakeDatabase struct {
	name        string
	calls       []string
	collections map[string]*fakeCollection
}

func newFakeDatabase(name string) *fakeDatabase {
	return &fakeDatabase{name: name, collections: make(map[string]*fakeCollection)}
}

func (d *fakeDatabase) record(op string) {
	d.calls = append(d.calls, op)
}

func (d *fakeDatabase) Name() string { return d.name }

func (d *fakeDatabase) Collection(name string) Collection {
	d.record("collection")
	coll, ok := d.collections[name]
	if !ok {
		coll = &fakeCollection{name: name}
		d.collections[name] = coll
	}
	return coll
}

func (d *fakeDatabase) ListCollectionNames(ctx context.Context, filter interface{}, opts ...*options.ListCollectionsOptions) ([]string, error) {
	d.record("listCollectionNames")
	return []string{"users"}, nil
}

func (d *fakeDatabase) Stats(ctx context.Context) (bson.M, error) {
	d.record("stats")
	return bson.M{"db": d.name}, nil
}

func (d *fakeDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	d.record("aggregate")
	return nil, nil
}

func (d *fakeDatabase) RunCommand(ctx context.Context, command interface{}, opts ...*options.RunCmdOptions) (bson.Raw, error) {
	d.record("runCommand")
	return nil, nil
}

func (d *fakeDatabase) CreateCollection(ctx context.Context, name string, opts ...*options.CreateCollectionOptions) error {
	d.record("createCollection")
	return nil
}

func (d *fakeDatabase) Drop(ctx context.Context) error {
	d.record("drop")
	return nil
}

var (
	_ Collection = (*fakeCollection)(nil)
	_ Database   = (*fakeDatabase)(nil)
)
