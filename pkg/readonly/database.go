package readonly

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database is the slice of driver database operations the gateway calls.
// Implementations: the passthrough returned by NewDatabase and the read-only
// decorator returned by WrapDatabase.
type Database interface {
	Name() string

	// Collection returns a handle for the named collection. The read-only
	// decorator wraps the result recursively, so every collection reached
	// through a read-only database is itself read-only.
	Collection(name string) Collection

	// Read operations. Always forwarded.
	ListCollectionNames(ctx context.Context, filter interface{}, opts ...*options.ListCollectionsOptions) ([]string, error)
	Stats(ctx context.Context) (bson.M, error)

	// Aggregate is content-sensitive: the read-only decorator validates the
	// pipeline before forwarding.
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)

	// Write-shaped operations. The read-only decorator rejects every one of
	// these with a *Violation naming the operation. RunCommand is treated as
	// a write because an arbitrary command can mutate anything.
	RunCommand(ctx context.Context, command interface{}, opts ...*options.RunCmdOptions) (bson.Raw, error)
	CreateCollection(ctx context.Context, name string, opts ...*options.CreateCollectionOptions) error
	Drop(ctx context.Context) error
}

// NewDatabase returns a passthrough Database over a driver handle.
func NewDatabase(db *mongo.Database) Database {
	return &rawDatabase{db: db}
}

// NewReadOnlyDatabase returns a Database over a driver handle that rejects
// writes, validates aggregation pipelines and hands out read-only
// collections.
func NewReadOnlyDatabase(db *mongo.Database) Database {
	return WrapDatabase(NewDatabase(db))
}

// WrapDatabase decorates any Database with read-only enforcement.
func WrapDatabase(db Database) Database {
	return &guardedDatabase{next: db}
}

type rawDatabase struct {
	db *mongo.Database
}

func (d *rawDatabase) Name() string { return d.db.Name() }

func (d *rawDatabase) Collection(name string) Collection {
	return NewCollection(d.db.Collection(name))
}

func (d *rawDatabase) ListCollectionNames(ctx context.Context, filter interface{}, opts ...*options.ListCollectionsOptions) ([]string, error) {
	return d.db.ListCollectionNames(ctx, filter, opts...)
}

func (d *rawDatabase) Stats(ctx context.Context) (bson.M, error) {
	var stats bson.M
	res := d.db.RunCommand(ctx, bson.D{{Key: "dbStats", Value: 1}})
	if err := res.Decode(&stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (d *rawDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	return d.db.Aggregate(ctx, pipeline, opts...)
}

func (d *rawDatabase) RunCommand(ctx context.Context, command interface{}, opts ...*options.RunCmdOptions) (bson.Raw, error) {
	return d.db.RunCommand(ctx, command, opts...).Raw()
}

func (d *rawDatabase) CreateCollection(ctx context.Context, name string, opts ...*options.CreateCollectionOptions) error {
	return d.db.CreateCollection(ctx, name, opts...)
}

func (d *rawDatabase) Drop(ctx context.Context) error {
	return d.db.Drop(ctx)
}

// guardedDatabase rejects write-shaped operations and wraps every
// sub-handle it returns.
type guardedDatabase struct {
	next Database
}

func (d *guardedDatabase) Name() string { return d.next.Name() }

func (d *guardedDatabase) Collection(name string) Collection {
	return WrapCollection(d.next.Collection(name))
}

func (d *guardedDatabase) ListCollectionNames(ctx context.Context, filter interface{}, opts ...*options.ListCollectionsOptions) ([]string, error) {
	return d.next.ListCollectionNames(ctx, filter, opts...)
}

func (d *guardedDatabase) Stats(ctx context.Context) (bson.M, error) {
	return d.next.Stats(ctx)
}

func (d *guardedDatabase) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	if err := ValidatePipeline(pipeline); err != nil {
		return nil, err
	}
	return d.next.Aggregate(ctx, pipeline, opts...)
}

func (d *guardedDatabase) RunCommand(ctx context.Context, _ interface{}, _ ...*options.RunCmdOptions) (bson.Raw, error) {
	return nil, blockedOp("runCommand")
}

func (d *guardedDatabase) CreateCollection(ctx context.Context, _ string, _ ...*options.CreateCollectionOptions) error {
	return blockedOp("createCollection")
}

func (d *guardedDatabase) Drop(ctx context.Context) error {
	return blockedOp("dropDatabase")
}

var (
	_ Database = (*rawDatabase)(nil)
	_ Database = (*guardedDatabase)(nil)
)
