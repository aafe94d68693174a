package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kart-io/mongo-gateway/pkg/readonly"
)

func (s *Server) registerCollectionTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find",
		Description: "Query documents in a collection with an optional filter, projection, sort, limit and skip.",
		Annotations: readOnlyAnnotations(),
	}, s.handleFind)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "count",
		Description: "Count documents matching a filter. Without a filter, returns a fast estimated count.",
		Annotations: readOnlyAnnotations(),
	}, s.handleCount)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "distinct",
		Description: "List the distinct values of a field among documents matching a filter.",
		Annotations: readOnlyAnnotations(),
	}, s.handleDistinct)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "aggregate",
		Description: "Run an aggregation pipeline against a collection. Under read-only policy, pipelines containing $out or $merge are rejected.",
		Annotations: readOnlyAnnotations(),
	}, s.handleAggregate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list-indexes",
		Description: "List the indexes of a collection.",
		Annotations: readOnlyAnnotations(),
	}, s.handleListIndexes)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "insert-many",
		Description: "Insert an array of documents into a collection. Rejected under read-only policy.",
		Annotations: writeAnnotations(),
	}, s.handleInsertMany)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update-many",
		Description: "Update all documents matching a filter. Rejected under read-only policy.",
		Annotations: writeAnnotations(),
	}, s.handleUpdateMany)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete-many",
		Description: "Delete all documents matching a filter. Rejected under read-only policy.",
		Annotations: destructiveAnnotations(),
	}, s.handleDeleteMany)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create-index",
		Description: "Create an index on a collection from an extended-JSON key specification. Rejected under read-only policy.",
		Annotations: writeAnnotations(),
	}, s.handleCreateIndex)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "drop-index",
		Description: "Drop a named index from a collection. Rejected under read-only policy.",
		Annotations: destructiveAnnotations(),
	}, s.handleDropIndex)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "drop-collection",
		Description: "Drop an entire collection. Rejected under read-only policy.",
		Annotations: destructiveAnnotations(),
	}, s.handleDropCollection)
}

// collection resolves a collection handle through the manager.
func (s *Server) collection(database, name string) (readonly.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("collection is required")
	}
	db, err := s.database(database)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

type findInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
	Filter     string `json:"filter,omitempty" jsonschema:"Filter as an extended-JSON document; defaults to all documents"`
	Projection string `json:"projection,omitempty" jsonschema:"Projection as an extended-JSON document"`
	Sort       string `json:"sort,omitempty" jsonschema:"Sort specification as an extended-JSON document"`
	Limit      int64  `json:"limit,omitempty" jsonschema:"Maximum number of documents to return; defaults to 100"`
	Skip       int64  `json:"skip,omitempty" jsonschema:"Number of documents to skip"`
}

type findOutput struct {
	Documents []json.RawMessage `json:"documents"`
	Count     int               `json:"count"`
}

// defaultFindLimit caps unbounded queries so a single tool call cannot pull
// an entire collection into the response.
const defaultFindLimit = 100

func (s *Server) handleFind(ctx context.Context, _ *mcp.CallToolRequest, input findInput) (*mcp.CallToolResult, findOutput, error) {
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, findOutput{}, err
	}

	filter, err := parseDocument(input.Filter)
	if err != nil {
		return nil, findOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultFindLimit
	}
	findOpts := options.Find().SetLimit(limit)
	if input.Skip > 0 {
		findOpts.SetSkip(input.Skip)
	}
	if input.Projection != "" {
		projection, err := parseDocument(input.Projection)
		if err != nil {
			return nil, findOutput{}, err
		}
		findOpts.SetProjection(projection)
	}
	if input.Sort != "" {
		sort, err := parseDocument(input.Sort)
		if err != nil {
			return nil, findOutput{}, err
		}
		findOpts.SetSort(sort)
	}

	cur, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, findOutput{}, err
	}
	docs, err := drainCursor(ctx, cur)
	if err != nil {
		return nil, findOutput{}, err
	}
	return nil, findOutput{Documents: docs, Count: len(docs)}, nil
}

type countInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
	Filter     string `json:"filter,omitempty" jsonschema:"Filter as an extended-JSON document; without it a fast estimated count is used"`
}

type countOutput struct {
	Count     int64 `json:"count"`
	Estimated bool  `json:"estimated"`
}

func (s *Server) handleCount(ctx context.Context, _ *mcp.CallToolRequest, input countInput) (*mcp.CallToolResult, countOutput, error) {
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, countOutput{}, err
	}

	if input.Filter == "" {
		n, err := coll.EstimatedDocumentCount(ctx)
		if err != nil {
			return nil, countOutput{}, err
		}
		return nil, countOutput{Count: n, Estimated: true}, nil
	}

	filter, err := parseDocument(input.Filter)
	if err != nil {
		return nil, countOutput{}, err
	}
	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, countOutput{}, err
	}
	return nil, countOutput{Count: n}, nil
}

type distinctInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
	Field      string `json:"field" jsonschema:"Field to collect distinct values for"`
	Filter     string `json:"filter,omitempty" jsonschema:"Filter as an extended-JSON document"`
}

type distinctOutput struct {
	// Result is a document of the form {"values": [...]}; wrapping keeps
	// extended-JSON rendering uniform with the other tools.
	Result json.RawMessage `json:"result"`
	Count  int             `json:"count"`
}

func (s *Server) handleDistinct(ctx context.Context, _ *mcp.CallToolRequest, input distinctInput) (*mcp.CallToolResult, distinctOutput, error) {
	if input.Field == "" {
		return nil, distinctOutput{}, fmt.Errorf("field is required")
	}
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, distinctOutput{}, err
	}
	filter, err := parseDocument(input.Filter)
	if err != nil {
		return nil, distinctOutput{}, err
	}
	values, err := coll.Distinct(ctx, input.Field, filter)
	if err != nil {
		return nil, distinctOutput{}, err
	}
	doc, err := formatDoc(bson.M{"values": values})
	if err != nil {
		return nil, distinctOutput{}, err
	}
	return nil, distinctOutput{Result: doc, Count: len(values)}, nil
}

type aggregateInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
	Pipeline   string `json:"pipeline" jsonschema:"Aggregation pipeline as an extended-JSON array of stages"`
}

type aggregateOutput struct {
	Documents []json.RawMessage `json:"documents"`
	Count     int               `json:"count"`
}

func (s *Server) handleAggregate(ctx context.Context, _ *mcp.CallToolRequest, input aggregateInput) (*mcp.CallToolResult, aggregateOutput, error) {
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, aggregateOutput{}, err
	}
	pipeline, err := parsePipeline(input.Pipeline)
	if err != nil {
		return nil, aggregateOutput{}, err
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, aggregateOutput{}, err
	}
	docs, err := drainCursor(ctx, cur)
	if err != nil {
		return nil, aggregateOutput{}, err
	}
	return nil, aggregateOutput{Documents: docs, Count: len(docs)}, nil
}

type listIndexesInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
}

type listIndexesOutput struct {
	Indexes []json.RawMessage `json:"indexes"`
}

func (s *Server) handleListIndexes(ctx context.Context, _ *mcp.CallToolRequest, input listIndexesInput) (*mcp.CallToolResult, listIndexesOutput, error) {
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, listIndexesOutput{}, err
	}
	cur, err := coll.ListIndexes(ctx)
	if err != nil {
		return nil, listIndexesOutput{}, err
	}
	docs, err := drainCursor(ctx, cur)
	if err != nil {
		return nil, listIndexesOutput{}, err
	}
	return nil, listIndexesOutput{Indexes: docs}, nil
}

type insertManyInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
	Documents  string `json:"documents" jsonschema:"Documents to insert as an extended-JSON array"`
}

type insertManyOutput struct {
	InsertedCount int             `json:"insertedCount"`
	InsertedIDs   json.RawMessage `json:"insertedIds"`
}

func (s *Server) handleInsertMany(ctx context.Context, _ *mcp.CallToolRequest, input insertManyInput) (*mcp.CallToolResult, insertManyOutput, error) {
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, insertManyOutput{}, err
	}
	docs, err := parseDocumentList(input.Documents)
	if err != nil {
		return nil, insertManyOutput{}, err
	}
	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, insertManyOutput{}, err
	}
	ids, err := formatDoc(bson.M{"ids": res.InsertedIDs})
	if err != nil {
		return nil, insertManyOutput{}, err
	}
	return nil, insertManyOutput{
		InsertedCount: len(res.InsertedIDs),
		InsertedIDs:   ids,
	}, nil
}

type updateManyInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
	Filter     string `json:"filter" jsonschema:"Filter as an extended-JSON document"`
	Update     string `json:"update" jsonschema:"Update as an extended-JSON document, e.g. {\"$set\": {...}}"`
	Upsert     bool   `json:"upsert,omitempty" jsonschema:"Insert a document when nothing matches"`
}

type updateManyOutput struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
}

func (s *Server) handleUpdateMany(ctx context.Context, _ *mcp.CallToolRequest, input updateManyInput) (*mcp.CallToolResult, updateManyOutput, error) {
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, updateManyOutput{}, err
	}
	filter, err := parseDocument(input.Filter)
	if err != nil {
		return nil, updateManyOutput{}, err
	}
	update, err := parseDocument(input.Update)
	if err != nil {
		return nil, updateManyOutput{}, err
	}
	if len(update) == 0 {
		return nil, updateManyOutput{}, fmt.Errorf("update must be a non-empty document")
	}
	res, err := coll.UpdateMany(ctx, filter, update, options.Update().SetUpsert(input.Upsert))
	if err != nil {
		return nil, updateManyOutput{}, err
	}
	return nil, updateManyOutput{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}, nil
}

type deleteManyInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
	Filter     string `json:"filter" jsonschema:"Filter as an extended-JSON document; an empty filter deletes every document"`
}

type deleteManyOutput struct {
	DeletedCount int64 `json:"deletedCount"`
}

func (s *Server) handleDeleteMany(ctx context.Context, _ *mcp.CallToolRequest, input deleteManyInput) (*mcp.CallToolResult, deleteManyOutput, error) {
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, deleteManyOutput{}, err
	}
	filter, err := parseDocument(input.Filter)
	if err != nil {
		return nil, deleteManyOutput{}, err
	}
	res, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return nil, deleteManyOutput{}, err
	}
	return nil, deleteManyOutput{DeletedCount: res.DeletedCount}, nil
}

type createIndexInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
	Keys       string `json:"keys" jsonschema:"Index key specification as an extended-JSON document, e.g. {\"email\": 1}"`
	Name       string `json:"name,omitempty" jsonschema:"Index name; the server derives one when omitted"`
	Unique     bool   `json:"unique,omitempty" jsonschema:"Enforce uniqueness of the indexed keys"`
}

type createIndexOutput struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateIndex(ctx context.Context, _ *mcp.CallToolRequest, input createIndexInput) (*mcp.CallToolResult, createIndexOutput, error) {
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, createIndexOutput{}, err
	}
	keys, err := parseDocument(input.Keys)
	if err != nil {
		return nil, createIndexOutput{}, err
	}
	if len(keys) == 0 {
		return nil, createIndexOutput{}, fmt.Errorf("keys must be a non-empty document")
	}

	indexOpts := options.Index()
	if input.Name != "" {
		indexOpts.SetName(input.Name)
	}
	if input.Unique {
		indexOpts.SetUnique(true)
	}

	name, err := coll.CreateIndex(ctx, mongo.IndexModel{Keys: keys, Options: indexOpts})
	if err != nil {
		return nil, createIndexOutput{}, err
	}
	return nil, createIndexOutput{Name: name}, nil
}

type dropIndexInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection name"`
	Name       string `json:"name" jsonschema:"Name of the index to drop"`
}

type dropIndexOutput struct {
	Dropped string `json:"dropped"`
}

func (s *Server) handleDropIndex(ctx context.Context, _ *mcp.CallToolRequest, input dropIndexInput) (*mcp.CallToolResult, dropIndexOutput, error) {
	if input.Name == "" {
		return nil, dropIndexOutput{}, fmt.Errorf("name is required")
	}
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, dropIndexOutput{}, err
	}
	if _, err := coll.DropIndex(ctx, input.Name); err != nil {
		return nil, dropIndexOutput{}, err
	}
	return nil, dropIndexOutput{Dropped: input.Name}, nil
}

type dropCollectionInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Collection to drop"`
}

type dropCollectionOutput struct {
	Dropped string `json:"dropped"`
}

func (s *Server) handleDropCollection(ctx context.Context, _ *mcp.CallToolRequest, input dropCollectionInput) (*mcp.CallToolResult, dropCollectionOutput, error) {
	coll, err := s.collection(input.Database, input.Collection)
	if err != nil {
		return nil, dropCollectionOutput{}, err
	}
	if err := coll.Drop(ctx); err != nil {
		return nil, dropCollectionOutput{}, err
	}
	return nil, dropCollectionOutput{Dropped: input.Collection}, nil
}
