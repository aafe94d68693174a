package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/kart-io/mongo-gateway/pkg/readonly"
)

func (s *Server) registerDatabaseTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list-databases",
		Description: "List the names of all databases on the connected deployment.",
		Annotations: readOnlyAnnotations(),
	}, s.handleListDatabases)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list-collections",
		Description: "List the collection names in a database.",
		Annotations: readOnlyAnnotations(),
	}, s.handleListCollections)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "db-stats",
		Description: "Return storage statistics for a database (dbStats).",
		Annotations: readOnlyAnnotations(),
	}, s.handleDBStats)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "run-command",
		Description: "Run an arbitrary database command given as an extended-JSON document. Rejected under read-only policy.",
		Annotations: writeAnnotations(),
	}, s.handleRunCommand)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create-collection",
		Description: "Create a collection in a database. Rejected under read-only policy.",
		Annotations: writeAnnotations(),
	}, s.handleCreateCollection)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "drop-database",
		Description: "Drop an entire database. Rejected under read-only policy.",
		Annotations: destructiveAnnotations(),
	}, s.handleDropDatabase)
}

type listDatabasesInput struct{}

type listDatabasesOutput struct {
	Databases []string `json:"databases"`
}

func (s *Server) handleListDatabases(ctx context.Context, _ *mcp.CallToolRequest, _ listDatabasesInput) (*mcp.CallToolResult, listDatabasesOutput, error) {
	client, err := s.mgr.Client()
	if err != nil {
		return nil, listDatabasesOutput{}, err
	}
	names, err := client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, listDatabasesOutput{}, err
	}
	return nil, listDatabasesOutput{Databases: names}, nil
}

type listCollectionsInput struct {
	Database string `json:"database" jsonschema:"Database name"`
}

type listCollectionsOutput struct {
	Collections []string `json:"collections"`
}

func (s *Server) handleListCollections(ctx context.Context, _ *mcp.CallToolRequest, input listCollectionsInput) (*mcp.CallToolResult, listCollectionsOutput, error) {
	db, err := s.database(input.Database)
	if err != nil {
		return nil, listCollectionsOutput{}, err
	}
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, listCollectionsOutput{}, err
	}
	return nil, listCollectionsOutput{Collections: names}, nil
}

type dbStatsInput struct {
	Database string `json:"database" jsonschema:"Database name"`
}

type dbStatsOutput struct {
	Stats json.RawMessage `json:"stats"`
}

func (s *Server) handleDBStats(ctx context.Context, _ *mcp.CallToolRequest, input dbStatsInput) (*mcp.CallToolResult, dbStatsOutput, error) {
	db, err := s.database(input.Database)
	if err != nil {
		return nil, dbStatsOutput{}, err
	}
	stats, err := db.Stats(ctx)
	if err != nil {
		return nil, dbStatsOutput{}, err
	}
	doc, err := formatDoc(stats)
	if err != nil {
		return nil, dbStatsOutput{}, err
	}
	return nil, dbStatsOutput{Stats: doc}, nil
}

type runCommandInput struct {
	Database string `json:"database" jsonschema:"Database to run the command against"`
	Command  string `json:"command" jsonschema:"Command as an extended-JSON document, e.g. {\"ping\": 1}"`
}

type runCommandOutput struct {
	Result json.RawMessage `json:"result"`
}

func (s *Server) handleRunCommand(ctx context.Context, _ *mcp.CallToolRequest, input runCommandInput) (*mcp.CallToolResult, runCommandOutput, error) {
	cmd, err := parseDocument(input.Command)
	if err != nil {
		return nil, runCommandOutput{}, err
	}
	if len(cmd) == 0 {
		return nil, runCommandOutput{}, fmt.Errorf("command must be a non-empty document")
	}
	db, err := s.database(input.Database)
	if err != nil {
		return nil, runCommandOutput{}, err
	}
	raw, err := db.RunCommand(ctx, cmd)
	if err != nil {
		return nil, runCommandOutput{}, err
	}
	doc, err := formatDoc(raw)
	if err != nil {
		return nil, runCommandOutput{}, err
	}
	return nil, runCommandOutput{Result: doc}, nil
}

type createCollectionInput struct {
	Database   string `json:"database" jsonschema:"Database name"`
	Collection string `json:"collection" jsonschema:"Name of the collection to create"`
}

type createCollectionOutput struct {
	Created string `json:"created"`
}

func (s *Server) handleCreateCollection(ctx context.Context, _ *mcp.CallToolRequest, input createCollectionInput) (*mcp.CallToolResult, createCollectionOutput, error) {
	db, err := s.database(input.Database)
	if err != nil {
		return nil, createCollectionOutput{}, err
	}
	if err := db.CreateCollection(ctx, input.Collection); err != nil {
		return nil, createCollectionOutput{}, err
	}
	return nil, createCollectionOutput{Created: input.Collection}, nil
}

type dropDatabaseInput struct {
	Database string `json:"database" jsonschema:"Database to drop"`
}

type dropDatabaseOutput struct {
	Dropped string `json:"dropped"`
}

func (s *Server) handleDropDatabase(ctx context.Context, _ *mcp.CallToolRequest, input dropDatabaseInput) (*mcp.CallToolResult, dropDatabaseOutput, error) {
	db, err := s.database(input.Database)
	if err != nil {
		return nil, dropDatabaseOutput{}, err
	}
	if err := db.Drop(ctx); err != nil {
		return nil, dropDatabaseOutput{}, err
	}
	return nil, dropDatabaseOutput{Dropped: input.Database}, nil
}

// database resolves a database handle through the manager, rejecting empty
// names before touching the connection.
func (s *Server) database(name string) (readonly.Database, error) {
	if name == "" {
		return nil, fmt.Errorf("database is required")
	}
	return s.mgr.Database(name)
}
