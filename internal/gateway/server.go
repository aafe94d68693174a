// Package gateway exposes MongoDB operations as Model Context Protocol
// tools over stdio. All database access flows through a single
// connection.Manager, so connection lifecycle and read-only policy are
// enforced in one place.
package gateway

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kart-io/mongo-gateway/internal/connection"
)

const serverName = "mongo-gateway"

// Server wraps the MCP server with the connection manager.
type Server struct {
	mcpServer *mcp.Server
	mgr       *connection.Manager
}

// NewServer creates an MCP server with all gateway tools registered.
func NewServer(version string, mgr *connection.Manager) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		mgr:       mgr,
	}

	s.registerConnectionTools()
	s.registerDatabaseTools()
	s.registerCollectionTools()

	return s
}

// Run serves MCP over stdio until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools (additive, not
// destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// destructiveAnnotations returns annotations for tools that delete data.
func destructiveAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}
