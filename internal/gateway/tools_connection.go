package gateway

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kart-io/mongo-gateway/internal/connection"
)

func (s *Server) registerConnectionTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "connect",
		Description: "Connect to a MongoDB deployment. Uses the configured default target when no connection string is given. An existing connection is closed first.",
		Annotations: writeAnnotations(),
	}, s.handleConnect)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "disconnect",
		Description: "Close the current MongoDB connection. Safe to call when already disconnected.",
		Annotations: writeAnnotations(),
	}, s.handleDisconnect)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "connection-info",
		Description: "Report the current connection state: connected flag, read-only policy, last disconnect reason and last connection error.",
		Annotations: readOnlyAnnotations(),
	}, s.handleConnectionInfo)
}

type connectInput struct {
	ConnectionString string `json:"connectionString,omitempty" jsonschema:"MongoDB connection string (mongodb://...); defaults to the configured target"`
	ReadOnly         *bool  `json:"readOnly,omitempty" jsonschema:"Read-only policy for this connection; defaults to the configured policy"`
}

type connectOutput struct {
	Connected bool `json:"connected"`
	ReadOnly  bool `json:"readOnly"`
}

func (s *Server) handleConnect(ctx context.Context, _ *mcp.CallToolRequest, input connectInput) (*mcp.CallToolResult, connectOutput, error) {
	if input.ReadOnly != nil {
		s.mgr.SetReadOnly(*input.ReadOnly)
	}
	if err := s.mgr.Connect(ctx, input.ConnectionString); err != nil {
		return nil, connectOutput{}, err
	}
	return nil, connectOutput{
		Connected: true,
		ReadOnly:  s.mgr.IsReadOnly(),
	}, nil
}

type disconnectInput struct {
	Reason string `json:"reason,omitempty" jsonschema:"Reason to record for the disconnect; defaults to a normal disconnect"`
}

type disconnectOutput struct {
	Connected bool `json:"connected"`
}

func (s *Server) handleDisconnect(ctx context.Context, _ *mcp.CallToolRequest, input disconnectInput) (*mcp.CallToolResult, disconnectOutput, error) {
	if err := s.mgr.Disconnect(ctx, input.Reason); err != nil {
		return nil, disconnectOutput{}, err
	}
	return nil, disconnectOutput{Connected: false}, nil
}

type connectionInfoInput struct{}

func (s *Server) handleConnectionInfo(ctx context.Context, _ *mcp.CallToolRequest, _ connectionInfoInput) (*mcp.CallToolResult, connection.Info, error) {
	return nil, s.mgr.ConnectionInfo(), nil
}
