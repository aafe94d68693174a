package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/mongo-gateway/internal/connection"
	"github.com/kart-io/mongo-gateway/pkg/component/mongodb"
)

// Tool registration derives JSON schemas from the handler input and output
// types and panics on invalid ones, so constructing the server exercises
// every registered tool definition.
func TestNewServerRegistersTools(t *testing.T) {
	mgr := connection.NewManager(mongodb.NewOptions())

	require.NotPanics(t, func() {
		srv := NewServer("test", mgr)
		require.NotNil(t, srv)
		require.NotNil(t, srv.mcpServer)
	})
}

func TestAnnotations(t *testing.T) {
	ro := readOnlyAnnotations()
	assert.True(t, ro.ReadOnlyHint)
	assert.True(t, ro.IdempotentHint)

	w := writeAnnotations()
	assert.False(t, w.ReadOnlyHint)
	require.NotNil(t, w.DestructiveHint)
	assert.False(t, *w.DestructiveHint)

	d := destructiveAnnotations()
	require.NotNil(t, d.DestructiveHint)
	assert.True(t, *d.DestructiveHint)
}

func TestNewServerOptionsDefaults(t *testing.T) {
	opts := NewServerOptions()

	require.NotNil(t, opts.MongoDB)
	require.NotNil(t, opts.Log)
	assert.Equal(t, []string{"stderr"}, opts.Log.OutputPaths,
		"logs must not share stdout with the MCP stream")
	assert.False(t, opts.ConnectOnStartup)

	require.NoError(t, opts.Complete())
	require.NoError(t, opts.Validate())
}
