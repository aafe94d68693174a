package connection

import (
	"context"
	"sync"

	"github.com/kart-io/logger"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kart-io/mongo-gateway/pkg/component/mongodb"
	"github.com/kart-io/mongo-gateway/pkg/readonly"
)

// DefaultDisconnectReason is recorded when a disconnect is requested without
// a reason.
const DefaultDisconnectReason = "normal disconnect"

// Client is the narrow slice of *mongo.Client the gateway relies on.
// Narrowing it keeps the dial replaceable in tests.
type Client interface {
	Database(name string, opts ...*mongoopts.DatabaseOptions) *mongo.Database
	ListDatabaseNames(ctx context.Context, filter interface{}, opts ...*mongoopts.ListDatabasesOptions) ([]string, error)
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

// dialFunc establishes a driver session. The default wraps mongo.Connect.
type dialFunc func(ctx context.Context, opts *mongoopts.ClientOptions) (Client, error)

func defaultDial(ctx context.Context, opts *mongoopts.ClientOptions) (Client, error) {
	return mongo.Connect(ctx, opts)
}

// Manager owns the single permitted MongoDB connection. It is constructed
// once at startup and threaded through to whatever handles requests; all
// other components observe the connection state through it.
//
// The mutex makes the read-phase-then-act sequences atomic, so a
// monitor-driven disconnect racing a caller can never hand out a handle
// bound to a session the Manager already knows is dead.
type Manager struct {
	mu       sync.Mutex
	state    state
	client   Client
	readOnly bool

	opts *mongodb.Options
	dial dialFunc
}

// NewManager creates a Manager with the given default connection options.
// No connection is established until Connect is called.
func NewManager(opts *mongodb.Options) *Manager {
	if opts == nil {
		opts = mongodb.NewOptions()
	}
	return &Manager{
		state:    state{phase: PhaseDisconnected},
		readOnly: opts.ReadOnly,
		opts:     opts,
		dial:     defaultDial,
	}
}

// Connect establishes a connection to target, or to the configured default
// target when target is empty. An existing connection is closed first; two
// live connections never coexist.
//
// Returns ErrInvalidConfig when no target resolves and ErrConnectionFailed
// wrapping the cause when the dial or the initial ping fails.
func (m *Manager) Connect(ctx context.Context, target string) error {
	m.mu.Lock()
	if target == "" {
		target = mongodb.BuildURI(m.opts)
	}
	if target == "" {
		m.mu.Unlock()
		return ErrInvalidConfig.WithMessage("no MongoDB connection target: pass a connection string or configure --mongodb.uri")
	}

	old := m.client
	m.client = nil
	m.state = state{phase: PhaseConnecting, disconnectReason: DefaultDisconnectReason}
	readOnly := m.readOnly
	dial := m.dial
	m.mu.Unlock()

	if old != nil {
		if err := old.Disconnect(ctx); err != nil {
			logger.Warnw("failed to close superseded MongoDB session", "error", err)
		}
	}

	// Monitors are attached before the dial so no lifecycle event can be
	// missed.
	monitor := newHealthMonitor(m)
	clientOpts := mongodb.ClientOptions(m.opts, target).
		SetServerMonitor(monitor.serverMonitor()).
		SetPoolMonitor(monitor.poolMonitor())

	client, err := dial(ctx, clientOpts)
	if err == nil {
		if pingErr := client.Ping(ctx, readpref.Primary()); pingErr != nil {
			_ = client.Disconnect(ctx)
			err = pingErr
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		connErr := ErrConnectionFailed.WithCause(err)
		m.state = state{phase: PhaseDisconnected, lastErr: connErr}
		logger.Errorw("MongoDB connect failed", "error", err)
		return connErr
	}

	m.client = client
	m.state = state{phase: PhaseConnected, target: target, readOnly: readOnly}
	logger.Infow("connected to MongoDB", "readOnly", readOnly)
	return nil
}

// Disconnect closes the owned connection and records reason (or
// DefaultDisconnectReason when empty). An intentional disconnect clears any
// recorded fault. Calling it while already disconnected is a no-op, apart
// from releasing a client handle left behind by a monitor-driven phase flip.
func (m *Manager) Disconnect(ctx context.Context, reason string) error {
	if reason == "" {
		reason = DefaultDisconnectReason
	}

	m.mu.Lock()
	client := m.client
	m.client = nil
	if m.state.phase == PhaseDisconnected {
		m.mu.Unlock()
		if client != nil {
			return client.Disconnect(ctx)
		}
		return nil
	}
	m.state = state{
		phase:            PhaseDisconnected,
		readOnly:         m.state.readOnly,
		disconnectReason: reason,
	}
	m.mu.Unlock()

	logger.Infow("disconnected from MongoDB", "reason", reason)
	if client != nil {
		return client.Disconnect(ctx)
	}
	return nil
}

// Client returns the live driver handle, or ErrNotConnected when there is
// none. The not-connected fault is recorded into state unless a more
// specific fault is already present.
func (m *Manager) Client() (Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.phase != PhaseConnected {
		if m.state.lastErr == nil {
			m.state.lastErr = ErrNotConnected
		}
		return nil, ErrNotConnected
	}
	return m.client, nil
}

// Database returns a handle for the named database. Under read-only policy
// the handle rejects writes and unsafe aggregation stages, as does every
// collection reached through it.
func (m *Manager) Database(name string) (readonly.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.phase != PhaseConnected {
		if m.state.lastErr == nil {
			m.state.lastErr = ErrNotConnected
		}
		return nil, ErrNotConnected
	}

	db := m.client.Database(name)
	if m.state.readOnly {
		return readonly.NewReadOnlyDatabase(db), nil
	}
	return readonly.NewDatabase(db), nil
}

// ConnectionInfo returns a snapshot of the connection state.
func (m *Manager) ConnectionInfo() Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.info()
}

// IsReadOnly reports the policy of the live connection, or the default that
// the next connection will use when disconnected.
func (m *Manager) IsReadOnly() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.phase == PhaseConnected {
		return m.state.readOnly
	}
	return m.readOnly
}

// SetReadOnly sets the policy for the next connection. The policy of a live
// connection is immutable for its lifetime; changing it requires a
// reconnect.
func (m *Manager) SetReadOnly(readOnly bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readOnly = readOnly
}
