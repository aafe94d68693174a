package connection

import (
	"fmt"

	"github.com/kart-io/logger"
	"go.mongodb.org/mongo-driver/event"
)

// Disconnect reason labels recorded by the health monitor, one per driver
// signal.
const (
	reasonServerClosed    = "server closed connection"
	reasonHeartbeatFailed = "heartbeat failed"
	reasonConnClosed      = "connection closed"
	reasonConnError       = "connection error"
)

// healthMonitor folds asynchronous driver lifecycle events into the
// Manager's state so that subsequent calls fail fast instead of erroring
// deep inside the driver. It is attached to the client options before the
// dial, so no event can be missed.
//
// Handlers never cancel in-flight work; they only prevent new calls from
// proceeding against a handle the Manager now knows is dead.
type healthMonitor struct {
	mgr *Manager
}

func newHealthMonitor(mgr *Manager) *healthMonitor {
	return &healthMonitor{mgr: mgr}
}

func (m *healthMonitor) serverMonitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerClosed:          m.handleServerClosed,
		ServerHeartbeatFailed: m.handleHeartbeatFailed,
	}
}

func (m *healthMonitor) poolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: m.handlePoolEvent,
	}
}

func (m *healthMonitor) handleServerClosed(evt *event.ServerClosedEvent) {
	m.mgr.recordFault(reasonServerClosed, fmt.Errorf("server %v closed the connection", evt.Address), true)
}

// A failed heartbeat is a degradation signal, not a hard disconnect:
// heartbeat loss is often transient, so the phase stays connected and only
// the fault is recorded for diagnostics.
func (m *healthMonitor) handleHeartbeatFailed(evt *event.ServerHeartbeatFailedEvent) {
	m.mgr.recordFault(reasonHeartbeatFailed, evt.Failure, false)
}

func (m *healthMonitor) handlePoolEvent(evt *event.PoolEvent) {
	switch evt.Type {
	case event.ConnectionClosed:
		// Idle reaping and pool shutdown also close connections; only an
		// errored close counts as a fault.
		if evt.Reason != event.ReasonConnectionErrored {
			return
		}
		err := evt.Error
		if err == nil {
			err = fmt.Errorf("connection to %s closed with an error", evt.Address)
		}
		m.mgr.recordFault(reasonConnClosed, err, true)
	case event.PoolCleared:
		err := evt.Error
		if err == nil {
			err = fmt.Errorf("connection pool for %s cleared", evt.Address)
		}
		m.mgr.recordFault(reasonConnError, err, true)
	}
}

// recordFault folds a monitor-detected fault into the connection state.
// Idempotent with respect to phase: if the connection is already down,
// racing events are dropped. When hard is true the phase flips to
// disconnected; the dead client handle is kept so in-flight operations can
// finish on their own.
func (m *Manager) recordFault(reason string, cause error, hard bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.phase != PhaseConnected {
		return
	}

	m.state.lastErr = ErrTransportFault.WithMessage(reason).WithCause(cause)
	m.state.disconnectReason = reason
	if hard {
		m.state.phase = PhaseDisconnected
		m.state.target = ""
	}

	logger.Warnw("MongoDB connection fault",
		"reason", reason,
		"hard", hard,
		"error", cause,
	)
}
