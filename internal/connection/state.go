package connection

// Phase is the discrete lifecycle state of the owned connection.
type Phase string

const (
	PhaseDisconnected Phase = "disconnected"
	PhaseConnecting   Phase = "connecting"
	PhaseConnected    Phase = "connected"
)

// state is the single source of truth for the owned connection. It is
// guarded by the Manager's mutex; the health monitor mutates it only through
// Manager methods.
//
// Invariant: target is non-empty if and only if phase == PhaseConnected.
type state struct {
	phase            Phase
	target           string
	readOnly         bool
	disconnectReason string
	lastErr          error
}

// Info is a point-in-time snapshot of the connection state.
type Info struct {
	Connected bool `json:"connected"`
	ReadOnly  bool `json:"readOnly"`

	// DisconnectReason is present only while not connected and a reason has
	// been recorded (explicit disconnect or detected fault).
	DisconnectReason string `json:"disconnectReason,omitempty"`

	// ConnectionError is present whenever a fault is recorded, independent
	// of the phase: a heartbeat failure leaves the connection up but still
	// surfaces here.
	ConnectionError string `json:"connectionError,omitempty"`
}

func (s *state) info() Info {
	info := Info{
		Connected: s.phase == PhaseConnected,
		ReadOnly:  s.readOnly,
	}
	if s.phase != PhaseConnected && s.disconnectReason != "" {
		info.DisconnectReason = s.disconnectReason
	}
	if s.lastErr != nil {
		info.ConnectionError = s.lastErr.Error()
	}
	return info
}
