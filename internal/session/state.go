package session

import "sync"

// State is the connection state machine's position.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateRegistered
	StateDisconnected
	StateBackoff
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateRegistered:
		return "registered"
	case StateDisconnected:
		return "disconnected"
	case StateBackoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session state and diagnostics,
// safe to hand to a renderer.
type Snapshot struct {
	State  State
	Reason string // last disconnect reason

	BackoffRemaining int // seconds until the next connect attempt

	ServerURL string
	ClientID  string

	Attempts         int
	MessagesReceived int
	Rejected         int // frames dropped by policy or crypto failure

	LastText  string
	LastError string

	Tool          string
	ToolAvailable bool
}

// Status holds the shared session state. Network tasks mutate it, readers
// take snapshot copies; the lock is never held across I/O.
type Status struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewStatus returns a Status starting at StateIdle.
func NewStatus(serverURL string) *Status {
	return &Status{snap: Snapshot{State: StateIdle, ServerURL: serverURL}}
}

// Snapshot returns a copy of the current state.
func (s *Status) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Status) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.snap)
}
