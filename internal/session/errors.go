package session

import "fmt"

// ConnectError indicates a transport-level failure (dial, read, write,
// unexpected close). It drives the reconnect path.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("session: connect error: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

func newConnectError(f string, a ...any) error {
	return &ConnectError{Err: fmt.Errorf(f, a...)}
}

// ProtocolError indicates a malformed or undecodable frame. The frame is
// dropped and the session continues.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("session: protocol error: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
