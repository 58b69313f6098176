package hostapd

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout         = errors.New("timeout while waiting for reply")
	ErrAlreadyPending  = errors.New("another request is already pending")
	ErrUnexpectedReply = errors.New("unexpected reply")
	ErrNotAttached     = errors.New("client is not attached")
	ErrAlreadyAttached = errors.New("client is already attached")
	ErrClosed          = errors.New("client is closed")
)

// ConnectError is returned when the control socket can't be opened, e.g.
// the path does not exist or it is not a socket. It is not retried.
type ConnectError struct {
	Path string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("error while connecting to socket %s: %v", e.Path, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// IOError is a transport level failure. The socket is probably broken and the
// caller needs to decide if it wants to reconnect.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("error while %s socket: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
