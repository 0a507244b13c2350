package conn

import (
	"errors"
	"fmt"

	"github.com/atomicstack/tcp-chat/internal/backend"
)

var (
	// ErrNotConnected is returned by Send outside the connected state.
	ErrNotConnected = errors.New("not connected to server")
	// ErrEmptyPayload is returned by Send when the text is blank after trimming.
	ErrEmptyPayload = errors.New("message cannot be empty")
	// ErrSendFailed matches every *SendError.
	ErrSendFailed = errors.New("failed to send message")
	// ErrPeerClosed is carried by peer-disconnected events.
	ErrPeerClosed = backend.ErrPeerClosed
)

// ConnectError describes a failed connection attempt.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// SendError describes a write that did not complete. Written is the number of
// bytes the transport accepted out of Size.
type SendError struct {
	Written int
	Size    int
	Err     error
}

func (e *SendError) Error() string {
	if e.Size > 0 {
		return fmt.Sprintf("%v (%d of %d bytes written): %v", ErrSendFailed, e.Written, e.Size, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrSendFailed, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrSendFailed) match any SendError.
func (e *SendError) Is(target error) bool {
	return target == ErrSendFailed
}
