// Package chat holds the thin glue between the connection manager and the
// presentation surface: the interfaces the core consumes, the routing of
// connection events to lines and status, and the submit flow.
package chat

import "github.com/atomicstack/tcp-chat/internal/conn"

// LineKind selects how a line in the message log is presented.
type LineKind int

const (
	LineInbound LineKind = iota
	LineNotice
	LineError
	LineWarning
)

// String returns the string representation of LineKind.
func (k LineKind) String() string {
	switch k {
	case LineInbound:
		return "inbound"
	case LineNotice:
		return "notice"
	case LineError:
		return "error"
	case LineWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Line is one entry of the message log.
type Line struct {
	Kind LineKind
	Text string
}

// Sink is the message log. It is only called from the UI loop.
type Sink interface {
	AppendLine(Line)
}

// Input is the text entry control.
type Input interface {
	// TakeSubmittedText returns the pending text and clears it.
	TakeSubmittedText() string
	// Restore puts text back after a send the user may want to retry.
	Restore(text string)
}

// Status is the connection indicator.
type Status interface {
	SetState(conn.State)
}

// Connection is the part of the connection manager the glue drives.
type Connection interface {
	Connect() bool
	Disconnect() bool
	Send(text string) error
	State() conn.State
}
