package chat

import (
	"fmt"

	"github.com/atomicstack/tcp-chat/internal/conn"
	"github.com/atomicstack/tcp-chat/internal/logging/events"
)

const (
	noticeConnected    = "[system] connected to server"
	noticeDisconnected = "[system] disconnected from server"
	noticePeerClosed   = "[system] server closed the connection"
)

// Result reports what a routed event touched.
type Result struct {
	StatusChanged bool
	Appended      int
}

// Router turns connection events into status changes and log lines.
type Router struct {
	sink   Sink
	status Status
}

// NewRouter creates a router writing to sink and status.
func NewRouter(sink Sink, status Status) *Router {
	return &Router{sink: sink, status: status}
}

// Route applies one event. Inbound text is appended unchanged.
func (r *Router) Route(evt conn.Event) Result {
	var res Result
	events.Chat.Route(evt.Kind.String())
	switch evt.Kind {
	case conn.EventConnected:
		res.StatusChanged = r.setState(conn.StateConnected)
		res.Appended = r.append(LineNotice, noticeConnected)
	case conn.EventConnectFailed:
		res.StatusChanged = r.setState(conn.StateDisconnected)
		res.Appended = r.append(LineError, fmt.Sprintf("[error] connection failed: %s", errText(evt.Err)))
	case conn.EventDisconnected:
		res.StatusChanged = r.setState(conn.StateDisconnected)
		res.Appended = r.append(LineNotice, noticeDisconnected)
	case conn.EventPeerDisconnected:
		res.StatusChanged = r.setState(conn.StateDisconnected)
		res.Appended = r.append(LineNotice, noticePeerClosed)
	case conn.EventInbound:
		res.Appended = r.append(LineInbound, evt.Text)
	}
	return res
}

// Connecting marks the indicator while an attempt is in flight.
func (r *Router) Connecting() {
	r.setState(conn.StateConnecting)
}

func (r *Router) setState(state conn.State) bool {
	if r.status == nil {
		return false
	}
	r.status.SetState(state)
	return true
}

func (r *Router) append(kind LineKind, text string) int {
	if r.sink == nil {
		return 0
	}
	r.sink.AppendLine(Line{Kind: kind, Text: text})
	return 1
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
