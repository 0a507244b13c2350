package ui

import (
	"context"
	"strings"

	"github.com/atomicstack/tcp-chat/internal/conn"
)

// fakeConnection mirrors the manager's contract without a socket.
type fakeConnection struct {
	state       conn.State
	sent        []string
	sendErr     error
	connects    int
	disconnects int
}

func (f *fakeConnection) Connect() bool {
	if f.state != conn.StateDisconnected {
		return false
	}
	f.connects++
	f.state = conn.StateConnecting
	return true
}

func (f *fakeConnection) Disconnect() bool {
	if f.state == conn.StateDisconnected {
		return false
	}
	f.disconnects++
	f.state = conn.StateDisconnected
	return true
}

func (f *fakeConnection) Send(text string) error {
	if f.state != conn.StateConnected {
		return conn.ErrNotConnected
	}
	payload := strings.TrimSpace(text)
	if payload == "" {
		return conn.ErrEmptyPayload
	}
	if f.sendErr != nil {
		return &conn.SendError{Err: f.sendErr}
	}
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeConnection) State() conn.State {
	return f.state
}

// closedSource reports end of stream immediately so Init never blocks.
type closedSource struct{}

func (closedSource) Next(context.Context) (conn.Event, bool) {
	return conn.Event{}, false
}

func newTestHarness(c *fakeConnection, opts Options) *Harness {
	if opts.Width == 0 {
		opts.Width = 60
	}
	if opts.Height == 0 {
		opts.Height = 12
	}
	h := NewHarness(NewModel(opts, c, closedSource{}))
	h.Start()
	return h
}
