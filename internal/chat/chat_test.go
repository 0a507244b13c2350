package chat

import (
	"strings"

	"github.com/atomicstack/tcp-chat/internal/conn"
)

type recordingSink struct {
	lines []Line
}

func (s *recordingSink) AppendLine(l Line) {
	s.lines = append(s.lines, l)
}

type recordingStatus struct {
	states []conn.State
}

func (s *recordingStatus) SetState(state conn.State) {
	s.states = append(s.states, state)
}

type fakeInput struct {
	pending  string
	restored []string
}

func (f *fakeInput) TakeSubmittedText() string {
	text := f.pending
	f.pending = ""
	return text
}

func (f *fakeInput) Restore(text string) {
	f.restored = append(f.restored, text)
	f.pending = text
}

type fakeConnection struct {
	state    conn.State
	sent     []string
	sendErr  error
	connects int
	drops    int
}

func (f *fakeConnection) Connect() bool {
	f.connects++
	return f.state == conn.StateDisconnected
}

func (f *fakeConnection) Disconnect() bool {
	f.drops++
	return f.state == conn.StateConnected
}

func (f *fakeConnection) Send(text string) error {
	if f.state != conn.StateConnected {
		return conn.ErrNotConnected
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return conn.ErrEmptyPayload
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeConnection) State() conn.State {
	return f.state
}
