package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/tcp-chat/internal/conn"
)

// statusIndicator shows the connection state.
type statusIndicator struct {
	state conn.State
}

func newStatusIndicator() *statusIndicator {
	return &statusIndicator{state: conn.StateDisconnected}
}

// SetState implements chat.Status.
func (s *statusIndicator) SetState(state conn.State) {
	s.state = state
}

func (s *statusIndicator) State() conn.State {
	return s.state
}

func (s *statusIndicator) view() string {
	text := "● " + s.state.String()
	var style *lipgloss.Style
	switch s.state {
	case conn.StateConnected:
		style = styles.StatusConnected
	case conn.StateConnecting:
		style = styles.StatusConnecting
	default:
		style = styles.StatusDisconnected
	}
	if style == nil {
		return text
	}
	return style.Render(text)
}
