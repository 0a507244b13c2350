package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tcp-chat/internal/conn"
)

func waitForConnEvent(src EventSource) tea.Cmd {
	return func() tea.Msg {
		evt, ok := src.Next(context.Background())
		if !ok {
			return connDoneMsg{}
		}
		return connEventMsg{event: evt}
	}
}

type connEventMsg struct {
	event conn.Event
}

type connDoneMsg struct{}

func (m *Model) handleConnEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(connEventMsg)
	if !ok {
		return nil
	}
	m.router.Route(eventMsg.event)
	if m.events != nil {
		return waitForConnEvent(m.events)
	}
	return nil
}

func (m *Model) handleConnDoneMsg(msg tea.Msg) tea.Cmd {
	m.events = nil
	return nil
}
