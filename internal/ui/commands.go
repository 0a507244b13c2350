package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tcp-chat/internal/chat"
	"github.com/atomicstack/tcp-chat/internal/ui/command"
)

var errNoConnection = errors.New("not connected to server")

// submit takes the input line and either runs a local command or sends it.
func (m *Model) submit() tea.Cmd {
	text := m.input.TakeSubmittedText()
	parsed := chat.ParseInput(text)
	switch {
	case parsed.Ambiguous():
		m.warn(fmt.Sprintf("[warning] ambiguous command %s: %s", strings.TrimSpace(text), strings.Join(parsed.Candidates, ", ")))
		m.input.Restore(text)
		return nil
	case parsed.Command != chat.CommandNone:
		return m.runCommand(parsed.Command)
	}
	if m.conn == nil {
		m.warn("[warning] not connected to server, message not sent")
		m.input.Restore(text)
		return nil
	}
	chat.SendText(parsed.Text, restoreAs{inputBox: m.input, original: text}, m.conn, m.log)
	return nil
}

func (m *Model) runCommand(cmd chat.Command) tea.Cmd {
	switch cmd {
	case chat.CommandConnect:
		m.connect()
	case chat.CommandDisconnect:
		return m.disconnect()
	case chat.CommandClear:
		m.log.clear()
	case chat.CommandHelp:
		for _, line := range chat.HelpLines() {
			m.log.AppendLine(chat.Line{Kind: chat.LineNotice, Text: line})
		}
	case chat.CommandQuit:
		return m.quit(cmd.String())
	}
	return nil
}

// connect runs on the UI loop so the indicator shows the attempt before any
// event for it can be routed.
func (m *Model) connect() {
	if m.conn == nil {
		return
	}
	if !m.conn.Connect() {
		m.warn(fmt.Sprintf("[warning] already %s", m.conn.State()))
		return
	}
	m.router.Connecting()
	if m.verbose {
		m.log.AppendLine(chat.Line{Kind: chat.LineNotice, Text: fmt.Sprintf("[system] connecting to %s", m.address)})
	}
}

func (m *Model) disconnect() tea.Cmd {
	if m.conn == nil {
		m.warn("[warning] " + errNoConnection.Error())
		return nil
	}
	return m.bus.Execute(command.Request{
		ID:    "disconnect",
		Label: chat.CommandDisconnect.String(),
		Handler: func() (string, error) {
			if !m.conn.Disconnect() {
				return "", errNoConnection
			}
			return "disconnect requested", nil
		},
	})
}

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if res.Err != nil {
		m.warn("[warning] " + res.Err.Error())
		return nil
	}
	if m.verbose && res.Info != "" {
		m.log.AppendLine(chat.Line{Kind: chat.LineNotice, Text: "[system] " + res.Info})
	}
	return nil
}

func (m *Model) warn(text string) {
	m.log.AppendLine(chat.Line{Kind: chat.LineWarning, Text: text})
}
