package ui

import (
	"context"
	"reflect"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tcp-chat/internal/chat"
	"github.com/atomicstack/tcp-chat/internal/conn"
	"github.com/atomicstack/tcp-chat/internal/logging/events"
	"github.com/atomicstack/tcp-chat/internal/theme"
	"github.com/atomicstack/tcp-chat/internal/ui/command"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// EventSource yields connection events in publication order. Next reports
// false once the source is closed. *conn.Queue satisfies it.
type EventSource interface {
	Next(ctx context.Context) (conn.Event, bool)
}

// Options configures a Model.
type Options struct {
	Address     string
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
	AutoConnect bool
}

// Model implements the Bubble Tea model for the chat client.
type Model struct {
	conn   chat.Connection
	events EventSource
	router *chat.Router
	bus    *command.Bus

	log    *messageLog
	input  *inputBox
	status *statusIndicator

	address     string
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	autoConnect bool
	quitting    bool

	handlers map[reflect.Type]msgHandler
}

// NewModel wires the presentation surface to a connection and its events.
func NewModel(opts Options, c chat.Connection, src EventSource) *Model {
	m := &Model{
		conn:        c,
		events:      src,
		bus:         command.New(),
		log:         newMessageLog(),
		input:       newInputBox(),
		status:      newStatusIndicator(),
		address:     opts.Address,
		width:       defaultWidth,
		height:      defaultHeight,
		showFooter:  opts.ShowFooter,
		verbose:     opts.Verbose,
		autoConnect: opts.AutoConnect,
	}
	m.router = chat.NewRouter(m.log, m.status)
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	if c != nil {
		m.status.SetState(c.State())
	}
	m.layout()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface. It starts draining connection
// events and, when configured, issues the initial connect.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.events != nil {
		cmds = append(cmds, waitForConnEvent(m.events))
	}
	if m.autoConnect {
		m.connect()
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(connEventMsg{}):      m.handleConnEventMsg,
		reflect.TypeOf(connDoneMsg{}):       m.handleConnDoneMsg,
		reflect.TypeOf(command.Result{}):    m.handleCommandResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return m.quit(keyMsg.String())
	case "enter":
		return m.submit()
	case "pgup", "pgdown", "up", "down":
		return m.log.update(keyMsg)
	}
	return m.input.update(keyMsg)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	sizeMsg, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = sizeMsg.Width
	}
	if !m.fixedHeight {
		m.height = sizeMsg.Height
	}
	m.layout()
	return nil
}

func (m *Model) quit(reason string) tea.Cmd {
	m.quitting = true
	events.App.Quit(reason)
	return tea.Quit
}

// Lines returns a copy of the message log.
func (m *Model) Lines() []chat.Line {
	return m.log.Lines()
}

// InputValue returns the text currently in the input box.
func (m *Model) InputValue() string {
	return m.input.Value()
}

// Status returns the state shown by the indicator.
func (m *Model) Status() conn.State {
	return m.status.State()
}

// Quitting reports whether the model has asked the program to exit.
func (m *Model) Quitting() bool {
	return m.quitting
}
