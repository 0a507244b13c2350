package command

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tcp-chat/internal/logging/events"
)

// Handler performs a local command. It runs on the caller's goroutine, which
// is the UI loop. The returned string is an optional informational line.
type Handler func() (string, error)

// Request encapsulates a command invocation.
type Request struct {
	ID      string
	Label   string
	Handler Handler
}

// Result is delivered back to the UI loop once a request has run.
type Result struct {
	ID    string
	Label string
	Info  string
	Err   error
}

// Bus coordinates the execution of local commands.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute runs the handler immediately while emitting trace logs, and returns
// a Bubble Tea command that reports the outcome as a Result message.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	if req.Handler == nil {
		events.Command.Skip(req.ID, req.Label)
		return nil
	}
	info, err := req.Handler()
	events.Command.Result(req.ID, req.Label, err)
	res := Result{ID: req.ID, Label: req.Label, Info: info, Err: err}
	return func() tea.Msg {
		return res
	}
}
