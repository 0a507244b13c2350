package app

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tcp-chat/internal/codec"
	"github.com/atomicstack/tcp-chat/internal/conn"
	"github.com/atomicstack/tcp-chat/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Address     string
	Encoding    string
	ReadBuffer  int
	AutoConnect bool
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
}

// Run bootstraps and executes the Bubble Tea program. The connection manager
// is closed, and its goroutines joined, before Run returns.
func Run(cfg Config) error {
	enc, err := codec.Lookup(cfg.Encoding)
	if err != nil {
		return fmt.Errorf("resolve encoding: %w", err)
	}
	manager := conn.NewManager(cfg.Address, conn.WithCodec(enc), conn.WithReadBuffer(cfg.ReadBuffer))
	defer manager.Close()

	model := ui.NewModel(ui.Options{
		Address:     cfg.Address,
		Width:       cfg.Width,
		Height:      cfg.Height,
		ShowFooter:  cfg.ShowFooter,
		Verbose:     cfg.Verbose,
		AutoConnect: cfg.AutoConnect,
	}, manager, manager.Events())
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
