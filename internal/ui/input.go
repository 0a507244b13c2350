package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const inputPrompt = "> "

// inputBox is the single-line text entry control.
type inputBox struct {
	model textinput.Model
}

func newInputBox() *inputBox {
	ti := textinput.New()
	ti.Prompt = inputPrompt
	if styles.InputPrompt != nil {
		ti.PromptStyle = styles.InputPrompt.Copy()
	}
	if styles.InputText != nil {
		ti.TextStyle = styles.InputText.Copy()
	}
	// Static cursor: no blink ticks.
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return &inputBox{model: ti}
}

// TakeSubmittedText implements chat.Input.
func (b *inputBox) TakeSubmittedText() string {
	text := b.model.Value()
	b.model.Reset()
	return text
}

// Restore implements chat.Input.
func (b *inputBox) Restore(text string) {
	b.model.SetValue(text)
	b.model.CursorEnd()
}

func (b *inputBox) Value() string {
	return b.model.Value()
}

func (b *inputBox) setWidth(width int) {
	w := width - len([]rune(inputPrompt)) - 1
	if w < 1 {
		w = 1
	}
	b.model.Width = w
}

func (b *inputBox) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	b.model, cmd = b.model.Update(msg)
	return cmd
}

func (b *inputBox) view() string {
	return b.model.View()
}

// restoreAs restores a fixed original line instead of the text that was
// handed to the connection, so an escaped "//text" comes back as typed.
type restoreAs struct {
	*inputBox
	original string
}

func (r restoreAs) Restore(string) {
	r.inputBox.Restore(r.original)
}
