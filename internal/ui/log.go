package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/atomicstack/tcp-chat/internal/chat"
)

// messageLog is the scrollable display sink. It always follows the newest
// line when one is appended.
type messageLog struct {
	lines    []chat.Line
	viewport viewport.Model
}

func newMessageLog() *messageLog {
	return &messageLog{viewport: viewport.New(0, 0)}
}

// AppendLine implements chat.Sink.
func (l *messageLog) AppendLine(line chat.Line) {
	l.lines = append(l.lines, line)
	l.refresh()
	l.viewport.GotoBottom()
}

// Lines returns a copy of every line appended so far.
func (l *messageLog) Lines() []chat.Line {
	out := make([]chat.Line, len(l.lines))
	copy(out, l.lines)
	return out
}

func (l *messageLog) clear() {
	l.lines = nil
	l.refresh()
	l.viewport.GotoTop()
}

func (l *messageLog) setSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.refresh()
	l.viewport.GotoBottom()
}

func (l *messageLog) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return cmd
}

func (l *messageLog) refresh() {
	rendered := make([]string, 0, len(l.lines))
	for _, line := range l.lines {
		rendered = append(rendered, renderLine(line, l.viewport.Width))
	}
	l.viewport.SetContent(strings.Join(rendered, "\n"))
}

func (l *messageLog) view() string {
	return l.viewport.View()
}

func renderLine(line chat.Line, width int) string {
	text := line.Text
	if width > 0 {
		text = wrap.String(wordwrap.String(text, width), width)
	}
	if style := lineStyle(line.Kind); style != nil {
		return style.Render(text)
	}
	return text
}

func lineStyle(kind chat.LineKind) *lipgloss.Style {
	switch kind {
	case chat.LineNotice:
		return styles.Notice
	case chat.LineError:
		return styles.Error
	case chat.LineWarning:
		return styles.Warning
	default:
		return styles.Inbound
	}
}
