package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	appTitle   = "tcp-chat"
	footerText = "enter send  pgup/pgdn scroll  /help commands  esc quit"
)

// chromeRows counts the rows around the log: header, two separators, input.
const chromeRows = 4

func (m *Model) layout() {
	rows := m.height - chromeRows
	if m.showFooter {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	m.log.setSize(m.width, rows)
	m.input.setWidth(m.width)
}

// View renders the header, message log, input box and optional footer.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	lines := []string{
		m.headerView(),
		m.separatorView(),
		m.log.view(),
		m.separatorView(),
		m.input.view(),
	}
	if m.showFooter {
		lines = append(lines, render(styles.Footer, footerText))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) headerView() string {
	title := appTitle
	if m.address != "" {
		title += " → " + m.address
	}
	return render(styles.Header, title) + "  " + m.status.view()
}

func (m *Model) separatorView() string {
	width := m.width
	if width < 1 {
		width = 1
	}
	return render(styles.Separator, strings.Repeat("─", width))
}

func render(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}
