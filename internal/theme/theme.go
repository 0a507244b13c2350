package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header             *lipgloss.Style
	Footer             *lipgloss.Style
	StatusConnected    *lipgloss.Style
	StatusConnecting   *lipgloss.Style
	StatusDisconnected *lipgloss.Style
	Inbound            *lipgloss.Style
	Notice             *lipgloss.Style
	Error              *lipgloss.Style
	Warning            *lipgloss.Style
	Separator          *lipgloss.Style
	InputPrompt        *lipgloss.Style
	InputText          *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	StatusConnected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	StatusConnecting: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),
	),
	StatusDisconnected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Inbound: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	),
	Notice: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Warning: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	Separator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	InputPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	InputText: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
