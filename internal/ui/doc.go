// Package ui contains the Bubble Tea program that presents the chat client.
// The Bubble Tea event loop is the single context that owns the message log,
// the input box and the status indicator; nothing outside Update touches them.
//
// Message flow:
//   - Key presses and window resizes are routed through a typed handler
//     registry so each tea.Msg is handled by a focused function.
//   - Connection events arrive through waitForConnEvent, a tea.Cmd that blocks
//     on the manager's event queue and re-arms itself after every event. Each
//     event is handed to chat.Router which updates the indicator and appends
//     the matching line.
//   - Submitted text is either resolved to a local command (see
//     chat.ParseInput) or sent through chat.SendText, which reports failures
//     as warning lines and restores the input for a retry.
//
// Local commands that drive the connection run through the internal/ui/command
// bus. The bus calls them on the UI loop, so every connection transition the
// user asks for happens there, and reports back as command.Result messages.
package ui
