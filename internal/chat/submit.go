package chat

import (
	"errors"
	"fmt"

	"github.com/atomicstack/tcp-chat/internal/conn"
	"github.com/atomicstack/tcp-chat/internal/logging/events"
)

const (
	warnNotConnected = "[warning] not connected to server, message not sent"
	warnEmpty        = "[warning] message cannot be empty"
)

// Submit takes the pending input and sends it. Each failure surfaces exactly
// one warning line. The input stays cleared on success and on blank text;
// otherwise it is restored so the user can retry.
func Submit(in Input, c Connection, sink Sink) error {
	text := in.TakeSubmittedText()
	return SendText(text, in, c, sink)
}

// SendText sends text that has already been taken from in.
func SendText(text string, in Input, c Connection, sink Sink) error {
	events.Chat.Submit(len(text))
	err := c.Send(text)
	if err == nil {
		return nil
	}

	var warning string
	restore := true
	switch {
	case errors.Is(err, conn.ErrNotConnected):
		warning = warnNotConnected
	case errors.Is(err, conn.ErrEmptyPayload):
		warning = warnEmpty
		restore = false
	default:
		warning = fmt.Sprintf("[warning] failed to send message, please retry: %v", err)
	}
	events.Chat.Warning(warning)
	if sink != nil {
		sink.AppendLine(Line{Kind: LineWarning, Text: warning})
	}
	if restore && in != nil {
		in.Restore(text)
	}
	return err
}
