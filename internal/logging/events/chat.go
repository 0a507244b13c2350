package events

import "github.com/atomicstack/tcp-chat/internal/logging"

type ChatTracer struct{}

var Chat = ChatTracer{}

func (ChatTracer) Submit(length int) {
	logging.Trace("chat.submit", map[string]interface{}{"length": length})
}

func (ChatTracer) Warning(reason string) {
	logging.Trace("chat.warning", map[string]interface{}{"reason": reason})
}

func (ChatTracer) Route(kind string) {
	logging.Trace("chat.route", map[string]interface{}{"kind": kind})
}

func (ChatTracer) Resolve(input, command string, candidates []string) {
	logging.Trace("chat.command.resolve", map[string]interface{}{
		"input":      input,
		"command":    command,
		"candidates": candidates,
	})
}
