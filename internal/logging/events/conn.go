package events

import "github.com/atomicstack/tcp-chat/internal/logging"

// ConnTracer records connection lifecycle transitions. Every entry carries the
// connection instance id so a connect/disconnect pair can be matched up.
type ConnTracer struct{}

var Conn = ConnTracer{}

func (ConnTracer) Connecting(id, address string) {
	logging.Trace("conn.connecting", map[string]interface{}{"id": id, "address": address})
}

func (ConnTracer) ConnectSkipped(state string) {
	logging.Trace("conn.connect.skip", map[string]interface{}{"state": state})
}

func (ConnTracer) Connected(id, remote string) {
	logging.Trace("conn.connected", map[string]interface{}{"id": id, "remote": remote})
}

func (ConnTracer) ConnectFailed(id string, err error) {
	logging.Trace("conn.connect.failed", map[string]interface{}{"id": id, "error": errString(err)})
}

func (ConnTracer) Disconnected(id, origin string, err error) {
	logging.Trace("conn.disconnected", map[string]interface{}{"id": id, "origin": origin, "error": errString(err)})
}

func (ConnTracer) Send(id string, size int) {
	logging.Trace("conn.send", map[string]interface{}{"id": id, "bytes": size})
}

func (ConnTracer) SendFailed(id string, err error) {
	logging.Trace("conn.send.failed", map[string]interface{}{"id": id, "error": errString(err)})
}

func (ConnTracer) Receive(id string, size int) {
	logging.Trace("conn.receive", map[string]interface{}{"id": id, "bytes": size})
}

func (ConnTracer) Closed() {
	logging.Trace("conn.closed", nil)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
