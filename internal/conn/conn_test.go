package conn

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/tcp-chat/internal/backend"
)

type fakeAddr string

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return string(a) }

// fakeConn is an in-memory net.Conn. Chunks pushed with feed are returned by
// Read one per call; peerClose makes the next Read return io.EOF.
type fakeConn struct {
	reads     chan []byte
	closed    chan struct{}
	closeOnce sync.Once
	peerOnce  sync.Once

	mu         sync.Mutex
	writes     [][]byte
	writeLimit int
	writeErr   error
	// onWrite runs at the start of every Write, outside the lock.
	onWrite    func()
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reads:  make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) feed(chunk string) {
	c.reads <- []byte(chunk)
}

func (c *fakeConn) peerClose() {
	c.peerOnce.Do(func() { close(c.reads) })
}

func (c *fakeConn) Read(b []byte) (int, error) {
	select {
	case data, ok := <-c.reads:
		if !ok {
			return 0, io.EOF
		}
		return copy(b, data), nil
	case <-c.closed:
		return 0, net.ErrClosed
	}
}

func (c *fakeConn) Write(b []byte) (int, error) {
	if c.onWrite != nil {
		c.onWrite()
	}
	if c.isClosed() {
		return 0, net.ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	n := len(b)
	if c.writeLimit > 0 && n > c.writeLimit {
		n = c.writeLimit
	}
	c.writes = append(c.writes, append([]byte(nil), b[:n]...))
	return n, nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.writes))
	for i, w := range c.writes {
		out[i] = string(w)
	}
	return out
}

func (c *fakeConn) LocalAddr() net.Addr                { return fakeAddr("127.0.0.1:50000") }
func (c *fakeConn) RemoteAddr() net.Addr               { return fakeAddr("127.0.0.1:8080") }
func (c *fakeConn) SetDeadline(time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

// fakeDialer hands out queued conns, or blocks until the context ends when
// block is set.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	err   error
	block bool
	calls int
}

func (d *fakeDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.mu.Lock()
	d.calls++
	block, err := d.block, d.err
	var c *fakeConn
	if len(d.conns) > 0 {
		c = d.conns[0]
		d.conns = d.conns[1:]
	}
	d.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = newFakeConn()
	}
	return c, nil
}

func nextEvent(t *testing.T, q *Queue) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	evt, ok := q.Next(ctx)
	if !ok {
		t.Fatalf("timed out waiting for event")
	}
	return evt
}

func expectNoEvent(t *testing.T, q *Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if evt, ok := q.Next(ctx); ok {
		t.Fatalf("unexpected event %s (%v)", evt.Kind, evt.Err)
	}
}

// drain collects every remaining event after the manager has been closed.
func drain(q *Queue) []Event {
	var out []Event
	for {
		evt, ok := q.Next(context.Background())
		if !ok {
			return out
		}
		out = append(out, evt)
	}
}

// connectFake returns a manager connected over fc.
func connectFake(t *testing.T, fc *fakeConn) *Manager {
	t.Helper()
	m := NewManager("127.0.0.1:8080", WithDialer(&fakeDialer{conns: []*fakeConn{fc}}))
	if !m.Connect() {
		t.Fatalf("Connect returned false")
	}
	if evt := nextEvent(t, m.Events()); evt.Kind != EventConnected {
		t.Fatalf("expected connected event, got %s", evt.Kind)
	}
	return m
}

// currentPump reads the running pump under the manager lock.
func currentPump(m *Manager) *backend.Pump {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pump
}
