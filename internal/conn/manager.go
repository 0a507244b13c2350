// Package conn owns the single TCP connection of the chat client. It moves the
// connection through its lifecycle, runs the receive pump while connected and
// publishes every lifecycle change and inbound chunk on one ordered queue.
//
// All state transitions happen under one mutex. A transition out of the
// connected state is only ever performed by whoever observes the current
// connection id as connected while holding that mutex, which is what makes a
// peer close racing a local Disconnect produce a single notification.
package conn

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/atomicstack/tcp-chat/internal/backend"
	"github.com/atomicstack/tcp-chat/internal/codec"
	"github.com/atomicstack/tcp-chat/internal/logging/events"
)

// Dialer opens the transport. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithDialer replaces the default net.Dialer.
func WithDialer(d Dialer) Option {
	return func(m *Manager) {
		if d != nil {
			m.dialer = d
		}
	}
}

// WithCodec sets the wire encoding.
func WithCodec(c *codec.Codec) Option {
	return func(m *Manager) {
		if c != nil {
			m.codec = c
		}
	}
}

// WithReadBuffer sets the size of each receive read.
func WithReadBuffer(size int) Option {
	return func(m *Manager) {
		if size > 0 {
			m.readBuffer = size
		}
	}
}

// Manager is the connection manager.
type Manager struct {
	address    string
	dialer     Dialer
	codec      *codec.Codec
	readBuffer int

	mu         sync.Mutex
	state      State
	id         string
	conn       net.Conn
	pump       *backend.Pump
	dialCancel context.CancelFunc
	closed     bool

	events *Queue
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a disconnected manager for address (host:port).
func NewManager(address string, opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		address:    address,
		dialer:     &net.Dialer{},
		codec:      codec.UTF8(),
		readBuffer: backend.DefaultBufferSize,
		state:      StateDisconnected,
		events:     NewQueue(),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Address returns the fixed remote endpoint.
func (m *Manager) Address() string {
	return m.address
}

// Events returns the queue every event is published on.
func (m *Manager) Events() *Queue {
	return m.events
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ConnID returns the id of the current or most recent connection attempt.
func (m *Manager) ConnID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id
}

// Connect starts an asynchronous connection attempt. It reports false without
// doing anything when an attempt is already in flight, the connection is
// already up, or the manager has been closed.
func (m *Manager) Connect() bool {
	m.mu.Lock()
	if m.closed || m.state != StateDisconnected {
		state := m.state
		m.mu.Unlock()
		events.Conn.ConnectSkipped(state.String())
		return false
	}
	id := newConnID()
	ctx, cancel := context.WithCancel(m.ctx)
	m.id = id
	m.state = StateConnecting
	m.dialCancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	events.Conn.Connecting(id, m.address)
	go m.dial(ctx, cancel, id)
	return true
}

func (m *Manager) dial(ctx context.Context, cancel context.CancelFunc, id string) {
	defer m.wg.Done()
	defer cancel()

	c, err := m.dialer.DialContext(ctx, "tcp", m.address)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id != id || m.state != StateConnecting {
		if c != nil {
			c.Close()
		}
		return
	}
	m.dialCancel = nil
	if err != nil {
		m.state = StateDisconnected
		cerr := &ConnectError{Addr: m.address, Err: err}
		events.Conn.ConnectFailed(id, cerr)
		if !m.closed {
			m.events.publish(Event{Kind: EventConnectFailed, ConnID: id, Err: cerr})
		}
		return
	}
	if m.closed {
		m.state = StateDisconnected
		c.Close()
		return
	}

	p := backend.NewPump(c, m.codec.NewDecoder(), pumpHandler{m: m, id: id}, m.readBuffer)
	m.conn = c
	m.pump = p
	m.state = StateConnected
	remote := c.RemoteAddr().String()
	events.Conn.Connected(id, remote)
	m.events.publish(Event{Kind: EventConnected, ConnID: id, Remote: remote})

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		p.Run()
	}()
}

// Send writes the trimmed text as one message. It fails with ErrNotConnected
// outside the connected state, ErrEmptyPayload for blank text and a
// *SendError when the write does not complete. A failed send leaves the
// connection state alone. A write that fails because the connection was torn
// down underneath it reports ErrNotConnected.
func (m *Manager) Send(text string) error {
	m.mu.Lock()
	if m.state != StateConnected || m.conn == nil {
		m.mu.Unlock()
		return ErrNotConnected
	}
	c, id := m.conn, m.id
	m.mu.Unlock()

	payload := strings.TrimSpace(text)
	if payload == "" {
		return ErrEmptyPayload
	}
	data, err := m.codec.Encode(payload)
	if err != nil {
		events.Conn.SendFailed(id, err)
		return &SendError{Err: err}
	}

	n, err := c.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		if !m.live(id) {
			events.Conn.SendFailed(id, ErrNotConnected)
			return ErrNotConnected
		}
		serr := &SendError{Written: n, Size: len(data), Err: err}
		events.Conn.SendFailed(id, serr)
		return serr
	}
	events.Conn.Send(id, n)
	return nil
}

// Disconnect closes the current connection, or abandons the attempt in
// flight. It reports whether this call performed the transition; later or
// concurrent calls, and calls racing a peer close that already won, are
// no-ops.
func (m *Manager) Disconnect() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateConnecting {
		return m.abortDialLocked(m.id)
	}
	return m.teardownLocked(m.id, EventDisconnected, nil)
}

// Close shuts the manager down: the connection is torn down, an in-flight
// dial is abandoned and Close waits for every background goroutine to exit
// before closing the event queue. The manager cannot be reused.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.teardownLocked(m.id, EventDisconnected, nil)
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()
	m.events.Close()
	events.Conn.Closed()
}

// teardownLocked performs the single connected→disconnected transition for
// connection id. The caller holds m.mu.
func (m *Manager) teardownLocked(id string, kind EventKind, cause error) bool {
	if m.state != StateConnected || m.id != id {
		return false
	}
	m.state = StateDisconnected
	if m.pump != nil {
		m.pump.Stop()
		m.pump = nil
	}
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	origin := "local"
	if kind == EventPeerDisconnected {
		origin = "peer"
	}
	events.Conn.Disconnected(id, origin, cause)
	m.events.publish(Event{Kind: kind, ConnID: id, Err: cause})
	return true
}

// abortDialLocked moves attempt id from connecting to disconnected and
// cancels its dial. The dial goroutine discards whatever it gets back. The
// caller holds m.mu.
func (m *Manager) abortDialLocked(id string) bool {
	if m.closed || m.state != StateConnecting || m.id != id {
		return false
	}
	m.state = StateDisconnected
	if m.dialCancel != nil {
		m.dialCancel()
		m.dialCancel = nil
	}
	events.Conn.Disconnected(id, "local", nil)
	m.events.publish(Event{Kind: EventDisconnected, ConnID: id})
	return true
}

// live reports whether connection id is still the connected instance.
func (m *Manager) live(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateConnected && m.id == id
}

// deliver publishes an inbound chunk if connection id is still live.
func (m *Manager) deliver(id, text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateConnected || m.id != id {
		return false
	}
	events.Conn.Receive(id, len(text))
	return m.events.publish(Event{Kind: EventInbound, ConnID: id, Text: text})
}

func (m *Manager) peerClosed(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked(id, EventPeerDisconnected, err)
}

// pumpHandler binds a pump to the connection instance it was started for.
type pumpHandler struct {
	m  *Manager
	id string
}

func (h pumpHandler) Inbound(text string) bool {
	return h.m.deliver(h.id, text)
}

func (h pumpHandler) Closed(err error) {
	h.m.peerClosed(h.id, err)
}
