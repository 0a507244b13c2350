package conn

import (
	"context"
	"sync"
)

// EventKind identifies a lifecycle or data event.
type EventKind int

const (
	EventConnected EventKind = iota
	EventConnectFailed
	EventDisconnected
	EventPeerDisconnected
	EventInbound
)

// String returns the string representation of EventKind.
func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventConnectFailed:
		return "connect-failed"
	case EventDisconnected:
		return "disconnected"
	case EventPeerDisconnected:
		return "peer-disconnected"
	case EventInbound:
		return "inbound"
	default:
		return "unknown"
	}
}

// Event is an immutable notification from the connection manager.
type Event struct {
	Kind   EventKind
	ConnID string
	// Remote is the peer address for EventConnected.
	Remote string
	// Text is the decoded payload for EventInbound.
	Text string
	// Err is set for EventConnectFailed and EventPeerDisconnected.
	Err error
}

// Queue is an unbounded FIFO of events. Publishing never blocks, so the
// receive goroutine cannot be stalled by a slow consumer.
type Queue struct {
	mu     sync.Mutex
	items  []Event
	closed bool
	ready  chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

func (q *Queue) publish(evt Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, evt)
	q.mu.Unlock()
	q.signal()
	return true
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Next blocks until an event is available, the queue is closed and drained,
// or ctx is done. The boolean is false in the latter two cases.
func (q *Queue) Next(ctx context.Context) (Event, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			evt := q.items[0]
			q.items[0] = Event{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return evt, true
		}
		if q.closed {
			q.mu.Unlock()
			return Event{}, false
		}
		q.mu.Unlock()

		select {
		case <-q.ready:
		case <-ctx.Done():
			return Event{}, false
		}
	}
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops further publishing. Events already queued are still returned by Next.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}
