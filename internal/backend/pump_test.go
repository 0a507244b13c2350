package backend

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

type readResult struct {
	data []byte
	err  error
}

// scriptedReader replays a fixed sequence of read results, then blocks until
// release is closed.
type scriptedReader struct {
	steps   []readResult
	release chan struct{}
}

func (r *scriptedReader) Read(buf []byte) (int, error) {
	if len(r.steps) == 0 {
		<-r.release
		return 0, net.ErrClosed
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	n := copy(buf, step.data)
	return n, step.err
}

type recordingHandler struct {
	mu      sync.Mutex
	texts   []string
	closed  []error
	accept  bool
	limit   int
	inbound chan string
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{accept: true, inbound: make(chan string, 64)}
}

func (h *recordingHandler) Inbound(text string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.accept {
		return false
	}
	h.texts = append(h.texts, text)
	select {
	case h.inbound <- text:
	default:
	}
	if h.limit > 0 && len(h.texts) >= h.limit {
		h.accept = false
	}
	return true
}

func (h *recordingHandler) Closed(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = append(h.closed, err)
}

func (h *recordingHandler) snapshot() ([]string, []error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.texts...), append([]error(nil), h.closed...)
}

func waitDone(t *testing.T, p *Pump) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("pump did not exit")
	}
}

func TestPumpDeliversChunksInOrderThenPeerClosed(t *testing.T) {
	r := &scriptedReader{steps: []readResult{
		{data: []byte("first")},
		{data: []byte("second")},
		{data: []byte("third")},
		{err: io.EOF},
	}}
	h := newRecordingHandler()
	p := NewPump(r, nil, h, 16)
	go p.Run()
	waitDone(t, p)

	texts, closed := h.snapshot()
	want := []string{"first", "second", "third"}
	if strings.Join(texts, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, texts)
	}
	if len(closed) != 1 || !errors.Is(closed[0], ErrPeerClosed) {
		t.Fatalf("expected exactly one peer-closed, got %v", closed)
	}
}

func TestPumpZeroLengthReadIsPeerClose(t *testing.T) {
	r := &scriptedReader{steps: []readResult{{data: []byte("hi")}, {}}}
	h := newRecordingHandler()
	p := NewPump(r, nil, h, 0)
	go p.Run()
	waitDone(t, p)

	texts, closed := h.snapshot()
	if len(texts) != 1 || texts[0] != "hi" {
		t.Fatalf("unexpected texts %v", texts)
	}
	if len(closed) != 1 || closed[0] != ErrPeerClosed {
		t.Fatalf("expected bare ErrPeerClosed, got %v", closed)
	}
}

func TestPumpDeliversDataReturnedWithError(t *testing.T) {
	r := &scriptedReader{steps: []readResult{{data: []byte("last words"), err: io.EOF}}}
	h := newRecordingHandler()
	p := NewPump(r, nil, h, 0)
	go p.Run()
	waitDone(t, p)

	texts, closed := h.snapshot()
	if len(texts) != 1 || texts[0] != "last words" {
		t.Fatalf("unexpected texts %v", texts)
	}
	if len(closed) != 1 {
		t.Fatalf("expected one close, got %v", closed)
	}
}

func TestPumpReadErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	r := &scriptedReader{steps: []readResult{{err: cause}}}
	h := newRecordingHandler()
	p := NewPump(r, nil, h, 0)
	go p.Run()
	waitDone(t, p)

	_, closed := h.snapshot()
	if len(closed) != 1 {
		t.Fatalf("expected one close, got %v", closed)
	}
	if !errors.Is(closed[0], ErrPeerClosed) || !errors.Is(closed[0], cause) {
		t.Fatalf("expected error wrapping both ErrPeerClosed and cause, got %v", closed[0])
	}
}

func TestPumpStopSuppressesCloseNotification(t *testing.T) {
	r := &scriptedReader{release: make(chan struct{})}
	h := newRecordingHandler()
	p := NewPump(r, nil, h, 0)
	go p.Run()

	p.Stop()
	if !p.Stopped() {
		t.Fatalf("expected Stopped to report true")
	}
	close(r.release)
	waitDone(t, p)

	texts, closed := h.snapshot()
	if len(texts) != 0 || len(closed) != 0 {
		t.Fatalf("expected no callbacks after stop, got texts=%v closed=%v", texts, closed)
	}
}

func TestPumpExitsWhenHandlerRejects(t *testing.T) {
	r := &scriptedReader{steps: []readResult{
		{data: []byte("one")},
		{data: []byte("two")},
		{data: []byte("three")},
	}, release: make(chan struct{})}
	defer close(r.release)
	h := newRecordingHandler()
	h.limit = 1
	p := NewPump(r, nil, h, 0)
	go p.Run()
	waitDone(t, p)

	texts, closed := h.snapshot()
	if len(texts) != 1 || texts[0] != "one" {
		t.Fatalf("expected only the first chunk, got %v", texts)
	}
	if len(closed) != 0 {
		t.Fatalf("expected no close notification, got %v", closed)
	}
}

func TestPumpReassemblesSplitCharacter(t *testing.T) {
	raw := []byte("héllo")
	r := &scriptedReader{steps: []readResult{
		{data: raw[:2]},
		{data: raw[2:]},
		{err: io.EOF},
	}}
	h := newRecordingHandler()
	p := NewPump(r, nil, h, 0)
	go p.Run()
	waitDone(t, p)

	texts, _ := h.snapshot()
	if strings.Join(texts, "") != "héllo" {
		t.Fatalf("expected héllo, got %q", texts)
	}
}

func TestPumpPreservesOrderOverSocket(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	h := newRecordingHandler()
	p := NewPump(client, nil, h, 64)
	go p.Run()

	rng := rand.New(rand.NewSource(42))
	var sent strings.Builder
	for i := 0; i < 50; i++ {
		msg := fmt.Sprintf("<%d:%s>", i, strings.Repeat("x", rng.Intn(20)))
		sent.WriteString(msg)
		if _, err := server.Write([]byte(msg)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	server.Close()
	waitDone(t, p)

	texts, closed := h.snapshot()
	if got := strings.Join(texts, ""); got != sent.String() {
		t.Fatalf("stream reordered or truncated:\nwant %s\ngot  %s", sent.String(), got)
	}
	if len(closed) != 1 {
		t.Fatalf("expected a single close, got %v", closed)
	}
}
