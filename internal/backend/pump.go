package backend

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/atomicstack/tcp-chat/internal/codec"
)

// DefaultBufferSize is the read size used when none is configured.
const DefaultBufferSize = 4096

// ErrPeerClosed reports that the remote side ended the stream.
var ErrPeerClosed = errors.New("connection closed by peer")

// Handler receives everything the pump produces. Both methods are called on
// the pump goroutine and must not block on the UI.
type Handler interface {
	// Inbound delivers one decoded chunk. Returning false tells the pump the
	// connection it serves is no longer live, and the pump exits.
	Inbound(text string) bool
	// Closed is called once when the stream ends for a reason other than Stop.
	Closed(err error)
}

// Pump performs blocking reads on one connection and forwards decoded text to
// its handler in arrival order.
type Pump struct {
	r   io.Reader
	dec *codec.Decoder
	h   Handler
	buf []byte

	stopped atomic.Bool
	done    chan struct{}
}

// NewPump builds a pump over r. The pump does not own r; whoever owns it
// unblocks a pending read by closing it after calling Stop.
func NewPump(r io.Reader, dec *codec.Decoder, h Handler, bufSize int) *Pump {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	if dec == nil {
		dec = codec.UTF8().NewDecoder()
	}
	return &Pump{
		r:    r,
		dec:  dec,
		h:    h,
		buf:  make([]byte, bufSize),
		done: make(chan struct{}),
	}
}

// Run is the read loop. It returns when the peer closes, a read fails, the
// handler rejects a chunk, or Stop has been called.
func (p *Pump) Run() {
	defer close(p.done)

	for {
		if p.stopped.Load() {
			return
		}
		n, err := p.r.Read(p.buf)
		if p.stopped.Load() {
			return
		}
		if n > 0 {
			if text := p.dec.Decode(p.buf[:n]); text != "" {
				if !p.h.Inbound(text) {
					return
				}
			}
		}
		if err == nil && n > 0 {
			continue
		}
		if tail := p.dec.Flush(); tail != "" {
			if !p.h.Inbound(tail) {
				return
			}
		}
		p.h.Closed(closeReason(err))
		return
	}
}

// Stop asks the loop to exit. It takes effect at the next iteration or as
// soon as the current read returns.
func (p *Pump) Stop() {
	p.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (p *Pump) Stopped() bool {
	return p.stopped.Load()
}

// Done is closed once Run has returned.
func (p *Pump) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until Run has returned.
func (p *Pump) Wait() {
	<-p.done
}

// closeReason maps the error that ended a read loop. A zero-length read and
// io.EOF both mean the peer closed its side.
func closeReason(err error) error {
	if err == nil || errors.Is(err, io.EOF) {
		return ErrPeerClosed
	}
	return fmt.Errorf("%w: %w", ErrPeerClosed, err)
}
