package channels

import (
	"errors"
	"sync"

	"github.com/sarpt/hifi-web-api/pkg/state/pkg/status"
)

// queueSize bounds outgoing events awaiting a write on one channel. A client
// lagging behind by this many events gets detached instead of slowing others.
const queueSize = 64

var (
	// ErrChannelClosed informs about an enqueue attempt on a detached channel.
	ErrChannelClosed = errors.New("channel is detached")

	// ErrChannelNotFound informs about an id missing from the broadcast set.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrQueueFull informs about a channel whose client cannot keep up with events.
	ErrQueueFull = errors.New("channel queue is full")
)

// Transport writes encoded events to one connected client.
// Implementations bind a concrete wire (websocket, server-sent events).
type Transport interface {
	// WriteEvent blocks until the payload is handed over to the client or the write fails.
	WriteEvent(payload []byte) error

	// Close releases the underlying connection. Called once, on detach.
	Close() error

	Kind() status.Transport
	RemoteAddr() string
}

// Channel pairs one client connection with a queue of outgoing events drained
// by a per-channel writer goroutine.
type Channel struct {
	closeOnce *sync.Once
	done      chan struct{}
	id        string
	queue     chan []byte
	transport Transport
}

func newChannel(id string, transport Transport) *Channel {
	return &Channel{
		closeOnce: &sync.Once{},
		done:      make(chan struct{}),
		id:        id,
		queue:     make(chan []byte, queueSize),
		transport: transport,
	}
}

func (c *Channel) ID() string {
	return c.id
}

// Done is closed when the channel detaches. Transports with handler-scoped
// lifetimes (server-sent events) block on it to keep their response open.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// enqueue hands the payload over to the channel writer without blocking.
func (c *Channel) enqueue(payload []byte) error {
	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}

	select {
	case c.queue <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (c *Channel) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.transport.Close()
	})
}
