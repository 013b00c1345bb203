package sse

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/sarpt/hifi-web-api/pkg/state/pkg/status"
)

// ErrTransportClosed informs about a write attempted after the response was released.
var ErrTransportClosed = errors.New("server-sent events transport is closed")

// transport adapts an open http response to the channels.Transport interface.
// The channel writer goroutine and the handler goroutine race on shutdown,
// so writes and Close are serialized; after Close no write touches the response.
type transport struct {
	closed     bool
	flusher    http.Flusher
	lock       *sync.Mutex
	remoteAddr string
	res        http.ResponseWriter
}

func newTransport(res http.ResponseWriter, flusher http.Flusher, remoteAddr string) *transport {
	return &transport{
		flusher:    flusher,
		lock:       &sync.Mutex{},
		remoteAddr: remoteAddr,
		res:        res,
	}
}

func (t *transport) WriteEvent(payload []byte) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.closed {
		return ErrTransportClosed
	}

	_, err := fmt.Fprintf(t.res, "data: %s\n\n", payload)
	if err != nil {
		return err
	}

	t.flusher.Flush()
	return nil
}

func (t *transport) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.closed = true
	return nil
}

func (t *transport) Kind() status.Transport {
	return status.TransportSSE
}

func (t *transport) RemoteAddr() string {
	return t.remoteAddr
}
