package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/sarpt/hifi-web-api/pkg/state/pkg/status"
)

const writeTimeout = 5 * time.Second

// transport adapts a websocket connection to the channels.Transport interface.
// Only the channel writer goroutine calls WriteEvent, reads happen in the
// handler goroutine, so no extra synchronization is needed.
type transport struct {
	conn *websocket.Conn
}

func (t *transport) WriteEvent(payload []byte) error {
	t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	return t.conn.WriteMessage(websocket.TextMessage, payload)
}

func (t *transport) Close() error {
	return t.conn.Close()
}

func (t *transport) Kind() status.Transport {
	return status.TransportWebSocket
}

func (t *transport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}
