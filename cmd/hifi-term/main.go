package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sarpt/hifi-web-api/cmd/hifi-term/internal/console"
	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/internal/ws"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
)

const (
	defaultAddress = "localhost:3001"
	prompt         = "hifi> "
	reconnectDelay = 1 * time.Second

	addrFlag      = "addr"
	showTicksFlag = "show-ticks"
)

var (
	address   *string
	showTicks *bool
)

func init() {
	address = flag.String(addrFlag, defaultAddress, "address of the player server")
	showTicks = flag.Bool(showTicksFlag, false, "when provided, position updates are printed as they arrive")

	flag.Parse()
}

// session holds the active server connection. The console goroutine writes
// commands to it while the pump goroutine replaces it across reconnects.
type session struct {
	conn *websocket.Conn
	cons *console.Console
	lock sync.RWMutex
	url  url.URL
}

func (s *session) current() *websocket.Conn {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.conn
}

func (s *session) set(conn *websocket.Conn) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.conn = conn
}

// connectAndPump dials the server and renders its event stream until the
// connection dies. Connection failures are printed, not returned, so that the
// restart loop answers them with a reconnect.
func (s *session) connectAndPump() error {
	conn, _, err := websocket.DefaultDialer.Dial(s.url.String(), nil)
	if err != nil {
		s.cons.Printf("could not connect to %s: %s\n", s.url.String(), err)

		return nil
	}

	s.set(conn)
	s.cons.Printf("connected to %s\n", s.url.String())

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			s.set(nil)
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.cons.Printf("connection lost: %s\n", err)
			}

			return nil
		}

		event, err := protocol.DecodeEvent(payload)
		if err != nil {
			s.cons.Printf("skipping malformed event: %s\n", err)

			continue
		}

		s.cons.RenderEvent(event)
	}
}

// send writes a command to the active connection.
func (s *session) send(cmd protocol.Command) {
	conn := s.current()
	if conn == nil {
		s.cons.Printf("not connected - command dropped\n")

		return
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		s.cons.Printf("could not encode command: %s\n", err)

		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.cons.Printf("could not send command: %s\n", err)
	}
}

// shutdown asks the server for a clean close of the active connection.
func (s *session) shutdown() {
	conn := s.current()
	if conn == nil {
		return
	}

	closePayload := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	conn.WriteMessage(websocket.CloseMessage, closePayload)
	conn.Close()
}

func main() {
	cons, err := console.New(console.Config{Prompt: prompt, ShowTicks: *showTicks})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)

		return
	}
	defer cons.Close()

	sess := &session{
		cons: cons,
		url:  url.URL{Scheme: "ws", Host: *address, Path: ws.Path},
	}
	defer sess.shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := make(chan error, 1)
	go common.RestartWithContext(ctx, sess.connectAndPump, func() { time.Sleep(reconnectDelay) }, result)

	cons.Printf("hifi terminal - type 'help' for commands\n")

	for {
		cmd, err := cons.ReadCommand()
		if errors.Is(err, console.ErrQuit) {
			return
		} else if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)

			return
		}

		sess.send(cmd)
	}
}
