package ws

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/sarpt/hifi-web-api/internal/channels"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
)

const (
	logPrefix = "ws.Server#"

	// Path is the endpoint clients connect to for a bidirectional channel.
	Path = "/ws/channels"

	maxCommandSize = 4096
)

// CommandSink accepts commands decoded from a channel, tagged with the id of
// the channel that issued them.
type CommandSink = func(channelID string, cmd protocol.Command)

// Config controls the created Server.
type Config struct {
	AllowedOrigins []string
	Commands       CommandSink
	ErrWriter      io.Writer
	Manager        *channels.Manager
	OutWriter      io.Writer
}

// Server upgrades websocket connections into client channels: every
// connection joins the broadcast set and its incoming messages are decoded
// into commands.
type Server struct {
	commands CommandSink
	errLog   *log.Logger
	manager  *channels.Manager
	outLog   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer prepares a websocket channel server.
func NewServer(cfg Config) *Server {
	return &Server{
		commands: cfg.Commands,
		errLog:   log.New(cfg.ErrWriter, logPrefix, log.LstdFlags),
		manager:  cfg.Manager,
		outLog:   log.New(cfg.OutWriter, logPrefix, log.LstdFlags),
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(cfg.AllowedOrigins),
		},
	}
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(res, req, nil)
	if err != nil {
		s.errLog.Printf("could not upgrade connection from '%s': %s\n", req.RemoteAddr, err)
		return
	}

	channel := s.manager.Attach(&transport{conn: conn})
	s.readCommands(channel.ID(), conn)
}

// readCommands decodes incoming messages until the connection dies.
// A malformed payload is answered on the issuing channel only and does not
// terminate the connection.
func (s *Server) readCommands(channelID string, conn *websocket.Conn) {
	defer s.manager.Detach(channelID)

	conn.SetReadLimit(maxCommandSize)
	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.errLog.Printf("read on channel '%s' failed: %s\n", channelID, err)
			}

			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		cmd, err := protocol.DecodeCommand(payload)
		if err != nil {
			if !errors.Is(err, protocol.ErrMalformedCommand) {
				s.errLog.Printf("command decode on channel '%s' failed: %s\n", channelID, err)
				continue
			}

			s.manager.SendTo(channelID, protocol.NewErrorEvent(protocol.ErrorMalformedCommand, err.Error()))
			continue
		}

		s.commands(channelID, cmd)
	}
}

// originChecker allows cross-origin upgrades from the configured origins.
// An empty list allows any origin.
func originChecker(allowedOrigins []string) func(req *http.Request) bool {
	return func(req *http.Request) bool {
		if len(allowedOrigins) == 0 {
			return true
		}

		origin := req.Header.Get("Origin")
		if origin == "" {
			return true
		}

		originURL, err := url.Parse(origin)
		if err != nil {
			return false
		}

		for _, allowed := range allowedOrigins {
			allowedURL, err := url.Parse(allowed)
			if err != nil {
				continue
			}

			if originURL.Host == allowedURL.Host {
				return true
			}
		}

		return false
	}
}
