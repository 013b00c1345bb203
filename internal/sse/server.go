package sse

import (
	"io"
	"log"
	"net/http"

	"github.com/sarpt/hifi-web-api/internal/channels"
)

const (
	logPrefix = "sse.Server#"

	// Path is the endpoint clients connect to for a one-way event channel.
	// Commands from sse-attached clients arrive through the REST command endpoint.
	Path = "/sse/channels"
)

// Config controls the created Server.
type Config struct {
	ErrWriter io.Writer
	Manager   *channels.Manager
	OutWriter io.Writer
}

// Server attaches server-sent events responses as client channels.
type Server struct {
	errLog  *log.Logger
	manager *channels.Manager
	outLog  *log.Logger
}

// NewServer prepares a server-sent events channel server.
func NewServer(cfg Config) *Server {
	return &Server{
		errLog:  log.New(cfg.ErrWriter, logPrefix, log.LstdFlags),
		manager: cfg.Manager,
		outLog:  log.New(cfg.OutWriter, logPrefix, log.LstdFlags),
	}
}

// ServeHTTP satisfies http.Handler. The response stays open until the client
// goes away or the channel is detached (slow consumption, server shutdown).
func (s *Server) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	flusher, ok := res.(http.Flusher)
	if !ok {
		s.errLog.Println("response writer does not support streaming")
		res.WriteHeader(http.StatusInternalServerError)

		return
	}

	res.Header().Set("Content-Type", "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("Access-Control-Allow-Origin", "*")
	res.WriteHeader(http.StatusOK)
	flusher.Flush()

	channel := s.manager.Attach(newTransport(res, flusher, req.RemoteAddr))

	select {
	case <-req.Context().Done():
		s.manager.Detach(channel.ID())
	case <-channel.Done():
	}
}
