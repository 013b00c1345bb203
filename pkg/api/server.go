package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sarpt/hifi-web-api/internal/channels"
	"github.com/sarpt/hifi-web-api/internal/rest"
	"github.com/sarpt/hifi-web-api/internal/sse"
	"github.com/sarpt/hifi-web-api/internal/ws"
	playbackTriggers "github.com/sarpt/hifi-web-api/pkg/api/internal/playback_triggers"
	"github.com/sarpt/hifi-web-api/pkg/catalog"
	"github.com/sarpt/hifi-web-api/pkg/mpv"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
	"github.com/sarpt/hifi-web-api/pkg/state"
)

const (
	logPrefix = "api.Server#"

	commandsBacklog     = 64
	engineEventsBacklog = 64
	fetchResultsBacklog = 16
	prefetchBacklog     = 8

	// prefetchWindowSecs decides how close to the end of the playing entry the
	// upcoming stream URL gets resolved ahead of time.
	prefetchWindowSecs = 15
)

// Engine is the playback engine facade driven by the interpreter.
// Satisfied by mpv.Manager.
type Engine interface {
	ChangePause(paused bool) error
	Close()
	LoadTrack(url string) error
	Seek(offsetSecs float64) error
	SeekTo(positionSecs float64) error
	Serve() error
	SetVolume(volume int) error
	Stop() error
	SubscribeToProperty(propertyName string, out chan<- mpv.ObservePropertyResponse) (int, error)
}

// Config controls behaviour of the api server.
// Catalog and Engine replace the HTTP catalog client and the mpv manager when
// set; production wiring leaves them empty and provides the address fields.
type Config struct {
	Address                 string
	AllowedOrigins          []string
	Catalog                 catalog.API
	CatalogAddress          string
	CatalogAppID            string
	CatalogUserToken        string
	ConfigPath              string
	Engine                  Engine
	ErrWriter               io.Writer
	MpvSocketPath           string
	OutWriter               io.Writer
	SocketConnectionTimeout time.Duration
	StartMpvInstance        bool
}

// Server aggregates player state with the channel, REST, engine and catalog
// bindings, and runs the single interpreter loop through which every state
// mutation passes.
type Server struct {
	address       string
	catalog       catalog.API
	catalogClient *catalog.Client
	channels      *channels.Manager
	commands      chan commandRequest
	configPath    string
	engine        Engine
	engineEvents  chan mpv.ObservePropertyResponse
	errLog        *log.Logger
	fetchJobs     map[fetchKey]*fetchJob
	fetchResults  chan fetchResult
	fsWatcher     *fsnotify.Watcher
	outLog        *log.Logger
	prefetched    map[int64]string
	prefetches    chan playbackTriggers.StreamPrefetchNotification
	repository    state.Repository
	restServer    *rest.Server
	sseServer     *sse.Server
	wsServer      *ws.Server

	// interpreter loop state, touched only by that goroutine
	expectRegression   bool
	lastPositionSentAt time.Time
	pendingLoad        bool
	volumeSynced       bool
}

// NewServer prepares and returns a server that can be used to handle channels and API calls.
func NewServer(cfg Config) (*Server, error) {
	if cfg.OutWriter == nil {
		cfg.OutWriter = os.Stdout
	}
	if cfg.ErrWriter == nil {
		cfg.ErrWriter = os.Stderr
	}

	repository := state.NewRepository()
	channelsManager := channels.NewManager(channels.ManagerConfig{
		ErrWriter:  cfg.ErrWriter,
		OutWriter:  cfg.OutWriter,
		Repository: repository,
	})

	catalogAPI := cfg.Catalog
	var catalogClient *catalog.Client
	if catalogAPI == nil {
		client, err := catalog.NewClient(catalog.Config{
			Address:   cfg.CatalogAddress,
			AppID:     cfg.CatalogAppID,
			UserToken: cfg.CatalogUserToken,
			ErrWriter: cfg.ErrWriter,
			OutWriter: cfg.OutWriter,
		})
		if err != nil {
			return nil, fmt.Errorf("could not prepare catalog client: %w", err)
		}

		catalogClient = client
		catalogAPI = client
	}

	engine := cfg.Engine
	if engine == nil {
		engine = mpv.NewManager(mpv.ManagerConfig{
			ErrWriter:               cfg.ErrWriter,
			MpvSocketPath:           cfg.MpvSocketPath,
			OutWriter:               cfg.OutWriter,
			SocketConnectionTimeout: cfg.SocketConnectionTimeout,
			StartMpvInstance:        cfg.StartMpvInstance,
		})
	}

	server := &Server{
		address:       cfg.Address,
		catalog:       catalogAPI,
		catalogClient: catalogClient,
		channels:      channelsManager,
		commands:      make(chan commandRequest, commandsBacklog),
		configPath:    cfg.ConfigPath,
		engine:        engine,
		engineEvents:  make(chan mpv.ObservePropertyResponse, engineEventsBacklog),
		errLog:        log.New(cfg.ErrWriter, logPrefix, log.LstdFlags),
		fetchJobs:     map[fetchKey]*fetchJob{},
		fetchResults:  make(chan fetchResult, fetchResultsBacklog),
		outLog:        log.New(cfg.OutWriter, logPrefix, log.LstdFlags),
		prefetched:    map[int64]string{},
		prefetches:    make(chan playbackTriggers.StreamPrefetchNotification, prefetchBacklog),
		repository:    repository,
	}

	server.wsServer = ws.NewServer(ws.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		Commands:       server.enqueueCommand,
		ErrWriter:      cfg.ErrWriter,
		Manager:        channelsManager,
		OutWriter:      cfg.OutWriter,
	})
	server.sseServer = sse.NewServer(sse.Config{
		ErrWriter: cfg.ErrWriter,
		Manager:   channelsManager,
		OutWriter: cfg.OutWriter,
	})
	server.restServer = rest.NewServer(rest.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		Catalog:        catalogAPI,
		Commands:       server.enqueueCommand,
		ErrWriter:      cfg.ErrWriter,
		Manager:        channelsManager,
		OutWriter:      cfg.OutWriter,
		Repository:     repository,
	})

	channelsManager.ObserveState()

	err := server.initWatchers()
	if err != nil {
		return nil, err
	}

	return server, nil
}

// Repository exposes the state aggregate, mainly for restore-on-boot wiring.
func (s *Server) Repository() state.Repository {
	return s.repository
}

// Serve starts handling channels and API endpoints along with the engine
// connection and the interpreter loop.
// Blocks until either the engine or the http server stops serving (with error or nil).
func (s *Server) Serve() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.interpreterLoop(ctx)
	go s.servePrefetchRequests(ctx)
	s.watchForConfigChanges(ctx)

	engineErr := make(chan error)
	httpServErr := make(chan error)

	serv := http.Server{
		Addr:    s.address,
		Handler: s.mainHandler(),
	}

	go func() {
		engineErr <- s.engine.Serve()

		close(engineErr)
	}()

	go func() {
		s.outLog.Printf("running server at %s\n", s.address)
		err := serv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			httpServErr <- err
		}

		close(httpServErr)
	}()

	select {
	case err := <-engineErr:
		serv.Shutdown(context.Background())
		return err
	case err := <-httpServErr:
		s.engine.Close()
		return err
	}
}

// Close cleans up server's resources.
func (s *Server) Close() {
	if s.fsWatcher != nil {
		s.fsWatcher.Close()
	}

	s.channels.Close()
	s.engine.Close()
}

func (s *Server) mainHandler() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle(ws.Path, s.wsServer)
	mux.Handle(sse.Path, s.sseServer)
	mux.Handle("/rest/", s.restServer.Handler())

	return mux
}

func (s *Server) enqueueCommand(channelID string, cmd protocol.Command) {
	s.commands <- commandRequest{
		channelID: channelID,
		cmd:       cmd,
	}
}

func (s *Server) initWatchers() error {
	prefetchTrigger, err := playbackTriggers.NewStreamPrefetch(s.repository.Tracklist(), prefetchWindowSecs, s.prefetches)
	if err != nil {
		return fmt.Errorf("could not prepare stream prefetch trigger: %w", err)
	}

	s.addPlaybackTrigger(prefetchTrigger)

	if err := s.subscribeToEngineProperties(); err != nil {
		return err
	}

	if s.configPath == "" || s.catalogClient == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not initialize config watcher: %w", err)
	}

	if err := watcher.Add(s.configPath); err != nil {
		s.outLog.Printf("config file '%s' is not watched for credential changes: %s\n", s.configPath, err)
		watcher.Close()

		return nil
	}

	s.fsWatcher = watcher
	return nil
}

func (s *Server) subscribeToEngineProperties() error {
	for _, propertyName := range mpv.ObservableProperties {
		_, err := s.engine.SubscribeToProperty(propertyName, s.engineEvents)
		if err != nil {
			return fmt.Errorf("could not subscribe to engine property %s: %w", propertyName, err)
		}
	}

	return nil
}
