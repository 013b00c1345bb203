package rest

import (
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/sarpt/hifi-web-api/internal/channels"
	"github.com/sarpt/hifi-web-api/pkg/catalog"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
	"github.com/sarpt/hifi-web-api/pkg/state"
)

const (
	logPrefix = "rest.Server#"

	playbackPath  = "/rest/playback"
	statusPath    = "/rest/status"
	commandPath   = "/rest/command"
	searchPath    = "/rest/search"
	albumPath     = "/rest/albums/{id}"
	artistPath    = "/rest/artists/{id}"
	artistAlbums  = "/rest/artists/{id}/albums"
	playlistsPath = "/rest/playlists"
	playlistPath  = "/rest/playlists/{id}"
	favoritesPath = "/rest/favorites"
)

// Config controls behaviour of the REST server.
type Config struct {
	AllowedOrigins []string
	Catalog        catalog.API
	Commands       func(channelID string, cmd protocol.Command)
	ErrWriter      io.Writer
	Manager        *channels.Manager
	OutWriter      io.Writer
	Repository     state.Repository
}

// Server exposes state reads, catalog reads and the command endpoint used by
// channels attached through one-way transports.
type Server struct {
	allowedOrigins []string
	catalog        catalog.API
	commands       func(channelID string, cmd protocol.Command)
	errLog         *log.Logger
	manager        *channels.Manager
	outLog         *log.Logger
	repository     state.Repository
}

// NewServer returns rest.Server instance.
func NewServer(cfg Config) *Server {
	return &Server{
		allowedOrigins: cfg.AllowedOrigins,
		catalog:        cfg.Catalog,
		commands:       cfg.Commands,
		errLog:         log.New(cfg.ErrWriter, logPrefix, log.LstdFlags),
		manager:        cfg.Manager,
		outLog:         log.New(cfg.OutWriter, logPrefix, log.LstdFlags),
		repository:     cfg.Repository,
	}
}

// Handler returns http.Handler responsible for the REST subtree.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc(playbackPath, s.getPlaybackHandler).Methods(http.MethodGet)
	router.HandleFunc(statusPath, s.getStatusHandler).Methods(http.MethodGet)
	router.HandleFunc(commandPath, s.postCommandHandler).Methods(http.MethodPost)

	router.HandleFunc(searchPath, s.getSearchHandler).Methods(http.MethodGet)
	router.HandleFunc(artistAlbums, s.getArtistAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc(artistPath, s.getArtistHandler).Methods(http.MethodGet)
	router.HandleFunc(albumPath, s.getAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc(playlistsPath, s.getPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc(playlistPath, s.getPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc(favoritesPath, s.getFavoritesHandler).Methods(http.MethodGet)
	router.HandleFunc(favoritesPath, s.putFavoriteHandler).Methods(http.MethodPut)
	router.HandleFunc(favoritesPath, s.deleteFavoriteHandler).Methods(http.MethodDelete)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Etag"},
	})

	return corsMiddleware.Handler(router)
}
