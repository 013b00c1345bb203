package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/catalog"
)

const (
	idArg    = "id"
	queryArg = "query"
)

// Collection reads degrade to empty shapes when the catalog is unavailable,
// so list-rendering clients keep working through outages. Reads of a single
// entity have nothing sensible to degrade to and report bad gateway instead.

func (s *Server) getSearchHandler(res http.ResponseWriter, req *http.Request) {
	query := req.URL.Query().Get(queryArg)
	if query == "" {
		common.RespondWithError(res, http.StatusBadRequest, "query argument is required")

		return
	}

	results, err := s.catalog.Search(req.Context(), query)
	if err != nil {
		s.errLog.Printf("search for %q failed: %s\n", query, err)
		results = catalog.EmptySearchResults(query)
	}

	common.RespondWithJSON(res, http.StatusOK, results)
}

func (s *Server) getAlbumHandler(res http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)[idArg]

	album, err := s.catalog.Album(req.Context(), id)
	if err != nil {
		s.respondWithCatalogError(res, err)

		return
	}

	common.RespondWithJSON(res, http.StatusOK, album)
}

func (s *Server) getArtistHandler(res http.ResponseWriter, req *http.Request) {
	id, ok := s.numericID(res, req)
	if !ok {
		return
	}

	artist, err := s.catalog.Artist(req.Context(), id)
	if err != nil {
		s.respondWithCatalogError(res, err)

		return
	}

	common.RespondWithJSON(res, http.StatusOK, artist)
}

func (s *Server) getArtistAlbumsHandler(res http.ResponseWriter, req *http.Request) {
	id, ok := s.numericID(res, req)
	if !ok {
		return
	}

	albums, err := s.catalog.ArtistAlbums(req.Context(), id)
	if err != nil {
		s.errLog.Printf("albums of artist %d could not be fetched: %s\n", id, err)
		albums = []catalog.Album{}
	}

	common.RespondWithJSON(res, http.StatusOK, albums)
}

func (s *Server) getPlaylistsHandler(res http.ResponseWriter, req *http.Request) {
	playlists, err := s.catalog.UserPlaylists(req.Context())
	if err != nil {
		s.errLog.Printf("user playlists could not be fetched: %s\n", err)
		playlists = []catalog.Playlist{}
	}

	common.RespondWithJSON(res, http.StatusOK, playlists)
}

func (s *Server) getPlaylistHandler(res http.ResponseWriter, req *http.Request) {
	id, ok := s.numericID(res, req)
	if !ok {
		return
	}

	playlist, err := s.catalog.Playlist(req.Context(), id)
	if err != nil {
		s.respondWithCatalogError(res, err)

		return
	}

	common.RespondWithJSON(res, http.StatusOK, playlist)
}

func (s *Server) getFavoritesHandler(res http.ResponseWriter, req *http.Request) {
	favorites, err := s.catalog.Favorites(req.Context())
	if err != nil {
		s.errLog.Printf("favorites could not be fetched: %s\n", err)
		favorites = catalog.EmptyFavorites()
	}

	common.RespondWithJSON(res, http.StatusOK, favorites)
}

type favoriteChangeBody struct {
	Kind catalog.FavoriteKind `json:"kind"`
	ID   string               `json:"id"`
}

func (s *Server) putFavoriteHandler(res http.ResponseWriter, req *http.Request) {
	s.changeFavorite(res, req, s.catalog.AddFavorite)
}

func (s *Server) deleteFavoriteHandler(res http.ResponseWriter, req *http.Request) {
	s.changeFavorite(res, req, s.catalog.RemoveFavorite)
}

func (s *Server) changeFavorite(res http.ResponseWriter, req *http.Request, change func(ctx context.Context, kind catalog.FavoriteKind, id string) error) {
	var body favoriteChangeBody

	err := json.NewDecoder(req.Body).Decode(&body)
	if err != nil || body.ID == "" {
		common.RespondWithError(res, http.StatusBadRequest, "favorite change requires kind and id")

		return
	}

	switch body.Kind {
	case catalog.FavoriteAlbum, catalog.FavoriteArtist, catalog.FavoritePlaylist:
	default:
		common.RespondWithError(res, http.StatusBadRequest, "unknown favorite kind")

		return
	}

	err = change(req.Context(), body.Kind, body.ID)
	if err != nil {
		s.respondWithCatalogError(res, err)

		return
	}

	res.WriteHeader(http.StatusNoContent)
}

func (s *Server) numericID(res http.ResponseWriter, req *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(req)[idArg], 10, 64)
	if err != nil {
		common.RespondWithError(res, http.StatusBadRequest, "id argument must be a number")

		return 0, false
	}

	return id, true
}

func (s *Server) respondWithCatalogError(res http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrCatalogUnavailable) {
		common.RespondWithError(res, http.StatusBadGateway, err.Error())

		return
	}

	common.RespondWithError(res, http.StatusInternalServerError, err.Error())
}
