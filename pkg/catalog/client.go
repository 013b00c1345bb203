package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	logPrefix = "catalog.Client#"

	appIDHeader     = "X-App-Id"
	userTokenHeader = "X-User-Auth-Token"
	userAgent       = "hifi-web-api/1.0"

	searchLimit = "20"

	defaultTimeout = 15 * time.Second
)

// ErrCatalogUnavailable reports that the remote catalog could not serve a
// request (network failure, timeout or a non-2xx response).
var ErrCatalogUnavailable = errors.New("catalog service unavailable")

// API is the catalog surface the player depends on.
type API interface {
	Album(ctx context.Context, id string) (Album, error)
	Artist(ctx context.Context, id int64) (Artist, error)
	ArtistAlbums(ctx context.Context, artistID int64) ([]Album, error)
	Playlist(ctx context.Context, id int64) (Playlist, error)
	UserPlaylists(ctx context.Context) ([]Playlist, error)
	Track(ctx context.Context, id int64) (Track, error)
	TrackURL(ctx context.Context, id int64) (string, error)
	Search(ctx context.Context, query string) (SearchResults, error)
	Favorites(ctx context.Context) (Favorites, error)
	AddFavorite(ctx context.Context, kind FavoriteKind, id string) error
	RemoveFavorite(ctx context.Context, kind FavoriteKind, id string) error
}

// Config controls the created Client.
type Config struct {
	Address   string
	AppID     string
	UserToken string
	Timeout   time.Duration
	ErrWriter io.Writer
	OutWriter io.Writer
}

// Client talks to the remote streaming catalog over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	credLock  *sync.RWMutex
	appID     string
	userToken string

	errLog *log.Logger
	outLog *log.Logger
}

var _ API = (*Client)(nil)

// NewClient validates the catalog address and prepares a Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL, err := url.Parse(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("could not parse catalog address %q: %w", cfg.Address, err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		credLock:  &sync.RWMutex{},
		appID:     cfg.AppID,
		userToken: cfg.UserToken,
		errLog:    log.New(cfg.ErrWriter, logPrefix, log.LstdFlags),
		outLog:    log.New(cfg.OutWriter, logPrefix, log.LstdFlags),
	}, nil
}

// SetCredentials swaps the authentication material used for subsequent
// requests. In-flight requests keep the credentials they started with.
func (c *Client) SetCredentials(appID, userToken string) {
	c.credLock.Lock()
	defer c.credLock.Unlock()

	c.appID = appID
	c.userToken = userToken
	c.outLog.Println("catalog credentials updated")
}

// Album fetches a single album including its tracks.
func (c *Client) Album(ctx context.Context, id string) (Album, error) {
	var payload albumJSON

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("albums/%s", url.PathEscape(id)), nil, nil, &payload)
	if err != nil {
		return Album{}, err
	}

	return payload.toModel(), nil
}

// Artist fetches a single artist.
func (c *Client) Artist(ctx context.Context, id int64) (Artist, error) {
	var payload artistJSON

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("artists/%d", id), nil, nil, &payload)
	if err != nil {
		return Artist{}, err
	}

	return payload.toModel(), nil
}

// ArtistAlbums fetches the albums released by an artist, without tracks.
func (c *Client) ArtistAlbums(ctx context.Context, artistID int64) ([]Album, error) {
	var payload albumsPageJSON

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("artists/%d/albums", artistID), nil, nil, &payload)
	if err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(payload.Albums.Items))
	for _, album := range payload.Albums.Items {
		albums = append(albums, album.toModel())
	}

	return albums, nil
}

// Playlist fetches a single playlist including its tracks.
func (c *Client) Playlist(ctx context.Context, id int64) (Playlist, error) {
	var payload playlistJSON

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("playlists/%d", id), nil, nil, &payload)
	if err != nil {
		return Playlist{}, err
	}

	return payload.toModel(), nil
}

// UserPlaylists fetches the playlists owned by the authenticated user,
// without tracks.
func (c *Client) UserPlaylists(ctx context.Context) ([]Playlist, error) {
	var payload struct {
		Playlists itemsJSON[playlistJSON] `json:"playlists"`
	}

	err := c.do(ctx, http.MethodGet, "me/playlists", nil, nil, &payload)
	if err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(payload.Playlists.Items))
	for _, playlist := range payload.Playlists.Items {
		playlists = append(playlists, playlist.toModel())
	}

	return playlists, nil
}

// Track fetches a single track.
func (c *Client) Track(ctx context.Context, id int64) (Track, error) {
	var payload trackJSON

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("tracks/%d", id), nil, nil, &payload)
	if err != nil {
		return Track{}, err
	}

	return payload.toModel(), nil
}

// TrackURL resolves the time-limited stream URL for a track.
func (c *Client) TrackURL(ctx context.Context, id int64) (string, error) {
	var payload trackURLJSON

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("tracks/%d/url", id), nil, nil, &payload)
	if err != nil {
		return "", err
	}

	if payload.URL == "" {
		return "", fmt.Errorf("%w: empty stream url for track %d", ErrCatalogUnavailable, id)
	}

	return payload.URL, nil
}

// Search runs a free-text query across albums, artists, tracks and playlists.
func (c *Client) Search(ctx context.Context, query string) (SearchResults, error) {
	var payload searchPageJSON

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", searchLimit)

	err := c.do(ctx, http.MethodGet, "search", params, nil, &payload)
	if err != nil {
		return SearchResults{}, err
	}

	results := EmptySearchResults(query)
	for _, album := range payload.Albums.Items {
		results.Albums = append(results.Albums, album.toModel())
	}
	for _, artist := range payload.Artists.Items {
		results.Artists = append(results.Artists, artist.toModel())
	}
	for _, track := range payload.Tracks.Items {
		results.Tracks = append(results.Tracks, track.toModel())
	}
	for _, playlist := range payload.Playlists.Items {
		results.Playlists = append(results.Playlists, playlist.toModel())
	}

	return results, nil
}

// Favorites fetches the entities the user marked as favorite.
func (c *Client) Favorites(ctx context.Context) (Favorites, error) {
	var payload favoritesPageJSON

	err := c.do(ctx, http.MethodGet, "me/favorites", nil, nil, &payload)
	if err != nil {
		return Favorites{}, err
	}

	favorites := EmptyFavorites()
	for _, album := range payload.Albums.Items {
		favorites.Albums = append(favorites.Albums, album.toModel())
	}
	for _, artist := range payload.Artists.Items {
		favorites.Artists = append(favorites.Artists, artist.toModel())
	}
	for _, playlist := range payload.Playlists.Items {
		favorites.Playlists = append(favorites.Playlists, playlist.toModel())
	}

	return favorites, nil
}

type favoriteChangeJSON struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// AddFavorite marks a catalog entity as favorite.
func (c *Client) AddFavorite(ctx context.Context, kind FavoriteKind, id string) error {
	body := favoriteChangeJSON{Kind: string(kind), ID: id}

	return c.do(ctx, http.MethodPut, "me/favorites", nil, &body, nil)
}

// RemoveFavorite removes a catalog entity from favorites.
func (c *Client) RemoveFavorite(ctx context.Context, kind FavoriteKind, id string) error {
	body := favoriteChangeJSON{Kind: string(kind), ID: id}

	return c.do(ctx, http.MethodDelete, "me/favorites", nil, &body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	reqURL := c.baseURL.JoinPath(path)
	if params != nil {
		reqURL.RawQuery = params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode %s %s request body: %w", method, path, err)
		}

		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return fmt.Errorf("could not prepare %s %s request: %w", method, path, err)
	}

	c.credLock.RLock()
	req.Header.Set(appIDHeader, c.appID)
	req.Header.Set(userTokenHeader, c.userToken)
	c.credLock.RUnlock()

	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.errLog.Printf("%s %s failed: %s\n", method, path, err)
		return fmt.Errorf("%w: %s", ErrCatalogUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.errLog.Printf("%s %s returned status %s\n", method, path, res.Status)
		return fmt.Errorf("%w: %s %s returned %d", ErrCatalogUnavailable, method, path, res.StatusCode)
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(res.Body).Decode(out)
	if err != nil {
		c.errLog.Printf("%s %s response could not be decoded: %s\n", method, path, err)
		return fmt.Errorf("%w: malformed response to %s %s", ErrCatalogUnavailable, method, path)
	}

	return nil
}
