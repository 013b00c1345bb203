package catalog

// Artist is a catalog artist reference.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Album is a catalog album, with tracks populated only by detail fetches.
type Album struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Artist       Artist  `json:"artist"`
	CoverURL     string  `json:"cover_url,omitempty"`
	ReleaseYear  int     `json:"release_year,omitempty"`
	TrackCount   int     `json:"track_count"`
	DurationSecs int     `json:"duration_secs,omitempty"`
	Explicit     bool    `json:"explicit"`
	HiRes        bool    `json:"hi_res"`
	Tracks       []Track `json:"tracks,omitempty"`
}

// Track is a single catalog track. Number is the 1-based position within the
// album the track belongs to.
type Track struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Number       int    `json:"number"`
	DurationSecs int    `json:"duration_secs"`
	Explicit     bool   `json:"explicit"`
	HiRes        bool   `json:"hi_res"`
	Artist       Artist `json:"artist"`
	AlbumID      string `json:"album_id,omitempty"`
	AlbumTitle   string `json:"album_title,omitempty"`
}

// Playlist is a user playlist, with tracks populated only by detail fetches.
type Playlist struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	TrackCount int     `json:"track_count"`
	Tracks     []Track `json:"tracks,omitempty"`
}

// SearchResults groups catalog entities matching a free-text query.
type SearchResults struct {
	Query     string     `json:"query"`
	Albums    []Album    `json:"albums"`
	Artists   []Artist   `json:"artists"`
	Tracks    []Track    `json:"tracks"`
	Playlists []Playlist `json:"playlists"`
}

// Favorites groups entities the user marked as favorite.
type Favorites struct {
	Albums    []Album    `json:"albums"`
	Artists   []Artist   `json:"artists"`
	Playlists []Playlist `json:"playlists"`
}

// FavoriteKind selects the entity type of a favorites mutation.
type FavoriteKind string

const (
	FavoriteAlbum    FavoriteKind = "album"
	FavoriteArtist   FavoriteKind = "artist"
	FavoritePlaylist FavoriteKind = "playlist"
)

// EmptySearchResults returns a zero-hit result set with non-nil collections,
// the shape read surfaces fall back to when the catalog is unavailable.
func EmptySearchResults(query string) SearchResults {
	return SearchResults{
		Query:     query,
		Albums:    []Album{},
		Artists:   []Artist{},
		Tracks:    []Track{},
		Playlists: []Playlist{},
	}
}

// EmptyFavorites returns an empty favorites listing with non-nil collections.
func EmptyFavorites() Favorites {
	return Favorites{
		Albums:    []Album{},
		Artists:   []Artist{},
		Playlists: []Playlist{},
	}
}
