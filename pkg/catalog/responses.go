package catalog

import (
	"github.com/samber/lo"
)

// Wire shapes of the streaming service responses. They are mapped to the
// exported models so the rest of the application never sees service naming.

type artistJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type imageJSON struct {
	Large string `json:"large"`
	Small string `json:"small"`
}

type albumJSON struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Artist          artistJSON `json:"artist"`
	Image           imageJSON  `json:"image"`
	ReleaseDateOrig string     `json:"release_date_original"`
	TracksCount     int        `json:"tracks_count"`
	Duration        int        `json:"duration"`
	ParentalWarning bool       `json:"parental_warning"`
	HiresStreamable bool       `json:"hires_streamable"`
	Tracks          *struct {
		Items []trackJSON `json:"items"`
	} `json:"tracks,omitempty"`
}

type trackJSON struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	TrackNumber     int         `json:"track_number"`
	Duration        int         `json:"duration"`
	ParentalWarning bool        `json:"parental_warning"`
	HiresStreamable bool        `json:"hires_streamable"`
	Performer       *artistJSON `json:"performer,omitempty"`
	Album           *struct {
		ID     string     `json:"id"`
		Title  string     `json:"title"`
		Artist artistJSON `json:"artist"`
	} `json:"album,omitempty"`
}

type playlistJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TracksCount int    `json:"tracks_count"`
	Tracks      *struct {
		Items []trackJSON `json:"items"`
	} `json:"tracks,omitempty"`
}

type itemsJSON[T any] struct {
	Items []T `json:"items"`
}

type albumsPageJSON struct {
	Albums itemsJSON[albumJSON] `json:"albums"`
}

type searchPageJSON struct {
	Albums    itemsJSON[albumJSON]    `json:"albums"`
	Artists   itemsJSON[artistJSON]   `json:"artists"`
	Tracks    itemsJSON[trackJSON]    `json:"tracks"`
	Playlists itemsJSON[playlistJSON] `json:"playlists"`
}

type favoritesPageJSON struct {
	Albums    itemsJSON[albumJSON]    `json:"albums"`
	Artists   itemsJSON[artistJSON]   `json:"artists"`
	Playlists itemsJSON[playlistJSON] `json:"playlists"`
}

type trackURLJSON struct {
	URL string `json:"url"`
}

func (a artistJSON) toModel() Artist {
	return Artist{ID: a.ID, Name: a.Name}
}

func (a albumJSON) toModel() Album {
	album := Album{
		ID:           a.ID,
		Title:        a.Title,
		Artist:       a.Artist.toModel(),
		CoverURL:     a.Image.Large,
		ReleaseYear:  releaseYear(a.ReleaseDateOrig),
		TrackCount:   a.TracksCount,
		DurationSecs: a.Duration,
		Explicit:     a.ParentalWarning,
		HiRes:        a.HiresStreamable,
	}

	if a.Tracks != nil {
		album.Tracks = lo.Map(a.Tracks.Items, func(t trackJSON, _ int) Track {
			track := t.toModel()
			if track.AlbumID == "" {
				track.AlbumID = a.ID
				track.AlbumTitle = a.Title
			}
			if track.Artist.Name == "" {
				track.Artist = a.Artist.toModel()
			}

			return track
		})
	}

	return album
}

func (t trackJSON) toModel() Track {
	track := Track{
		ID:           t.ID,
		Title:        t.Title,
		Number:       t.TrackNumber,
		DurationSecs: t.Duration,
		Explicit:     t.ParentalWarning,
		HiRes:        t.HiresStreamable,
	}

	if t.Performer != nil {
		track.Artist = t.Performer.toModel()
	}
	if t.Album != nil {
		track.AlbumID = t.Album.ID
		track.AlbumTitle = t.Album.Title
		if track.Artist.Name == "" {
			track.Artist = t.Album.Artist.toModel()
		}
	}

	return track
}

func (p playlistJSON) toModel() Playlist {
	playlist := Playlist{
		ID:         p.ID,
		Title:      p.Name,
		TrackCount: p.TracksCount,
	}

	if p.Tracks != nil {
		playlist.Tracks = lo.Map(p.Tracks.Items, func(t trackJSON, _ int) Track {
			return t.toModel()
		})
	}

	return playlist
}

// releaseYear extracts the year from a YYYY-MM-DD release date. Zero when the
// date is absent or not in the expected layout.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}

	year := 0
	for _, c := range date[:4] {
		if c < '0' || c > '9' {
			return 0
		}

		year = year*10 + int(c-'0')
	}

	return year
}
