package tracklist

import "encoding/json"

// Kind discriminates what playable unit the current list represents.
type Kind string

const (
	// KindAlbum is a list holding a whole album in its track order.
	KindAlbum Kind = "album"

	// KindPlaylist is a list holding entries of a catalog playlist.
	KindPlaylist Kind = "playlist"

	// KindTrack is a list holding a single standalone track.
	KindTrack Kind = "track"

	// KindUnknown is an empty list - nothing was queued yet.
	KindUnknown Kind = "unknown"
)

// AlbumMeta describes the album a KindAlbum list was built from.
type AlbumMeta struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name,omitempty"`
	CoverURL   string `json:"cover_url,omitempty"`
}

// PlaylistMeta describes the playlist a KindPlaylist list was built from.
type PlaylistMeta struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ListConfig controls content of a newly constructed List.
type ListConfig struct {
	Kind     Kind
	Album    *AlbumMeta
	Playlist *PlaylistMeta
	Entries  []Entry
}

// List is one version of "what is queued": a kind with its source metadata
// and an ordered set of entries. Lists are replaced wholesale; only entry
// statuses mutate in place between replacements.
type List struct {
	kind     Kind
	album    *AlbumMeta
	playlist *PlaylistMeta
	entries  []Entry
}

type listJSON struct {
	Kind     Kind          `json:"kind"`
	Album    *AlbumMeta    `json:"album,omitempty"`
	Playlist *PlaylistMeta `json:"playlist,omitempty"`
	Entries  []Entry       `json:"entries"`
}

func NewList(cfg ListConfig) List {
	return List{
		kind:     cfg.Kind,
		album:    cfg.Album,
		playlist: cfg.Playlist,
		entries:  cfg.Entries,
	}
}

// NewUnknownList returns the empty list every player starts with.
func NewUnknownList() List {
	return List{
		kind:    KindUnknown,
		entries: []Entry{},
	}
}

func (l List) Kind() Kind {
	return l.kind
}

// Album returns metadata of the source album for KindAlbum lists.
func (l List) Album() (AlbumMeta, bool) {
	if l.album == nil {
		return AlbumMeta{}, false
	}

	return *l.album, true
}

// Playlist returns metadata of the source playlist for KindPlaylist lists.
func (l List) Playlist() (PlaylistMeta, bool) {
	if l.playlist == nil {
		return PlaylistMeta{}, false
	}

	return *l.playlist, true
}

// Entries returns the ordered entries of the list. The returned slice is
// shared with the list and should not be mutated by callers.
func (l List) Entries() []Entry {
	return l.entries
}

func (l List) Empty() bool {
	return len(l.entries) == 0
}

// clone returns a deep copy which later entry status mutations cannot reach.
func (l *List) clone() List {
	copied := List{
		kind:    l.kind,
		entries: append([]Entry(nil), l.entries...),
	}

	if l.album != nil {
		album := *l.album
		copied.album = &album
	}
	if l.playlist != nil {
		playlist := *l.playlist
		copied.playlist = &playlist
	}

	return copied
}

// MarshalJSON satisfies json.Marshaler.
func (l List) MarshalJSON() ([]byte, error) {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}

	return json.Marshal(listJSON{
		Kind:     l.kind,
		Album:    l.album,
		Playlist: l.playlist,
		Entries:  entries,
	})
}

// UnmarshalJSON satisfies json.Unmarshaler.
func (l *List) UnmarshalJSON(data []byte) error {
	var lJSON listJSON
	if err := json.Unmarshal(data, &lJSON); err != nil {
		return err
	}

	l.kind = lJSON.Kind
	l.album = lJSON.Album
	l.playlist = lJSON.Playlist
	l.entries = lJSON.Entries
	if l.kind == "" {
		l.kind = KindUnknown
	}
	if l.entries == nil {
		l.entries = []Entry{}
	}

	return nil
}
