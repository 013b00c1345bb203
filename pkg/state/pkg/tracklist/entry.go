package tracklist

// Status describes playback progress of a single entry within the current list.
type Status string

const (
	// StatusQueued marks an entry that was not played yet within the current list.
	StatusQueued Status = "queued"

	// StatusPlaying marks the entry currently loaded into the playback engine.
	// At most one entry of a list has this status.
	StatusPlaying Status = "playing"

	// StatusPlayed marks an entry which playback already went through (or skipped over).
	StatusPlayed Status = "played"
)

// Entry is a single playable position within a track list.
// Ordinal is the 1-based, user-facing position of the entry in its list;
// it is stable for the lifetime of the list and is not a storage index.
type Entry struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Ordinal      int    `json:"ordinal"`
	DurationSecs int    `json:"duration_secs"`
	Explicit     bool   `json:"explicit"`
	HiRes        bool   `json:"hi_res"`
	ArtistID     int64  `json:"artist_id,omitempty"`
	ArtistName   string `json:"artist_name,omitempty"`
	AlbumID      string `json:"album_id,omitempty"`
	AlbumTitle   string `json:"album_title,omitempty"`
	Status       Status `json:"status"`
}
