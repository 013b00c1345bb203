package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sarpt/hifi-web-api/pkg/catalog"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

// EventName tags a server event. Events share the single-key object encoding
// with commands.
type EventName string

const (
	EventBuffering        EventName = "buffering"
	EventLoading          EventName = "loading"
	EventPosition         EventName = "position"
	EventStatus           EventName = "status"
	EventCurrentTrackList EventName = "currentTrackList"
	EventVolume           EventName = "volume"

	EventArtistAlbums   EventName = "artistAlbums"
	EventPlaylistTracks EventName = "playlistTracks"
	EventUserPlaylists  EventName = "userPlaylists"
	EventSearchResults  EventName = "searchResults"

	EventError EventName = "error"
)

// ErrMalformedEvent reports a payload that could not be interpreted as any
// known event.
var ErrMalformedEvent = errors.New("malformed event payload")

// ErrorKind names the failure class carried by an error event.
type ErrorKind string

const (
	ErrorInvalidList        ErrorKind = "invalidList"
	ErrorEntryNotFound      ErrorKind = "entryNotFound"
	ErrorNothingToPlay      ErrorKind = "nothingToPlay"
	ErrorOutOfRange         ErrorKind = "outOfRange"
	ErrorCatalogUnavailable ErrorKind = "catalogUnavailable"
	ErrorMalformedCommand   ErrorKind = "malformedCommand"
	ErrorEngineFailure      ErrorKind = "engineFailure"
)

type BufferingPayload struct {
	IsBuffering bool `json:"is_buffering"`
}

type LoadingPayload struct {
	IsLoading bool `json:"is_loading"`
}

type PositionPayload struct {
	Clock int64 `json:"clock"`
}

type StatusPayload struct {
	Status playback.TransportStatus `json:"status"`
}

type CurrentTrackListPayload struct {
	List tracklist.List `json:"list"`
}

type VolumePayload struct {
	Value int `json:"value"`
}

type ArtistAlbumsPayload struct {
	ID     int64           `json:"id"`
	Albums []catalog.Album `json:"albums"`
}

type PlaylistTracksPayload struct {
	ID     int64           `json:"id"`
	Tracks []catalog.Track `json:"tracks"`
}

type UserPlaylistsPayload struct {
	Playlists []catalog.Playlist `json:"playlists"`
}

type SearchResultsPayload struct {
	Query     string             `json:"query"`
	Albums    []catalog.Album    `json:"albums"`
	Artists   []catalog.Artist   `json:"artists"`
	Tracks    []catalog.Track    `json:"tracks"`
	Playlists []catalog.Playlist `json:"playlists"`
}

type ErrorPayload struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Event is a decoded server event. Payload holds the typed payload struct for
// the named variant.
type Event struct {
	Name    EventName
	Payload interface{}
}

// MarshalJSON renders the single-key wire form of the event.
func (e Event) MarshalJSON() ([]byte, error) {
	payload := e.Payload
	if payload == nil {
		payload = struct{}{}
	}

	return json.Marshal(map[EventName]interface{}{
		e.Name: payload,
	})
}

func NewBufferingEvent(isBuffering bool) Event {
	return Event{Name: EventBuffering, Payload: BufferingPayload{IsBuffering: isBuffering}}
}

func NewLoadingEvent(isLoading bool) Event {
	return Event{Name: EventLoading, Payload: LoadingPayload{IsLoading: isLoading}}
}

func NewPositionEvent(clockMs int64) Event {
	return Event{Name: EventPosition, Payload: PositionPayload{Clock: clockMs}}
}

func NewStatusEvent(status playback.TransportStatus) Event {
	return Event{Name: EventStatus, Payload: StatusPayload{Status: status}}
}

func NewCurrentTrackListEvent(list tracklist.List) Event {
	return Event{Name: EventCurrentTrackList, Payload: CurrentTrackListPayload{List: list}}
}

func NewVolumeEvent(value int) Event {
	return Event{Name: EventVolume, Payload: VolumePayload{Value: value}}
}

func NewArtistAlbumsEvent(artistID int64, albums []catalog.Album) Event {
	return Event{Name: EventArtistAlbums, Payload: ArtistAlbumsPayload{ID: artistID, Albums: albums}}
}

func NewPlaylistTracksEvent(playlistID int64, tracks []catalog.Track) Event {
	return Event{Name: EventPlaylistTracks, Payload: PlaylistTracksPayload{ID: playlistID, Tracks: tracks}}
}

func NewUserPlaylistsEvent(playlists []catalog.Playlist) Event {
	return Event{Name: EventUserPlaylists, Payload: UserPlaylistsPayload{Playlists: playlists}}
}

func NewSearchResultsEvent(results catalog.SearchResults) Event {
	return Event{
		Name: EventSearchResults,
		Payload: SearchResultsPayload{
			Query:     results.Query,
			Albums:    results.Albums,
			Artists:   results.Artists,
			Tracks:    results.Tracks,
			Playlists: results.Playlists,
		},
	}
}

func NewErrorEvent(kind ErrorKind, message string) Event {
	return Event{Name: EventError, Payload: ErrorPayload{Kind: kind, Message: message}}
}

// DecodeEvent parses a single-key event object into its typed payload.
// Clients use it to interpret the server stream.
func DecodeEvent(data []byte) (Event, error) {
	var keyed map[EventName]json.RawMessage

	err := json.Unmarshal(data, &keyed)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s", ErrMalformedEvent, err)
	}

	if len(keyed) != 1 {
		return Event{}, fmt.Errorf("%w: expected exactly one event key, got %d", ErrMalformedEvent, len(keyed))
	}

	var name EventName
	var raw json.RawMessage
	for key, value := range keyed {
		name, raw = key, value
	}

	payload, err := decodeEventPayload(name, raw)
	if err != nil {
		return Event{}, err
	}

	return Event{Name: name, Payload: payload}, nil
}

func decodeEventPayload(name EventName, raw json.RawMessage) (interface{}, error) {
	switch name {
	case EventBuffering:
		var payload BufferingPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventLoading:
		var payload LoadingPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventPosition:
		var payload PositionPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventStatus:
		var payload StatusPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventCurrentTrackList:
		var payload CurrentTrackListPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventVolume:
		var payload VolumePayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventArtistAlbums:
		var payload ArtistAlbumsPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventPlaylistTracks:
		var payload PlaylistTracksPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventUserPlaylists:
		var payload UserPlaylistsPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventSearchResults:
		var payload SearchResultsPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	case EventError:
		var payload ErrorPayload
		err := unmarshalEventPayload(name, raw, &payload)

		return payload, err
	default:
		return nil, fmt.Errorf("%w: unknown event %q", ErrMalformedEvent, name)
	}
}

func unmarshalEventPayload(name EventName, raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: event %q requires a payload", ErrMalformedEvent, name)
	}

	err := json.Unmarshal(raw, out)
	if err != nil {
		return fmt.Errorf("%w: payload of %q: %s", ErrMalformedEvent, name, err)
	}

	return nil
}
