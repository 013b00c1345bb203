package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CommandName tags a client command. On the wire every command is a JSON
// object with exactly one key, the command name, mapping to its payload.
type CommandName string

const (
	CommandPlayPause    CommandName = "playPause"
	CommandPlay         CommandName = "play"
	CommandPause        CommandName = "pause"
	CommandStop         CommandName = "stop"
	CommandNext         CommandName = "next"
	CommandPrevious     CommandName = "previous"
	CommandSkipTo       CommandName = "skipTo"
	CommandJumpForward  CommandName = "jumpForward"
	CommandJumpBackward CommandName = "jumpBackward"
	CommandSetVolume    CommandName = "setVolume"

	CommandPlayAlbum    CommandName = "playAlbum"
	CommandPlayTrack    CommandName = "playTrack"
	CommandPlayPlaylist CommandName = "playPlaylist"

	CommandFetchArtistAlbums   CommandName = "fetchArtistAlbums"
	CommandFetchPlaylistTracks CommandName = "fetchPlaylistTracks"
	CommandFetchUserPlaylists  CommandName = "fetchUserPlaylists"
	CommandSearch              CommandName = "search"
)

// ErrMalformedCommand reports a payload that could not be interpreted as any
// known command.
var ErrMalformedCommand = errors.New("malformed command payload")

type SkipToPayload struct {
	Num int `json:"num"`
}

type PlayAlbumPayload struct {
	AlbumID string `json:"album_id"`
}

type PlayTrackPayload struct {
	TrackID int64 `json:"track_id"`
}

type PlayPlaylistPayload struct {
	PlaylistID int64 `json:"playlist_id"`
}

type FetchArtistAlbumsPayload struct {
	ArtistID int64 `json:"artist_id"`
}

type FetchPlaylistTracksPayload struct {
	PlaylistID int64 `json:"playlist_id"`
}

type SearchPayload struct {
	Query string `json:"query"`
}

type SetVolumePayload struct {
	Value int `json:"value"`
}

// Command is a decoded client command. Payload holds the typed payload struct
// for commands that carry one and is nil otherwise.
type Command struct {
	Name    CommandName
	Payload interface{}
}

// MarshalJSON renders the single-key wire form of the command.
func (c Command) MarshalJSON() ([]byte, error) {
	payload := c.Payload
	if payload == nil {
		payload = struct{}{}
	}

	return json.Marshal(map[CommandName]interface{}{
		c.Name: payload,
	})
}

// DecodeCommand parses a single-key command object. An unknown name, more or
// fewer keys than one, or a payload of the wrong shape yield
// ErrMalformedCommand.
func DecodeCommand(data []byte) (Command, error) {
	var keyed map[CommandName]json.RawMessage

	err := json.Unmarshal(data, &keyed)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %s", ErrMalformedCommand, err)
	}

	if len(keyed) != 1 {
		return Command{}, fmt.Errorf("%w: expected exactly one command key, got %d", ErrMalformedCommand, len(keyed))
	}

	var name CommandName
	var raw json.RawMessage
	for key, value := range keyed {
		name, raw = key, value
	}

	payload, err := decodeCommandPayload(name, raw)
	if err != nil {
		return Command{}, err
	}

	return Command{Name: name, Payload: payload}, nil
}

func decodeCommandPayload(name CommandName, raw json.RawMessage) (interface{}, error) {
	switch name {
	case CommandPlayPause, CommandPlay, CommandPause, CommandStop,
		CommandNext, CommandPrevious, CommandJumpForward, CommandJumpBackward,
		CommandFetchUserPlaylists:
		return nil, nil
	case CommandSkipTo:
		var payload SkipToPayload
		err := unmarshalPayload(name, raw, &payload)

		return payload, err
	case CommandPlayAlbum:
		var payload PlayAlbumPayload
		err := unmarshalPayload(name, raw, &payload)

		return payload, err
	case CommandPlayTrack:
		var payload PlayTrackPayload
		err := unmarshalPayload(name, raw, &payload)

		return payload, err
	case CommandPlayPlaylist:
		var payload PlayPlaylistPayload
		err := unmarshalPayload(name, raw, &payload)

		return payload, err
	case CommandFetchArtistAlbums:
		var payload FetchArtistAlbumsPayload
		err := unmarshalPayload(name, raw, &payload)

		return payload, err
	case CommandFetchPlaylistTracks:
		var payload FetchPlaylistTracksPayload
		err := unmarshalPayload(name, raw, &payload)

		return payload, err
	case CommandSearch:
		var payload SearchPayload
		err := unmarshalPayload(name, raw, &payload)

		return payload, err
	case CommandSetVolume:
		var payload SetVolumePayload
		err := unmarshalPayload(name, raw, &payload)

		return payload, err
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrMalformedCommand, name)
	}
}

func unmarshalPayload(name CommandName, raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: command %q requires a payload", ErrMalformedCommand, name)
	}

	err := json.Unmarshal(raw, out)
	if err != nil {
		return fmt.Errorf("%w: payload of %q: %s", ErrMalformedCommand, name, err)
	}

	return nil
}
