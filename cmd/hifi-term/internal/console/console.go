package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sarpt/hifi-web-api/pkg/catalog"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

// ErrQuit reports that the user asked to leave the console.
var ErrQuit = errors.New("quit requested")

// Config controls the created Console.
type Config struct {
	Prompt string

	// ShowTicks enables printing of position events, which arrive twice a
	// second during playback and are suppressed by default.
	ShowTicks bool
}

// Console is the interactive side of the terminal client: it reads lines from
// the user, turns them into player commands and renders incoming server
// events between prompts.
type Console struct {
	rl        *readline.Instance
	showTicks bool
}

func New(cfg Config) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       cfg.Prompt,
		AutoComplete: completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize readline: %w", err)
	}

	return &Console{
		rl:        rl,
		showTicks: cfg.ShowTicks,
	}, nil
}

func (c *Console) Close() error {
	return c.rl.Close()
}

// Printf writes above the active prompt, keeping the edited line intact.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.rl.Stdout(), format, args...)
}

// ReadCommand blocks until the user enters a valid command. Help and blank
// lines are handled in place; quit, Ctrl-C on an empty line and Ctrl-D
// surface as ErrQuit.
func (c *Console) ReadCommand() (protocol.Command, error) {
	for {
		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return protocol.Command{}, ErrQuit
			}

			continue
		} else if err == io.EOF {
			return protocol.Command{}, ErrQuit
		} else if err != nil {
			return protocol.Command{}, err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			c.printHelp()
		case "quit", "exit":
			return protocol.Command{}, ErrQuit
		default:
			cmd, err := parseCommand(fields)
			if err != nil {
				c.Printf("%s\n", err)

				continue
			}

			return cmd, nil
		}
	}
}

// RenderEvent prints a server event in its terminal form.
func (c *Console) RenderEvent(event protocol.Event) {
	switch payload := event.Payload.(type) {
	case protocol.StatusPayload:
		c.Printf("status: %s\n", payload.Status)
	case protocol.PositionPayload:
		if c.showTicks {
			c.Printf("position: %s\n", formatClock(payload.Clock))
		}
	case protocol.VolumePayload:
		c.Printf("volume: %d\n", payload.Value)
	case protocol.BufferingPayload:
		if payload.IsBuffering {
			c.Printf("buffering...\n")
		}
	case protocol.LoadingPayload:
		if payload.IsLoading {
			c.Printf("loading...\n")
		}
	case protocol.CurrentTrackListPayload:
		c.renderTrackList(payload.List)
	case protocol.ArtistAlbumsPayload:
		c.renderAlbums(payload.Albums)
	case protocol.PlaylistTracksPayload:
		c.renderTracks(payload.Tracks)
	case protocol.UserPlaylistsPayload:
		c.renderPlaylists(payload.Playlists)
	case protocol.SearchResultsPayload:
		c.renderSearchResults(payload)
	case protocol.ErrorPayload:
		c.Printf("error [%s]: %s\n", payload.Kind, payload.Message)
	}
}

func (c *Console) renderTrackList(list tracklist.List) {
	if list.Empty() {
		c.Printf("track list: empty\n")

		return
	}

	switch list.Kind() {
	case tracklist.KindAlbum:
		if album, ok := list.Album(); ok {
			c.Printf("album: %s - %s\n", album.ArtistName, album.Title)
		}
	case tracklist.KindPlaylist:
		if playlist, ok := list.Playlist(); ok {
			c.Printf("playlist: %s\n", playlist.Title)
		}
	case tracklist.KindTrack:
		c.Printf("single track\n")
	}

	for _, entry := range list.Entries() {
		marker := " "
		switch entry.Status {
		case tracklist.StatusPlaying:
			marker = ">"
		case tracklist.StatusPlayed:
			marker = "."
		}

		c.Printf("%s %2d. %s - %s [%s]%s\n",
			marker, entry.Ordinal, entry.ArtistName, entry.Title,
			formatDuration(entry.DurationSecs), hiResTag(entry.HiRes))
	}
}

func (c *Console) renderAlbums(albums []catalog.Album) {
	if len(albums) == 0 {
		c.Printf("no albums\n")

		return
	}

	for _, album := range albums {
		c.Printf("[%s] %s - %s (%d tracks)%s\n",
			album.ID, album.Artist.Name, album.Title, album.TrackCount, hiResTag(album.HiRes))
	}
}

func (c *Console) renderTracks(tracks []catalog.Track) {
	if len(tracks) == 0 {
		c.Printf("no tracks\n")

		return
	}

	for _, track := range tracks {
		c.Printf("[%d] %s - %s [%s]%s\n",
			track.ID, track.Artist.Name, track.Title,
			formatDuration(track.DurationSecs), hiResTag(track.HiRes))
	}
}

func (c *Console) renderPlaylists(playlists []catalog.Playlist) {
	if len(playlists) == 0 {
		c.Printf("no playlists\n")

		return
	}

	for _, playlist := range playlists {
		c.Printf("[%d] %s (%d tracks)\n", playlist.ID, playlist.Title, playlist.TrackCount)
	}
}

func (c *Console) renderSearchResults(results protocol.SearchResultsPayload) {
	c.Printf("results for %q:\n", results.Query)

	if len(results.Artists) > 0 {
		c.Printf("artists:\n")
		for _, artist := range results.Artists {
			c.Printf("  [%d] %s\n", artist.ID, artist.Name)
		}
	}
	if len(results.Albums) > 0 {
		c.Printf("albums:\n")
		for _, album := range results.Albums {
			c.Printf("  [%s] %s - %s\n", album.ID, album.Artist.Name, album.Title)
		}
	}
	if len(results.Tracks) > 0 {
		c.Printf("tracks:\n")
		for _, track := range results.Tracks {
			c.Printf("  [%d] %s - %s\n", track.ID, track.Artist.Name, track.Title)
		}
	}
	if len(results.Playlists) > 0 {
		c.Printf("playlists:\n")
		for _, playlist := range results.Playlists {
			c.Printf("  [%d] %s\n", playlist.ID, playlist.Title)
		}
	}

	if len(results.Artists) == 0 && len(results.Albums) == 0 &&
		len(results.Tracks) == 0 && len(results.Playlists) == 0 {
		c.Printf("  nothing found\n")
	}
}

func (c *Console) printHelp() {
	c.Printf(`commands:
  play                  resume playback
  pause                 pause playback
  toggle                switch between playing and paused
  stop                  stop playback
  next, prev            move to the neighbouring entry
  skip <ordinal>        play the entry at the given list position
  ff, rew               jump 10 seconds forward or backward
  volume <0-100>        set the output volume
  album <album-id>      play a whole album
  track <track-id>      play a single track
  playlist <id>         play a playlist
  albums <artist-id>    list albums of an artist
  tracks <playlist-id>  list tracks of a playlist
  playlists             list your playlists
  search <query>        search the catalog
  help                  show this help
  quit                  leave
`)
}

func parseCommand(fields []string) (protocol.Command, error) {
	switch fields[0] {
	case "play":
		return protocol.Command{Name: protocol.CommandPlay}, nil
	case "pause":
		return protocol.Command{Name: protocol.CommandPause}, nil
	case "toggle":
		return protocol.Command{Name: protocol.CommandPlayPause}, nil
	case "stop":
		return protocol.Command{Name: protocol.CommandStop}, nil
	case "next":
		return protocol.Command{Name: protocol.CommandNext}, nil
	case "prev", "previous":
		return protocol.Command{Name: protocol.CommandPrevious}, nil
	case "ff", "forward":
		return protocol.Command{Name: protocol.CommandJumpForward}, nil
	case "rew", "rewind":
		return protocol.Command{Name: protocol.CommandJumpBackward}, nil
	case "skip":
		num, err := intArg(fields, "skip <ordinal>")
		if err != nil {
			return protocol.Command{}, err
		}

		return protocol.Command{Name: protocol.CommandSkipTo, Payload: protocol.SkipToPayload{Num: num}}, nil
	case "volume":
		value, err := intArg(fields, "volume <0-100>")
		if err != nil {
			return protocol.Command{}, err
		}

		return protocol.Command{Name: protocol.CommandSetVolume, Payload: protocol.SetVolumePayload{Value: value}}, nil
	case "album":
		if len(fields) < 2 {
			return protocol.Command{}, errors.New("usage: album <album-id>")
		}

		return protocol.Command{Name: protocol.CommandPlayAlbum, Payload: protocol.PlayAlbumPayload{AlbumID: fields[1]}}, nil
	case "track":
		id, err := int64Arg(fields, "track <track-id>")
		if err != nil {
			return protocol.Command{}, err
		}

		return protocol.Command{Name: protocol.CommandPlayTrack, Payload: protocol.PlayTrackPayload{TrackID: id}}, nil
	case "playlist":
		id, err := int64Arg(fields, "playlist <playlist-id>")
		if err != nil {
			return protocol.Command{}, err
		}

		return protocol.Command{Name: protocol.CommandPlayPlaylist, Payload: protocol.PlayPlaylistPayload{PlaylistID: id}}, nil
	case "albums":
		id, err := int64Arg(fields, "albums <artist-id>")
		if err != nil {
			return protocol.Command{}, err
		}

		return protocol.Command{Name: protocol.CommandFetchArtistAlbums, Payload: protocol.FetchArtistAlbumsPayload{ArtistID: id}}, nil
	case "tracks":
		id, err := int64Arg(fields, "tracks <playlist-id>")
		if err != nil {
			return protocol.Command{}, err
		}

		return protocol.Command{Name: protocol.CommandFetchPlaylistTracks, Payload: protocol.FetchPlaylistTracksPayload{PlaylistID: id}}, nil
	case "playlists":
		return protocol.Command{Name: protocol.CommandFetchUserPlaylists}, nil
	case "search":
		if len(fields) < 2 {
			return protocol.Command{}, errors.New("usage: search <query>")
		}

		return protocol.Command{Name: protocol.CommandSearch, Payload: protocol.SearchPayload{Query: strings.Join(fields[1:], " ")}}, nil
	default:
		return protocol.Command{}, fmt.Errorf("unknown command %q - try 'help'", fields[0])
	}
}

func intArg(fields []string, usage string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("usage: %s", usage)
	}

	value, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number - usage: %s", fields[1], usage)
	}

	return value, nil
}

func int64Arg(fields []string, usage string) (int64, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("usage: %s", usage)
	}

	value, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number - usage: %s", fields[1], usage)
	}

	return value, nil
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("play"),
		readline.PcItem("pause"),
		readline.PcItem("toggle"),
		readline.PcItem("stop"),
		readline.PcItem("next"),
		readline.PcItem("prev"),
		readline.PcItem("skip"),
		readline.PcItem("ff"),
		readline.PcItem("rew"),
		readline.PcItem("volume"),
		readline.PcItem("album"),
		readline.PcItem("track"),
		readline.PcItem("playlist"),
		readline.PcItem("albums"),
		readline.PcItem("tracks"),
		readline.PcItem("playlists"),
		readline.PcItem("search"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func formatClock(ms int64) string {
	secs := ms / 1000

	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func formatDuration(secs int) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func hiResTag(hiRes bool) string {
	if hiRes {
		return " hi-res"
	}

	return ""
}
