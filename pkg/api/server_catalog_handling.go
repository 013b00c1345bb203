package api

import (
	"context"
	"errors"

	"github.com/rs/xid"
	"github.com/samber/lo"

	"github.com/sarpt/hifi-web-api/internal/channels"
	"github.com/sarpt/hifi-web-api/pkg/catalog"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

type fetchKind string

const (
	fetchArtistAlbums   fetchKind = "artistAlbums"
	fetchPlaylistTracks fetchKind = "playlistTracks"
	fetchUserPlaylists  fetchKind = "userPlaylists"
	fetchSearch         fetchKind = "search"
	fetchPlayAlbum      fetchKind = "playAlbum"
	fetchPlayTrack      fetchKind = "playTrack"
	fetchPlayPlaylist   fetchKind = "playPlaylist"
	fetchStreamURL      fetchKind = "streamURL"
)

// fetchKey scopes in-flight catalog work. Cancellation of a superseded
// request is per channel and per request kind - a fresh search from one
// channel never cancels another channel's fetch, nor a list install from
// the same channel.
type fetchKey struct {
	channelID string
	kind      fetchKind
}

// streamLoadKey is the single job slot for feeding the engine. A newer entry
// switch always supersedes the previous load, whoever issued it.
var streamLoadKey = fetchKey{kind: fetchStreamURL}

// fetchJob is one in-flight catalog request. id ties results back to the job,
// so results of an already superseded job are recognized as stale.
type fetchJob struct {
	cancel context.CancelFunc
	id     string
}

// fetchResult carries the outcome of catalog work back into the interpreter
// loop. apply runs on the loop goroutine and may touch state directly.
// Results without a job id (prefetch resolutions) skip the staleness check.
type fetchResult struct {
	key   fetchKey
	jobID string
	apply func(ctx context.Context)
}

// startFetchJob runs a catalog request on its own goroutine so the
// interpreter loop keeps serving commands while the catalog answers.
// A still running job under the same key is superseded.
func (s *Server) startFetchJob(ctx context.Context, key fetchKey, run func(ctx context.Context, jobID string)) {
	s.cancelFetchJob(key)

	jobCtx, cancel := context.WithCancel(ctx)
	job := &fetchJob{cancel: cancel, id: xid.New().String()}
	s.fetchJobs[key] = job

	go run(jobCtx, job.id)
}

func (s *Server) cancelFetchJob(key fetchKey) {
	if job, ok := s.fetchJobs[key]; ok {
		job.cancel()
		delete(s.fetchJobs, key)
	}
}

// postFetchResult hands a finished job's outcome to the interpreter loop.
// A cancelled job context means the job was superseded or the server is
// shutting down - nobody waits for the result anymore.
func (s *Server) postFetchResult(ctx context.Context, result fetchResult) {
	select {
	case s.fetchResults <- result:
	case <-ctx.Done():
	}
}

func (s *Server) handleFetchResult(ctx context.Context, result fetchResult) {
	if result.jobID != "" {
		job, ok := s.fetchJobs[result.key]
		if !ok || job.id != result.jobID {
			s.outLog.Printf("dropping stale '%s' result issued for channel '%s'\n", result.key.kind, result.key.channelID)

			return
		}

		job.cancel()
		delete(s.fetchJobs, result.key)
	}

	result.apply(ctx)
}

func (s *Server) dispatchCatalogCommand(ctx context.Context, req commandRequest) error {
	switch req.cmd.Name {
	case protocol.CommandPlayAlbum:
		payload, ok := req.cmd.Payload.(protocol.PlayAlbumPayload)
		if !ok {
			return protocol.ErrMalformedCommand
		}

		s.handlePlayAlbum(ctx, req.channelID, payload.AlbumID)
	case protocol.CommandPlayTrack:
		payload, ok := req.cmd.Payload.(protocol.PlayTrackPayload)
		if !ok {
			return protocol.ErrMalformedCommand
		}

		s.handlePlayTrack(ctx, req.channelID, payload.TrackID)
	case protocol.CommandPlayPlaylist:
		payload, ok := req.cmd.Payload.(protocol.PlayPlaylistPayload)
		if !ok {
			return protocol.ErrMalformedCommand
		}

		s.handlePlayPlaylist(ctx, req.channelID, payload.PlaylistID)
	case protocol.CommandFetchArtistAlbums:
		payload, ok := req.cmd.Payload.(protocol.FetchArtistAlbumsPayload)
		if !ok {
			return protocol.ErrMalformedCommand
		}

		s.handleFetchArtistAlbums(ctx, req.channelID, payload.ArtistID)
	case protocol.CommandFetchPlaylistTracks:
		payload, ok := req.cmd.Payload.(protocol.FetchPlaylistTracksPayload)
		if !ok {
			return protocol.ErrMalformedCommand
		}

		s.handleFetchPlaylistTracks(ctx, req.channelID, payload.PlaylistID)
	case protocol.CommandFetchUserPlaylists:
		s.handleFetchUserPlaylists(ctx, req.channelID)
	case protocol.CommandSearch:
		payload, ok := req.cmd.Payload.(protocol.SearchPayload)
		if !ok {
			return protocol.ErrMalformedCommand
		}

		s.handleSearch(ctx, req.channelID, payload.Query)
	}

	return nil
}

// handlePlayAlbum fetches album details off the loop and installs the album
// as the current list once they arrive. The loading flag is the observable
// sign of the fetch being in flight.
func (s *Server) handlePlayAlbum(ctx context.Context, channelID, albumID string) {
	s.repository.Playback().SetLoading(true)

	key := fetchKey{channelID: channelID, kind: fetchPlayAlbum}
	s.startFetchJob(ctx, key, func(jobCtx context.Context, jobID string) {
		album, err := s.catalog.Album(jobCtx, albumID)

		s.postFetchResult(jobCtx, fetchResult{key: key, jobID: jobID, apply: func(ctx context.Context) {
			if err != nil {
				s.repository.Playback().SetLoading(false)
				s.reportCommandFailure(channelID, protocol.CommandPlayAlbum, err)

				return
			}

			if err := s.installAndPlay(ctx, channelID, albumTrackList(album)); err != nil {
				s.reportCommandFailure(channelID, protocol.CommandPlayAlbum, err)
			}
		}})
	})
}

func (s *Server) handlePlayTrack(ctx context.Context, channelID string, trackID int64) {
	s.repository.Playback().SetLoading(true)

	key := fetchKey{channelID: channelID, kind: fetchPlayTrack}
	s.startFetchJob(ctx, key, func(jobCtx context.Context, jobID string) {
		track, err := s.catalog.Track(jobCtx, trackID)

		s.postFetchResult(jobCtx, fetchResult{key: key, jobID: jobID, apply: func(ctx context.Context) {
			if err != nil {
				s.repository.Playback().SetLoading(false)
				s.reportCommandFailure(channelID, protocol.CommandPlayTrack, err)

				return
			}

			if err := s.installAndPlay(ctx, channelID, singleTrackList(track)); err != nil {
				s.reportCommandFailure(channelID, protocol.CommandPlayTrack, err)
			}
		}})
	})
}

func (s *Server) handlePlayPlaylist(ctx context.Context, channelID string, playlistID int64) {
	s.repository.Playback().SetLoading(true)

	key := fetchKey{channelID: channelID, kind: fetchPlayPlaylist}
	s.startFetchJob(ctx, key, func(jobCtx context.Context, jobID string) {
		playlist, err := s.catalog.Playlist(jobCtx, playlistID)

		s.postFetchResult(jobCtx, fetchResult{key: key, jobID: jobID, apply: func(ctx context.Context) {
			if err != nil {
				s.repository.Playback().SetLoading(false)
				s.reportCommandFailure(channelID, protocol.CommandPlayPlaylist, err)

				return
			}

			if err := s.installAndPlay(ctx, channelID, playlistTrackList(playlist)); err != nil {
				s.reportCommandFailure(channelID, protocol.CommandPlayPlaylist, err)
			}
		}})
	})
}

// installAndPlay replaces the current list with a freshly fetched one and
// starts playback from its first entry. The list arrives with the first
// entry already promoted, so observers see a single list event covering both
// the replacement and the new playing entry.
func (s *Server) installAndPlay(ctx context.Context, issuer string, list tracklist.List) error {
	if list.Empty() {
		s.repository.Playback().SetLoading(false)

		return tracklist.ErrEmptyList
	}

	entries := list.Entries()
	entries[0].Status = tracklist.StatusPlaying

	s.repository.Playback().SetTransportStatus(playback.TransportPlaying)
	if err := s.repository.Tracklist().Replace(list); err != nil {
		s.repository.Playback().SetTransportStatus(playback.TransportStopped)
		s.repository.Playback().SetLoading(false)

		return err
	}

	s.repository.Playback().ResetPosition()
	s.expectRegression = true
	s.prefetched = map[int64]string{}
	s.repository.Playback().SetLoading(false)

	s.loadEntry(ctx, issuer, entries[0].ID)

	return nil
}

func (s *Server) handleFetchArtistAlbums(ctx context.Context, channelID string, artistID int64) {
	key := fetchKey{channelID: channelID, kind: fetchArtistAlbums}
	s.startFetchJob(ctx, key, func(jobCtx context.Context, jobID string) {
		albums, err := s.catalog.ArtistAlbums(jobCtx, artistID)

		s.postFetchResult(jobCtx, fetchResult{key: key, jobID: jobID, apply: func(context.Context) {
			if err != nil {
				s.reportCommandFailure(channelID, protocol.CommandFetchArtistAlbums, err)

				return
			}

			s.answerChannel(channelID, protocol.NewArtistAlbumsEvent(artistID, albums))
		}})
	})
}

func (s *Server) handleFetchPlaylistTracks(ctx context.Context, channelID string, playlistID int64) {
	key := fetchKey{channelID: channelID, kind: fetchPlaylistTracks}
	s.startFetchJob(ctx, key, func(jobCtx context.Context, jobID string) {
		playlist, err := s.catalog.Playlist(jobCtx, playlistID)

		s.postFetchResult(jobCtx, fetchResult{key: key, jobID: jobID, apply: func(context.Context) {
			if err != nil {
				s.reportCommandFailure(channelID, protocol.CommandFetchPlaylistTracks, err)

				return
			}

			s.answerChannel(channelID, protocol.NewPlaylistTracksEvent(playlistID, playlist.Tracks))
		}})
	})
}

func (s *Server) handleFetchUserPlaylists(ctx context.Context, channelID string) {
	key := fetchKey{channelID: channelID, kind: fetchUserPlaylists}
	s.startFetchJob(ctx, key, func(jobCtx context.Context, jobID string) {
		playlists, err := s.catalog.UserPlaylists(jobCtx)

		s.postFetchResult(jobCtx, fetchResult{key: key, jobID: jobID, apply: func(context.Context) {
			if err != nil {
				s.reportCommandFailure(channelID, protocol.CommandFetchUserPlaylists, err)

				return
			}

			s.answerChannel(channelID, protocol.NewUserPlaylistsEvent(playlists))
		}})
	})
}

func (s *Server) handleSearch(ctx context.Context, channelID, query string) {
	key := fetchKey{channelID: channelID, kind: fetchSearch}
	s.startFetchJob(ctx, key, func(jobCtx context.Context, jobID string) {
		results, err := s.catalog.Search(jobCtx, query)

		s.postFetchResult(jobCtx, fetchResult{key: key, jobID: jobID, apply: func(context.Context) {
			if err != nil {
				s.reportCommandFailure(channelID, protocol.CommandSearch, err)

				return
			}

			s.answerChannel(channelID, protocol.NewSearchResultsEvent(results))
		}})
	})
}

// answerChannel sends a one-shot event to a single channel. The channel
// detaching before its answer arrives is not a failure.
func (s *Server) answerChannel(channelID string, event protocol.Event) {
	if channelID == "" {
		return
	}

	if err := s.channels.SendTo(channelID, event); err != nil && !errors.Is(err, channels.ErrChannelNotFound) {
		s.errLog.Printf("could not answer channel '%s' with event '%s': %s\n", channelID, event.Name, err)
	}
}

func albumTrackList(album catalog.Album) tracklist.List {
	entries := lo.Map(album.Tracks, func(track catalog.Track, idx int) tracklist.Entry {
		entry := entryFromTrack(track, idx+1)
		if entry.AlbumID == "" {
			entry.AlbumID = album.ID
			entry.AlbumTitle = album.Title
		}

		return entry
	})

	return tracklist.NewList(tracklist.ListConfig{
		Kind: tracklist.KindAlbum,
		Album: &tracklist.AlbumMeta{
			ID:         album.ID,
			Title:      album.Title,
			ArtistName: album.Artist.Name,
			CoverURL:   album.CoverURL,
		},
		Entries: entries,
	})
}

func playlistTrackList(playlist catalog.Playlist) tracklist.List {
	entries := lo.Map(playlist.Tracks, func(track catalog.Track, idx int) tracklist.Entry {
		return entryFromTrack(track, idx+1)
	})

	return tracklist.NewList(tracklist.ListConfig{
		Kind: tracklist.KindPlaylist,
		Playlist: &tracklist.PlaylistMeta{
			ID:    playlist.ID,
			Title: playlist.Title,
		},
		Entries: entries,
	})
}

func singleTrackList(track catalog.Track) tracklist.List {
	return tracklist.NewList(tracklist.ListConfig{
		Kind:    tracklist.KindTrack,
		Entries: []tracklist.Entry{entryFromTrack(track, 1)},
	})
}

// entryFromTrack maps a catalog track onto a list entry. ordinal is the
// 1-based position within the list under construction, not the track's
// album number - playlists reorder tracks freely.
func entryFromTrack(track catalog.Track, ordinal int) tracklist.Entry {
	return tracklist.Entry{
		ID:           track.ID,
		Title:        track.Title,
		Ordinal:      ordinal,
		DurationSecs: track.DurationSecs,
		Explicit:     track.Explicit,
		HiRes:        track.HiRes,
		ArtistID:     track.Artist.ID,
		ArtistName:   track.Artist.Name,
		AlbumID:      track.AlbumID,
		AlbumTitle:   track.AlbumTitle,
		Status:       tracklist.StatusQueued,
	}
}
