package api

import (
	"context"
	"errors"

	"github.com/sarpt/hifi-web-api/pkg/catalog"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

// ErrNothingToPlay informs about a transport command arriving while the
// current track list has no entries.
var ErrNothingToPlay = errors.New("nothing to play - current track list is empty")

// commandRequest is a decoded channel command tagged with its issuer, so
// that one-shot answers and failures reach the channel that asked.
type commandRequest struct {
	channelID string
	cmd       protocol.Command
}

// interpreterLoop is the single owner of state mutation. Channel commands,
// engine property events, catalog fetch results and prefetch resolutions
// funnel through it one at a time, so operations issued concurrently by
// different channels cannot interleave into an inconsistent list/status pair.
func (s *Server) interpreterLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.commands:
			s.handleCommand(ctx, req)
		case event := <-s.engineEvents:
			s.handlePropertyEvent(ctx, event)
		case result := <-s.fetchResults:
			s.handleFetchResult(ctx, result)
		}
	}
}

func (s *Server) handleCommand(ctx context.Context, req commandRequest) {
	s.outLog.Printf("handling command '%s' issued by channel '%s'\n", req.cmd.Name, req.channelID)

	var err error
	switch req.cmd.Name {
	case protocol.CommandPlayPause:
		err = s.handlePlayPause(ctx, req.channelID)
	case protocol.CommandPlay:
		err = s.handlePlay(ctx, req.channelID)
	case protocol.CommandPause:
		err = s.handlePause()
	case protocol.CommandStop:
		err = s.handleStopCommand()
	case protocol.CommandNext:
		err = s.switchToNeighbour(ctx, req.channelID, tracklist.DirectionNext)
	case protocol.CommandPrevious:
		err = s.switchToNeighbour(ctx, req.channelID, tracklist.DirectionPrevious)
	case protocol.CommandSkipTo:
		payload, ok := req.cmd.Payload.(protocol.SkipToPayload)
		if !ok {
			err = protocol.ErrMalformedCommand
			break
		}

		err = s.handleSkipTo(ctx, req.channelID, payload.Num)
	case protocol.CommandJumpForward:
		err = s.handleJump(jumpOffsetSecs)
	case protocol.CommandJumpBackward:
		err = s.handleJump(-jumpOffsetSecs)
	case protocol.CommandSetVolume:
		payload, ok := req.cmd.Payload.(protocol.SetVolumePayload)
		if !ok {
			err = protocol.ErrMalformedCommand
			break
		}

		err = s.handleSetVolume(payload.Value)
	case protocol.CommandPlayAlbum, protocol.CommandPlayTrack, protocol.CommandPlayPlaylist,
		protocol.CommandFetchArtistAlbums, protocol.CommandFetchPlaylistTracks,
		protocol.CommandFetchUserPlaylists, protocol.CommandSearch:
		err = s.dispatchCatalogCommand(ctx, req)
	default:
		err = protocol.ErrMalformedCommand
	}

	if err != nil {
		s.reportCommandFailure(req.channelID, req.cmd.Name, err)
	}
}

// reportCommandFailure answers the issuing channel with a one-shot error
// event besides logging the failure.
func (s *Server) reportCommandFailure(channelID string, cmd protocol.CommandName, err error) {
	s.errLog.Printf("command '%s' issued by channel '%s' failed: %s\n", cmd, channelID, err)

	s.answerChannel(channelID, protocol.NewErrorEvent(errorKindFor(err), err.Error()))
}

func errorKindFor(err error) protocol.ErrorKind {
	switch {
	case errors.Is(err, ErrNothingToPlay):
		return protocol.ErrorNothingToPlay
	case errors.Is(err, tracklist.ErrEntryNotFound):
		return protocol.ErrorEntryNotFound
	case errors.Is(err, tracklist.ErrEmptyList):
		return protocol.ErrorInvalidList
	case errors.Is(err, playback.ErrVolumeOutOfRange):
		return protocol.ErrorOutOfRange
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return protocol.ErrorCatalogUnavailable
	case errors.Is(err, protocol.ErrMalformedCommand):
		return protocol.ErrorMalformedCommand
	default:
		return protocol.ErrorEngineFailure
	}
}
