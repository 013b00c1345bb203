package api

import (
	"context"
	"errors"

	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

// jumpOffsetSecs is the distance covered by a single jumpForward/jumpBackward.
const jumpOffsetSecs = 10.0

func (s *Server) handlePlayPause(ctx context.Context, issuer string) error {
	if s.repository.Playback().TransportStatus() == playback.TransportPlaying {
		return s.handlePause()
	}

	return s.handlePlay(ctx, issuer)
}

// handlePlay resumes a paused entry, or starts the queue from the entry
// advancement resolves when the transport is stopped.
func (s *Server) handlePlay(ctx context.Context, issuer string) error {
	switch s.repository.Playback().TransportStatus() {
	case playback.TransportPlaying:
		return nil
	case playback.TransportPaused:
		if err := s.engine.ChangePause(false); err != nil {
			return err
		}

		s.repository.Playback().SetTransportStatus(playback.TransportPlaying)
		return nil
	}

	return s.switchToNeighbour(ctx, issuer, tracklist.DirectionNext)
}

func (s *Server) handlePause() error {
	if s.repository.Tracklist().Empty() {
		return ErrNothingToPlay
	}

	if s.repository.Playback().TransportStatus() != playback.TransportPlaying {
		return nil
	}

	if err := s.engine.ChangePause(true); err != nil {
		return err
	}

	s.repository.Playback().SetTransportStatus(playback.TransportPaused)
	return nil
}

func (s *Server) handleStopCommand() error {
	if s.repository.Tracklist().Empty() {
		return ErrNothingToPlay
	}

	return s.stopPlayback()
}

// stopPlayback demotes the playing entry to played and brings both the
// transport and the engine to a stop. Used by the stop command and by
// navigation reaching a list boundary.
func (s *Server) stopPlayback() error {
	s.pendingLoad = false
	s.repository.Tracklist().ClearPlaying()
	s.repository.Playback().SetTransportStatus(playback.TransportStopped)

	return s.engine.Stop()
}

// switchToNeighbour moves playback to the entry neighbouring the playing one.
// A list boundary is a valid stop transition, not a failure.
func (s *Server) switchToNeighbour(ctx context.Context, issuer string, direction tracklist.Direction) error {
	if s.repository.Tracklist().Empty() {
		return ErrNothingToPlay
	}

	entryID, err := s.repository.Tracklist().Advance(direction)
	if errors.Is(err, tracklist.ErrNoNextEntry) || errors.Is(err, tracklist.ErrNoPreviousEntry) {
		return s.stopPlayback()
	} else if err != nil {
		return err
	}

	return s.switchToEntry(ctx, issuer, entryID)
}

func (s *Server) handleSkipTo(ctx context.Context, issuer string, ordinal int) error {
	entry, err := s.repository.Tracklist().EntryByOrdinal(ordinal)
	if err != nil {
		return err
	}

	return s.switchToEntry(ctx, issuer, entry.ID)
}

// switchToEntry makes the entry with the provided id the playing one.
// Observers see the transport status first, the updated list second and the
// position reset third; the engine load follows asynchronously once the
// stream URL is known.
func (s *Server) switchToEntry(ctx context.Context, issuer string, entryID int64) error {
	s.repository.Playback().SetTransportStatus(playback.TransportPlaying)

	if err := s.repository.Tracklist().MarkPlaying(entryID); err != nil {
		s.repository.Playback().SetTransportStatus(playback.TransportStopped)

		return err
	}

	s.repository.Playback().ResetPosition()
	s.expectRegression = true

	s.loadEntry(ctx, issuer, entryID)
	return nil
}

// handleJump seeks within the playing entry by offsetSecs. The position event
// follows from the engine tick instead of being set here - the engine stays
// the source of truth for elapsed time.
//
// Backward jumps go through a relative seek: the engine does the arithmetic
// against its own exact position (the mirrored one lags behind the tick
// throttle) and clamps at the stream start itself. Forward jumps are clamped
// to the entry duration here and sent absolute, so a jump near the end lands
// on the final moments instead of running the stream out.
func (s *Server) handleJump(offsetSecs float64) error {
	current, ok := s.repository.Tracklist().Current()
	if !ok {
		return ErrNothingToPlay
	}

	if offsetSecs < 0 {
		if err := s.engine.Seek(offsetSecs); err != nil {
			return err
		}

		s.expectRegression = true
		return nil
	}

	targetSecs := float64(s.repository.Playback().Position())/1000 + offsetSecs
	if current.DurationSecs > 0 && targetSecs > float64(current.DurationSecs) {
		targetSecs = float64(current.DurationSecs)
	}

	if err := s.engine.SeekTo(targetSecs); err != nil {
		return err
	}

	s.expectRegression = true
	return nil
}

func (s *Server) handleSetVolume(value int) error {
	if err := s.repository.Playback().SetVolume(value); err != nil {
		return err
	}

	if err := s.engine.SetVolume(value); err != nil {
		s.errLog.Printf("engine rejected volume %d: %s\n", value, err)
	}

	return nil
}
