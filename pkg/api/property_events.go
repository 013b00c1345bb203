package api

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sarpt/hifi-web-api/pkg/mpv"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

// positionTickInterval is how often at most engine position readings are
// forwarded into state. Regressions bypass the interval - they signal a seek
// or an entry switch which observers should see right away.
const positionTickInterval = 500 * time.Millisecond

// handlePropertyEvent applies a single engine property change to state.
// It runs on the interpreter loop, after commands that were already queued.
func (s *Server) handlePropertyEvent(ctx context.Context, res mpv.ObservePropertyResponse) {
	var err error
	switch res.Property {
	case mpv.IdleActiveProperty:
		err = s.handleIdleEvent(ctx, res)
	case mpv.PathProperty:
		err = s.handlePathEvent(res)
	case mpv.PauseProperty:
		err = s.handlePauseEvent(res)
	case mpv.PausedForCacheProperty:
		err = s.handlePausedForCacheEvent(res)
	case mpv.PlaybackTimeProperty:
		err = s.handlePlaybackTimeEvent(res)
	case mpv.VolumeProperty:
		err = s.handleVolumeEvent(res)
	}

	if err != nil {
		s.errLog.Printf("could not apply '%s' property event: %s\n", res.Property, err)
	}
}

// handleIdleEvent watches for the engine running out of stream while the
// player still considers an entry active - that is the end-of-track signal,
// answered by advancing the queue. Idle transitions caused by a load being
// prepared (engine stopped while a stream URL resolves) are ignored.
func (s *Server) handleIdleEvent(ctx context.Context, res mpv.ObservePropertyResponse) error {
	idle, err := mpv.PropertyBool(res.Data)
	if err != nil {
		return err
	}

	if !idle || s.pendingLoad {
		return nil
	}

	if s.repository.Playback().TransportStatus() == playback.TransportStopped {
		return nil
	}

	return s.switchToNeighbour(ctx, "", tracklist.DirectionNext)
}

// handlePathEvent marks the pending load as finished once the engine reports
// the stream it started playing. Between tracks the property has no value.
func (s *Server) handlePathEvent(res mpv.ObservePropertyResponse) error {
	if res.Data == nil {
		return nil
	}

	path, ok := res.Data.(string)
	if !ok {
		return mpv.ErrPropertyValueNotString
	}

	if path == "" {
		return nil
	}

	s.pendingLoad = false
	return nil
}

// handlePauseEvent mirrors pause flips made directly on the engine. Echoes of
// pause changes issued by the interpreter arrive already applied and are
// dropped by the difference check.
func (s *Server) handlePauseEvent(res mpv.ObservePropertyResponse) error {
	paused, err := mpv.PropertyBool(res.Data)
	if err != nil {
		return err
	}

	switch current := s.repository.Playback().TransportStatus(); {
	case paused && current == playback.TransportPlaying:
		s.repository.Playback().SetTransportStatus(playback.TransportPaused)
	case !paused && current == playback.TransportPaused:
		s.repository.Playback().SetTransportStatus(playback.TransportPlaying)
	}

	return nil
}

func (s *Server) handlePausedForCacheEvent(res mpv.ObservePropertyResponse) error {
	buffering, err := mpv.PropertyBool(res.Data)
	if err != nil {
		return err
	}

	if buffering == s.repository.Playback().Buffering() {
		return nil
	}

	s.repository.Playback().SetBuffering(buffering)
	return nil
}

// handlePlaybackTimeEvent forwards engine position ticks into state, at most
// every positionTickInterval. Ticks arriving while a load is pending belong
// to the stream being replaced and are dropped.
func (s *Server) handlePlaybackTimeEvent(res mpv.ObservePropertyResponse) error {
	secs, err := mpv.PropertyFloat(res.Data)
	if err != nil {
		if errors.Is(err, mpv.ErrPropertyValueNotString) {
			return err
		}

		// The property has no value when nothing is loaded.
		return nil
	}

	if s.pendingLoad {
		return nil
	}

	positionMs := int64(secs * 1000)
	if positionMs >= s.repository.Playback().Position() && time.Since(s.lastPositionSentAt) < positionTickInterval {
		return nil
	}

	if regressed := s.repository.Playback().SetPosition(positionMs); regressed && !s.expectRegression {
		s.outLog.Printf("position regressed to %dms without a seek or an entry switch\n", positionMs)
	}

	s.expectRegression = false
	s.lastPositionSentAt = time.Now()

	return nil
}

// handleVolumeEvent mirrors volume changes made directly on the engine.
// Values above the accepted range (mpv allows amplification) are capped.
//
// The first event after boot reports the engine's own initial volume, not a
// change made by anyone - there the player state (possibly restored from a
// previous session) wins and gets pushed to the engine instead.
func (s *Server) handleVolumeEvent(res mpv.ObservePropertyResponse) error {
	vol, err := mpv.PropertyFloat(res.Data)
	if err != nil {
		if errors.Is(err, mpv.ErrPropertyValueNotString) {
			return err
		}

		return nil
	}

	value := int(math.Round(vol))
	if value < playback.MinVolume {
		value = playback.MinVolume
	}
	if value > playback.MaxVolume {
		value = playback.MaxVolume
	}

	if !s.volumeSynced {
		s.volumeSynced = true

		if current := s.repository.Playback().Volume(); value != current {
			return s.engine.SetVolume(current)
		}

		return nil
	}

	if value == s.repository.Playback().Volume() {
		return nil
	}

	return s.repository.Playback().SetVolume(value)
}
