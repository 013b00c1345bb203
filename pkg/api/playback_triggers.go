package api

import (
	playbackTriggers "github.com/sarpt/hifi-web-api/pkg/api/internal/playback_triggers"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
)

func (s *Server) addPlaybackTrigger(trigger playbackTriggers.PlaybackTrigger) {
	s.repository.Playback().Subscribe(func(change playback.Change) {
		if err := trigger.Handler(change); err != nil {
			s.errLog.Printf("playback trigger returned error: %s\n", err)
		}
	})
}
