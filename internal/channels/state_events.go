package channels

import (
	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

// ObserveState subscribes the manager to the repository change stream,
// broadcasting a protocol event for every observed state change.
// Channel registry changes stay internal - they have no protocol event.
func (m *Manager) ObserveState() {
	m.repository.Subscribe(func(change common.Change) {
		event, ok := eventForChange(change)
		if !ok {
			return
		}

		m.Broadcast(event)
	})
}

func eventForChange(change common.Change) (protocol.Event, bool) {
	switch typed := change.(type) {
	case tracklist.Change:
		return protocol.NewCurrentTrackListEvent(typed.List), true
	case playback.Change:
		return eventForPlaybackChange(typed)
	default:
		return protocol.Event{}, false
	}
}

func eventForPlaybackChange(change playback.Change) (protocol.Event, bool) {
	switch change.ChangeVariant {
	case playback.TransportStatusChange:
		status, ok := change.Value.(playback.TransportStatus)
		if !ok {
			return protocol.Event{}, false
		}

		return protocol.NewStatusEvent(status), true
	case playback.PositionChange:
		ms, ok := change.Value.(int64)
		if !ok {
			return protocol.Event{}, false
		}

		return protocol.NewPositionEvent(ms), true
	case playback.VolumeChange:
		volume, ok := change.Value.(int)
		if !ok {
			return protocol.Event{}, false
		}

		return protocol.NewVolumeEvent(volume), true
	case playback.BufferingChange:
		buffering, ok := change.Value.(bool)
		if !ok {
			return protocol.Event{}, false
		}

		return protocol.NewBufferingEvent(buffering), true
	case playback.LoadingChange:
		loading, ok := change.Value.(bool)
		if !ok {
			return protocol.Event{}, false
		}

		return protocol.NewLoadingEvent(loading), true
	default:
		return protocol.Event{}, false
	}
}
