package state

import (
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

// Snapshot is an immutable copy of the whole playback aggregate taken at a
// single point in time. Newly attached channels render from it instead of
// replaying events they never received.
type Snapshot struct {
	Status     playback.TransportStatus `json:"status"`
	Buffering  bool                     `json:"buffering"`
	Loading    bool                     `json:"loading"`
	PositionMs int64                    `json:"position_ms"`
	Volume     int                      `json:"volume"`
	TrackList  tracklist.List           `json:"track_list"`
}
