package state

import (
	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/status"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

// Repository aggregates the state storages owned by a single player process.
type Repository interface {
	Playback() *playback.Storage
	Status() *status.Storage
	Tracklist() *tracklist.Storage
	Snapshot() Snapshot
	Subscribe(sub common.Subscriber[common.Change])
}

type inMemoryRepository struct {
	broadcaster *common.ChangesBroadcaster[common.Change]
	playback    *playback.Storage
	status      *status.Storage
	tracklist   *tracklist.Storage
}

func (r *inMemoryRepository) Playback() *playback.Storage {
	return r.playback
}

func (r *inMemoryRepository) Status() *status.Storage {
	return r.status
}

func (r *inMemoryRepository) Tracklist() *tracklist.Storage {
	return r.tracklist
}

// Snapshot returns a copy of the playback aggregate used to bring newly
// attached channels up to date.
func (r *inMemoryRepository) Snapshot() Snapshot {
	return Snapshot{
		Status:     r.playback.TransportStatus(),
		Buffering:  r.playback.Buffering(),
		Loading:    r.playback.Loading(),
		PositionMs: r.playback.Position(),
		Volume:     r.playback.Volume(),
		TrackList:  r.tracklist.Snapshot(),
	}
}

// Subscribe registers a callback receiving changes of all storages in their
// mutation order. Storages share one broadcaster, so observers needing
// cross-storage ordering (event channels) subscribe here instead of
// per-storage.
func (r *inMemoryRepository) Subscribe(sub common.Subscriber[common.Change]) {
	r.broadcaster.Subscribe(sub)
}

func NewRepository() Repository {
	broadcaster := common.NewChangesBroadcaster[common.Change]()
	broadcaster.Broadcast()

	return &inMemoryRepository{
		broadcaster: broadcaster,
		playback:    playback.NewStorage(broadcaster),
		status:      status.NewStorage(broadcaster),
		tracklist:   tracklist.NewStorage(broadcaster),
	}
}
