package playback

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/state/internal/revision"
)

type SubscriberCB = func(change Change)

// TransportStatus is the playback transport state, independent of buffering and loading.
type TransportStatus string

const (
	// TransportStopped means nothing is loaded in the engine and no entry is playing.
	TransportStopped TransportStatus = "stopped"

	// TransportPlaying means the active entry is being played back.
	TransportPlaying TransportStatus = "playing"

	// TransportPaused means the active entry is loaded but playback is held.
	TransportPaused TransportStatus = "paused"
)

const (
	// TransportStatusChange notifies about transport transitions between stopped, playing and paused.
	TransportStatusChange common.ChangeVariant = "transportStatusChange"

	// PositionChange notifies about elapsed time change within the active entry.
	PositionChange common.ChangeVariant = "positionChange"

	// VolumeChange notifies about output volume change.
	VolumeChange common.ChangeVariant = "volumeChange"

	// BufferingChange notifies about the engine prefetching data for the active entry.
	BufferingChange common.ChangeVariant = "bufferingChange"

	// LoadingChange notifies about a track list being resolved against the catalog.
	LoadingChange common.ChangeVariant = "loadingChange"
)

const (
	// MinVolume is the lowest accepted output volume.
	MinVolume = 0
	// MaxVolume is the highest accepted output volume.
	MaxVolume = 100
)

var (
	// ErrVolumeOutOfRange informs about a volume value outside of the 0-100 range.
	ErrVolumeOutOfRange = errors.New("volume outside of the 0-100 range")
)

// Change is used to inform about changes to the playback state.
// Value carries the new value of the changed field, typed per variant.
type Change struct {
	ChangeVariant common.ChangeVariant
	Value         interface{}
}

// MarshalJSON satisfies json.Marshaler.
func (c Change) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value)
}

func (c Change) Variant() common.ChangeVariant {
	return c.ChangeVariant
}

// Storage holds transport state of the player: status, position within the
// active entry, output volume and the buffering/loading flags. The engine is
// the source of truth for position and pause state - storage only mirrors it.
type Storage struct {
	broadcaster     *common.ChangesBroadcaster[common.Change]
	buffering       bool
	loading         bool
	lock            *sync.RWMutex
	positionMs      int64
	revision        *revision.Storage
	transportStatus TransportStatus
	volume          int
}

type storageJSON struct {
	Status     TransportStatus `json:"status"`
	Buffering  bool            `json:"buffering"`
	Loading    bool            `json:"loading"`
	PositionMs int64           `json:"position_ms"`
	Volume     int             `json:"volume"`
}

// NewStorage constructs playback state: stopped, nothing buffered or loading,
// position zero and full volume.
func NewStorage(broadcaster *common.ChangesBroadcaster[common.Change]) *Storage {
	return &Storage{
		broadcaster:     broadcaster,
		lock:            &sync.RWMutex{},
		revision:        revision.NewStorage(),
		transportStatus: TransportStopped,
		volume:          MaxVolume,
	}
}

// SetTransportStatus changes the transport state.
// The change is re-broadcast even when the value did not change, so that
// command-derived event sequences stay complete for every observer.
func (p *Storage) SetTransportStatus(status TransportStatus) {
	p.lock.Lock()
	p.transportStatus = status
	p.revision.Tick()
	p.lock.Unlock()

	p.broadcaster.Send(Change{
		ChangeVariant: TransportStatusChange,
		Value:         status,
	})
}

// SetPosition mirrors elapsed time reported by the engine.
// Reports whether the value regressed compared to the previously observed one;
// a regression is legal right after a track change or a seek, otherwise it
// signals engine desync which callers log without rejecting the value.
func (p *Storage) SetPosition(ms int64) bool {
	p.lock.Lock()
	regressed := ms < p.positionMs
	p.positionMs = ms
	p.revision.Tick()
	p.lock.Unlock()

	p.broadcaster.Send(Change{
		ChangeVariant: PositionChange,
		Value:         ms,
	})

	return regressed
}

// ResetPosition zeroes elapsed time on a track change.
func (p *Storage) ResetPosition() {
	p.lock.Lock()
	p.positionMs = 0
	p.revision.Tick()
	p.lock.Unlock()

	p.broadcaster.Send(Change{
		ChangeVariant: PositionChange,
		Value:         int64(0),
	})
}

// SetVolume changes the output volume, rejecting values outside of 0-100.
func (p *Storage) SetVolume(volume int) error {
	if volume < MinVolume || volume > MaxVolume {
		return ErrVolumeOutOfRange
	}

	p.lock.Lock()
	p.volume = volume
	p.revision.Tick()
	p.lock.Unlock()

	p.broadcaster.Send(Change{
		ChangeVariant: VolumeChange,
		Value:         volume,
	})

	return nil
}

// SetBuffering changes the engine prefetch flag.
func (p *Storage) SetBuffering(buffering bool) {
	p.lock.Lock()
	p.buffering = buffering
	p.revision.Tick()
	p.lock.Unlock()

	p.broadcaster.Send(Change{
		ChangeVariant: BufferingChange,
		Value:         buffering,
	})
}

// SetLoading changes the catalog resolution flag.
func (p *Storage) SetLoading(loading bool) {
	p.lock.Lock()
	p.loading = loading
	p.revision.Tick()
	p.lock.Unlock()

	p.broadcaster.Send(Change{
		ChangeVariant: LoadingChange,
		Value:         loading,
	})
}

func (p *Storage) TransportStatus() TransportStatus {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.transportStatus
}

func (p *Storage) Position() int64 {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.positionMs
}

func (p *Storage) Volume() int {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.volume
}

func (p *Storage) Buffering() bool {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.buffering
}

func (p *Storage) Loading() bool {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.loading
}

func (p *Storage) Revision() revision.Identifier {
	return p.revision.Revision()
}

// MarshalJSON satisfies json.Marshaler.
func (p *Storage) MarshalJSON() ([]byte, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return json.Marshal(storageJSON{
		Status:     p.transportStatus,
		Buffering:  p.buffering,
		Loading:    p.loading,
		PositionMs: p.positionMs,
		Volume:     p.volume,
	})
}

// Subscribe registers a callback invoked for playback changes only.
func (p *Storage) Subscribe(sub SubscriberCB) {
	p.broadcaster.Subscribe(func(change common.Change) {
		playbackChange, ok := change.(Change)
		if !ok {
			return
		}

		sub(playbackChange)
	})
}
