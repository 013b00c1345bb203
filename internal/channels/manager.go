package channels

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sarpt/hifi-web-api/pkg/protocol"
	"github.com/sarpt/hifi-web-api/pkg/state"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/status"
)

const managerLogPrefix = "channels.Manager#"

// ManagerConfig controls the created Manager.
type ManagerConfig struct {
	ErrWriter  io.Writer
	OutWriter  io.Writer
	Repository state.Repository
}

// Manager owns the set of attached client channels. All channels receive the
// same event stream; one-shot results go to their issuing channel only.
type Manager struct {
	channels   map[string]*Channel
	errLog     *log.Logger
	lock       *sync.RWMutex
	outLog     *log.Logger
	repository state.Repository
}

// NewManager constructs a Manager with an empty broadcast set.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		channels:   map[string]*Channel{},
		errLog:     log.New(cfg.ErrWriter, managerLogPrefix, log.LstdFlags),
		lock:       &sync.RWMutex{},
		outLog:     log.New(cfg.OutWriter, managerLogPrefix, log.LstdFlags),
		repository: cfg.Repository,
	}
}

// Attach registers the transport as a new channel. The state snapshot is
// enqueued before the channel joins the broadcast set, under the same lock
// broadcasts take, so the client observes no gap between snapshot and stream.
// There is no event replay - clients start from the current state.
func (m *Manager) Attach(transport Transport) *Channel {
	channel := newChannel(uuid.NewString(), transport)

	m.lock.Lock()
	for _, event := range m.snapshotEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			m.errLog.Printf("could not encode snapshot event '%s': %s\n", event.Name, err)
			continue
		}

		// The queue is empty at this point and larger than the snapshot, enqueue cannot fail.
		channel.enqueue(payload)
	}
	m.channels[channel.id] = channel
	m.lock.Unlock()

	go m.serveChannel(channel)

	m.repository.Status().AddChannel(status.ChannelInfo{
		ID:         channel.id,
		Transport:  transport.Kind(),
		RemoteAddr: transport.RemoteAddr(),
		AttachedAt: time.Now(),
	})
	m.outLog.Printf("channel '%s' attached over %s from '%s'\n", channel.id, transport.Kind(), transport.RemoteAddr())

	return channel
}

// Detach removes the channel from the broadcast set and closes its transport.
// Detaching an unknown or already detached channel is a no-op.
func (m *Manager) Detach(id string) {
	m.lock.Lock()
	channel, ok := m.channels[id]
	if ok {
		delete(m.channels, id)
	}
	m.lock.Unlock()

	if !ok {
		return
	}

	channel.close()
	m.repository.Status().RemoveChannel(id)
	m.outLog.Printf("channel '%s' detached\n", id)
}

// Has informs whether a channel with the provided id is attached.
func (m *Manager) Has(id string) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()

	_, ok := m.channels[id]
	return ok
}

// Broadcast fans the event out to every attached channel. Channels whose
// queue is full are detached instead of delaying the remaining ones.
func (m *Manager) Broadcast(event protocol.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		m.errLog.Printf("could not encode event '%s': %s\n", event.Name, err)
		return
	}

	var overflowed []string

	m.lock.RLock()
	for id, channel := range m.channels {
		err := channel.enqueue(payload)
		if errors.Is(err, ErrQueueFull) {
			overflowed = append(overflowed, id)
		}
	}
	m.lock.RUnlock()

	for _, id := range overflowed {
		m.errLog.Printf("channel '%s' cannot keep up with the event stream, detaching\n", id)

		// Broadcast may run on the state fan-out goroutine, which also carries
		// the registry change a detach produces - detaching inline would have
		// that goroutine wait on itself.
		go m.Detach(id)
	}
}

// SendTo delivers a one-shot event to a single channel.
func (m *Manager) SendTo(id string, event protocol.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	m.lock.RLock()
	channel, ok := m.channels[id]
	m.lock.RUnlock()

	if !ok {
		return ErrChannelNotFound
	}

	err = channel.enqueue(payload)
	if errors.Is(err, ErrQueueFull) {
		m.errLog.Printf("channel '%s' cannot keep up with the event stream, detaching\n", id)
		m.Detach(id)
	}

	return err
}

// Close detaches every attached channel.
func (m *Manager) Close() {
	m.lock.RLock()
	ids := make([]string, 0, len(m.channels))
	for id := range m.channels {
		ids = append(ids, id)
	}
	m.lock.RUnlock()

	for _, id := range ids {
		m.Detach(id)
	}
}

func (m *Manager) serveChannel(channel *Channel) {
	for {
		select {
		case payload := <-channel.queue:
			err := channel.transport.WriteEvent(payload)
			if err != nil {
				m.errLog.Printf("write to channel '%s' failed: %s\n", channel.id, err)
				m.Detach(channel.id)

				return
			}
		case <-channel.done:
			return
		}
	}
}

func (m *Manager) snapshotEvents() []protocol.Event {
	snapshot := m.repository.Snapshot()

	return []protocol.Event{
		protocol.NewStatusEvent(snapshot.Status),
		protocol.NewVolumeEvent(snapshot.Volume),
		protocol.NewBufferingEvent(snapshot.Buffering),
		protocol.NewLoadingEvent(snapshot.Loading),
		protocol.NewPositionEvent(snapshot.PositionMs),
		protocol.NewCurrentTrackListEvent(snapshot.TrackList),
	}
}
