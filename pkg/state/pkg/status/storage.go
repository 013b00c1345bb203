package status

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/state/internal/revision"
)

type SubscriberCB = func(change Change)

// Transport names the binding a channel is attached through.
type Transport string

const (
	TransportWebSocket Transport = "websocket"
	TransportSSE       Transport = "sse"
)

const (
	// ChannelAttached notifies about a new client channel joining the broadcast set.
	ChannelAttached common.ChangeVariant = "channelAttached"

	// ChannelDetached notifies about a client channel leaving the broadcast set.
	ChannelDetached common.ChangeVariant = "channelDetached"
)

// ChannelInfo describes a single attached client channel.
type ChannelInfo struct {
	ID         string    `json:"id"`
	Transport  Transport `json:"transport"`
	RemoteAddr string    `json:"remote_addr"`
	AttachedAt time.Time `json:"attached_at"`
}

// Change is used to inform about channels attaching and detaching.
type Change struct {
	ChangeVariant common.ChangeVariant
	Channel       ChannelInfo
}

func (c Change) Variant() common.ChangeVariant {
	return c.ChangeVariant
}

type storageJSON struct {
	Channels []ChannelInfo `json:"channels"`
}

// Storage holds information about currently attached client channels.
type Storage struct {
	broadcaster *common.ChangesBroadcaster[common.Change]
	channels    map[string]ChannelInfo
	lock        *sync.RWMutex
	revision    *revision.Storage
}

// NewStorage constructs server status state.
func NewStorage(broadcaster *common.ChangesBroadcaster[common.Change]) *Storage {
	return &Storage{
		broadcaster: broadcaster,
		channels:    map[string]ChannelInfo{},
		lock:        &sync.RWMutex{},
		revision:    revision.NewStorage(),
	}
}

// AddChannel records a newly attached channel.
func (s *Storage) AddChannel(info ChannelInfo) {
	s.lock.Lock()
	s.channels[info.ID] = info
	s.revision.Tick()
	s.lock.Unlock()

	s.broadcaster.Send(Change{
		ChangeVariant: ChannelAttached,
		Channel:       info,
	})
}

// RemoveChannel removes a channel from the registry. Idempotent.
func (s *Storage) RemoveChannel(id string) {
	s.lock.Lock()
	info, ok := s.channels[id]
	if !ok {
		s.lock.Unlock()

		return
	}

	delete(s.channels, id)
	s.revision.Tick()
	s.lock.Unlock()

	s.broadcaster.Send(Change{
		ChangeVariant: ChannelDetached,
		Channel:       info,
	})
}

// Channels returns attached channels ordered by attachment time.
func (s *Storage) Channels() []ChannelInfo {
	s.lock.RLock()
	defer s.lock.RUnlock()

	channels := make([]ChannelInfo, 0, len(s.channels))
	for _, info := range s.channels {
		channels = append(channels, info)
	}

	sort.Slice(channels, func(i, j int) bool {
		if channels[i].AttachedAt.Equal(channels[j].AttachedAt) {
			return channels[i].ID < channels[j].ID
		}

		return channels[i].AttachedAt.Before(channels[j].AttachedAt)
	})

	return channels
}

func (s *Storage) Revision() revision.Identifier {
	return s.revision.Revision()
}

// MarshalJSON satisfies json.Marshaler.
func (s *Storage) MarshalJSON() ([]byte, error) {
	return json.Marshal(storageJSON{
		Channels: s.Channels(),
	})
}

// Subscribe registers a callback invoked for channel registry changes only.
func (s *Storage) Subscribe(sub SubscriberCB) {
	s.broadcaster.Subscribe(func(change common.Change) {
		statusChange, ok := change.(Change)
		if !ok {
			return
		}

		sub(statusChange)
	})
}
