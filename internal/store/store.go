package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/go-redis/redis"

	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/state"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

const (
	logPrefix = "store.Store#"

	volumeKey    = "hifi:volume"
	trackListKey = "hifi:tracklist"
)

// Config controls behaviour of the Store.
type Config struct {
	Address    string
	ErrWriter  io.Writer
	OutWriter  io.Writer
	Repository state.Repository
}

// Store persists the durable slice of player state (output volume and the
// current track list) to redis, and restores it on boot. Observed changes
// only mark state dirty; writes happen on the Serve goroutine which reads
// the newest value from the repository, so a slow redis round trip neither
// delays state mutation nor backs up event broadcast.
type Store struct {
	client         *redis.Client
	errLog         *log.Logger
	outLog         *log.Logger
	repository     state.Repository
	trackListDirty chan struct{}
	volumeDirty    chan struct{}
}

// NewStore connects to redis under the provided address.
func NewStore(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Address,
	})

	if err := client.Ping().Err(); err != nil {
		return nil, fmt.Errorf("could not reach redis under address %s: %w", cfg.Address, err)
	}

	return &Store{
		client:         client,
		errLog:         log.New(cfg.ErrWriter, logPrefix, log.LstdFlags),
		outLog:         log.New(cfg.OutWriter, logPrefix, log.LstdFlags),
		repository:     cfg.Repository,
		trackListDirty: make(chan struct{}, 1),
		volumeDirty:    make(chan struct{}, 1),
	}, nil
}

// Restore applies the persisted session to the repository. The restored track
// list comes back with every entry queued and the transport stopped - a
// restart never resumes playback on its own.
func (s *Store) Restore() error {
	if err := s.restoreVolume(); err != nil {
		return err
	}

	return s.restoreTrackList()
}

// Observe subscribes to repository changes relevant to the persisted slice.
// Serve has to be running for the observed changes to reach redis.
func (s *Store) Observe() {
	s.repository.Subscribe(func(change common.Change) {
		switch change.Variant() {
		case playback.VolumeChange:
			markDirty(s.volumeDirty)
		case tracklist.ListReplaceChange:
			markDirty(s.trackListDirty)
		}
	})
}

// Serve writes dirty state slices to redis until the context is cancelled.
func (s *Store) Serve(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.volumeDirty:
			s.persistVolume()
		case <-s.trackListDirty:
			s.persistTrackList()
		}
	}
}

// Close terminates the redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) restoreVolume() error {
	payload, err := s.client.Get(volumeKey).Result()
	if err == redis.Nil {
		return nil
	} else if err != nil {
		return fmt.Errorf("could not read persisted volume: %w", err)
	}

	volume, err := strconv.Atoi(payload)
	if err != nil {
		return fmt.Errorf("persisted volume %q is not a number: %w", payload, err)
	}

	if err := s.repository.Playback().SetVolume(volume); err != nil {
		return fmt.Errorf("persisted volume rejected: %w", err)
	}

	s.outLog.Printf("restored volume %d", volume)

	return nil
}

func (s *Store) restoreTrackList() error {
	payload, err := s.client.Get(trackListKey).Result()
	if err == redis.Nil {
		return nil
	} else if err != nil {
		return fmt.Errorf("could not read persisted track list: %w", err)
	}

	list, err := listFromPayload([]byte(payload))
	if err != nil {
		return fmt.Errorf("could not decode persisted track list: %w", err)
	}

	if list.Empty() {
		return nil
	}

	if err := s.repository.Tracklist().Replace(list); err != nil {
		return fmt.Errorf("persisted track list rejected: %w", err)
	}

	s.outLog.Printf("restored %s track list with %d entries", list.Kind(), len(list.Entries()))

	return nil
}

func (s *Store) persistVolume() {
	volume := s.repository.Playback().Volume()

	err := s.client.Set(volumeKey, strconv.Itoa(volume), 0).Err()
	if err != nil {
		s.errLog.Printf("could not persist volume: %s", err)
	}
}

func (s *Store) persistTrackList() {
	list := s.repository.Tracklist().Snapshot()

	payload, err := json.Marshal(list)
	if err != nil {
		s.errLog.Printf("could not serialize track list: %s", err)

		return
	}

	err = s.client.Set(trackListKey, string(payload), 0).Err()
	if err != nil {
		s.errLog.Printf("could not persist track list: %s", err)
	}
}

// listFromPayload rebuilds a track list from its persisted form.
// Entry statuses do not survive restarts - every entry comes back queued.
func listFromPayload(payload []byte) (tracklist.List, error) {
	var persisted struct {
		Kind     tracklist.Kind          `json:"kind"`
		Album    *tracklist.AlbumMeta    `json:"album"`
		Playlist *tracklist.PlaylistMeta `json:"playlist"`
		Entries  []tracklist.Entry       `json:"entries"`
	}

	if err := json.Unmarshal(payload, &persisted); err != nil {
		return tracklist.NewUnknownList(), err
	}

	for idx := range persisted.Entries {
		persisted.Entries[idx].Status = tracklist.StatusQueued
	}

	if persisted.Kind == "" || len(persisted.Entries) == 0 {
		return tracklist.NewUnknownList(), nil
	}

	return tracklist.NewList(tracklist.ListConfig{
		Kind:     persisted.Kind,
		Album:    persisted.Album,
		Playlist: persisted.Playlist,
		Entries:  persisted.Entries,
	}), nil
}

func markDirty(signal chan struct{}) {
	select {
	case signal <- struct{}{}:
	default:
	}
}
