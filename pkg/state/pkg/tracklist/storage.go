package tracklist

import (
	"errors"
	"sync"

	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/state/internal/revision"
)

type SubscriberCB = func(change Change)

// Direction selects which neighbour of the playing entry Advance resolves.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

const (
	// ListReplaceChange notifies about the whole list being replaced with a new one.
	ListReplaceChange common.ChangeVariant = "listReplace"

	// EntryStatusChange notifies about in-place status changes of entries within the current list.
	EntryStatusChange common.ChangeVariant = "entryStatusChange"
)

var (
	// ErrEmptyList informs about an attempt to install a list without entries for a kind that requires them.
	ErrEmptyList = errors.New("track list of this kind requires at least one entry")

	// ErrEntryNotFound informs about an entry id or ordinal not present in the current list.
	ErrEntryNotFound = errors.New("entry not found in the current track list")

	// ErrNoNextEntry informs about the playing entry being the last one - a navigation boundary, not a failure.
	ErrNoNextEntry = errors.New("no next entry in the current track list")

	// ErrNoPreviousEntry informs about the playing entry being the first one - a navigation boundary, not a failure.
	ErrNoPreviousEntry = errors.New("no previous entry in the current track list")
)

// Change is used to inform about changes to the current track list.
// List carries a snapshot taken right after the mutation.
type Change struct {
	ChangeVariant common.ChangeVariant
	List          List
}

func (c Change) Variant() common.ChangeVariant {
	return c.ChangeVariant
}

// Storage holds the current track list and guards its invariants:
// at most one entry has StatusPlaying, entries keep insertion order,
// and lists change only through wholesale replacement.
type Storage struct {
	broadcaster *common.ChangesBroadcaster[common.Change]
	list        List
	lock        *sync.RWMutex
	revision    *revision.Storage
}

// NewStorage constructs track list state with an empty KindUnknown list.
// The broadcaster is shared between storages so that observers see changes
// of different storages in their mutation order.
func NewStorage(broadcaster *common.ChangesBroadcaster[common.Change]) *Storage {
	return &Storage{
		broadcaster: broadcaster,
		list:        NewUnknownList(),
		lock:        &sync.RWMutex{},
		revision:    revision.NewStorage(),
	}
}

// Replace installs a wholly new list.
// Every kind besides KindUnknown requires at least one entry.
func (s *Storage) Replace(list List) error {
	if list.Kind() != KindUnknown && list.Empty() {
		return ErrEmptyList
	}

	s.lock.Lock()
	s.list = list.clone()
	s.revision.Tick()
	snapshot := s.list.clone()
	s.lock.Unlock()

	s.broadcaster.Send(Change{
		ChangeVariant: ListReplaceChange,
		List:          snapshot,
	})

	return nil
}

// MarkPlaying sets status of the entry with the provided id to StatusPlaying.
// A previously playing entry is demoted to StatusPlayed when it precedes the
// new one, or back to StatusQueued when it follows it (backward navigation).
// When the same track appears multiple times in a list, the lowest ordinal wins.
func (s *Storage) MarkPlaying(entryID int64) error {
	s.lock.Lock()

	targetIdx := -1
	for idx, entry := range s.list.entries {
		if entry.ID == entryID {
			targetIdx = idx
			break
		}
	}

	if targetIdx == -1 {
		s.lock.Unlock()

		return ErrEntryNotFound
	}

	target := &s.list.entries[targetIdx]
	for idx := range s.list.entries {
		if idx == targetIdx || s.list.entries[idx].Status != StatusPlaying {
			continue
		}

		previous := &s.list.entries[idx]
		if previous.Ordinal < target.Ordinal {
			previous.Status = StatusPlayed
		} else {
			previous.Status = StatusQueued
		}
	}

	target.Status = StatusPlaying
	s.revision.Tick()
	snapshot := s.list.clone()
	s.lock.Unlock()

	s.broadcaster.Send(Change{
		ChangeVariant: EntryStatusChange,
		List:          snapshot,
	})

	return nil
}

// ClearPlaying demotes a playing entry to StatusPlayed, leaving the list with
// no playing entry. Used when transport stops. Reports whether anything changed.
func (s *Storage) ClearPlaying() bool {
	s.lock.Lock()

	changed := false
	for idx := range s.list.entries {
		if s.list.entries[idx].Status == StatusPlaying {
			s.list.entries[idx].Status = StatusPlayed
			changed = true
		}
	}

	if !changed {
		s.lock.Unlock()

		return false
	}

	s.revision.Tick()
	snapshot := s.list.clone()
	s.lock.Unlock()

	s.broadcaster.Send(Change{
		ChangeVariant: EntryStatusChange,
		List:          snapshot,
	})

	return true
}

// Advance resolves the id of the entry neighbouring the playing one in list order.
// It does not mutate anything - callers decide what to do with the resolved id.
// With no playing entry, DirectionNext resolves to the first entry and
// DirectionPrevious reports the boundary.
func (s *Storage) Advance(direction Direction) (int64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	boundaryErr := ErrNoNextEntry
	if direction == DirectionPrevious {
		boundaryErr = ErrNoPreviousEntry
	}

	if s.list.Empty() {
		return 0, boundaryErr
	}

	playingIdx := -1
	for idx, entry := range s.list.entries {
		if entry.Status == StatusPlaying {
			playingIdx = idx
			break
		}
	}

	if playingIdx == -1 {
		if direction == DirectionNext {
			return s.list.entries[0].ID, nil
		}

		return 0, ErrNoPreviousEntry
	}

	targetIdx := playingIdx + 1
	if direction == DirectionPrevious {
		targetIdx = playingIdx - 1
	}

	if targetIdx < 0 || targetIdx >= len(s.list.entries) {
		return 0, boundaryErr
	}

	return s.list.entries[targetIdx].ID, nil
}

// EntryByOrdinal resolves a 1-based user-facing ordinal to its entry.
func (s *Storage) EntryByOrdinal(ordinal int) (Entry, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, entry := range s.list.entries {
		if entry.Ordinal == ordinal {
			return entry, nil
		}
	}

	return Entry{}, ErrEntryNotFound
}

// Current returns the entry with StatusPlaying, when there is one.
func (s *Storage) Current() (Entry, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, entry := range s.list.entries {
		if entry.Status == StatusPlaying {
			return entry, true
		}
	}

	return Entry{}, false
}

// UpNext returns the entry that would play after the current one.
func (s *Storage) UpNext() (Entry, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for idx, entry := range s.list.entries {
		if entry.Status == StatusPlaying && idx+1 < len(s.list.entries) {
			return s.list.entries[idx+1], true
		}
	}

	return Entry{}, false
}

func (s *Storage) Empty() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.list.Empty()
}

func (s *Storage) Kind() Kind {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.list.Kind()
}

// Snapshot returns a deep copy of the current list.
func (s *Storage) Snapshot() List {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.list.clone()
}

func (s *Storage) Revision() revision.Identifier {
	return s.revision.Revision()
}

// Subscribe registers a callback invoked for track list changes only.
func (s *Storage) Subscribe(sub SubscriberCB) {
	s.broadcaster.Subscribe(func(change common.Change) {
		tracklistChange, ok := change.(Change)
		if !ok {
			return
		}

		sub(tracklistChange)
	})
}
