package tracklist_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

func newStorage() *tracklist.Storage {
	broadcaster := common.NewChangesBroadcaster[common.Change]()
	broadcaster.Broadcast()

	return tracklist.NewStorage(broadcaster)
}

func albumList(entriesCount int) tracklist.List {
	entries := make([]tracklist.Entry, 0, entriesCount)
	for i := 1; i <= entriesCount; i++ {
		entries = append(entries, tracklist.Entry{
			ID:      int64(100 + i),
			Title:   "track",
			Ordinal: i,
			Status:  tracklist.StatusQueued,
		})
	}

	return tracklist.NewList(tracklist.ListConfig{
		Kind:    tracklist.KindAlbum,
		Album:   &tracklist.AlbumMeta{ID: "A1", Title: "album"},
		Entries: entries,
	})
}

func playingCount(list tracklist.List) int {
	count := 0
	for _, entry := range list.Entries() {
		if entry.Status == tracklist.StatusPlaying {
			count++
		}
	}

	return count
}

func receiveChange(t *testing.T, changes <-chan tracklist.Change) tracklist.Change {
	t.Helper()

	select {
	case change := <-changes:
		return change
	case <-time.After(time.Second):
		t.Fatalf("no track list change received in time")
		return tracklist.Change{}
	}
}

func TestReplaceRequiresEntriesForPlayableKinds(t *testing.T) {
	// given
	uut := newStorage()
	empty := tracklist.NewList(tracklist.ListConfig{Kind: tracklist.KindAlbum})

	// when
	err := uut.Replace(empty)

	// then
	if !errors.Is(err, tracklist.ErrEmptyList) {
		t.Errorf("expected ErrEmptyList, got %v", err)
	}

	if uut.Kind() != tracklist.KindUnknown {
		t.Errorf("list should have stayed unknown after rejected replace, got %s", uut.Kind())
	}

	// when
	err = uut.Replace(tracklist.NewUnknownList())

	// then
	if err != nil {
		t.Errorf("replacing with an unknown list should be allowed, got %v", err)
	}
}

func TestMarkPlayingDemotesEarlierEntryToPlayed(t *testing.T) {
	// given
	uut := newStorage()
	if err := uut.Replace(albumList(3)); err != nil {
		t.Fatalf("could not install list: %v", err)
	}
	if err := uut.MarkPlaying(101); err != nil {
		t.Fatalf("could not mark first entry: %v", err)
	}

	// when
	err := uut.MarkPlaying(103)

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := uut.Snapshot().Entries()
	if entries[0].Status != tracklist.StatusPlayed {
		t.Errorf("entry 1 should be played, got %s", entries[0].Status)
	}
	if entries[2].Status != tracklist.StatusPlaying {
		t.Errorf("entry 3 should be playing, got %s", entries[2].Status)
	}
	if count := playingCount(uut.Snapshot()); count != 1 {
		t.Errorf("exactly one entry should be playing, got %d", count)
	}
}

func TestMarkPlayingDemotesLaterEntryBackToQueued(t *testing.T) {
	// given
	uut := newStorage()
	if err := uut.Replace(albumList(3)); err != nil {
		t.Fatalf("could not install list: %v", err)
	}
	if err := uut.MarkPlaying(103); err != nil {
		t.Fatalf("could not mark last entry: %v", err)
	}

	// when
	err := uut.MarkPlaying(101)

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := uut.Snapshot().Entries()
	if entries[2].Status != tracklist.StatusQueued {
		t.Errorf("entry 3 should be back in queue, got %s", entries[2].Status)
	}
	if entries[0].Status != tracklist.StatusPlaying {
		t.Errorf("entry 1 should be playing, got %s", entries[0].Status)
	}
}

func TestMarkPlayingUnknownEntryLeavesListUntouched(t *testing.T) {
	// given
	uut := newStorage()
	if err := uut.Replace(albumList(2)); err != nil {
		t.Fatalf("could not install list: %v", err)
	}
	if err := uut.MarkPlaying(101); err != nil {
		t.Fatalf("could not mark first entry: %v", err)
	}
	before := uut.Snapshot()

	// when
	err := uut.MarkPlaying(999)

	// then
	if !errors.Is(err, tracklist.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	after := uut.Snapshot()
	for idx := range before.Entries() {
		if before.Entries()[idx].Status != after.Entries()[idx].Status {
			t.Errorf("entry %d status changed after rejected mark", idx+1)
		}
	}
}

func TestAdvanceRoundTripReturnsToOriginalEntry(t *testing.T) {
	// given
	uut := newStorage()
	if err := uut.Replace(albumList(4)); err != nil {
		t.Fatalf("could not install list: %v", err)
	}
	if err := uut.MarkPlaying(101); err != nil {
		t.Fatalf("could not mark first entry: %v", err)
	}

	// when
	forward := 0
	for {
		id, err := uut.Advance(tracklist.DirectionNext)
		if errors.Is(err, tracklist.ErrNoNextEntry) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected advance error: %v", err)
		}

		if err := uut.MarkPlaying(id); err != nil {
			t.Fatalf("could not mark advanced entry: %v", err)
		}
		forward++
	}

	backward := 0
	for {
		id, err := uut.Advance(tracklist.DirectionPrevious)
		if errors.Is(err, tracklist.ErrNoPreviousEntry) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected advance error: %v", err)
		}

		if err := uut.MarkPlaying(id); err != nil {
			t.Fatalf("could not mark advanced entry: %v", err)
		}
		backward++
	}

	// then
	if forward != 3 || backward != 3 {
		t.Errorf("expected 3 hops each way, got %d forward and %d backward", forward, backward)
	}

	current, ok := uut.Current()
	if !ok {
		t.Fatalf("no playing entry after round trip")
	}
	if current.ID != 101 {
		t.Errorf("round trip should end at the original entry, got %d", current.ID)
	}
	if count := playingCount(uut.Snapshot()); count != 1 {
		t.Errorf("exactly one entry should be playing, got %d", count)
	}
}

func TestAdvanceWithoutPlayingEntry(t *testing.T) {
	// given
	uut := newStorage()
	if err := uut.Replace(albumList(3)); err != nil {
		t.Fatalf("could not install list: %v", err)
	}

	// when
	nextID, nextErr := uut.Advance(tracklist.DirectionNext)
	_, prevErr := uut.Advance(tracklist.DirectionPrevious)

	// then
	if nextErr != nil {
		t.Errorf("next without playing entry should resolve to the first entry, got %v", nextErr)
	}
	if nextID != 101 {
		t.Errorf("expected first entry id 101, got %d", nextID)
	}
	if !errors.Is(prevErr, tracklist.ErrNoPreviousEntry) {
		t.Errorf("expected ErrNoPreviousEntry, got %v", prevErr)
	}
}

func TestClearPlayingDemotesToPlayed(t *testing.T) {
	// given
	uut := newStorage()
	if err := uut.Replace(albumList(3)); err != nil {
		t.Fatalf("could not install list: %v", err)
	}
	if err := uut.MarkPlaying(102); err != nil {
		t.Fatalf("could not mark entry: %v", err)
	}

	// when
	changed := uut.ClearPlaying()

	// then
	if !changed {
		t.Errorf("clearing with a playing entry should report a change")
	}
	if count := playingCount(uut.Snapshot()); count != 0 {
		t.Errorf("no entry should be playing after clear, got %d", count)
	}
	if entry := uut.Snapshot().Entries()[1]; entry.Status != tracklist.StatusPlayed {
		t.Errorf("cleared entry should be played, got %s", entry.Status)
	}

	// when
	changed = uut.ClearPlaying()

	// then
	if changed {
		t.Errorf("clearing twice should be a no-op")
	}
}

func TestEntryByOrdinalResolvesUserFacingNumbering(t *testing.T) {
	// given
	uut := newStorage()
	if err := uut.Replace(albumList(3)); err != nil {
		t.Fatalf("could not install list: %v", err)
	}

	// when
	entry, err := uut.EntryByOrdinal(2)
	_, missErr := uut.EntryByOrdinal(4)

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID != 102 {
		t.Errorf("ordinal 2 should resolve to id 102, got %d", entry.ID)
	}
	if !errors.Is(missErr, tracklist.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound for ordinal out of list, got %v", missErr)
	}
}

func TestMutationsBroadcastChangesInOrder(t *testing.T) {
	// given
	broadcaster := common.NewChangesBroadcaster[common.Change]()
	broadcaster.Broadcast()
	uut := tracklist.NewStorage(broadcaster)

	changes := make(chan tracklist.Change, 4)
	uut.Subscribe(func(change tracklist.Change) {
		changes <- change
	})

	// when
	if err := uut.Replace(albumList(2)); err != nil {
		t.Fatalf("could not install list: %v", err)
	}
	if err := uut.MarkPlaying(101); err != nil {
		t.Fatalf("could not mark entry: %v", err)
	}

	// then
	first := receiveChange(t, changes)
	if first.ChangeVariant != tracklist.ListReplaceChange {
		t.Errorf("expected %s first, got %s", tracklist.ListReplaceChange, first.ChangeVariant)
	}

	second := receiveChange(t, changes)
	if second.ChangeVariant != tracklist.EntryStatusChange {
		t.Errorf("expected %s second, got %s", tracklist.EntryStatusChange, second.ChangeVariant)
	}
	if count := playingCount(second.List); count != 1 {
		t.Errorf("change snapshot should carry the playing entry, got %d playing", count)
	}
}

func TestSnapshotIsDetachedFromLaterMutations(t *testing.T) {
	// given
	uut := newStorage()
	if err := uut.Replace(albumList(2)); err != nil {
		t.Fatalf("could not install list: %v", err)
	}
	snapshot := uut.Snapshot()

	// when
	if err := uut.MarkPlaying(101); err != nil {
		t.Fatalf("could not mark entry: %v", err)
	}

	// then
	if snapshot.Entries()[0].Status != tracklist.StatusQueued {
		t.Errorf("snapshot should not observe mutations made after it was taken")
	}
}
