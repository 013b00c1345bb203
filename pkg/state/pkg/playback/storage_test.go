package playback_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
)

func newStorage() (*playback.Storage, chan playback.Change) {
	broadcaster := common.NewChangesBroadcaster[common.Change]()
	broadcaster.Broadcast()

	uut := playback.NewStorage(broadcaster)
	changes := make(chan playback.Change, 8)
	uut.Subscribe(func(change playback.Change) {
		changes <- change
	})

	return uut, changes
}

func receiveChange(t *testing.T, changes <-chan playback.Change) playback.Change {
	t.Helper()

	select {
	case change := <-changes:
		return change
	case <-time.After(time.Second):
		t.Fatalf("no playback change received in time")
		return playback.Change{}
	}
}

func TestVolumeOutsideRangeDoesNotChangeStoredValue(t *testing.T) {
	// given
	uut, _ := newStorage()
	if err := uut.SetVolume(55); err != nil {
		t.Fatalf("could not set volume: %v", err)
	}

	// when
	errAbove := uut.SetVolume(101)
	errBelow := uut.SetVolume(-1)

	// then
	if !errors.Is(errAbove, playback.ErrVolumeOutOfRange) {
		t.Errorf("expected ErrVolumeOutOfRange for 101, got %v", errAbove)
	}
	if !errors.Is(errBelow, playback.ErrVolumeOutOfRange) {
		t.Errorf("expected ErrVolumeOutOfRange for -1, got %v", errBelow)
	}
	if volume := uut.Volume(); volume != 55 {
		t.Errorf("rejected volume should leave stored value untouched, got %d", volume)
	}
}

func TestMutationsBroadcastVariantsInMutationOrder(t *testing.T) {
	// given
	uut, changes := newStorage()

	// when
	uut.SetLoading(true)
	uut.SetTransportStatus(playback.TransportPlaying)
	uut.SetLoading(false)

	// then
	expected := []common.ChangeVariant{
		playback.LoadingChange,
		playback.TransportStatusChange,
		playback.LoadingChange,
	}
	for idx, variant := range expected {
		change := receiveChange(t, changes)
		if change.ChangeVariant != variant {
			t.Errorf("change %d: expected %s, got %s", idx, variant, change.ChangeVariant)
		}
	}
}

func TestTransportStatusRebroadcastsUnchangedValue(t *testing.T) {
	// given
	uut, changes := newStorage()
	uut.SetTransportStatus(playback.TransportPlaying)
	receiveChange(t, changes)

	// when
	uut.SetTransportStatus(playback.TransportPlaying)

	// then
	change := receiveChange(t, changes)
	if change.ChangeVariant != playback.TransportStatusChange {
		t.Errorf("expected transport change to be re-broadcast, got %s", change.ChangeVariant)
	}
	if status, ok := change.Value.(playback.TransportStatus); !ok || status != playback.TransportPlaying {
		t.Errorf("expected playing value in change, got %v", change.Value)
	}
}

func TestPositionRegressionIsReportedNotRejected(t *testing.T) {
	// given
	uut, _ := newStorage()
	if regressed := uut.SetPosition(10_000); regressed {
		t.Fatalf("first position observation should not regress")
	}

	// when
	regressed := uut.SetPosition(2_000)

	// then
	if !regressed {
		t.Errorf("going back from 10000ms to 2000ms should report a regression")
	}
	if position := uut.Position(); position != 2_000 {
		t.Errorf("regressed position should still be stored, got %d", position)
	}
}
