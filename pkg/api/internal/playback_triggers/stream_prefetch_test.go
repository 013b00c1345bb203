package playback_triggers

import (
	"errors"
	"testing"
	"time"

	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

type fakeQueue struct {
	current    tracklist.Entry
	hasCurrent bool
	upNext     tracklist.Entry
	hasUpNext  bool
}

func (q *fakeQueue) Current() (tracklist.Entry, bool) { return q.current, q.hasCurrent }

func (q *fakeQueue) UpNext() (tracklist.Entry, bool) { return q.upNext, q.hasUpNext }

func positionChange(ms int64) playback.Change {
	return playback.Change{ChangeVariant: playback.PositionChange, Value: ms}
}

func TestNewStreamPrefetchRejectsTooShortWindow(t *testing.T) {
	_, err := NewStreamPrefetch(&fakeQueue{}, 0, make(chan StreamPrefetchNotification))
	if !errors.Is(err, errWindowIncorrectSize) {
		t.Errorf("expected window size error, got %v", err)
	}
}

func TestHandlerNotifiesWithinTheWindow(t *testing.T) {
	// given - a 200s entry with 15s prefetch window
	queue := &fakeQueue{
		current:    tracklist.Entry{ID: 101, DurationSecs: 200},
		hasCurrent: true,
		upNext:     tracklist.Entry{ID: 102},
		hasUpNext:  true,
	}
	notifications := make(chan StreamPrefetchNotification, 1)
	trigger, err := NewStreamPrefetch(queue, 15, notifications)
	if err != nil {
		t.Fatalf("could not construct the trigger: %s", err)
	}

	// when - a tick 20s from the end, then one 10s from the end
	if err := trigger.Handler(positionChange(180000)); err != nil {
		t.Fatalf("handler returned error for an early tick: %s", err)
	}
	if len(notifications) != 0 {
		t.Fatalf("expected no notification outside the window")
	}

	if err := trigger.Handler(positionChange(190000)); err != nil {
		t.Fatalf("handler returned error for a tick within the window: %s", err)
	}

	// then
	select {
	case notification := <-notifications:
		if notification.EntryID != 102 {
			t.Errorf("expected a notification for entry 102, got %d", notification.EntryID)
		}
	default:
		t.Errorf("expected a notification for a tick within the window")
	}
}

func TestHandlerNotifiesOncePerUpcomingEntry(t *testing.T) {
	// given
	queue := &fakeQueue{
		current:    tracklist.Entry{ID: 101, DurationSecs: 200},
		hasCurrent: true,
		upNext:     tracklist.Entry{ID: 102},
		hasUpNext:  true,
	}
	notifications := make(chan StreamPrefetchNotification, 2)
	trigger, err := NewStreamPrefetch(queue, 15, notifications)
	if err != nil {
		t.Fatalf("could not construct the trigger: %s", err)
	}

	// when - two ticks within the window for the same upcoming entry
	if err := trigger.Handler(positionChange(190000)); err != nil {
		t.Fatalf("handler returned error: %s", err)
	}
	if err := trigger.Handler(positionChange(191000)); err != nil {
		t.Fatalf("handler returned error: %s", err)
	}

	// then
	if len(notifications) != 1 {
		t.Errorf("expected exactly one notification, got %d", len(notifications))
	}
}

func TestHandlerRetriesAfterADroppedNotification(t *testing.T) {
	// given - a receiver with no room for the first notification
	queue := &fakeQueue{
		current:    tracklist.Entry{ID: 101, DurationSecs: 200},
		hasCurrent: true,
		upNext:     tracklist.Entry{ID: 102},
		hasUpNext:  true,
	}
	notifications := make(chan StreamPrefetchNotification)
	trigger, err := NewStreamPrefetch(queue, 15, notifications)
	if err != nil {
		t.Fatalf("could not construct the trigger: %s", err)
	}

	// when - the first tick finds the channel full and drops
	if err := trigger.Handler(positionChange(190000)); err != nil {
		t.Fatalf("handler returned error: %s", err)
	}

	// then - a later tick delivers once there is a receiver
	received := make(chan StreamPrefetchNotification, 1)
	go func() {
		received <- <-notifications
	}()

	for i := 0; i < 100; i++ {
		if err := trigger.Handler(positionChange(191000)); err != nil {
			t.Fatalf("handler returned error: %s", err)
		}
		if len(received) > 0 {
			break
		}

		time.Sleep(time.Millisecond)
	}

	select {
	case notification := <-received:
		if notification.EntryID != 102 {
			t.Errorf("expected a notification for entry 102, got %d", notification.EntryID)
		}
	default:
		t.Errorf("expected a retried notification to reach the receiver")
	}
}

func TestHandlerIgnoresIrrelevantChanges(t *testing.T) {
	queue := &fakeQueue{
		current:    tracklist.Entry{ID: 101, DurationSecs: 200},
		hasCurrent: true,
		upNext:     tracklist.Entry{ID: 102},
		hasUpNext:  true,
	}
	notifications := make(chan StreamPrefetchNotification, 1)
	trigger, err := NewStreamPrefetch(queue, 15, notifications)
	if err != nil {
		t.Fatalf("could not construct the trigger: %s", err)
	}

	if err := trigger.Handler(playback.Change{ChangeVariant: playback.VolumeChange, Value: 50}); err != nil {
		t.Errorf("expected volume changes to be ignored, got error: %s", err)
	}
	if len(notifications) != 0 {
		t.Errorf("expected no notification for a volume change")
	}
}

func TestHandlerReportsNonNumericPosition(t *testing.T) {
	queue := &fakeQueue{}
	trigger, err := NewStreamPrefetch(queue, 15, make(chan StreamPrefetchNotification, 1))
	if err != nil {
		t.Fatalf("could not construct the trigger: %s", err)
	}

	handlerErr := trigger.Handler(playback.Change{ChangeVariant: playback.PositionChange, Value: "12.5"})
	if !errors.Is(handlerErr, errPositionNotNumber) {
		t.Errorf("expected a position type error, got %v", handlerErr)
	}
}

func TestHandlerStaysQuietWithoutAnUpcomingEntry(t *testing.T) {
	// given - the playing entry is the last one
	queue := &fakeQueue{
		current:    tracklist.Entry{ID: 103, DurationSecs: 200},
		hasCurrent: true,
	}
	notifications := make(chan StreamPrefetchNotification, 1)
	trigger, err := NewStreamPrefetch(queue, 15, notifications)
	if err != nil {
		t.Fatalf("could not construct the trigger: %s", err)
	}

	// when
	if err := trigger.Handler(positionChange(195000)); err != nil {
		t.Fatalf("handler returned error: %s", err)
	}

	// then
	if len(notifications) != 0 {
		t.Errorf("expected no notification when nothing is queued after the playing entry")
	}
}
