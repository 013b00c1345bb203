package playback_triggers

import (
	"errors"

	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

type StreamPrefetchNotification struct {
	EntryID int64
}

var (
	errPositionNotNumber   = errors.New("position in change is not a number")
	errWindowIncorrectSize = errors.New("prefetch window should not be shorter than 1 second")
)

// Queue exposes the slice of track list state the prefetch trigger inspects.
type Queue interface {
	Current() (tracklist.Entry, bool)
	UpNext() (tracklist.Entry, bool)
}

// StreamPrefetch watches position ticks and notifies once per upcoming entry
// when the playing entry gets within windowSecs of its end, so that the
// upcoming stream URL can be resolved before the engine needs it.
type StreamPrefetch struct {
	notifications   chan<- StreamPrefetchNotification
	notifiedEntryID int64
	queue           Queue
	windowSecs      int64
}

func NewStreamPrefetch(queue Queue, windowSecs int64, notifications chan<- StreamPrefetchNotification) (*StreamPrefetch, error) {
	if windowSecs < 1 {
		return nil, errWindowIncorrectSize
	}

	return &StreamPrefetch{
		notifications: notifications,
		queue:         queue,
		windowSecs:    windowSecs,
	}, nil
}

func (t *StreamPrefetch) Handler(change playback.Change) error {
	if change.Variant() != playback.PositionChange {
		return nil
	}

	positionMs, ok := change.Value.(int64)
	if !ok {
		return errPositionNotNumber
	}

	current, ok := t.queue.Current()
	if !ok || current.DurationSecs <= 0 {
		return nil
	}

	remainingMs := int64(current.DurationSecs)*1000 - positionMs
	if remainingMs > t.windowSecs*1000 {
		return nil
	}

	next, ok := t.queue.UpNext()
	if !ok || t.notifiedEntryID == next.ID {
		return nil
	}

	// Prefetching is best effort - when the receiver lags the notification
	// is dropped and a later tick retries.
	select {
	case t.notifications <- StreamPrefetchNotification{EntryID: next.ID}:
		t.notifiedEntryID = next.ID
	default:
	}

	return nil
}
