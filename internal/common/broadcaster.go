package common

import (
	"sync"
)

// Subscriber receives every payload sent through a broadcaster after subscription.
type Subscriber[CT any] func(change CT)

// Broadcaster fans out payloads sent on its changes channel to all subscribers.
// Subscribers are invoked synchronously in subscription order, which keeps the
// delivery order of payloads identical to the order of Send calls.
type Broadcaster[CT any] struct {
	changes     chan CT
	lock        *sync.RWMutex
	subscribers []Subscriber[CT]
}

func NewBroadcaster[CT any]() *Broadcaster[CT] {
	return &Broadcaster[CT]{
		changes:     make(chan CT),
		lock:        &sync.RWMutex{},
		subscribers: []Subscriber[CT]{},
	}
}

func (cb *Broadcaster[CT]) Subscribe(sub Subscriber[CT]) {
	cb.lock.Lock()
	defer cb.lock.Unlock()

	cb.subscribers = append(cb.subscribers, sub)
}

func (cb *Broadcaster[CT]) Send(payload CT) {
	cb.changes <- payload
}

// Close stops the broadcasting goroutine. Send after Close panics.
func (cb *Broadcaster[CT]) Close() {
	close(cb.changes)
}

// Broadcast starts the fan-out goroutine. It should be called once, before any Send.
func (cb *Broadcaster[CT]) Broadcast() {
	go func() {
		for {
			change, more := <-cb.changes
			if !more {
				return
			}

			cb.lock.RLock()
			for _, subscriber := range cb.subscribers {
				subscriber(change)
			}
			cb.lock.RUnlock()
		}
	}()
}
