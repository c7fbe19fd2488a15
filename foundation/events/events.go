// Package events allows for the registering and receiving of events.
package events

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// messageBuffer is the number of events a subscriber can fall behind before
// events are dropped for it. A websocket write can take a while.
const messageBuffer = 100

// Events maintains a mapping of subscription id and channels so goroutines
// can register and receive events.
type Events struct {
	m  map[string]chan string
	mu sync.RWMutex
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]chan string),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Subscribe.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.m {
		delete(evt.m, id)
		close(ch)
	}
}

// Subscribe registers a new subscriber and returns its id with the channel
// the events are delivered on. The channel is closed by Release or Shutdown.
func (evt *Events) Subscribe() (string, <-chan string) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan string, messageBuffer)
	evt.m[id] = ch

	return id, ch
}

// Release closes and removes the channel that was provided by
// the call to Subscribe.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(ch)
	return nil
}

// Count returns the number of registered subscribers.
func (evt *Events) Count() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.m)
}

// Send signals a message to every registered channel. Send will not block
// waiting for a receiver on any given channel.
func (evt *Events) Send(s string) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, ch := range evt.m {
		select {
		case ch <- s:
		default:
		}
	}
}
