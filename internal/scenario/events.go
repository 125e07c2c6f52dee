package scenario

import (
	"sync"
	"time"

	"github.com/yourusername/prop-forecast/internal/models"
)

// EventType names a change to the store
type EventType string

// Store events
const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventResults EventType = "results"
	EventDeleted EventType = "deleted"
)

const subscriberBuffer = 16

// Event is published after every successful store mutation
type Event struct {
	Type     EventType       `json:"type"`
	Scenario models.Scenario `json:"scenario"`
	At       time.Time       `json:"at"`
}

type broadcaster struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan Event
	closed bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Event)}
}

func (b *broadcaster) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// publish never blocks; a subscriber with a full buffer misses the event
func (b *broadcaster) publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
