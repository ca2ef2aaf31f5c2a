package store

import "sync"

// Op identifies what happened to a key.
type Op string

const (
	OpPut    Op = "put"
	OpDelete Op = "delete"
)

// Event announces that the value under Key changed. Remote marks events
// relayed from outside the process (another instance sharing the same
// backend); consumers treat both kinds identically and re-read the key.
type Event struct {
	Key    string
	Op     Op
	Remote bool
}

// Subscription receives change events on C. Subscribers declare the keys
// they depend on at subscribe time; they are never woken for unrelated
// writes. Delivery is best effort: a subscriber that has not drained its
// channel misses intermediate events and observes only that the key
// changed at least once, which is enough to trigger a re-read.
type Subscription struct {
	C <-chan Event

	bus  *Bus
	id   int
	c    chan Event
	keys map[string]struct{}
}

// Close removes the subscription from the bus.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s.id)
}

// Bus fans change events out to subscribers. Publishing never blocks.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*Subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]*Subscription)}
}

// Subscribe registers interest in the given keys. With no keys the
// subscription receives every event.
func (b *Bus) Subscribe(keys ...string) *Subscription {
	sub := &Subscription{
		bus: b,
		c:   make(chan Event, 16),
	}
	sub.C = sub.c
	if len(keys) > 0 {
		sub.keys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			sub.keys[k] = struct{}{}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub.id = b.nextID
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers ev to every matching subscriber without blocking. A
// full subscriber channel drops the event; the subscriber will still see
// the latest state on its next re-read.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if sub.keys != nil {
			if _, ok := sub.keys[ev.Key]; !ok {
				continue
			}
		}
		select {
		case sub.c <- ev:
		default:
		}
	}
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}
