package store

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Backend persists raw values under string keys. Get returns ErrNotFound
// for keys that were never written.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// Store is the shared keyed JSON store. It wraps a Backend with JSON
// serialization, per-key write serialization and change notification.
// Every domain collection lives under one key from keys.go; mutations go
// through Update so concurrent writers in the same process never lose an
// update to a stale read-modify-write.
type Store struct {
	backend Backend
	bus     *Bus

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		bus:     NewBus(),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Bus exposes the store's change-notification bus.
func (s *Store) Bus() *Bus { return s.bus }

// Subscribe is shorthand for Bus().Subscribe.
func (s *Store) Subscribe(keys ...string) *Subscription {
	return s.bus.Subscribe(keys...)
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// GetRaw returns the raw stored bytes for key.
func (s *Store) GetRaw(key string) ([]byte, error) {
	return s.backend.Get(key)
}

// Delete removes key and notifies subscribers.
func (s *Store) Delete(key string) error {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()
	if err := s.backend.Delete(key); err != nil {
		return err
	}
	s.bus.Publish(Event{Key: key, Op: OpDelete})
	return nil
}

// Keys lists every stored key.
func (s *Store) Keys() ([]string, error) {
	return s.backend.Keys()
}

// Relay injects a change observed outside this process (another instance
// writing the same backend) into the notification bus, so local consumers
// re-read exactly as they would for a local write.
func (s *Store) Relay(key string, op Op) {
	s.bus.Publish(Event{Key: key, Op: op, Remote: true})
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Read returns the value under key, or fallback when the key is missing or
// the stored bytes do not parse. Errors are deliberately absorbed: readers
// of demo collections always get a usable value.
func Read[T any](s *Store, key string, fallback T) T {
	raw, err := s.backend.Get(key)
	if err != nil {
		return fallback
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	return v
}

// Decode is the strict counterpart of Read: a missing key yields
// ErrNotFound and unparseable bytes yield ErrCorrupt, so callers that
// cannot tolerate silent data loss see it.
func Decode[T any](s *Store, key string, out *T) error {
	raw, err := s.backend.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrCorrupt, key, err)
	}
	return nil
}

// Write serializes v under key and notifies subscribers.
func Write[T any](s *Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()
	if err := s.backend.Put(key, raw); err != nil {
		return err
	}
	s.bus.Publish(Event{Key: key, Op: OpPut})
	return nil
}

// Update applies fn to the current value of key (fallback when absent or
// corrupt) and persists the result, holding the key's lock across the
// whole read-modify-write. fn must not call back into the store for the
// same key.
func Update[T any](s *Store, key string, fallback T, fn func(T) T) (T, error) {
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	cur := fallback
	if raw, err := s.backend.Get(key); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			cur = v
		}
	}

	next := fn(cur)
	raw, err := json.Marshal(next)
	if err != nil {
		return cur, err
	}
	if err := s.backend.Put(key, raw); err != nil {
		return cur, err
	}
	s.bus.Publish(Event{Key: key, Op: OpPut})
	return next, nil
}
