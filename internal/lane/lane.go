// Package lane provides per-key mutual exclusion.
//
// Every mutating point operation for a user has to run alone: the balance
// read, validation, write and history append form one critical section.
// A single global lock would serialize unrelated users, so locks are kept
// in a map keyed by user id and created lazily on first use.
package lane

import (
	"sync"
)

// KeyedMutex serializes callers per key. Different keys never block each
// other; the shared map access itself is a short lock around map lookup.
// Lanes are never removed: memory grows with the number of distinct keys
// seen, which is acceptable for this service.
type KeyedMutex struct {
	mu    sync.Mutex
	lanes map[int64]*sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{
		lanes: make(map[int64]*sync.Mutex),
	}
}

// Lock acquires the lane for the key and returns its unlock function.
// The caller must call unlock on every exit path, usually via defer.
func (m *KeyedMutex) Lock(key int64) (unlock func()) {
	m.mu.Lock()
	l, ok := m.lanes[key]
	if !ok {
		l = &sync.Mutex{}
		m.lanes[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
