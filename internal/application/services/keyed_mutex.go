package services

import (
	"sync"
)

// keyedMutex provides one exclusive critical section per key. Queue mutations
// are serialized per doctor and token issuance per department; operations on
// different keys proceed in parallel. Locks are never evicted — the set of
// doctors and departments is small and stable for a hospital's lifetime.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}

// Lock acquires the exclusive section for key
func (k *keyedMutex) Lock(key string) {
	k.get(key).Lock()
}

// Unlock releases the exclusive section for key
func (k *keyedMutex) Unlock(key string) {
	k.get(key).Unlock()
}
