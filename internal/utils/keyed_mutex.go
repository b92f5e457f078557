package utils

import "sync"

// KeyedMutex serializes operations per key, typically a guild:user pair, so
// concurrent balance mutations for the same member do not interleave.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (m *KeyedMutex) Lock(key string) {
	m.mu.Lock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[key] = lock
	}
	m.mu.Unlock()
	lock.Lock()
}

func (m *KeyedMutex) Unlock(key string) {
	m.mu.Lock()
	lock := m.locks[key]
	m.mu.Unlock()
	if lock != nil {
		lock.Unlock()
	}
}
