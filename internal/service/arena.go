package service

import "sync"

// Arena serializes mutations per session. SQLite gives us no usable row
// locking under gorm, so every state transition for a session id runs under
// that session's mutex; different sessions proceed in parallel.
type Arena struct {
	mu    sync.Mutex
	locks map[uint]*arenaLock
}

type arenaLock struct {
	mu      sync.Mutex
	holders int
	retired bool
}

func NewArena() *Arena {
	return &Arena{locks: make(map[uint]*arenaLock)}
}

// Lock acquires the mutex for the session id and returns its unlock func.
func (a *Arena) Lock(sessionID uint) func() {
	a.mu.Lock()
	l, ok := a.locks[sessionID]
	if !ok {
		l = &arenaLock{}
		a.locks[sessionID] = l
	}
	l.holders++
	a.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		a.mu.Lock()
		l.holders--
		if l.retired && l.holders == 0 && a.locks[sessionID] == l {
			delete(a.locks, sessionID)
		}
		a.mu.Unlock()
	}
}

// Release retires the mutex of a finished session so the map does not grow
// without bound. It is safe to call while the mutex is held: the entry only
// leaves the map after the last holder unlocks, so callers already queued
// on it still serialize against the same mutex.
func (a *Arena) Release(sessionID uint) {
	a.mu.Lock()
	if l, ok := a.locks[sessionID]; ok {
		l.retired = true
		if l.holders == 0 {
			delete(a.locks, sessionID)
		}
	}
	a.mu.Unlock()
}
