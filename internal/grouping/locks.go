package grouping

import (
	"sync"

	"github.com/google/uuid"
)

// sectionLocks hands out one mutex per section. Entries are dropped once
// no caller holds or waits on them.
type sectionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sectionLock
}

type sectionLock struct {
	mu   sync.Mutex
	refs int
}

func newSectionLocks() *sectionLocks {
	return &sectionLocks{locks: make(map[uuid.UUID]*sectionLock)}
}

// lock blocks until the section is free and returns its unlock func.
func (l *sectionLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sectionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sectionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
