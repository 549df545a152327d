package session

import "sync"

// scopeLocks serializes read-modify-write cycles per tab session, so a slow
// backend round trip for one tab does not hold up the others. Entries are
// reference counted and dropped once no goroutine holds or waits on them.
type scopeLocks struct {
	mu sync.Mutex
	m  map[string]*scopeLock
}

type scopeLock struct {
	sync.Mutex
	refs int
}

// lock blocks until sid is free and returns the matching unlock.
func (l *scopeLocks) lock(sid string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*scopeLock)
	}
	sl, ok := l.m[sid]
	if !ok {
		sl = &scopeLock{}
		l.m[sid] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.m, sid)
		}
		l.mu.Unlock()
	}
}

func (l *scopeLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
