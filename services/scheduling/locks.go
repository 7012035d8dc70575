package scheduling

import "sync"

// dateLockTable hands out one mutex per calendar date so that booking and
// cancellation for the same day serialize while unrelated days proceed in
// parallel.
type dateLockTable struct {
	locks map[string]*sync.Mutex
	mu    sync.Mutex
}

func newDateLockTable() *dateLockTable {
	return &dateLockTable{
		locks: make(map[string]*sync.Mutex),
	}
}

// forDate returns the mutex for a given date, creating one if it doesn't exist.
func (t *dateLockTable) forDate(date string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	lock, exists := t.locks[date]
	if !exists {
		lock = &sync.Mutex{}
		t.locks[date] = lock
	}
	return lock
}
