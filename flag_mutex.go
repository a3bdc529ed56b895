package cow

import "sync"

// MutexFlag guards the ownership bool with a sync.Mutex. The clone runs
// while the lock is held, so concurrent acquirers serialize: the first
// one in clones, the rest observe ownership and return without cloning.
//
// A failed clone (error or panic) unlocks with the bool still false, so
// the next acquirer simply retries.
type MutexFlag struct {
	mu    sync.Mutex
	owned bool
}

func NewMutexFlag(owned bool) *MutexFlag {
	return &MutexFlag{owned: owned}
}

func (f *MutexFlag) Acquire(clone func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.owned {
		return nil
	}
	if err := clone(); err != nil {
		return err
	}
	f.owned = true
	return nil
}

func (f *MutexFlag) SetOwned(owned bool) {
	f.mu.Lock()
	f.owned = owned
	f.mu.Unlock()
}

func (f *MutexFlag) Owned() bool {
	f.mu.Lock()
	owned := f.owned
	f.mu.Unlock()
	return owned
}
