package cow

import "sync/atomic"

// AtomicFlag runs the lock-free acquisition protocol with Go's default
// atomic ordering. It is 4 bytes: one state word moving through
//
//	flagNotOwner -> flagAcquiring -> flagOwner
//
// Exactly one acquirer wins the CAS into flagAcquiring and runs the
// clone (the leader). Concurrent acquirers spin with escalating backoff
// while the intermediate state lasts. The leader's final store publishes
// the clone's effects; after a failed clone it stores flagNotOwner
// instead and the spinners re-enter the election.
type AtomicFlag struct {
	_     noCopy
	state atomic.Uint32
}

func NewAtomicFlag(owned bool) *AtomicFlag {
	f := &AtomicFlag{}
	if owned {
		f.state.Store(flagOwner)
	}
	return f
}

func (f *AtomicFlag) Acquire(clone func() error) error {
	var spins int
	for {
		switch f.state.Load() {
		case flagOwner:
			return nil
		case flagNotOwner:
			if f.state.CompareAndSwap(flagNotOwner, flagAcquiring) {
				return f.lead(clone)
			}
		default:
			delay(&spins)
		}
	}
}

// lead runs clone as the elected leader. The deferred epilogue publishes
// flagOwner on success and reverts to flagNotOwner on error or panic.
func (f *AtomicFlag) lead(clone func() error) (err error) {
	completed := false
	defer func() {
		if completed {
			f.state.Store(flagOwner)
		} else {
			f.state.Store(flagNotOwner)
		}
	}()
	if err = clone(); err != nil {
		return err
	}
	completed = true
	return nil
}

func (f *AtomicFlag) SetOwned(owned bool) {
	target := flagNotOwner
	if owned {
		target = flagOwner
	}
	var spins int
	for {
		s := f.state.Load()
		if s == flagAcquiring {
			// Let the in-flight acquisition resolve first.
			delay(&spins)
			continue
		}
		if f.state.CompareAndSwap(s, target) {
			return
		}
	}
}

func (f *AtomicFlag) Owned() bool {
	return f.state.Load() == flagOwner
}
