package cow

import "sync/atomic"

// RelaxedFlag is the AtomicFlag protocol with the load discipline pared
// down to what the protocol strictly needs: spin probes are plain loads
// outside race builds, and a probe's verdict is either confirmed by one
// synchronizing atomic load before Acquire returns or validated by the
// CAS it feeds. State transitions stay on sync/atomic.
//
// On amd64 a probe is a bare MOV. A stale probe costs an extra loop
// turn, nothing more. Under the race detector the probes degrade to
// atomic loads and the flag behaves exactly like AtomicFlag.
type RelaxedFlag struct {
	_     noCopy
	state uint32
}

func NewRelaxedFlag(owned bool) *RelaxedFlag {
	f := &RelaxedFlag{}
	if owned {
		f.state = flagOwner
	}
	return f
}

func (f *RelaxedFlag) Acquire(clone func() error) error {
	var spins int
	for {
		switch loadUint32Fast(&f.state) {
		case flagOwner:
			// The probe is unordered; re-load atomically so the
			// leader's clone is visible before we return.
			if atomic.LoadUint32(&f.state) == flagOwner {
				return nil
			}
		case flagNotOwner:
			if atomic.CompareAndSwapUint32(&f.state, flagNotOwner, flagAcquiring) {
				return f.lead(clone)
			}
		default:
			delay(&spins)
		}
	}
}

func (f *RelaxedFlag) lead(clone func() error) (err error) {
	completed := false
	defer func() {
		if completed {
			atomic.StoreUint32(&f.state, flagOwner)
		} else {
			atomic.StoreUint32(&f.state, flagNotOwner)
		}
	}()
	if err = clone(); err != nil {
		return err
	}
	completed = true
	return nil
}

func (f *RelaxedFlag) SetOwned(owned bool) {
	target := flagNotOwner
	if owned {
		target = flagOwner
	}
	var spins int
	for {
		s := loadUint32Fast(&f.state)
		if s == flagAcquiring {
			delay(&spins)
			continue
		}
		if atomic.CompareAndSwapUint32(&f.state, s, target) {
			return
		}
	}
}

func (f *RelaxedFlag) Owned() bool {
	return atomic.LoadUint32(&f.state) == flagOwner
}
