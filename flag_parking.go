package cow

import (
	"sync/atomic"

	"github.com/HadrienG2/copy-on-write-ptr/internal/opt"
)

// ParkingFlag is the acquisition protocol with blocked waiting: while a
// leader clones, other acquirers park on the runtime semaphore instead
// of spinning. One 32-bit word packs the machine state and the waiter
// count:
//
//	bits 0-1: flagNotOwner | flagAcquiring | flagOwner
//	bits 2+:  parked waiter count
//
// The leader's epilogue installs the final state and zeroes the count in
// one CAS, then releases the semaphore once per recorded waiter. Both
// outcomes release, so after a revert the woken waiters re-enter the
// election. It is 8 bytes in size (4 byte state + 4 byte semaphore).
type ParkingFlag struct {
	_     noCopy
	state atomic.Uint32
	sema  opt.Sema
}

const (
	parkStatusMask uint32 = 3
	parkOneWaiter  uint32 = 4 // 1 << 2
)

func NewParkingFlag(owned bool) *ParkingFlag {
	f := &ParkingFlag{}
	if owned {
		f.state.Store(flagOwner)
	}
	return f
}

func (f *ParkingFlag) Acquire(clone func() error) error {
	for {
		s := f.state.Load()
		switch s & parkStatusMask {
		case flagOwner:
			return nil
		case flagNotOwner:
			// Status flagNotOwner implies a zero waiter count; the
			// epilogue zeroes it with the same CAS that leaves
			// flagAcquiring.
			if f.state.CompareAndSwap(s, s|flagAcquiring) {
				return f.lead(clone)
			}
		default:
			if f.state.CompareAndSwap(s, s+parkOneWaiter) {
				f.sema.Acquire()
			}
		}
	}
}

func (f *ParkingFlag) lead(clone func() error) (err error) {
	completed := false
	defer func() {
		final := flagNotOwner
		if completed {
			final = flagOwner
		}
		for {
			s := f.state.Load()
			if f.state.CompareAndSwap(s, final) {
				for w := s >> 2; w > 0; w-- {
					f.sema.Release()
				}
				return
			}
		}
	}()
	if err = clone(); err != nil {
		return err
	}
	completed = true
	return nil
}

func (f *ParkingFlag) SetOwned(owned bool) {
	target := flagNotOwner
	if owned {
		target = flagOwner
	}
	var spins int
	for {
		s := f.state.Load()
		if s&parkStatusMask == flagAcquiring {
			delay(&spins)
			continue
		}
		if f.state.CompareAndSwap(s, target) {
			return
		}
	}
}

func (f *ParkingFlag) Owned() bool {
	return f.state.Load()&parkStatusMask == flagOwner
}
