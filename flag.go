package cow

// Flag records whether one copy-on-write pointer instance privately owns
// its payload block, and arbitrates the one-time acquisition that turns
// a sharing instance into an owner.
//
// A Flag belongs to exactly one pointer instance and is never shared
// between instances. Whatever synchronization it carries only orders
// goroutines operating on that single instance.
type Flag interface {
	// Acquire makes the instance an owner, invoking clone exactly once
	// per successful acquisition. If the flag already records ownership
	// it returns nil without invoking clone. Otherwise one caller (the
	// leader) runs clone while concurrent callers wait:
	//
	//   - clone returns nil: the flag becomes owned, every caller
	//     returns nil, and clone's memory effects are visible to each
	//     of them before it returns.
	//   - clone returns an error or panics: the flag reverts to
	//     not-owned, the error (or panic) reaches the leader only, and
	//     waiters retry the election from scratch.
	Acquire(clone func() error) error

	// SetOwned overwrites the recorded state. Meant for pointer
	// assignment, where an instance's identity is replaced wholesale.
	// Backends with an intermediate acquiring state wait for it to
	// resolve rather than clobbering an in-flight acquisition.
	SetOwned(owned bool)

	// Owned reports the current state. On the synchronized backends a
	// true result is a synchronizing read: the clone that produced
	// ownership is visible to the caller.
	Owned() bool
}

// Strategy builds a Flag seeded with an initial state. A pointer keeps
// its Strategy so that copies stamp out fresh flags of the same kind.
// New backends plug in by implementing Flag and wrapping a constructor.
type Strategy func(owned bool) Flag

var (
	// Unsync is for pointers confined to a single goroutine. Zero
	// synchronization overhead, no concurrent use.
	Unsync Strategy = func(owned bool) Flag { return NewUnsyncFlag(owned) }

	// Mutex serializes acquisition under a sync.Mutex. The simplest
	// thread-safe backend; the clone runs while the lock is held.
	Mutex Strategy = func(owned bool) Flag { return NewMutexFlag(owned) }

	// Atomic runs the lock-free acquisition protocol with Go's default
	// atomic ordering. The default strategy of New.
	Atomic Strategy = func(owned bool) Flag { return NewAtomicFlag(owned) }

	// Relaxed is the Atomic protocol with plain spin probes on TSO
	// architectures and a single synchronizing confirm load.
	Relaxed Strategy = func(owned bool) Flag { return NewRelaxedFlag(owned) }

	// Parking blocks waiters on the runtime semaphore instead of
	// spinning. Favored when clones are slow or waiters are many.
	Parking Strategy = func(owned bool) Flag { return NewParkingFlag(owned) }
)

// Acquisition states shared by the lock-free backends.
const (
	flagNotOwner  uint32 = iota // payload may be shared; next write clones
	flagAcquiring               // a leader is running the clone
	flagOwner                   // payload is private; writes go in place
)
