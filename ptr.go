package cow

import (
	"unsafe"
)

// Ptr is a copy-on-write smart pointer. Instances share a payload block
// until one of them writes; the writer then clones the block for itself,
// exactly once, arbitrated by its per-instance ownership flag, and from
// then on writes its private copy in place.
//
// The flag is strictly per instance. Copy hands out a fresh flag in the
// not-owned state, never a reference to the source's flag, so the
// synchronization backend is chosen at construction (see Strategy) and
// its cost is paid only by goroutines operating on that one instance.
//
// Instances are handled by pointer and duplicated only through Copy,
// Move and the assignment methods; the struct itself must not be copied
// (go vet's copylocks check catches attempts).
//
// Concurrency: under a synchronized strategy, Read, Load, Write, Update
// and Owned are safe for concurrent use on one instance. Two documented
// hazards remain. Writers that have both acquired ownership race on the
// final in-place store (per-word last-write-wins). And an instance
// constructed from a resource is an owner even while copies share its
// block, so its in-place writes stay visible to those copies until they
// clone. Identity-replacing operations (Move, CopyFrom, MoveFrom)
// require exclusive access to the instances whose identity changes.
type Ptr[T any] struct {
	_        noCopy
	block    *T
	flag     Flag
	strategy Strategy
	clone    func(src *T) (*T, error)
	// Acquisition step pre-bound at construction: warm writes build no
	// closure and a cold write allocates only the fresh block.
	cloneStep func() error
}

// New adopts block as the payload of a fresh owner instance with the
// Atomic strategy and the default whole-value clone. The block is not
// copied; constructing from a resource means nothing shares it yet, so
// the first write goes in place.
func New[T any](block *T) *Ptr[T] {
	return NewWith(block, nil, nil)
}

// NewWith is New with an explicit strategy and clone hook. A nil
// strategy means Atomic; a nil clone means a whole-value copy into a
// fresh block. The clone hook runs at most once per acquisition, under
// the flag's election; an error aborts the triggering write and reverts
// the flag (see Flag.Acquire).
func NewWith[T any](block *T, s Strategy, clone func(src *T) (*T, error)) *Ptr[T] {
	if block == nil {
		panic("cow: nil payload block")
	}
	if s == nil {
		s = Atomic
	}
	if clone == nil {
		clone = defaultClone[T]
	}
	p := &Ptr[T]{
		block:    block,
		flag:     s(true),
		strategy: s,
		clone:    clone,
	}
	p.cloneStep = p.makeCloneStep()
	return p
}

// defaultClone copies the payload into a fresh block. The read side uses
// the tear-mitigated helpers, so cloning a block whose owner writes it
// in place stays race-clean for word-multiple payloads.
func defaultClone[T any](src *T) (*T, error) {
	nb := new(T)
	*nb = loadValue(src)
	return nb, nil
}

// makeCloneStep binds the acquisition step once per instance. It reads
// the instance's fields at call time, so it survives reassignment.
func (p *Ptr[T]) makeCloneStep() func() error {
	return func() error {
		nb, err := p.clone(p.loadBlock())
		if err != nil {
			return err
		}
		p.storeBlock(nb)
		return nil
	}
}

// Copy creates an instance sharing the payload block, with a fresh flag
// of the same strategy in the not-owned state. O(1): no payload bytes
// are touched, whatever the size of T.
func (p *Ptr[T]) Copy() *Ptr[T] {
	b := p.loadBlock()
	if b == nil {
		panic("cow: copy of dead pointer")
	}
	c := &Ptr[T]{
		block:    b,
		flag:     p.strategy(false),
		strategy: p.strategy,
		clone:    p.clone,
	}
	c.cloneStep = c.makeCloneStep()
	return c
}

// Move transfers the payload block and the flag, object and state, to a
// new instance. The source becomes dead: subsequent operations on it
// panic, except Owned (reports false) and the assignment methods, which
// revive it.
func (p *Ptr[T]) Move() *Ptr[T] {
	b := p.loadBlock()
	if b == nil {
		panic("cow: move of dead pointer")
	}
	n := &Ptr[T]{
		block:    b,
		flag:     p.flag,
		strategy: p.strategy,
		clone:    p.clone,
	}
	n.cloneStep = n.makeCloneStep()
	p.storeBlock(nil)
	p.flag = nil
	return n
}

// CopyFrom is copy-assignment: p abandons its identity and becomes a
// sharing copy of src. A live p keeps its own flag backend and records
// not-owned through SetOwned; a dead p is revived with a fresh flag; a
// zero p additionally adopts src's strategy and clone hook.
// Self-assignment is a no-op.
func (p *Ptr[T]) CopyFrom(src *Ptr[T]) {
	if p == src {
		return
	}
	b := src.loadBlock()
	if b == nil {
		panic("cow: assignment from dead pointer")
	}
	p.adoptConfig(src)
	if p.flag == nil {
		p.flag = p.strategy(false)
	} else {
		p.flag.SetOwned(false)
	}
	p.storeBlock(b)
}

// MoveFrom is move-assignment: p adopts src's block and ownership state
// and src becomes dead. Like CopyFrom, p keeps its own flag backend; the
// state transfers through SetOwned. Self-assignment is a no-op.
func (p *Ptr[T]) MoveFrom(src *Ptr[T]) {
	if p == src {
		return
	}
	b := src.loadBlock()
	if b == nil {
		panic("cow: assignment from dead pointer")
	}
	p.adoptConfig(src)
	owned := src.flag.Owned()
	if p.flag == nil {
		p.flag = p.strategy(owned)
	} else {
		p.flag.SetOwned(owned)
	}
	p.storeBlock(b)
	src.storeBlock(nil)
	src.flag = nil
}

// adoptConfig fills in strategy, clone hook and the bound acquisition
// step on a zero-value destination.
func (p *Ptr[T]) adoptConfig(src *Ptr[T]) {
	if p.strategy == nil {
		p.strategy = src.strategy
		p.clone = src.clone
		p.cloneStep = p.makeCloneStep()
	}
}

// Read returns the current payload block for shared, clone-free access.
// The identity is stable (same pointer) until this instance itself
// clones or is reassigned, so pointer equality across instances tells
// whether they still share. A pointer obtained before a concurrent Write
// on this instance stays valid; it just refers to the pre-clone payload.
func (p *Ptr[T]) Read() *T {
	b := p.loadBlock()
	if b == nil {
		panic("cow: read of dead pointer")
	}
	return b
}

// Load returns a snapshot of the payload value, copied with the
// tear-mitigated helpers.
func (p *Ptr[T]) Load() T {
	return loadValue(p.Read())
}

// Write stores v copy-on-write: the first write of a sharing instance
// clones the block, exactly once however many goroutines write
// concurrently, and this and all later writes store in place. The error
// comes from the clone hook (the default clone never fails); on error
// the flag has reverted and no payload was touched.
func (p *Ptr[T]) Write(v T) error {
	if err := p.acquire(); err != nil {
		return err
	}
	storeValue(p.loadBlock(), v)
	return nil
}

// Update acquires ownership like Write, then runs mutate on the private
// block in place. For partial updates of payloads too large to rewrite
// whole.
func (p *Ptr[T]) Update(mutate func(*T)) error {
	if err := p.acquire(); err != nil {
		return err
	}
	mutate(p.loadBlock())
	return nil
}

// Owned reports whether this instance privately owns its block. Dead
// instances report false.
func (p *Ptr[T]) Owned() bool {
	if p.flag == nil {
		return false
	}
	return p.flag.Owned()
}

func (p *Ptr[T]) acquire() error {
	if p.flag == nil || p.loadBlock() == nil {
		panic("cow: write to dead pointer")
	}
	return p.flag.Acquire(p.cloneStep)
}

//go:nosplit
func (p *Ptr[T]) loadBlock() *T {
	return (*T)(loadPtr((*unsafe.Pointer)(unsafe.Pointer(&p.block))))
}

//go:nosplit
func (p *Ptr[T]) storeBlock(b *T) {
	storePtr((*unsafe.Pointer)(unsafe.Pointer(&p.block)), unsafe.Pointer(b))
}
