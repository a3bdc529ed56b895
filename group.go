package cow

import (
	"github.com/llxisdsh/pb"
)

// Group is a registry of keyed copy-on-write cells, for read-mostly
// shared state such as configuration or routing tables. The zero value
// is ready to use.
//
// A published cell is never written in place: Publish and Update install
// replacement cells, so a Fork taken earlier keeps observing its block
// (snapshot isolation by replacement). A reader forks once and then
// reads for free; a fork's first write clones its block through the
// usual flag protocol without disturbing the registry.
type Group[K comparable, T any] struct {
	// Strategy selects the flag backend for cells created afterwards;
	// nil means Atomic. Set it before first use.
	Strategy Strategy

	m pb.MapOf[K, *Ptr[T]]
}

// Publish installs a fresh owner cell holding v, replacing any previous
// cell under key. Forks of the replaced cell keep their snapshots.
func (g *Group[K, T]) Publish(key K, v T) {
	nb := new(T)
	*nb = v
	g.m.Store(key, NewWith(nb, g.strat(), nil))
}

// Fork returns a private copy of the current cell under key: it shares
// the cell's block and starts not-owned, so its first write clones.
// False when the key is absent.
func (g *Group[K, T]) Fork(key K) (*Ptr[T], bool) {
	c, ok := g.m.Load(key)
	if !ok {
		return nil, false
	}
	return c.Copy(), true
}

// Snapshot returns the value of the current cell under key.
// False when the key is absent.
func (g *Group[K, T]) Snapshot(key K) (v T, ok bool) {
	c, ok := g.m.Load(key)
	if !ok {
		return v, false
	}
	return c.Load(), true
}

// Update replaces the cell under key with a fresh owner cell holding v.
// The entry callback serializes concurrent updates of one key; forks of
// the replaced cell keep their snapshots. False when the key is absent
// (use Publish to create).
func (g *Group[K, T]) Update(key K, v T) bool {
	_, ok := g.m.ProcessEntry(
		key,
		func(l *pb.EntryOf[K, *Ptr[T]]) (*pb.EntryOf[K, *Ptr[T]], *Ptr[T], bool) {
			if l == nil {
				return nil, nil, false
			}
			nb := new(T)
			*nb = v
			next := NewWith(nb, g.strat(), nil)
			return &pb.EntryOf[K, *Ptr[T]]{Value: next}, next, true
		},
	)
	return ok
}

// Forget drops the cell under key. Existing forks stay usable.
func (g *Group[K, T]) Forget(key K) {
	g.m.Delete(key)
}

// Range calls fn with a value snapshot of every cell until fn returns
// false.
func (g *Group[K, T]) Range(fn func(key K, v T) bool) {
	g.m.Range(func(key K, c *Ptr[T]) bool {
		return fn(key, c.Load())
	})
}

// Len returns the number of cells.
func (g *Group[K, T]) Len() int {
	return g.m.Size()
}

func (g *Group[K, T]) strat() Strategy {
	if g.Strategy == nil {
		return Atomic
	}
	return g.Strategy
}
