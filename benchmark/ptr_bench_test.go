package benchmark

import (
	"sync"
	"sync/atomic"
	"testing"

	cow "github.com/HadrienG2/copy-on-write-ptr"
	"github.com/puzpuzpuz/xsync/v4"
)

// Benchmarks here compare the copy-on-write pointer against the usual
// ways of sharing one mutable value: a bare pointer, a mutex-guarded
// value, an RCU-style atomic.Pointer and xsync's reader-biased RBMutex.

var sinkValue int64

// ------------------------------------------------------
// Construction
// ------------------------------------------------------

func BenchmarkCreate_cow_Unsync(b *testing.B)  { benchmarkCreate(b, cow.Unsync) }
func BenchmarkCreate_cow_Mutex(b *testing.B)   { benchmarkCreate(b, cow.Mutex) }
func BenchmarkCreate_cow_Atomic(b *testing.B)  { benchmarkCreate(b, cow.Atomic) }
func BenchmarkCreate_cow_Relaxed(b *testing.B) { benchmarkCreate(b, cow.Relaxed) }
func BenchmarkCreate_cow_Parking(b *testing.B) { benchmarkCreate(b, cow.Parking) }

func benchmarkCreate(b *testing.B, s cow.Strategy) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			v := 42
			_ = cow.NewWith(&v, s, nil)
		}
	})
}

// ------------------------------------------------------
// Copy and move
// ------------------------------------------------------

func BenchmarkCopy_cow_Unsync(b *testing.B)  { benchmarkCopy(b, cow.Unsync) }
func BenchmarkCopy_cow_Mutex(b *testing.B)   { benchmarkCopy(b, cow.Mutex) }
func BenchmarkCopy_cow_Atomic(b *testing.B)  { benchmarkCopy(b, cow.Atomic) }
func BenchmarkCopy_cow_Relaxed(b *testing.B) { benchmarkCopy(b, cow.Relaxed) }
func BenchmarkCopy_cow_Parking(b *testing.B) { benchmarkCopy(b, cow.Parking) }

func benchmarkCopy(b *testing.B, s cow.Strategy) {
	b.ReportAllocs()
	v := 42
	p := cow.NewWith(&v, s, nil)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = p.Copy()
		}
	})
}

func BenchmarkMove_cow_Atomic(b *testing.B) {
	b.ReportAllocs()
	v := 42
	p := cow.New(&v)
	b.ResetTimer()
	for range b.N {
		p = p.Move()
	}
}

// ------------------------------------------------------
// Reads
// ------------------------------------------------------

func BenchmarkRead_cow_Ptr(b *testing.B) {
	b.ReportAllocs()
	v := 42
	p := cow.New(&v)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var acc int64
		for pb.Next() {
			acc += int64(*p.Read())
		}
		atomic.AddInt64(&sinkValue, acc)
	})
}

func BenchmarkLoad_cow_Ptr(b *testing.B) {
	b.ReportAllocs()
	v := 42
	p := cow.New(&v)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var acc int64
		for pb.Next() {
			acc += int64(p.Load())
		}
		atomic.AddInt64(&sinkValue, acc)
	})
}

func BenchmarkRead_raw_Pointer(b *testing.B) {
	b.ReportAllocs()
	v := 42
	p := &v
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var acc int64
		for pb.Next() {
			acc += int64(*p)
		}
		atomic.AddInt64(&sinkValue, acc)
	})
}

func BenchmarkRead_atomic_Pointer(b *testing.B) {
	b.ReportAllocs()
	v := 42
	var p atomic.Pointer[int]
	p.Store(&v)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var acc int64
		for pb.Next() {
			acc += int64(*p.Load())
		}
		atomic.AddInt64(&sinkValue, acc)
	})
}

func BenchmarkRead_sync_Mutex(b *testing.B) {
	b.ReportAllocs()
	var mu sync.Mutex
	v := 42
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var acc int64
		for pb.Next() {
			mu.Lock()
			acc += int64(v)
			mu.Unlock()
		}
		atomic.AddInt64(&sinkValue, acc)
	})
}

func BenchmarkRead_sync_RWMutex(b *testing.B) {
	b.ReportAllocs()
	var mu sync.RWMutex
	v := 42
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var acc int64
		for pb.Next() {
			mu.RLock()
			acc += int64(v)
			mu.RUnlock()
		}
		atomic.AddInt64(&sinkValue, acc)
	})
}

func BenchmarkRead_xsync_RBMutex(b *testing.B) {
	b.ReportAllocs()
	mu := xsync.NewRBMutex()
	v := 42
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var acc int64
		for pb.Next() {
			tk := mu.RLock()
			acc += int64(v)
			mu.RUnlock(tk)
		}
		atomic.AddInt64(&sinkValue, acc)
	})
}

// ------------------------------------------------------
// Warm writes (ownership already acquired)
// ------------------------------------------------------

func BenchmarkWriteWarm_cow_Mutex(b *testing.B)   { benchmarkWriteWarm(b, cow.Mutex) }
func BenchmarkWriteWarm_cow_Atomic(b *testing.B)  { benchmarkWriteWarm(b, cow.Atomic) }
func BenchmarkWriteWarm_cow_Relaxed(b *testing.B) { benchmarkWriteWarm(b, cow.Relaxed) }
func BenchmarkWriteWarm_cow_Parking(b *testing.B) { benchmarkWriteWarm(b, cow.Parking) }

func benchmarkWriteWarm(b *testing.B, s cow.Strategy) {
	b.ReportAllocs()
	v := 42
	p := cow.NewWith(&v, s, nil)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = p.Write(7)
		}
	})
}

func BenchmarkWriteWarm_sync_Mutex(b *testing.B) {
	b.ReportAllocs()
	var mu sync.Mutex
	v := 42
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			v = 7
			mu.Unlock()
		}
	})
	_ = v
}

func BenchmarkWriteWarm_sync_RWMutex(b *testing.B) {
	b.ReportAllocs()
	var mu sync.RWMutex
	v := 42
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			v = 7
			mu.Unlock()
		}
	})
	_ = v
}

func BenchmarkWriteWarm_xsync_RBMutex(b *testing.B) {
	b.ReportAllocs()
	mu := xsync.NewRBMutex()
	v := 42
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			mu.Lock()
			v = 7
			mu.Unlock()
		}
	})
	_ = v
}

// Every RCU write allocates and publishes a fresh block.
func BenchmarkWriteWarm_atomic_Pointer(b *testing.B) {
	b.ReportAllocs()
	v := 42
	var p atomic.Pointer[int]
	p.Store(&v)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			nv := new(int)
			*nv = 7
			p.Store(nv)
		}
	})
}

// ------------------------------------------------------
// Cold writes (copy, then first write clones)
// ------------------------------------------------------

func BenchmarkWriteCold_cow_Mutex(b *testing.B)   { benchmarkWriteCold(b, cow.Mutex) }
func BenchmarkWriteCold_cow_Atomic(b *testing.B)  { benchmarkWriteCold(b, cow.Atomic) }
func BenchmarkWriteCold_cow_Relaxed(b *testing.B) { benchmarkWriteCold(b, cow.Relaxed) }
func BenchmarkWriteCold_cow_Parking(b *testing.B) { benchmarkWriteCold(b, cow.Parking) }

func benchmarkWriteCold(b *testing.B, s cow.Strategy) {
	b.ReportAllocs()
	v := 42
	p := cow.NewWith(&v, s, nil)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c := p.Copy()
			_ = c.Write(7)
		}
	})
}
