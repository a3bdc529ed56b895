package cow

import (
	"sync/atomic"
	"unsafe"

	"github.com/HadrienG2/copy-on-write-ptr/internal/opt"
)

// Whole-value payload copies.
//
// On TSO architectures a plain typed copy is used. On weak memory models,
// and under the race detector (where IsTSO_ is false), the copy runs as
// uintptr-sized atomic chunks when T's size and alignment permit, so a
// word of a word-multiple payload is never observed torn. Types that do
// not qualify fall back to a typed copy, which may interleave per byte.

// loadValue copies *src into v using uintptr-sized atomic loads when
// alignment and size permit; otherwise falls back to a typed copy.
func loadValue[T any](src *T) (v T) {
	if opt.IsTSO_ {
		return *src
	}

	sz := unsafe.Sizeof(v)
	if sz == 0 {
		return v
	}

	ws := unsafe.Sizeof(uintptr(0))
	al := unsafe.Alignof(v)
	if al >= ws && sz%ws == 0 {
		switch n := sz / ws; n {
		case 1:
			u := atomic.LoadUintptr((*uintptr)(unsafe.Pointer(src)))
			*(*uintptr)(unsafe.Pointer(&v)) = u
		case 2:
			p := (*[2]uintptr)(unsafe.Pointer(src))
			q := (*[2]uintptr)(unsafe.Pointer(&v))
			q[0] = atomic.LoadUintptr(&p[0])
			q[1] = atomic.LoadUintptr(&p[1])
		case 3:
			p := (*[3]uintptr)(unsafe.Pointer(src))
			q := (*[3]uintptr)(unsafe.Pointer(&v))
			q[0] = atomic.LoadUintptr(&p[0])
			q[1] = atomic.LoadUintptr(&p[1])
			q[2] = atomic.LoadUintptr(&p[2])
		case 4:
			p := (*[4]uintptr)(unsafe.Pointer(src))
			q := (*[4]uintptr)(unsafe.Pointer(&v))
			q[0] = atomic.LoadUintptr(&p[0])
			q[1] = atomic.LoadUintptr(&p[1])
			q[2] = atomic.LoadUintptr(&p[2])
			q[3] = atomic.LoadUintptr(&p[3])
		default:
			for i := range n {
				off := i * ws
				s := (*uintptr)(unsafe.Add(unsafe.Pointer(src), off))
				d := (*uintptr)(unsafe.Add(unsafe.Pointer(&v), off))
				*d = atomic.LoadUintptr(s)
			}
		}
		return v
	}
	return *src
}

// storeValue writes v into *dst using uintptr-sized atomic stores when
// alignment and size permit; otherwise falls back to a typed copy.
func storeValue[T any](dst *T, v T) {
	if opt.IsTSO_ {
		*dst = v
		return
	}

	sz := unsafe.Sizeof(v)
	if sz == 0 {
		return
	}

	ws := unsafe.Sizeof(uintptr(0))
	al := unsafe.Alignof(v)
	if al >= ws && sz%ws == 0 {
		switch n := sz / ws; n {
		case 1:
			u := *(*uintptr)(unsafe.Pointer(&v))
			atomic.StoreUintptr((*uintptr)(unsafe.Pointer(dst)), u)
		case 2:
			p := (*[2]uintptr)(unsafe.Pointer(dst))
			q := (*[2]uintptr)(unsafe.Pointer(&v))
			atomic.StoreUintptr(&p[0], q[0])
			atomic.StoreUintptr(&p[1], q[1])
		case 3:
			p := (*[3]uintptr)(unsafe.Pointer(dst))
			q := (*[3]uintptr)(unsafe.Pointer(&v))
			atomic.StoreUintptr(&p[0], q[0])
			atomic.StoreUintptr(&p[1], q[1])
			atomic.StoreUintptr(&p[2], q[2])
		case 4:
			p := (*[4]uintptr)(unsafe.Pointer(dst))
			q := (*[4]uintptr)(unsafe.Pointer(&v))
			atomic.StoreUintptr(&p[0], q[0])
			atomic.StoreUintptr(&p[1], q[1])
			atomic.StoreUintptr(&p[2], q[2])
			atomic.StoreUintptr(&p[3], q[3])
		default:
			for i := range n {
				off := i * ws
				s := (*uintptr)(unsafe.Add(unsafe.Pointer(&v), off))
				d := (*uintptr)(unsafe.Add(unsafe.Pointer(dst), off))
				atomic.StoreUintptr(d, *s)
			}
		}
		return
	}
	*dst = v
}
