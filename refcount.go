package pbuf

import (
	"math"
	"sync/atomic"
)

// refcount is the reference-count mixin shared by both buffer kinds
// (spec.md §4.1). Every buffer starts with a count of 1. Transitions are
// lock-free: callers never need the arena mutex to retain or release a
// buffer (spec.md §5 "Reference-count updates use atomic CAS").
type refcount struct {
	count   int32
	dispose func()
}

func newRefcount(dispose func()) refcount {
	return refcount{count: 1, dispose: dispose}
}

// Get returns the current count without modifying it.
func (r *refcount) Get() int32 {
	return atomic.LoadInt32(&r.count)
}

// retain implements spec.md §4.1 "retain(n=1)".
func (r *refcount) retain(n int32) error {
	if n <= 0 {
		return invalidArgf("retain: n must be positive, got %d", n)
	}
	for {
		cur := atomic.LoadInt32(&r.count)
		if cur <= 0 {
			return refCountf("retain(%d): buffer already disposed (count=%d)", n, cur)
		}
		if cur > math.MaxInt32-n {
			return refCountf("retain(%d): overflow at count=%d", n, cur)
		}
		if atomic.CompareAndSwapInt32(&r.count, cur, cur+n) {
			return nil
		}
	}
}

// release implements spec.md §4.1 "release(n=1)". The disposal hook runs
// exactly once, on the CAS that drives the count to zero.
func (r *refcount) release(n int32) (disposed bool, err error) {
	if n <= 0 {
		return false, invalidArgf("release: n must be positive, got %d", n)
	}
	for {
		cur := atomic.LoadInt32(&r.count)
		if cur <= 0 {
			return false, refCountf("release(%d): buffer already disposed (count=%d)", n, cur)
		}
		if cur < n {
			return false, refCountf("release(%d): releasing more than current count=%d", n, cur)
		}
		next := cur - n
		if atomic.CompareAndSwapInt32(&r.count, cur, next) {
			if next == 0 {
				if r.dispose != nil {
					r.dispose()
				}
				return true, nil
			}
			return false, nil
		}
	}
}

// checkAccessible returns ErrBufferAccess if the reference count has
// reached zero (spec.md §4 invariant 5).
func (r *refcount) checkAccessible() error {
	if r.Get() <= 0 {
		return bufferAccessf("operation attempted on disposed buffer")
	}
	return nil
}
