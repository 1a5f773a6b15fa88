package pbuf

import "math/bits"

// subpage binds to one leaf of a chunk's buddy tree (one page) and carves
// it into maxNumElems equal-sized elements tracked by a bitmap (spec.md
// §3 "Subpage", §4.3).
//
// A subpage with elemSize == 0 is a sentinel pool head: it is never handed
// out by allocate and its prev/next always point to itself when the pool is
// empty.
type subpage struct {
	chunk        *pooledChunk
	memoryMapIdx int32
	pageOffset   int
	pageSize     int

	elemSize     int
	maxNumElems  int
	numAvail     int
	bitmap       []uint64
	nextAvail    int // cached next free bit; -1 once exhausted of the fast path
	doNotDestroy bool

	prev, next *subpage
	head       *subpage // the arena pool-head this subpage is threaded on
}

// newSubpagePoolHead returns a sentinel head for an arena size-class pool.
func newSubpagePoolHead() *subpage {
	s := &subpage{}
	s.prev = s
	s.next = s
	return s
}

// isHead reports whether s is a sentinel pool head rather than a real
// subpage.
func (s *subpage) isHead() bool {
	return s.elemSize == 0
}

// init binds s to chunk/leaf and carves it into elemSize-sized slots,
// linking it at the head of the given pool (spec.md §4.3 "init(elemSize)").
func (s *subpage) init(chunk *pooledChunk, memoryMapIdx int32, pageOffset, pageSize, elemSize int, head *subpage) {
	s.chunk = chunk
	s.memoryMapIdx = memoryMapIdx
	s.pageOffset = pageOffset
	s.pageSize = pageSize
	s.elemSize = elemSize
	s.maxNumElems = pageSize / elemSize
	s.numAvail = s.maxNumElems
	s.nextAvail = 0
	s.doNotDestroy = true
	s.head = head

	words := (s.maxNumElems + 63) / 64
	s.bitmap = make([]uint64, words)

	s.addToPool(head)
}

// addToPool links s immediately after head, matching spec.md's "insert
// after the sentinel head".
func (s *subpage) addToPool(head *subpage) {
	s.prev = head
	s.next = head.next
	head.next.prev = s
	head.next = s
}

// removeFromPool unlinks s from whatever pool it is currently threaded on.
func (s *subpage) removeFromPool() {
	s.prev.next = s.next
	s.next.prev = s.prev
	s.prev = nil
	s.next = nil
}

// allocate returns a 30-bit bit index within this subpage, or -1 if the
// subpage cannot satisfy the request (spec.md §4.3 "allocate() → handle").
func (s *subpage) allocate() int32 {
	if s.elemSize == 0 {
		fatalf("allocate called on a subpage pool sentinel head")
	}
	if s.numAvail == 0 || !s.doNotDestroy {
		return -1
	}

	b := s.nextAvailBit()
	if b < 0 {
		return -1
	}

	wordIdx := b >> 6
	bitIdx := uint(b & 63)
	s.bitmap[wordIdx] |= 1 << bitIdx
	s.numAvail--

	if s.numAvail == 0 {
		s.removeFromPool()
	}
	return int32(b)
}

// nextAvailBit obtains a free bit index, preferring the cached nextAvail
// slot before falling back to a bitmap scan (spec.md §4.3 "allocate()").
func (s *subpage) nextAvailBit() int {
	if s.nextAvail >= 0 {
		b := s.nextAvail
		s.nextAvail = -1
		return b
	}
	return s.findNextAvail()
}

func (s *subpage) findNextAvail() int {
	for wordIdx, word := range s.bitmap {
		if word != ^uint64(0) {
			bitIdx := bits.TrailingZeros64(^word)
			idx := wordIdx<<6 + bitIdx
			if idx < s.maxNumElems {
				return idx
			}
			return -1
		}
	}
	return -1
}

// free clears bit b and reports whether the owning leaf should stay alive
// (true) or be released back to the chunk's buddy tree (false), per
// spec.md §4.3 "free(b) → still_alive".
func (s *subpage) free(b int32) bool {
	if s.elemSize == 0 {
		fatalf("free called on a subpage pool sentinel head")
	}

	wordIdx := int(b) >> 6
	bitIdx := uint(int(b) & 63)
	wasFull := s.numAvail == 0
	s.bitmap[wordIdx] &^= 1 << bitIdx
	s.numAvail++

	if wasFull {
		s.nextAvail = int(b)
		s.addToPool(s.head)
		return true
	}

	if s.numAvail != s.maxNumElems {
		return true
	}

	// All slots are free again. Keep the subpage if it is the sole
	// remaining member of its pool ring.
	if s.prev == s.next {
		return true
	}
	s.doNotDestroy = false
	s.removeFromPool()
	return false
}
