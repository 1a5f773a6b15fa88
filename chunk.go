package pbuf

import "math/bits"

// pooledChunk is a buddy allocator over 2^maxOrder pages stored in a
// contiguous byte region (spec.md §3 "Chunk", §4.2).
type pooledChunk struct {
	arena *Arena

	buffer     []byte
	memoryMap  []int8
	depthMap   []int8
	subpages   []*subpage
	unusable   int8
	log2Chunk  int
	pageSize   int
	pageShifts int
	maxOrder   int
	chunkSize  int

	freeBytes int

	unpooled bool

	// Arena chunk-list links. Guarded by arena.mu.
	prev, next *pooledChunk
}

// newPooledChunk builds a fresh chunk of exactly chunkSize bytes with an
// empty buddy tree (spec.md §3 "Initial state: memoryMap[i] = depthMap[i]").
func newPooledChunk(arena *Arena, pageSize, pageShifts, maxOrder int) *pooledChunk {
	chunkSize := pageSize << uint(maxOrder)
	maxSubpageAllocs := 1 << uint(maxOrder)
	treeLen := maxSubpageAllocs << 1

	c := &pooledChunk{
		arena:      arena,
		buffer:     make([]byte, chunkSize),
		memoryMap:  make([]int8, treeLen),
		depthMap:   make([]int8, treeLen),
		subpages:   make([]*subpage, maxSubpageAllocs),
		unusable:   int8(maxOrder + 1),
		log2Chunk:  pageShifts + maxOrder,
		pageSize:   pageSize,
		pageShifts: pageShifts,
		maxOrder:   maxOrder,
		chunkSize:  chunkSize,
		freeBytes:  chunkSize,
	}

	for id := 1; id < treeLen; id++ {
		depth := int8(bits.Len(uint(id)) - 1)
		c.depthMap[id] = depth
		c.memoryMap[id] = depth
	}
	return c
}

// newUnpooledChunk wraps a one-shot byte region of exactly size bytes,
// bypassing the buddy tree entirely (spec.md §3 "huge" region).
func newUnpooledChunk(size int) *pooledChunk {
	return &pooledChunk{
		buffer:    make([]byte, size),
		chunkSize: size,
		unpooled:  true,
	}
}

func (c *pooledChunk) pageIdx(id int32) int32 {
	return id ^ (1 << uint(c.maxOrder))
}

func (c *pooledChunk) runLength(id int32) int {
	return 1 << uint(c.log2Chunk-int(c.depthMap[id]))
}

func (c *pooledChunk) runOffset(id int32) int {
	shift := id ^ (1 << uint(c.depthMap[id]))
	return int(shift) * c.runLength(id)
}

// allocateNode performs the depth-first descent described in spec.md
// §4.2 "allocateNode(d)", preferring the left child and falling back to
// the sibling. Returns -1 (not an error — a value) if the chunk cannot
// satisfy depth d.
func (c *pooledChunk) allocateNode(d int32) int32 {
	id := int32(1)
	initial := int32(-(1 << uint(d)))
	val := c.memoryMap[id]
	if int32(val) > d {
		return -1
	}
	for int32(val) < d || (id&initial) == 0 {
		id <<= 1
		val = c.memoryMap[id]
		if int32(val) > d {
			id ^= 1
			val = c.memoryMap[id]
		}
	}
	c.memoryMap[id] = c.unusable
	c.updateParentsAlloc(id)
	return id
}

func (c *pooledChunk) updateParentsAlloc(id int32) {
	for id > 1 {
		parentID := id >> 1
		val1 := c.memoryMap[id]
		val2 := c.memoryMap[id^1]
		m := val1
		if val2 < m {
			m = val2
		}
		c.memoryMap[parentID] = m
		id = parentID
	}
}

func (c *pooledChunk) updateParentsFree(id int32) {
	depth := c.depthMap[id]
	for id > 1 {
		parentID := id >> 1
		val1 := c.memoryMap[id]
		val2 := c.memoryMap[id^1]
		depth--
		var value int8
		if val1 == depth+1 && val2 == depth+1 {
			value = depth
		} else {
			value = val1
			if val2 < value {
				value = val2
			}
		}
		c.memoryMap[parentID] = value
		id = parentID
	}
}

// allocateRun allocates a buddy node directly for a normal-size-class
// request (spec.md §4.2).
func (c *pooledChunk) allocateRun(normCapacity int) (handle, bool) {
	d := int32(c.maxOrder) - int32(log2(normCapacity)-c.pageShifts)
	id := c.allocateNode(d)
	if id < 0 {
		return 0, false
	}
	c.freeBytes -= c.runLength(id)
	return newNodeHandle(id), true
}

// allocatePage allocates one leaf and binds a fresh subpage to it,
// threading the subpage onto head (spec.md §4.2 "allocatePage").
func (c *pooledChunk) allocatePage(normCapacity int, head *subpage) (handle, bool) {
	id := c.allocateNode(int32(c.maxOrder))
	if id < 0 {
		return 0, false
	}

	idx := c.pageIdx(id)
	sp := c.subpages[idx]
	if sp == nil {
		sp = &subpage{}
		c.subpages[idx] = sp
	}
	sp.init(c, id, c.runOffset(id), c.pageSize, normCapacity, head)

	bitmapIdx := sp.allocate()
	if bitmapIdx < 0 {
		fatalf("freshly initialized subpage reported no availability")
	}
	return newSubpageHandle(bitmapIdx, id), true
}

// allocate dispatches between allocatePage (tiny/small) and allocateRun
// (normal), per spec.md §4.2.
func (c *pooledChunk) allocate(normCapacity int, head *subpage) (handle, bool) {
	if normCapacity < c.pageSize {
		return c.allocatePage(normCapacity, head)
	}
	return c.allocateRun(normCapacity)
}

// free releases h back to the tree, cascading from a subpage bit release
// up to a full leaf release when the subpage empties out (spec.md §4.2
// "free(handle)").
func (c *pooledChunk) free(h handle) {
	memoryMapIdx := h.memoryMapIdx()
	if h.isSubpage() {
		bitmapIdx := h.bitmapIdx()
		sp := c.subpages[c.pageIdx(memoryMapIdx)]
		if sp == nil {
			fatalf("free: no subpage bound to leaf %d", memoryMapIdx)
		}
		if sp.free(bitmapIdx) {
			return
		}
	}
	c.freeBytes += c.runLength(memoryMapIdx)
	c.memoryMap[memoryMapIdx] = c.depthMap[memoryMapIdx]
	c.updateParentsFree(memoryMapIdx)
}

// initBuffer binds buf's (base_offset, capacity, maxLength) view onto the
// region named by h (spec.md §4.5).
func (c *pooledChunk) initBuffer(buf *pooledBuffer, h handle, reqCapacity int) {
	if h.isSubpage() {
		c.initBufferWithSubpage(buf, h, reqCapacity)
		return
	}
	memoryMapIdx := h.memoryMapIdx()
	maxLength := c.runLength(memoryMapIdx)
	buf.bindPooled(c, h, c.runOffset(memoryMapIdx), reqCapacity, maxLength)
}

func (c *pooledChunk) initBufferWithSubpage(buf *pooledBuffer, h handle, reqCapacity int) {
	memoryMapIdx := h.memoryMapIdx()
	bitmapIdx := h.bitmapIdx()
	sp := c.subpages[c.pageIdx(memoryMapIdx)]
	if sp == nil {
		fatalf("initBufferWithSubpage: no subpage bound to leaf %d", memoryMapIdx)
	}
	offset := sp.pageOffset + int(bitmapIdx)*sp.elemSize
	buf.bindPooled(c, h, offset, reqCapacity, sp.elemSize)
}

// log2 returns floor(log2(n)) for n > 0.
func log2(n int) int {
	r := 0
	for n > 1 {
		n >>= 1
		r++
	}
	return r
}
