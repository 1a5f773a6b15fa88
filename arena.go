package pbuf

import (
	"sync"

	"go.uber.org/zap"
)

// Arena multiplexes between subpage pools (by size class) and a chunk list,
// normalizing requested sizes into size classes (spec.md §4.4). All of its
// exported surface is safe for concurrent use; state is guarded by mu.
type Arena struct {
	mu sync.Mutex

	pageSize   int
	pageShifts int
	maxOrder   int
	chunkSize  int

	tinySubpagePools  [numTinySubpagePools]*subpage
	smallSubpagePools []*subpage

	chunkListHead *pooledChunk // sentinel-free doubly linked list; nil when empty

	log *zap.Logger
}

func newArena(pageSize, pageShifts, maxOrder int, log *zap.Logger) *Arena {
	chunkSize := pageSize << uint(maxOrder)
	numSmall := pageShifts - 9

	a := &Arena{
		pageSize:          pageSize,
		pageShifts:        pageShifts,
		maxOrder:          maxOrder,
		chunkSize:         chunkSize,
		smallSubpagePools: make([]*subpage, numSmall),
		log:               log,
	}
	for i := range a.tinySubpagePools {
		a.tinySubpagePools[i] = newSubpagePoolHead()
	}
	for i := range a.smallSubpagePools {
		a.smallSubpagePools[i] = newSubpagePoolHead()
	}
	return a
}

// normalizeCapacity wraps the package-level normalizeCapacity with this
// arena's chunkSize.
func (a *Arena) normalizeCapacity(req int) (int, error) {
	return normalizeCapacity(req, a.chunkSize)
}

func (a *Arena) poolHeadFor(norm int) *subpage {
	if norm < tinyThreshold {
		return a.tinySubpagePools[tinyIdx(norm)]
	}
	return a.smallSubpagePools[smallIdx(norm)]
}

// newPooledBuffer allocates a fresh pooled buffer for reqCapacity
// (spec.md §4.4 "allocate(buffer, reqCapacity)").
func (a *Arena) newPooledBuffer(reqCapacity, maxCapacity int) (*pooledBuffer, error) {
	buf := newPooledBuffer(a, maxCapacity)
	if err := a.allocate(buf, reqCapacity); err != nil {
		return nil, err
	}
	return buf, nil
}

func (a *Arena) allocate(buf *pooledBuffer, reqCapacity int) error {
	norm, err := a.normalizeCapacity(reqCapacity)
	if err != nil {
		return err
	}

	if isTinyOrSmall(norm, a.pageSize) {
		if ok := a.allocateFromExistingSubpage(buf, norm, reqCapacity); ok {
			return nil
		}
		// Fall through: no pool subpage had room.
	} else if norm > a.chunkSize {
		return a.allocateHuge(buf, reqCapacity, norm)
	}

	return a.allocateFromChunkList(buf, reqCapacity, norm)
}

// allocateFromExistingSubpage implements spec.md §4.4 step 2: look for a
// pool head with a non-sentinel successor that still has room.
func (a *Arena) allocateFromExistingSubpage(buf *pooledBuffer, norm, reqCapacity int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	head := a.poolHeadFor(norm)
	s := head.next
	if s == head {
		return false
	}
	bitmapIdx := s.allocate()
	if bitmapIdx < 0 {
		return false
	}
	s.chunk.initBufferWithSubpage(buf, newSubpageHandle(bitmapIdx, s.memoryMapIdx), reqCapacity)
	return true
}

// allocateHuge serves a request larger than chunkSize with a one-shot
// unpooled chunk (spec.md §4.4 step 3).
func (a *Arena) allocateHuge(buf *pooledBuffer, reqCapacity, norm int) error {
	chunk := newUnpooledChunk(norm)
	buf.bindPooled(chunk, newNodeHandle(0), 0, reqCapacity, norm)
	if a.log != nil {
		a.log.Debug("allocated huge unpooled chunk", zap.Int("size", norm))
	}
	return nil
}

// allocateFromChunkList implements spec.md §4.4 step 4: walk the
// chunk list trying chunk.allocate(norm); create a fresh chunk if none
// succeed.
func (a *Arena) allocateFromChunkList(buf *pooledBuffer, reqCapacity, norm int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var head *subpage
	if isTinyOrSmall(norm, a.pageSize) {
		head = a.poolHeadFor(norm)
	}

	for c := a.chunkListHead; c != nil; c = c.next {
		if h, ok := c.allocate(norm, head); ok {
			c.initBuffer(buf, h, reqCapacity)
			return nil
		}
	}

	chunk := newPooledChunk(a, a.pageSize, a.pageShifts, a.maxOrder)
	h, ok := chunk.allocate(norm, head)
	if !ok {
		fatalf("fresh chunk of size %d could not satisfy normalized request %d", a.chunkSize, norm)
	}
	chunk.initBuffer(buf, h, reqCapacity)
	a.prependChunk(chunk)
	if a.log != nil {
		a.log.Debug("created pooled chunk", zap.Int("chunkSize", a.chunkSize))
	}
	return nil
}

func (a *Arena) prependChunk(c *pooledChunk) {
	c.next = a.chunkListHead
	if a.chunkListHead != nil {
		a.chunkListHead.prev = c
	}
	a.chunkListHead = c
}

// free returns a region to the arena (spec.md §4.4 "free(chunk, handle,
// maxLength)"). Unpooled chunks are simply dropped — the host runtime
// reclaims their backing array.
func (a *Arena) free(chunk *pooledChunk, h handle, maxLength int) {
	if chunk == nil {
		return
	}
	if chunk.unpooled {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	chunk.free(h)
}

// reallocate implements spec.md §4.4 "reallocate(buffer, newCapacity,
// freeOldMemory)", including the corrected min(oldCapacity, newCapacity)
// copy length (spec.md §9 Open Question 1).
func (a *Arena) reallocate(buf *pooledBuffer, newCapacity int, freeOldMemory bool) error {
	if newCapacity < 0 || newCapacity > buf.maxCapacity {
		return invalidArgf("reallocate(%d): outside [0, maxCapacity=%d]", newCapacity, buf.maxCapacity)
	}
	if newCapacity == buf.capacity {
		return nil
	}

	oldChunk := buf.chunk
	oldHandle := buf.h
	oldOffset := buf.baseOffset
	oldMaxLength := buf.maxLength
	oldCapacity := buf.capacity
	oldArray := oldChunk.buffer
	readerIndex := buf.readerIndex
	writerIndex := buf.writerIndex

	if err := a.allocate(buf, newCapacity); err != nil {
		return err
	}

	copyLen := oldCapacity
	if newCapacity < copyLen {
		copyLen = newCapacity
	}
	copy(buf.chunk.buffer[buf.baseOffset:buf.baseOffset+copyLen], oldArray[oldOffset:oldOffset+copyLen])

	if readerIndex > newCapacity {
		readerIndex = newCapacity
	}
	if writerIndex > newCapacity {
		writerIndex = newCapacity
	}
	buf.readerIndex = readerIndex
	buf.writerIndex = writerIndex

	if freeOldMemory {
		a.free(oldChunk, oldHandle, oldMaxLength)
	}
	return nil
}
