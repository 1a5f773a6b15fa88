package pbuf

// unpooledBuffer owns its own byte array outright; base_offset is always 0
// and maxLength always equals capacity (spec.md §3 "Unpooled view",
// §4.6).
type unpooledBuffer struct {
	refcount

	array       []byte
	capacity    int
	maxCapacity int
	readerIndex int
	writerIndex int
}

// NewUnpooledBuffer creates a Buffer that asks the host runtime for a
// fresh byte array on every grow, bypassing the pool entirely (spec.md
// §1 "An unpooled factory... implements the same public buffer contract
// but bypasses the pool entirely").
func NewUnpooledBuffer(length, maxCapacity int) (Buffer, error) {
	if length < 0 {
		return nil, invalidArgf("length %d must be non-negative", length)
	}
	if maxCapacity < length {
		return nil, invalidArgf("maxCapacity %d < length %d", maxCapacity, length)
	}
	b := &unpooledBuffer{
		array:       make([]byte, length),
		capacity:    length,
		maxCapacity: maxCapacity,
	}
	b.refcount = newRefcount(nil) // disposal is a no-op: let the GC reclaim array
	return b, nil
}

func (b *unpooledBuffer) Capacity() int      { return b.capacity }
func (b *unpooledBuffer) MaxCapacity() int   { return b.maxCapacity }
func (b *unpooledBuffer) ReaderIndex() int   { return b.readerIndex }
func (b *unpooledBuffer) WriterIndex() int   { return b.writerIndex }
func (b *unpooledBuffer) ReadableBytes() int { return b.writerIndex - b.readerIndex }
func (b *unpooledBuffer) WritableBytes() int { return b.capacity - b.writerIndex }
func (b *unpooledBuffer) IsReadable() bool   { return b.ReadableBytes() > 0 }
func (b *unpooledBuffer) IsWritable() bool   { return b.WritableBytes() > 0 }
func (b *unpooledBuffer) BaseArray() []byte  { return b.array }
func (b *unpooledBuffer) BaseOffset() int    { return 0 }
func (b *unpooledBuffer) RefCount() int32    { return b.Get() }

func (b *unpooledBuffer) SetIndex(readerIndex, writerIndex int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if readerIndex < 0 || readerIndex > writerIndex || writerIndex > b.capacity {
		return invalidArgf("setIndex(%d, %d): violates 0 <= reader <= writer <= capacity(%d)", readerIndex, writerIndex, b.capacity)
	}
	b.readerIndex = readerIndex
	b.writerIndex = writerIndex
	return nil
}

// SetCapacity implements spec.md §4.6: grows by doubling and copying, never
// shrinks, and — per §9 Open Question 5's redesign — enforces maxCapacity
// at this call site instead of leaving it to the caller.
func (b *unpooledBuffer) SetCapacity(newCapacity int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if newCapacity < 0 {
		return invalidArgf("setCapacity(%d): negative", newCapacity)
	}
	if newCapacity > b.maxCapacity {
		return invalidArgf("setCapacity(%d): exceeds maxCapacity(%d)", newCapacity, b.maxCapacity)
	}
	if newCapacity <= b.capacity {
		return nil
	}
	grown := newCapacity << 1
	if grown > b.maxCapacity {
		grown = newCapacity
	}
	next := make([]byte, grown)
	copy(next, b.array)
	b.array = next
	b.capacity = grown
	return nil
}

func (b *unpooledBuffer) checkBulk(index int, sliceLen, sliceIndex, length int) error {
	if length < 0 {
		return invalidArgf("length %d must be non-negative", length)
	}
	if index < 0 || index+length > b.capacity {
		return invalidArgf("index %d, length %d out of bounds for capacity %d", index, length, b.capacity)
	}
	if sliceIndex < 0 || sliceIndex+length > sliceLen {
		return invalidArgf("sliceIndex %d, length %d out of bounds for slice length %d", sliceIndex, length, sliceLen)
	}
	return nil
}

func (b *unpooledBuffer) GetBytes(index int, dst []byte, dstIndex, length int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if err := b.checkBulk(index, len(dst), dstIndex, length); err != nil {
		return err
	}
	copy(dst[dstIndex:dstIndex+length], b.array[index:index+length])
	return nil
}

func (b *unpooledBuffer) SetBytes(index int, src []byte, srcIndex, length int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if err := b.checkBulk(index, len(src), srcIndex, length); err != nil {
		return err
	}
	copy(b.array[index:index+length], src[srcIndex:srcIndex+length])
	return nil
}

func (b *unpooledBuffer) ensureWritable(length int) error {
	target := b.writerIndex + length
	if target <= b.capacity {
		return nil
	}
	if target > b.maxCapacity {
		return invalidArgf("ensureWritable(%d): writerIndex %d + length would exceed maxCapacity %d", length, b.writerIndex, b.maxCapacity)
	}
	return b.SetCapacity(target)
}

func (b *unpooledBuffer) ReadBytes(dst []byte, dstIndex, length int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	if err := b.GetBytes(b.readerIndex, dst, dstIndex, length); err != nil {
		return err
	}
	b.readerIndex += length
	return nil
}

func (b *unpooledBuffer) WriteBytes(src []byte, srcIndex, length int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	if err := b.ensureWritable(length); err != nil {
		return err
	}
	if err := b.SetBytes(b.writerIndex, src, srcIndex, length); err != nil {
		return err
	}
	b.writerIndex += length
	return nil
}

func (b *unpooledBuffer) Skip(length int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if length < 0 || b.readerIndex+length > b.writerIndex {
		return invalidArgf("skip(%d): out of readable range", length)
	}
	b.readerIndex += length
	return nil
}

func (b *unpooledBuffer) Retain(n ...int32) (Buffer, error) {
	count := argOrOne(n)
	if err := b.retain(count); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *unpooledBuffer) Release(n ...int32) (bool, error) {
	count := argOrOne(n)
	return b.release(count)
}

func (b *unpooledBuffer) Equals(other Buffer) bool { return buffersEqual(b, other) }
func (b *unpooledBuffer) HashCode() uint32         { return bufferHashCode(b) }
