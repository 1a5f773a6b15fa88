package pbuf

import "encoding/binary"

// Buffer is the public contract shared by pooled and unpooled buffer views
// (spec.md §6).
type Buffer interface {
	Capacity() int
	MaxCapacity() int
	ReaderIndex() int
	WriterIndex() int
	ReadableBytes() int
	WritableBytes() int
	IsReadable() bool
	IsWritable() bool
	BaseArray() []byte
	BaseOffset() int
	RefCount() int32

	SetIndex(readerIndex, writerIndex int) error
	SetCapacity(newCapacity int) error

	GetBytes(index int, dst []byte, dstIndex, length int) error
	SetBytes(index int, src []byte, srcIndex, length int) error
	ReadBytes(dst []byte, dstIndex, length int) error
	WriteBytes(src []byte, srcIndex, length int) error
	Skip(length int) error

	Retain(n ...int32) (Buffer, error)
	Release(n ...int32) (bool, error)

	Equals(other Buffer) bool
	HashCode() uint32
}

// pooledBuffer is the arena-managed Buffer view (spec.md §3 "Pooled view").
type pooledBuffer struct {
	refcount

	arena *Arena
	chunk *pooledChunk
	h     handle

	baseOffset int
	capacity   int
	maxLength  int

	maxCapacity int
	readerIndex int
	writerIndex int
}

func newPooledBuffer(arena *Arena, maxCapacity int) *pooledBuffer {
	b := &pooledBuffer{arena: arena, maxCapacity: maxCapacity}
	b.refcount = newRefcount(func() {
		arena.free(b.chunk, b.h, b.maxLength)
	})
	return b
}

// bindPooled rebinds the buffer's storage view onto a chunk region,
// resetting its read/write cursors. Called by chunk.initBuffer on fresh
// allocation and by Arena.reallocate when rebinding to a grown/shrunk
// region.
func (b *pooledBuffer) bindPooled(chunk *pooledChunk, h handle, offset, capacity, maxLength int) {
	b.chunk = chunk
	b.h = h
	b.baseOffset = offset
	b.capacity = capacity
	b.maxLength = maxLength
	b.readerIndex = 0
	b.writerIndex = 0
}

func (b *pooledBuffer) Capacity() int       { return b.capacity }
func (b *pooledBuffer) MaxCapacity() int    { return b.maxCapacity }
func (b *pooledBuffer) ReaderIndex() int    { return b.readerIndex }
func (b *pooledBuffer) WriterIndex() int    { return b.writerIndex }
func (b *pooledBuffer) ReadableBytes() int  { return b.writerIndex - b.readerIndex }
func (b *pooledBuffer) WritableBytes() int  { return b.capacity - b.writerIndex }
func (b *pooledBuffer) IsReadable() bool    { return b.ReadableBytes() > 0 }
func (b *pooledBuffer) IsWritable() bool    { return b.WritableBytes() > 0 }
func (b *pooledBuffer) BaseArray() []byte   { return b.chunk.buffer }
func (b *pooledBuffer) BaseOffset() int     { return b.baseOffset }
func (b *pooledBuffer) RefCount() int32     { return b.Get() }

func (b *pooledBuffer) SetIndex(readerIndex, writerIndex int) error {
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

// SetCapacity implements the grow/shrink policy of spec.md §4.5.
func (b *pooledBuffer) SetCapacity(newCapacity int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if newCapacity < 0 {
		return invalidArgf("setCapacity(%d): negative", newCapacity)
	}
	if newCapacity > b.maxCapacity {
		return invalidArgf("setCapacity(%d): exceeds maxCapacity(%d)", newCapacity, b.maxCapacity)
	}
	if newCapacity == b.capacity {
		return nil
	}

	if newCapacity > b.capacity {
		if newCapacity <= b.maxLength {
			b.capacity = newCapacity
			return nil
		}
		return b.arena.reallocate(b, newCapacity, true)
	}

	// Shrinking.
	if newCapacity > b.maxLength/2 && (b.maxLength > 512 || newCapacity > b.maxLength-16) {
		b.capacity = newCapacity
		if b.readerIndex > newCapacity {
			b.readerIndex = newCapacity
		}
		if b.writerIndex > newCapacity {
			b.writerIndex = newCapacity
		}
		return nil
	}
	return b.arena.reallocate(b, newCapacity, true)
}

func (b *pooledBuffer) checkBulk(index int, sliceLen, sliceIndex, length int) error {
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

func (b *pooledBuffer) GetBytes(index int, dst []byte, dstIndex, length int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if err := b.checkBulk(index, len(dst), dstIndex, length); err != nil {
		return err
	}
	copy(dst[dstIndex:dstIndex+length], b.chunk.buffer[b.baseOffset+index:b.baseOffset+index+length])
	return nil
}

func (b *pooledBuffer) SetBytes(index int, src []byte, srcIndex, length int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if err := b.checkBulk(index, len(src), srcIndex, length); err != nil {
		return err
	}
	copy(b.chunk.buffer[b.baseOffset+index:b.baseOffset+index+length], src[srcIndex:srcIndex+length])
	return nil
}

func (b *pooledBuffer) ensureWritable(length int) error {
	target := b.writerIndex + length
	if target <= b.capacity {
		return nil
	}
	if target > b.maxCapacity {
		return invalidArgf("ensureWritable(%d): writerIndex %d + length would exceed maxCapacity %d", length, b.writerIndex, b.maxCapacity)
	}
	return b.SetCapacity(target)
}

func (b *pooledBuffer) ReadBytes(dst []byte, dstIndex, length int) error {
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

func (b *pooledBuffer) WriteBytes(src []byte, srcIndex, length int) error {
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

func (b *pooledBuffer) Skip(length int) error {
	if err := b.checkAccessible(); err != nil {
		return err
	}
	if length < 0 || b.readerIndex+length > b.writerIndex {
		return invalidArgf("skip(%d): out of readable range", length)
	}
	b.readerIndex += length
	return nil
}

func (b *pooledBuffer) Retain(n ...int32) (Buffer, error) {
	count := argOrOne(n)
	if err := b.retain(count); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *pooledBuffer) Release(n ...int32) (bool, error) {
	count := argOrOne(n)
	return b.release(count)
}

func (b *pooledBuffer) Equals(other Buffer) bool { return buffersEqual(b, other) }
func (b *pooledBuffer) HashCode() uint32         { return bufferHashCode(b) }

func argOrOne(n []int32) int32 {
	if len(n) == 0 {
		return 1
	}
	return n[0]
}

// buffersEqual implements spec.md §6 "Equality": readable-byte-count
// match plus a byte-identical readable region, compared in 8-byte strides
// then trailing bytes. Never panics on a nil or non-Buffer comparand
// (spec.md §9 Open Question 7).
func buffersEqual(a, other Buffer) bool {
	if other == nil {
		return false
	}
	if a.ReadableBytes() != other.ReadableBytes() {
		return false
	}
	n := a.ReadableBytes()
	ab := make([]byte, n)
	bb := make([]byte, n)
	if err := a.GetBytes(a.ReaderIndex(), ab, 0, n); err != nil {
		return false
	}
	if err := other.GetBytes(other.ReaderIndex(), bb, 0, n); err != nil {
		return false
	}
	strides := n - n%8
	for i := 0; i < strides; i += 8 {
		if binary.BigEndian.Uint64(ab[i:]) != binary.BigEndian.Uint64(bb[i:]) {
			return false
		}
	}
	for i := strides; i < n; i++ {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}

// bufferHashCode implements spec.md §6 "Hash".
func bufferHashCode(a Buffer) uint32 {
	n := a.ReadableBytes()
	buf := make([]byte, n)
	if err := a.GetBytes(a.ReaderIndex(), buf, 0, n); err != nil {
		return 1
	}
	h := uint32(1)
	words := n - n%4
	for i := 0; i < words; i += 4 {
		h = 31*h + binary.BigEndian.Uint32(buf[i:])
	}
	for i := words; i < n; i++ {
		h = 31*h + uint32(buf[i])
	}
	if h == 0 {
		return 1
	}
	return h
}
