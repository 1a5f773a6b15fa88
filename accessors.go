package pbuf

import (
	"encoding/binary"
	"math"
)

// Typed convenience accessors over Buffer.GetBytes/SetBytes and
// ReadBytes/WriteBytes (spec.md §6 "Typed convenience accessors"). All
// multi-byte values are big-endian regardless of host byte order,
// implemented with explicit shifts rather than host-order casts so the
// wire format is portable (spec.md §9 "Big-endian wire format").
//
// Absolute Get/Set variants never move readerIndex/writerIndex. Read/Write
// variants advance the corresponding index by the value's width.

// GetByte reads a single byte at index without moving any index.
func GetByte(b Buffer, index int) (byte, error) {
	var tmp [1]byte
	if err := b.GetBytes(index, tmp[:], 0, 1); err != nil {
		return 0, err
	}
	return tmp[0], nil
}

// SetByte writes a single byte at index without moving any index.
func SetByte(b Buffer, index int, v byte) error {
	tmp := [1]byte{v}
	return b.SetBytes(index, tmp[:], 0, 1)
}

// ReadByte reads one byte and advances readerIndex.
func ReadByte(b Buffer) (byte, error) {
	var tmp [1]byte
	if err := b.ReadBytes(tmp[:], 0, 1); err != nil {
		return 0, err
	}
	return tmp[0], nil
}

// WriteByte writes one byte and advances writerIndex.
func WriteByte(b Buffer, v byte) error {
	tmp := [1]byte{v}
	return b.WriteBytes(tmp[:], 0, 1)
}

// GetBool reads a boolean: any non-zero byte is true.
func GetBool(b Buffer, index int) (bool, error) {
	v, err := GetByte(b, index)
	return v != 0, err
}

// SetBool writes a boolean as a single byte (0 or 1).
func SetBool(b Buffer, index int, v bool) error {
	if v {
		return SetByte(b, index, 1)
	}
	return SetByte(b, index, 0)
}

// ReadBool reads one boolean byte and advances readerIndex.
func ReadBool(b Buffer) (bool, error) {
	v, err := ReadByte(b)
	return v != 0, err
}

// WriteBool writes one boolean byte and advances writerIndex.
func WriteBool(b Buffer, v bool) error {
	if v {
		return WriteByte(b, 1)
	}
	return WriteByte(b, 0)
}

// GetShort reads a big-endian 16-bit signed integer, using the canonical
// (b[0]<<8)|b[1] form rather than the source's AND-0xff-truncated variant
// (spec.md §9 Open Question 2).
func GetShort(b Buffer, index int) (int16, error) {
	var tmp [2]byte
	if err := b.GetBytes(index, tmp[:], 0, 2); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(tmp[:])), nil
}

// SetShort writes a big-endian 16-bit signed integer.
func SetShort(b Buffer, index int, v int16) error {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(v))
	return b.SetBytes(index, tmp[:], 0, 2)
}

// ReadShort reads a big-endian int16 and advances readerIndex.
func ReadShort(b Buffer) (int16, error) {
	var tmp [2]byte
	if err := b.ReadBytes(tmp[:], 0, 2); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(tmp[:])), nil
}

// WriteShort writes a big-endian int16 and advances writerIndex.
func WriteShort(b Buffer, v int16) error {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(v))
	return b.WriteBytes(tmp[:], 0, 2)
}

// GetChar reads a 16-bit big-endian "char" (spec.md §6: "char is 16-bit
// big-endian").
func GetChar(b Buffer, index int) (uint16, error) {
	var tmp [2]byte
	if err := b.GetBytes(index, tmp[:], 0, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(tmp[:]), nil
}

// SetChar writes a 16-bit big-endian "char".
func SetChar(b Buffer, index int, v uint16) error {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return b.SetBytes(index, tmp[:], 0, 2)
}

// ReadChar reads a 16-bit big-endian "char" and advances readerIndex.
func ReadChar(b Buffer) (uint16, error) {
	var tmp [2]byte
	if err := b.ReadBytes(tmp[:], 0, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(tmp[:]), nil
}

// WriteChar writes a 16-bit big-endian "char" and advances writerIndex.
func WriteChar(b Buffer, v uint16) error {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return b.WriteBytes(tmp[:], 0, 2)
}

// GetInt32 reads a big-endian 32-bit signed integer.
func GetInt32(b Buffer, index int) (int32, error) {
	var tmp [4]byte
	if err := b.GetBytes(index, tmp[:], 0, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(tmp[:])), nil
}

// SetInt32 writes a big-endian 32-bit signed integer.
func SetInt32(b Buffer, index int, v int32) error {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	return b.SetBytes(index, tmp[:], 0, 4)
}

// ReadInt32 reads a big-endian int32 and advances readerIndex.
func ReadInt32(b Buffer) (int32, error) {
	var tmp [4]byte
	if err := b.ReadBytes(tmp[:], 0, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(tmp[:])), nil
}

// WriteInt32 writes a big-endian int32 and advances writerIndex.
func WriteInt32(b Buffer, v int32) error {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	return b.WriteBytes(tmp[:], 0, 4)
}

// GetInt64 reads a big-endian 64-bit signed integer.
func GetInt64(b Buffer, index int) (int64, error) {
	var tmp [8]byte
	if err := b.GetBytes(index, tmp[:], 0, 8); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(tmp[:])), nil
}

// SetInt64 writes a big-endian 64-bit signed integer.
func SetInt64(b Buffer, index int, v int64) error {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return b.SetBytes(index, tmp[:], 0, 8)
}

// ReadInt64 reads a big-endian int64 and advances readerIndex.
func ReadInt64(b Buffer) (int64, error) {
	var tmp [8]byte
	if err := b.ReadBytes(tmp[:], 0, 8); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(tmp[:])), nil
}

// WriteInt64 writes a big-endian int64 and advances writerIndex.
func WriteInt64(b Buffer, v int64) error {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return b.WriteBytes(tmp[:], 0, 8)
}

// GetFloat32 reads the IEEE-754 bit pattern of a big-endian 32-bit integer
// as a float32 (spec.md §6 "float... are the IEEE-754 bit patterns of a
// 32-bit... big-endian integer").
func GetFloat32(b Buffer, index int) (float32, error) {
	v, err := GetInt32(b, index)
	return math.Float32frombits(uint32(v)), err
}

// SetFloat32 writes v's IEEE-754 bit pattern as a big-endian 32-bit
// integer.
func SetFloat32(b Buffer, index int, v float32) error {
	return SetInt32(b, index, int32(math.Float32bits(v)))
}

// ReadFloat32 reads a big-endian float32 and advances readerIndex.
func ReadFloat32(b Buffer) (float32, error) {
	v, err := ReadInt32(b)
	return math.Float32frombits(uint32(v)), err
}

// WriteFloat32 writes a big-endian float32 and advances writerIndex.
func WriteFloat32(b Buffer, v float32) error {
	return WriteInt32(b, int32(math.Float32bits(v)))
}

// GetFloat64 reads the IEEE-754 bit pattern of a big-endian 64-bit integer
// as a float64.
func GetFloat64(b Buffer, index int) (float64, error) {
	v, err := GetInt64(b, index)
	return math.Float64frombits(uint64(v)), err
}

// SetFloat64 writes v's IEEE-754 bit pattern as a big-endian 64-bit
// integer.
func SetFloat64(b Buffer, index int, v float64) error {
	return SetInt64(b, index, int64(math.Float64bits(v)))
}

// ReadFloat64 reads a big-endian float64 and advances readerIndex.
func ReadFloat64(b Buffer) (float64, error) {
	v, err := ReadInt64(b)
	return math.Float64frombits(uint64(v)), err
}

// WriteFloat64 writes a big-endian float64 and advances writerIndex.
func WriteFloat64(b Buffer, v float64) error {
	return WriteInt64(b, int64(math.Float64bits(v)))
}
