package pbuf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func newAccessorBuffer(t *testing.T) Buffer {
	t.Helper()
	f, err := NewPooledFactory(WithPageSize(4096), WithMaxOrder(3), WithNumArenas(1))
	require.NoError(t, err)
	buf, err := f.NewBuffer(64, 64)
	require.NoError(t, err)
	return buf
}

func TestByteAccessorsRoundTrip(t *testing.T) {
	buf := newAccessorBuffer(t)
	require.NoError(t, SetByte(buf, 0, 0xAB))
	v, err := GetByte(buf, 0)
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), v)

	require.NoError(t, WriteByte(buf, 0x01))
	require.Equal(t, 1, buf.WriterIndex())
	got, err := ReadByte(buf)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), got)
	require.Equal(t, 1, buf.ReaderIndex())
}

func TestBoolAccessorsRoundTrip(t *testing.T) {
	buf := newAccessorBuffer(t)
	require.NoError(t, SetBool(buf, 0, true))
	v, err := GetBool(buf, 0)
	require.NoError(t, err)
	require.True(t, v)

	require.NoError(t, SetBool(buf, 0, false))
	v, err = GetBool(buf, 0)
	require.NoError(t, err)
	require.False(t, v)
}

func TestShortIsBigEndianNotMasked(t *testing.T) {
	buf := newAccessorBuffer(t)
	require.NoError(t, SetShort(buf, 0, 0x0102))

	b0, _ := GetByte(buf, 0)
	b1, _ := GetByte(buf, 1)
	require.Equal(t, byte(0x01), b0)
	require.Equal(t, byte(0x02), b1)

	v, err := GetShort(buf, 0)
	require.NoError(t, err)
	require.Equal(t, int16(0x0102), v)
}

func TestCharRoundTrip(t *testing.T) {
	buf := newAccessorBuffer(t)
	require.NoError(t, WriteChar(buf, 0xBEEF))
	v, err := ReadChar(buf)
	require.NoError(t, err)
	require.Equal(t, uint16(0xBEEF), v)
}

func TestInt32RoundTrip(t *testing.T) {
	buf := newAccessorBuffer(t)
	require.NoError(t, WriteInt32(buf, -123456))
	v, err := ReadInt32(buf)
	require.NoError(t, err)
	require.Equal(t, int32(-123456), v)
}

func TestInt64RoundTrip(t *testing.T) {
	buf := newAccessorBuffer(t)
	require.NoError(t, WriteInt64(buf, -9223372036854775000))
	v, err := ReadInt64(buf)
	require.NoError(t, err)
	require.Equal(t, int64(-9223372036854775000), v)
}

func TestFloat32RoundTripPreservesBitPattern(t *testing.T) {
	buf := newAccessorBuffer(t)
	want := float32(3.1415927)
	require.NoError(t, WriteFloat32(buf, want))
	got, err := ReadFloat32(buf)
	require.NoError(t, err)
	require.Equal(t, math.Float32bits(want), math.Float32bits(got))
}

func TestFloat64RoundTripPreservesBitPattern(t *testing.T) {
	buf := newAccessorBuffer(t)
	want := math.Pi
	require.NoError(t, WriteFloat64(buf, want))
	got, err := ReadFloat64(buf)
	require.NoError(t, err)
	require.Equal(t, math.Float64bits(want), math.Float64bits(got))
}

func TestGetAccessorsDoNotMoveIndices(t *testing.T) {
	buf := newAccessorBuffer(t)
	require.NoError(t, SetInt32(buf, 0, 42))
	require.Equal(t, 0, buf.WriterIndex())
	require.Equal(t, 0, buf.ReaderIndex())
}
