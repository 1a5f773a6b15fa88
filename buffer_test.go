package pbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	f, err := NewPooledFactory(WithPageSize(4096), WithMaxOrder(3), WithNumArenas(1))
	require.NoError(t, err)
	return f
}

func TestBufferReadWriteCycle(t *testing.T) {
	f := newTestFactory(t)
	buf, err := f.NewBuffer(0, 1024)
	require.NoError(t, err)

	require.NoError(t, buf.WriteBytes([]byte("abcdef"), 0, 6))
	require.Equal(t, 6, buf.WriterIndex())
	require.Equal(t, 0, buf.ReaderIndex())
	require.Equal(t, 6, buf.ReadableBytes())

	out := make([]byte, 6)
	require.NoError(t, buf.ReadBytes(out, 0, 6))
	require.Equal(t, []byte("abcdef"), out)
	require.Equal(t, 6, buf.ReaderIndex())
	require.Equal(t, 0, buf.ReadableBytes())
}

func TestBufferSetIndexValidation(t *testing.T) {
	f := newTestFactory(t)
	buf, err := f.NewBuffer(16, 16)
	require.NoError(t, err)

	require.NoError(t, buf.SetIndex(4, 10))
	require.Error(t, buf.SetIndex(-1, 10))
	require.Error(t, buf.SetIndex(10, 4))
	require.Error(t, buf.SetIndex(0, 17))
}

func TestBufferWriteGrowsCapacityAutomatically(t *testing.T) {
	f := newTestFactory(t)
	buf, err := f.NewBuffer(0, 4096)
	require.NoError(t, err)

	data := make([]byte, 100)
	require.NoError(t, buf.WriteBytes(data, 0, 100))
	require.GreaterOrEqual(t, buf.Capacity(), 100)
}

func TestBufferWriteBeyondMaxCapacityFails(t *testing.T) {
	f := newTestFactory(t)
	buf, err := f.NewBuffer(0, 10)
	require.NoError(t, err)

	err = buf.WriteBytes(make([]byte, 11), 0, 11)
	require.Error(t, err)
}

func TestBufferSkip(t *testing.T) {
	f := newTestFactory(t)
	buf, err := f.NewBuffer(16, 16)
	require.NoError(t, err)
	require.NoError(t, buf.SetIndex(0, 10))

	require.NoError(t, buf.Skip(4))
	require.Equal(t, 4, buf.ReaderIndex())
	require.Error(t, buf.Skip(100))
}

func TestBufferRetainReleaseDisposesAtZero(t *testing.T) {
	f := newTestFactory(t)
	buf, err := f.NewBuffer(16, 16)
	require.NoError(t, err)

	_, err = buf.Retain()
	require.NoError(t, err)
	require.Equal(t, int32(2), buf.RefCount())

	disposed, err := buf.Release()
	require.NoError(t, err)
	require.False(t, disposed)

	disposed, err = buf.Release()
	require.NoError(t, err)
	require.True(t, disposed)
}

func TestBufferAccessAfterDisposeFails(t *testing.T) {
	f := newTestFactory(t)
	buf, err := f.NewBuffer(16, 16)
	require.NoError(t, err)

	_, err = buf.Release()
	require.NoError(t, err)

	err = buf.WriteBytes([]byte{1}, 0, 1)
	require.Error(t, err)
}

func TestBufferEqualsComparesReadableRegion(t *testing.T) {
	f := newTestFactory(t)
	a, err := f.NewBuffer(0, 64)
	require.NoError(t, err)
	b, err := f.NewBuffer(0, 64)
	require.NoError(t, err)

	require.NoError(t, a.WriteBytes([]byte("same"), 0, 4))
	require.NoError(t, b.WriteBytes([]byte("same"), 0, 4))
	require.True(t, a.Equals(b))

	require.NoError(t, b.WriteBytes([]byte("!"), 0, 1))
	require.False(t, a.Equals(b))
}

func TestBufferEqualsNeverPanicsOnNil(t *testing.T) {
	f := newTestFactory(t)
	a, err := f.NewBuffer(0, 8)
	require.NoError(t, err)
	require.False(t, a.Equals(nil))
}

func TestBufferHashCodeStableAcrossCalls(t *testing.T) {
	f := newTestFactory(t)
	buf, err := f.NewBuffer(0, 16)
	require.NoError(t, err)
	require.NoError(t, buf.WriteBytes([]byte("stable"), 0, 6))

	h1 := buf.HashCode()
	h2 := buf.HashCode()
	require.Equal(t, h1, h2)
}

func TestBufferOutOfBoundsBulkOpsFail(t *testing.T) {
	f := newTestFactory(t)
	buf, err := f.NewBuffer(16, 16)
	require.NoError(t, err)

	err = buf.GetBytes(10, make([]byte, 10), 0, 10)
	require.Error(t, err)

	err = buf.SetBytes(0, make([]byte, 4), 2, 4)
	require.Error(t, err)
}
