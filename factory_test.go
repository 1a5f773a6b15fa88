package pbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPooledFactoryDefaults(t *testing.T) {
	f, err := NewPooledFactory()
	require.NoError(t, err)
	require.GreaterOrEqual(t, f.NumArenas(), 4)
}

func TestNewPooledFactoryValidatesPageSize(t *testing.T) {
	_, err := NewPooledFactory(WithPageSize(100))
	require.Error(t, err)

	_, err = NewPooledFactory(WithPageSize(4096 + 1))
	require.Error(t, err)
}

func TestNewPooledFactoryValidatesChunkSizeCeiling(t *testing.T) {
	_, err := NewPooledFactory(WithPageSize(4096), WithMaxOrder(30))
	require.Error(t, err)
}

func TestNewPooledFactoryValidatesNumArenas(t *testing.T) {
	_, err := NewPooledFactory(WithNumArenas(0))
	require.Error(t, err)
	_, err = NewPooledFactory(WithNumArenas(-1))
	require.Error(t, err)
}

func TestNewBufferRejectsInvalidLengths(t *testing.T) {
	f, err := NewPooledFactory(WithNumArenas(1))
	require.NoError(t, err)

	_, err = f.NewBuffer(-1, 10)
	require.Error(t, err)

	_, err = f.NewBuffer(10, 5)
	require.Error(t, err)
}

func TestFactorySelectArenaRoundRobins(t *testing.T) {
	f, err := NewPooledFactory(WithNumArenas(3))
	require.NoError(t, err)

	seen := map[*Arena]int{}
	for i := 0; i < 9; i++ {
		seen[f.selectArena()]++
	}
	require.Len(t, seen, 3)
	for _, count := range seen {
		require.Equal(t, 3, count)
	}
}

func TestUnpooledFactoryBypassesArenas(t *testing.T) {
	f := NewUnpooledFactory()
	require.Equal(t, 0, f.NumArenas())

	buf, err := f.NewBuffer(10, 100)
	require.NoError(t, err)
	require.Equal(t, 10, buf.Capacity())
}

func TestFactoryMetricsReportsPerArena(t *testing.T) {
	f, err := NewPooledFactory(WithNumArenas(2), WithPageSize(4096), WithMaxOrder(3))
	require.NoError(t, err)

	buf, err := f.NewBuffer(4096, 4096)
	require.NoError(t, err)
	defer buf.Release()

	m := f.Metrics()
	require.Len(t, m.Arenas, 2)

	total := 0
	for _, am := range m.Arenas {
		total += am.NumPooledChunks
	}
	require.Equal(t, 1, total)
}
