package pbuf

// ArenaMetrics is a snapshot of one arena's pooled-chunk accounting,
// generalizing the teacher's ArenaMetrics (bytes in use / capacity /
// chunk count / utilization) from a single bump-chunk list to a buddy
// arena's pooled chunk list.
type ArenaMetrics struct {
	NumPooledChunks int
	ChunkSize       int
	Capacity        int64 // NumPooledChunks * ChunkSize
	FreeBytes       int64
	Utilization     float64 // (Capacity-FreeBytes)/Capacity, 0 if Capacity == 0
}

// Metrics returns a snapshot of this arena's pooled chunk list. Huge
// (unpooled) allocations never appear here — they are not tracked on the
// chunk list at all.
func (a *Arena) Metrics() ArenaMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()

	m := ArenaMetrics{ChunkSize: a.chunkSize}
	for c := a.chunkListHead; c != nil; c = c.next {
		m.NumPooledChunks++
		m.FreeBytes += int64(c.freeBytes)
	}
	m.Capacity = int64(m.NumPooledChunks) * int64(a.chunkSize)
	if m.Capacity > 0 {
		m.Utilization = float64(m.Capacity-m.FreeBytes) / float64(m.Capacity)
	}
	return m
}

// FactoryMetrics aggregates ArenaMetrics across every arena a pooled
// Factory holds.
type FactoryMetrics struct {
	Arenas []ArenaMetrics
}

// Metrics returns a per-arena snapshot. Returns an empty slice for an
// unpooled factory.
func (f *Factory) Metrics() FactoryMetrics {
	fm := FactoryMetrics{Arenas: make([]ArenaMetrics, len(f.arenas))}
	for i, a := range f.arenas {
		fm.Arenas[i] = a.Metrics()
	}
	return fm
}
