package pbuf

import (
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
)

// Factory holds N arenas and dispatches new buffers round-robin by a
// monotonic counter (spec.md §4.7). The single-factory-per-process pattern
// is the intended usage.
type Factory struct {
	arenas []*Arena
	seq    int64
	log    *zap.Logger
	// unpooled is false for a pooled factory; factories created by
	// NewUnpooledFactory set it and skip arena selection entirely.
	unpooled bool
}

// NewPooledFactory builds a Factory backed by N arenas, each managing its
// own chunk list and subpage pools (spec.md §4.7).
func NewPooledFactory(opts ...Option) (*Factory, error) {
	cfg := config{
		pageSize:  DefaultPageSize,
		maxOrder:  DefaultMaxOrder,
		numArenas: defaultNumArenas(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if cfg.pageSize < 4096 {
		return nil, invalidArgf("pageSize %d must be >= 4096", cfg.pageSize)
	}
	if !isPowerOfTwo(cfg.pageSize) {
		return nil, invalidArgf("pageSize %d must be a power of two", cfg.pageSize)
	}
	if cfg.maxOrder < 0 {
		return nil, invalidArgf("maxOrder %d must be >= 0", cfg.maxOrder)
	}
	if cfg.pageSize<<uint(cfg.maxOrder) > maxChunkSize {
		return nil, invalidArgf("pageSize %d << maxOrder %d exceeds 1 GiB chunk size ceiling", cfg.pageSize, cfg.maxOrder)
	}
	if cfg.numArenas <= 0 {
		return nil, invalidArgf("numArenas %d must be positive", cfg.numArenas)
	}

	pageShifts := log2(cfg.pageSize)
	f := &Factory{
		arenas: make([]*Arena, cfg.numArenas),
		log:    cfg.logger,
	}
	for i := range f.arenas {
		f.arenas[i] = newArena(cfg.pageSize, pageShifts, cfg.maxOrder, cfg.logger)
	}
	return f, nil
}

// NewUnpooledFactory builds a Factory whose NewBuffer calls always go
// straight to the host runtime, bypassing the pool entirely (spec.md §1
// "An unpooled factory").
func NewUnpooledFactory(opts ...Option) *Factory {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return &Factory{log: cfg.logger, unpooled: true}
}

func defaultNumArenas() int {
	n := runtime.NumCPU()
	if n < 4 {
		return 4
	}
	return n
}

// NewBuffer allocates a new Buffer (spec.md §6 "new_buffer"). Fails with
// ErrInvalidArgument if length < 0 or maxCapacity < length.
func (f *Factory) NewBuffer(length, maxCapacity int) (Buffer, error) {
	if length < 0 {
		return nil, invalidArgf("length %d must be non-negative", length)
	}
	if maxCapacity < length {
		return nil, invalidArgf("maxCapacity %d < length %d", maxCapacity, length)
	}

	if f.unpooled {
		return NewUnpooledBuffer(length, maxCapacity)
	}

	arena := f.selectArena()
	buf, err := arena.newPooledBuffer(length, maxCapacity)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// selectArena increments the factory's sequence counter without a lock
// and picks an arena round-robin (spec.md §4.7, §5 "The factory's
// sequence counter is atomic-incremented without lock").
func (f *Factory) selectArena() *Arena {
	seq := atomic.AddInt64(&f.seq, 1)
	idx := seq % int64(len(f.arenas))
	if idx < 0 {
		idx = -idx
	}
	return f.arenas[idx]
}

// NumArenas returns the number of arenas backing a pooled factory, or 0
// for an unpooled factory.
func (f *Factory) NumArenas() int {
	return len(f.arenas)
}
