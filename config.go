package pbuf

import "go.uber.org/zap"

// Defaults per spec.md §3.
const (
	DefaultPageSize = 4096
	DefaultMaxOrder = 11

	maxChunkSize = 1 << 30 // 1 GiB ceiling on pageSize << maxOrder
)

// MaxCapacityUnbounded is a convenience maxCapacity value meaning "as large
// as a 32-bit length can express" — the default the spec's
// new_buffer(length, maxCapacity = INT_MAX) signature assumes when the
// caller omits a cap.
const MaxCapacityUnbounded = 1<<31 - 1

// config collects the functional options accepted by NewPooledFactory and
// NewUnpooledFactory, generalizing the teacher's single chunkSize
// parameter (pavanmanishd/arena's NewArena(chunkSize int)) into an options
// struct with several independently-defaulted knobs.
type config struct {
	pageSize  int
	maxOrder  int
	numArenas int
	logger    *zap.Logger
}

// Option configures a Factory.
type Option func(*config)

// WithPageSize overrides the default page size. Must be a power of two
// that is at least 4096.
func WithPageSize(pageSize int) Option {
	return func(c *config) { c.pageSize = pageSize }
}

// WithMaxOrder overrides the default maxOrder, controlling chunk size via
// chunkSize = pageSize << maxOrder.
func WithMaxOrder(maxOrder int) Option {
	return func(c *config) { c.maxOrder = maxOrder }
}

// WithNumArenas overrides the number of arenas the factory round-robins
// across. The default is max(4, runtime.NumCPU()).
func WithNumArenas(n int) Option {
	return func(c *config) { c.numArenas = n }
}

// WithLogger injects a structured logger for low-frequency structural
// events (new chunk creation, huge allocation). A nil logger — the
// default — is treated as zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
