// Package pbuf implements a pooled byte-buffer allocator modeled after the
// Netty memory allocator.
//
// # Overview
//
// Applications that issue many transient I/O buffer allocations suffer from
// allocator pressure and fragmentation when every request goes straight to
// the Go heap. pbuf pre-allocates large chunks of bytes and sub-divides them
// with a buddy allocator plus bitmap-managed subpages, recycling freed
// regions back into the pool instead of returning them to the runtime.
//
// # Basic usage
//
//	factory, err := pbuf.NewPooledFactory()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	buf, err := factory.NewBuffer(512, pbuf.MaxCapacityUnbounded)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer buf.Release()
//
//	buf.WriteBytes([]byte("hello"), 0, 5)
//	out := make([]byte, 5)
//	buf.ReadBytes(out, 0, 5)
//
// # Size classes
//
// Requested capacities are normalized into one of four regions — tiny
// (<512 bytes, rounded to a multiple of 16), small (rounded to a power of
// two below the page size), normal (rounded to a power of two up to the
// chunk size) and huge (served by a one-shot unpooled chunk). Tiny and
// small requests are served from bitmap-managed subpages; normal requests
// are served directly from a chunk's buddy tree.
//
// # Thread safety
//
// Arena state (the chunk list, subpage pools, and every chunk's buddy tree)
// is guarded by a per-arena mutex. Reference-count updates use atomic
// compare-and-swap and are safe to call from any goroutine without holding
// that lock. Operations on a single Buffer value are not internally
// synchronized — callers must serialize concurrent reads/writes to the same
// buffer themselves.
//
// # Non-goals
//
// Cross-process shared memory, NUMA placement, per-goroutine caches,
// defragmenting compaction, and zero-copy composite buffers are out of
// scope.
package pbuf
