package pbuf

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel error kinds. Call sites wrap these with pkgerrors.Wrapf to attach
// the offending values while preserving errors.Is(err, ErrXxx).
var (
	// ErrInvalidArgument covers negative sizes/indices, out-of-bounds slice
	// arguments, writer < reader, capacity > maxCapacity, and configuration
	// constraints on pageSize/maxOrder.
	ErrInvalidArgument = errors.New("pbuf: invalid argument")

	// ErrBufferAccess is raised by any operation on a buffer whose
	// reference count has reached zero.
	ErrBufferAccess = errors.New("pbuf: buffer access on disposed buffer")

	// ErrRefCount is raised by retain/release misuse: retaining a disposed
	// buffer, retain overflow, releasing more than the current count.
	ErrRefCount = errors.New("pbuf: reference count violation")

	// ErrNotSupported is raised by operations the stream adapter does not
	// support; BufferStream.Seek is the only one and always returns it.
	ErrNotSupported = errors.New("pbuf: operation not supported")
)

func invalidArgf(format string, args ...interface{}) error {
	return pkgerrors.Wrapf(ErrInvalidArgument, format, args...)
}

func bufferAccessf(format string, args ...interface{}) error {
	return pkgerrors.Wrapf(ErrBufferAccess, format, args...)
}

func refCountf(format string, args ...interface{}) error {
	return pkgerrors.Wrapf(ErrRefCount, format, args...)
}

func notSupportedf(format string, args ...interface{}) error {
	return pkgerrors.Wrapf(ErrNotSupported, format, args...)
}

// fatalf panics on a condition the allocator considers an invariant
// violation rather than a recoverable user error — a corrupted handle or a
// tree-accounting mismatch. Per spec, invalid handles are a programming
// error: undefined behavior, treated as fatal in debug.
func fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf("pbuf: invariant violation: "+format, args...))
}
