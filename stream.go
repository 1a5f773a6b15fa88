package pbuf

import "io"

// BufferStream adapts a Buffer to io.Reader/io.Writer (spec.md §6 "Stream
// adapter"). Its length tracks the buffer's writerIndex; reads start at
// readerIndex and advance it; writes append at writerIndex. Seeking is not
// supported.
type BufferStream struct {
	buf Buffer
}

// NewBufferStream wraps buf. The stream does not retain buf on
// construction — callers that need the buffer to outlive the stream's
// creation scope should retain it themselves.
func NewBufferStream(buf Buffer) *BufferStream {
	return &BufferStream{buf: buf}
}

// Len reports the stream's length, which tracks the wrapped buffer's
// writerIndex.
func (s *BufferStream) Len() int {
	return s.buf.WriterIndex()
}

// Read implements io.Reader, reading from the wrapped buffer's
// readerIndex and advancing it. Returns io.EOF once no readable bytes
// remain.
func (s *BufferStream) Read(p []byte) (int, error) {
	n := s.buf.ReadableBytes()
	if n == 0 {
		return 0, io.EOF
	}
	if n > len(p) {
		n = len(p)
	}
	if err := s.buf.ReadBytes(p, 0, n); err != nil {
		return 0, err
	}
	return n, nil
}

// Write implements io.Writer, appending at the wrapped buffer's
// writerIndex.
func (s *BufferStream) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := s.buf.WriteBytes(p, 0, len(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Seek always fails: the stream adapter does not support seeking
// (spec.md §7 "Not supported").
func (s *BufferStream) Seek(offset int64, whence int) (int64, error) {
	return 0, notSupportedf("BufferStream does not support Seek")
}

// SetLength calls the wrapped buffer's SetCapacity.
func (s *BufferStream) SetLength(n int) error {
	return s.buf.SetCapacity(n)
}

// Close releases the wrapped buffer exactly once.
func (s *BufferStream) Close() error {
	_, err := s.buf.Release()
	return err
}
