package buffer

import (
	"errors"
	"io"
)

// DefaultSize is the capacity used when none is configured.
const DefaultSize = 1024

var ErrOverflow = errors.New("buffer overflow")

// Buffer is a fixed capacity byte buffer. It never grows; a write that
// doesn't fit fails with ErrOverflow and leaves the contents untouched.
type Buffer struct {
	data []byte
	n    int
}

func New(size int) *Buffer {
	if size <= 0 {
		size = DefaultSize
	}

	return &Buffer{
		data: make([]byte, size),
	}
}

func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) > b.Available() {
		return 0, ErrOverflow
	}

	n := copy(b.data[b.n:], p)
	b.n += n

	return n, nil
}

// ReadOnce does a single read from r into the buffer. The last byte of
// capacity is never filled. EOF is not an error: the peer finished sending
// and whatever arrived, possibly nothing, is the request.
func (b *Buffer) ReadOnce(r io.Reader) (int, error) {
	b.Reset()

	limit := len(b.data) - 1
	if limit <= 0 {
		limit = len(b.data)
	}

	n, err := r.Read(b.data[:limit])
	b.n = n
	if err == io.EOF {
		err = nil
	}

	return n, err
}

// Bytes returns a view of the buffered data, valid until the next write or reset.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.n]
}

func (b *Buffer) Len() int {
	return b.n
}

func (b *Buffer) Cap() int {
	return len(b.data)
}

func (b *Buffer) Available() int {
	return len(b.data) - b.n
}

func (b *Buffer) Reset() {
	b.n = 0
}

// WriteTo flushes the buffered data to w in a single write.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data[:b.n])
	if err == nil && n != b.n {
		err = io.ErrShortWrite
	}

	return int64(n), err
}
