package compress

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
)

var ErrCompressionFailure = errors.New("compression failure")

// limitWriter fails once more than max bytes have been written to it.
type limitWriter struct {
	buf bytes.Buffer
	max int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.max > 0 && w.buf.Len()+len(p) > w.max {
		return 0, fmt.Errorf("output exceeds %d bytes", w.max)
	}

	return w.buf.Write(p)
}

// Gzip compresses body into a gzip stream at the default level. A limit
// above zero caps the size of the compressed output.
func Gzip(body []byte, limit int) ([]byte, error) {
	out := &limitWriter{max: limit}

	zw, err := gzip.NewWriterLevel(out, gzip.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("%w: init: %v", ErrCompressionFailure, err)
	}

	if _, err := zw.Write(body); err != nil {
		return nil, fmt.Errorf("%w: write: %v", ErrCompressionFailure, err)
	}

	// Close flushes the footer, a full output shows up here
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: finish: %v", ErrCompressionFailure, err)
	}

	return out.buf.Bytes(), nil
}

func Gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}
