package response

import (
	"fmt"
	"io"
	"strconv"

	"github.com/junwei890/minihttp/internal/headers"
)

type WriterState string

const (
	writingStatusLine WriterState = "status line"
	writingHeaders    WriterState = "headers"
	writingBody       WriterState = "body"
)

type Writer struct {
	Response    io.Writer
	writerState WriterState
}

type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusBadRequest          StatusCode = 400
	StatusNotFound            StatusCode = 404
	StatusInternalServerError StatusCode = 500
)

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		Response:    w,
		writerState: writingStatusLine,
	}
}

func (w *Writer) WriteStatusLine(statusCode StatusCode) error {
	if w.writerState != writingStatusLine {
		return fmt.Errorf("writing status line while in %s state", w.writerState)
	}
	defer func() { w.writerState = writingHeaders }()

	var line []byte
	switch statusCode {
	case StatusOK:
		line = []byte("HTTP/1.1 200 OK\r\n")
	case StatusBadRequest:
		line = []byte("HTTP/1.1 400 Bad Request\r\n")
	case StatusNotFound:
		line = []byte("HTTP/1.1 404 Not Found\r\n")
	case StatusInternalServerError:
		line = []byte("HTTP/1.1 500 Internal Server Error\r\n")
	default:
		// there must be a space between status code and reason phrase even if reason phrase is absent
		line = fmt.Appendf([]byte{}, "HTTP/1.1 %d \r\n", statusCode)
	}

	_, err := w.Response.Write(line)
	return err
}

// SetDefaultHeaders returns the headers for spec. Content-Length is taken
// from the body as it is now, so this must run after any encoding.
func SetDefaultHeaders(spec Spec) (headers.Headers, error) {
	contentType := spec.ContentType
	if contentType == "" {
		contentType = contentTypeText
	}

	fields := []headers.Field{{Name: "Content-Type", Value: contentType}}
	if spec.Encoding != "" {
		fields = append(fields, headers.Field{Name: "Content-Encoding", Value: spec.Encoding})
	}
	fields = append(fields, headers.Field{Name: "Content-Length", Value: strconv.Itoa(len(spec.Body))})

	h := headers.NewHeaders()
	for _, f := range fields {
		if err := h.Set(f.Name, f.Value); err != nil {
			return nil, err
		}
	}

	return h, nil
}

func (w *Writer) WriteHeaders(h headers.Headers) error {
	if w.writerState != writingHeaders {
		return fmt.Errorf("writing headers while in %s state", w.writerState)
	}
	defer func() { w.writerState = writingBody }()

	// assembled first so the header block goes out as one write
	var block []byte
	for _, f := range h {
		block = fmt.Appendf(block, "%s: %s\r\n", f.Name, f.Value)
	}
	// extra \r\n at the end of headers
	block = append(block, "\r\n"...)

	_, err := w.Response.Write(block)
	return err
}

func (w *Writer) WriteBody(body []byte) (int, error) {
	if w.writerState != writingBody {
		return 0, fmt.Errorf("writing body while in %s state", w.writerState)
	}

	n, err := w.Response.Write(body)
	if err != nil {
		return 0, err
	}

	return n, nil
}
