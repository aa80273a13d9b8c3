package response

import (
	"fmt"
	"io"

	"github.com/junwei890/minihttp/internal/compress"
	"github.com/junwei890/minihttp/internal/headers"
	"github.com/junwei890/minihttp/internal/router"
)

const (
	contentTypeText = "text/plain"
	encodingGzip    = "gzip"
)

// Spec is a response ready to be serialized. Content-Length is not part of
// it, Serialize derives it from Body.
type Spec struct {
	Status      StatusCode
	ContentType string
	Encoding    string
	Body        []byte
}

func text(status StatusCode, body string) Spec {
	return Spec{
		Status:      status,
		ContentType: contentTypeText,
		Body:        []byte(body),
	}
}

func BadRequest() Spec {
	return text(StatusBadRequest, "400 Bad Request")
}

func NotFound() Spec {
	return text(StatusNotFound, "404 Not Found")
}

func InternalError() Spec {
	return text(StatusInternalServerError, "500 Internal Server Error")
}

// Build maps a routing decision to its response.
func Build(d router.Decision) Spec {
	switch d.Kind {
	case router.Root:
		return text(StatusOK, "Hello, world!")
	case router.Echo, router.UserAgent:
		return text(StatusOK, d.Value)
	case router.BadMethod:
		return BadRequest()
	default:
		return NotFound()
	}
}

// Builder builds responses with optional gzip encoding. With Gzip unset it
// behaves exactly like Build.
type Builder struct {
	Gzip bool
	// MaxEncoded caps the compressed body, zero means no cap.
	MaxEncoded int
}

// Build returns the response for d. The body is gzip encoded when the
// builder has gzip enabled, d is compressible and acceptEncoding lists gzip.
// If compression fails the plain response is returned along with the error.
func (b Builder) Build(d router.Decision, acceptEncoding string) (Spec, error) {
	spec := Build(d)
	if !b.Gzip || !d.Compressible || !headers.HasToken(acceptEncoding, encodingGzip) {
		return spec, nil
	}

	encoded, err := compress.Gzip(spec.Body, b.MaxEncoded)
	if err != nil {
		return spec, fmt.Errorf("couldn't gzip %s response: %w", d.Kind, err)
	}
	spec.Body = encoded
	spec.Encoding = encodingGzip

	return spec, nil
}

// Serialize writes the full response to w. Content-Length is computed here,
// once, from the body that is about to be written.
func Serialize(w io.Writer, spec Spec) error {
	rw := NewWriter(w)
	if err := rw.WriteStatusLine(spec.Status); err != nil {
		return err
	}

	h, err := SetDefaultHeaders(spec)
	if err != nil {
		return err
	}
	if err := rw.WriteHeaders(h); err != nil {
		return err
	}

	_, err = rw.WriteBody(spec.Body)
	return err
}
