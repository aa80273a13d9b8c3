package response

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junwei890/minihttp/internal/buffer"
	"github.com/junwei890/minihttp/internal/compress"
	"github.com/junwei890/minihttp/internal/router"
)

// splitResponse separates a serialized response into status line, header
// lines and body.
func splitResponse(t *testing.T, raw string) (string, []string, string) {
	t.Helper()

	head, body, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok, "no end of headers in %q", raw)

	lines := strings.Split(head, "\r\n")
	return lines[0], lines[1:], body
}

func TestWriterStates(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out)

	_, err := w.WriteBody([]byte("x"))
	require.Error(t, err)
	require.Error(t, w.WriteHeaders(nil))

	require.NoError(t, w.WriteStatusLine(StatusNotFound))
	require.Error(t, w.WriteStatusLine(StatusOK))
	h, err := SetDefaultHeaders(NotFound())
	require.NoError(t, err)
	length, err := h.Get("content-length")
	require.NoError(t, err)
	assert.Equal(t, "13", length)
	require.NoError(t, w.WriteHeaders(h))
	_, err = w.WriteBody([]byte("404 Not Found"))
	require.NoError(t, err)

	assert.Equal(t, "HTTP/1.1 404 Not Found\r\nContent-Type: text/plain\r\nContent-Length: 13\r\n\r\n404 Not Found", out.String())
}

func TestWriteStatusLineUnknownCode(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewWriter(&out).WriteStatusLine(StatusCode(418)))
	assert.Equal(t, "HTTP/1.1 418 \r\n", out.String())
}

func TestBuild(t *testing.T) {
	tests := []struct {
		decision router.Decision
		status   StatusCode
		body     string
	}{
		{router.Decision{Kind: router.Root}, StatusOK, "Hello, world!"},
		{router.Decision{Kind: router.Echo, Value: "abc123"}, StatusOK, "abc123"},
		{router.Decision{Kind: router.Echo}, StatusOK, ""},
		{router.Decision{Kind: router.UserAgent, Value: "curl/7.1"}, StatusOK, "curl/7.1"},
		{router.Decision{Kind: router.UserAgent}, StatusOK, ""},
		{router.Decision{Kind: router.NotFound}, StatusNotFound, "404 Not Found"},
		{router.Decision{Kind: router.BadMethod}, StatusBadRequest, "400 Bad Request"},
	}

	for _, tt := range tests {
		spec := Build(tt.decision)
		assert.Equal(t, tt.status, spec.Status, tt.decision.Kind.String())
		assert.Equal(t, tt.body, string(spec.Body), tt.decision.Kind.String())
		assert.Equal(t, "text/plain", spec.ContentType)
		assert.Empty(t, spec.Encoding)
	}
}

func TestSerialize(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Serialize(&out, Build(router.Decision{Kind: router.Root})))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 13\r\n\r\nHello, world!", out.String())

	out.Reset()
	require.NoError(t, Serialize(&out, Build(router.Decision{Kind: router.Echo})))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 0\r\n\r\n", out.String())

	out.Reset()
	require.NoError(t, Serialize(&out, BadRequest()))
	assert.Equal(t, "HTTP/1.1 400 Bad Request\r\nContent-Type: text/plain\r\nContent-Length: 15\r\n\r\n400 Bad Request", out.String())

	out.Reset()
	require.NoError(t, Serialize(&out, InternalError()))
	assert.True(t, strings.HasPrefix(out.String(), "HTTP/1.1 500 Internal Server Error\r\n"))
}

func TestSerializeContentLengthMatchesBody(t *testing.T) {
	values := []string{"", "a", "héllo wörld", strings.Repeat("z", 700), "tab\there"}

	for _, v := range values {
		var out bytes.Buffer
		require.NoError(t, Serialize(&out, Build(router.Decision{Kind: router.Echo, Value: v})))

		_, hdrs, body := splitResponse(t, out.String())
		assert.Contains(t, hdrs, "Content-Length: "+strconv.Itoa(len(body)))
		assert.Equal(t, v, body)
	}
}

func TestSerializeOverflow(t *testing.T) {
	buf := buffer.New(64)

	err := Serialize(buf, Build(router.Decision{Kind: router.Echo, Value: strings.Repeat("a", 64)}))
	require.ErrorIs(t, err, buffer.ErrOverflow)

	// test: the 500 response fits once the buffer is reset
	buf = buffer.New(1024)
	require.NoError(t, Serialize(buf, InternalError()))
}

func TestBuilderGzip(t *testing.T) {
	d := router.Decision{Kind: router.Echo, Value: "abc", Compressible: true}

	// test: disabled
	spec, err := Builder{}.Build(d, "gzip")
	require.NoError(t, err)
	assert.Empty(t, spec.Encoding)
	assert.Equal(t, "abc", string(spec.Body))

	// test: enabled but not advertised
	spec, err = Builder{Gzip: true}.Build(d, "deflate")
	require.NoError(t, err)
	assert.Empty(t, spec.Encoding)

	// test: enabled and advertised
	spec, err = Builder{Gzip: true}.Build(d, "deflate, gzip")
	require.NoError(t, err)
	assert.Equal(t, "gzip", spec.Encoding)
	plain, err := compress.Gunzip(spec.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(plain))

	var out bytes.Buffer
	require.NoError(t, Serialize(&out, spec))
	_, hdrs, body := splitResponse(t, out.String())
	assert.Equal(t, []string{
		"Content-Type: text/plain",
		"Content-Encoding: gzip",
		"Content-Length: " + strconv.Itoa(len(spec.Body)),
	}, hdrs)
	assert.Equal(t, string(spec.Body), body)

	// test: error responses stay plain
	spec, err = Builder{Gzip: true}.Build(router.Decision{Kind: router.NotFound}, "gzip")
	require.NoError(t, err)
	assert.Empty(t, spec.Encoding)
	assert.Equal(t, "404 Not Found", string(spec.Body))
}

func TestSerializeRejectsBadEncoding(t *testing.T) {
	spec := Build(router.Decision{Kind: router.Root})
	spec.Encoding = "gzip\r\nX-Injected: 1"

	var out bytes.Buffer
	require.Error(t, Serialize(&out, spec))
	assert.NotContains(t, out.String(), "X-Injected")
}

func TestBuilderGzipFailureFallsBack(t *testing.T) {
	d := router.Decision{Kind: router.Echo, Value: "abc", Compressible: true}

	spec, err := Builder{Gzip: true, MaxEncoded: 4}.Build(d, "gzip")
	require.ErrorIs(t, err, compress.ErrCompressionFailure)
	assert.Empty(t, spec.Encoding)
	assert.Equal(t, "abc", string(spec.Body))
}
