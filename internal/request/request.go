package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/junwei890/minihttp/internal/buffer"
	"github.com/junwei890/minihttp/internal/headers"
)

var ErrMalformedRequest = errors.New("malformed request")

type RequestLine struct {
	HttpVersion   string
	RequestTarget string
	Method        string
}

// Request is a view over the bytes received on a connection. HeaderBlock
// aliases the read buffer and must not be used once the buffer is reused.
type Request struct {
	RequestLine RequestLine
	HeaderBlock []byte
}

// UserAgent returns the value of the first "User-Agent: " line, or "" when
// there is none.
func (r *Request) UserAgent() string {
	return r.Header("User-Agent")
}

// Header does the same targeted lookup for any field name. Only the first
// exact, case sensitive match counts.
func (r *Request) Header(name string) string {
	v, _ := headers.Scan(r.HeaderBlock, name)
	return v
}

// Parse reads the request line out of data without modifying it. Method and
// path are the first two whitespace separated tokens, the version is whatever
// is left on the line.
func Parse(data []byte) (*Request, error) {
	lineEnd := bytes.IndexAny(data, "\r\n")
	if lineEnd < 0 {
		lineEnd = len(data)
	}

	rl, err := parseRequestLine(string(data[:lineEnd]))
	if err != nil {
		return nil, err
	}

	// header block starts after the first line terminator
	headerStart := len(data)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		headerStart = i + 1
	}

	return &Request{
		RequestLine: *rl,
		HeaderBlock: data[headerStart:],
	}, nil
}

func parseRequestLine(line string) (*RequestLine, error) {
	method, rest := nextToken(line)
	target, rest := nextToken(rest)
	version := strings.TrimSpace(rest)

	if method == "" || target == "" || version == "" {
		return nil, fmt.Errorf("%w: request line %q requires method, target and version", ErrMalformedRequest, line)
	}

	return &RequestLine{
		HttpVersion:   version,
		RequestTarget: target,
		Method:        method,
	}, nil
}

func nextToken(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i:]
	}

	return s, ""
}

// RequestParser performs a single read from reader into buf and parses what
// arrived. Nothing past that one read is looked at.
func RequestParser(reader io.Reader, buf *buffer.Buffer) (*Request, error) {
	if _, err := buf.ReadOnce(reader); err != nil {
		return nil, fmt.Errorf("couldn't read request: %w", err)
	}

	return Parse(buf.Bytes())
}
