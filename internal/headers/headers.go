package headers

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var regex = regexp.MustCompile(`[^a-z0-9!#$%&'*+\-.^_` + "`" + `|~]`)

var crlf = []byte("\r\n")

type Field struct {
	Name  string
	Value string
}

// Headers is the header set of an outgoing response. Fields are written in
// the order they were first set.
type Headers []Field

func NewHeaders() Headers {
	return Headers{}
}

func (h *Headers) Set(key, value string) error {
	if key == "" || regex.MatchString(strings.ToLower(key)) {
		return fmt.Errorf("invalid character in field name detected: %q", key)
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("line break in field value of %s", key)
	}

	for i := range *h {
		if strings.EqualFold((*h)[i].Name, key) {
			(*h)[i].Value = value
			return nil
		}
	}
	*h = append(*h, Field{Name: key, Value: value})

	return nil
}

func (h Headers) Get(key string) (string, error) {
	for _, f := range h {
		if strings.EqualFold(f.Name, key) {
			return f.Value, nil
		}
	}

	return "", fmt.Errorf("%s header does not exist", key)
}

// Scan looks through a raw header block for the first line starting with
// exactly "name: " and returns the bytes up to the next CRLF. Matching is
// case sensitive. A field with no terminating CRLF counts as absent.
func Scan(block []byte, name string) (string, bool) {
	prefix := []byte(name + ": ")

	for len(block) > 0 {
		end := bytes.Index(block, crlf)
		if end < 0 {
			return "", false
		}

		line := block[:end]
		if bytes.HasPrefix(line, prefix) {
			return string(line[len(prefix):]), true
		}
		block = block[end+len(crlf):]
	}

	return "", false
}

// HasToken reports whether a comma separated header value such as
// Accept-Encoding lists token. An entry with "q=0" refuses the token; other
// parameters, and q values that don't parse, are ignored.
func HasToken(value, token string) bool {
	for _, part := range strings.Split(value, ",") {
		name, params, _ := strings.Cut(part, ";")
		if !strings.EqualFold(strings.TrimSpace(name), token) {
			continue
		}
		if quality(params) > 0 {
			return true
		}
	}

	return false
}

// quality returns the q parameter of a ";" separated parameter list, 1 when
// it is missing or malformed.
func quality(params string) float64 {
	for _, p := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}

		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 1
		}

		return q
	}

	return 1
}
