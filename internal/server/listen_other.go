//go:build !unix

package server

import (
	"fmt"
	"net"
)

// listen falls back to the net package; the backlog is left to the OS.
func listen(port, _ int) (net.Listener, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, &TransportError{Op: "listen", Err: err}
	}

	return ln, nil
}
