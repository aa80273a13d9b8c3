//go:build unix

package server

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// listen opens a TCP socket on all interfaces with SO_REUSEADDR and the
// given backlog. net.Listen doesn't let us pick the backlog, so the socket is
// built by hand and handed over to the net package.
func listen(port, backlog int) (net.Listener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return nil, &TransportError{Op: "socket", Err: err}
	}
	unix.CloseOnExec(fd)

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, &TransportError{Op: "setsockopt SO_REUSEADDR", Err: err}
	}

	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		unix.Close(fd)
		return nil, &TransportError{Op: "bind", Err: fmt.Errorf("port %d: %w", port, err)}
	}

	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, &TransportError{Op: "listen", Err: err}
	}

	f := os.NewFile(uintptr(fd), fmt.Sprintf("tcp:%d", port))
	defer f.Close() // FileListener dups the descriptor

	ln, err := net.FileListener(f)
	if err != nil {
		return nil, &TransportError{Op: "listen", Err: err}
	}

	return ln, nil
}
