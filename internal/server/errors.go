package server

import "fmt"

// TransportError is a socket level failure. Op names the step that failed,
// such as "listen" or "accept".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
