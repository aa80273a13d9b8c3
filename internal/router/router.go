package router

import (
	"strings"

	"github.com/junwei890/minihttp/internal/request"
)

type Kind int

const (
	NotFound Kind = iota
	Root
	Echo
	UserAgent
	BadMethod
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Echo:
		return "echo"
	case UserAgent:
		return "user-agent"
	case BadMethod:
		return "bad method"
	default:
		return "not found"
	}
}

const echoPrefix = "/echo/"

// Decision is the outcome of routing one request. Value holds the echoed
// text or the user agent.
type Decision struct {
	Kind  Kind
	Value string
	// Compressible marks bodies that may be gzip encoded when the client asks for it.
	Compressible bool
}

// Route picks the behavior for a request. The method is checked before any
// path, and paths are tried in a fixed order: "/", "/echo/", "/user-agent".
func Route(r *request.Request) Decision {
	if r.RequestLine.Method != "GET" {
		return Decision{Kind: BadMethod}
	}

	path := r.RequestLine.RequestTarget
	switch {
	case path == "/":
		return Decision{Kind: Root, Compressible: true}
	case strings.HasPrefix(path, echoPrefix):
		return Decision{Kind: Echo, Value: path[len(echoPrefix):], Compressible: true}
	case path == "/user-agent":
		return Decision{Kind: UserAgent, Value: r.UserAgent(), Compressible: true}
	default:
		return Decision{Kind: NotFound}
	}
}
