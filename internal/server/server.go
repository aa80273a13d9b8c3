package server

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/junwei890/minihttp/internal/buffer"
)

const (
	DefaultPort    = 4221
	DefaultBacklog = 5

	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

type Config struct {
	Port    int
	Backlog int
	// BufferSize is the capacity of both the read and the write buffer.
	BufferSize int
	// Gzip enables gzip encoding for clients that send Accept-Encoding: gzip.
	Gzip bool
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Backlog <= 0 {
		c.Backlog = DefaultBacklog
	}
	if c.BufferSize <= 0 {
		c.BufferSize = buffer.DefaultSize
	}

	return c
}

type Server struct {
	cfg      Config
	listener net.Listener
	logger   zerolog.Logger
	closed   atomic.Bool
	done     chan struct{}
}

// nextAcceptDelay doubles the wait after a failed accept, up to a second.
func nextAcceptDelay(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptDelay
	}

	return min(2*d, maxAcceptDelay)
}

func (s *Server) listen() {
	defer close(s.done)

	var delay time.Duration
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// distinguishes between graceful shutdown and unexpected errors
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}

			// errors like EMFILE repeat until something frees up, so back off
			delay = nextAcceptDelay(delay)
			s.logger.Error().Err(&TransportError{Op: "accept", Err: err}).Dur("retry", delay).Msg("couldn't accept connection")
			time.Sleep(delay)
			continue
		}
		delay = 0

		// one connection at a time, the next accept waits for this one to close
		s.newConn(conn).serve()
	}
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Done is closed once the accept loop has returned.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) Close() error {
	s.closed.Store(true)

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			return fmt.Errorf("couldn't shutdown server properly: %w", err)
		}
	}

	return nil
}

// Serve opens the listening socket described by cfg and starts accepting
// connections in the background.
func Serve(cfg Config, logger zerolog.Logger) (*Server, error) {
	cfg = cfg.withDefaults()

	listener, err := listen(cfg.Port, cfg.Backlog)
	if err != nil {
		return nil, fmt.Errorf("couldn't setup a listener: %w", err)
	}

	return ServeListener(listener, cfg, logger), nil
}

// ServeListener is Serve for a listener the caller already has.
func ServeListener(listener net.Listener, cfg Config, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg.withDefaults(),
		listener: listener,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go s.listen()

	// returns so that server can be stopped using an interrupt or termination
	return s
}
