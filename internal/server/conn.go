package server

import (
	"errors"
	"net"

	"github.com/rs/zerolog"

	"github.com/junwei890/minihttp/internal/buffer"
	"github.com/junwei890/minihttp/internal/request"
	"github.com/junwei890/minihttp/internal/response"
	"github.com/junwei890/minihttp/internal/router"
)

// conn holds everything one connection needs. Nothing in it outlives the
// connection or is shared with another one.
type conn struct {
	rwc      net.Conn
	readBuf  *buffer.Buffer
	writeBuf *buffer.Buffer
	builder  response.Builder
	logger   zerolog.Logger
}

func (s *Server) newConn(rwc net.Conn) *conn {
	return &conn{
		rwc:      rwc,
		readBuf:  buffer.New(s.cfg.BufferSize),
		writeBuf: buffer.New(s.cfg.BufferSize),
		builder: response.Builder{
			Gzip:       s.cfg.Gzip,
			MaxEncoded: s.cfg.BufferSize,
		},
		logger: s.logger.With().Str("remote", rwc.RemoteAddr().String()).Logger(),
	}
}

// serve does one read, one write and closes the connection.
func (c *conn) serve() {
	c.logger.Info().Msg("connection accepted")
	defer func() {
		if err := c.rwc.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("couldn't close connection")
		}
		c.logger.Info().Msg("connection closed")
	}()

	req, err := request.RequestParser(c.rwc, c.readBuf)
	var spec response.Spec
	switch {
	case errors.Is(err, request.ErrMalformedRequest):
		c.logger.Info().Err(err).Msg("bad request")
		spec = response.BadRequest()
	case err != nil:
		c.logger.Warn().Err(err).Msg("couldn't read request")
		return
	default:
		spec = c.respond(req)
	}

	if err := c.write(spec); err != nil {
		c.logger.Error().Err(err).Msg("couldn't write response")
	}
}

func (c *conn) respond(req *request.Request) response.Spec {
	c.logger.Debug().Bytes("request", c.readBuf.Bytes()).Msg("received request")

	d := router.Route(req)
	spec, err := c.builder.Build(d, req.Header("Accept-Encoding"))
	if err != nil {
		c.logger.Warn().Err(err).Msg("sending response without compression")
	}

	c.logger.Info().
		Str("method", req.RequestLine.Method).
		Str("target", req.RequestLine.RequestTarget).
		Stringer("route", d.Kind).
		Int("status", int(spec.Status)).
		Msg("request handled")

	return spec
}

// write serializes spec into the write buffer and sends it in one write. A
// response that doesn't fit is replaced by a 500; nothing is sent until a
// complete response is buffered.
func (c *conn) write(spec response.Spec) error {
	c.writeBuf.Reset()

	if err := response.Serialize(c.writeBuf, spec); err != nil {
		if !errors.Is(err, buffer.ErrOverflow) {
			return err
		}
		c.logger.Error().Err(err).Int("body", len(spec.Body)).Int("capacity", c.writeBuf.Cap()).Msg("response too large")

		c.writeBuf.Reset()
		if err := response.Serialize(c.writeBuf, response.InternalError()); err != nil {
			return err
		}
	}

	_, err := c.writeBuf.WriteTo(c.rwc)
	return err
}
