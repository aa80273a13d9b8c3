package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/junwei890/minihttp/internal/buffer"
	"github.com/junwei890/minihttp/internal/server"
)

func main() {
	port := flag.Int("port", server.DefaultPort, "port to listen on")
	gzip := flag.Bool("gzip", false, "gzip responses for clients that accept it")
	bufferSize := flag.Int("buffer", buffer.DefaultSize, "size of the request and response buffers in bytes")
	debug := flag.Bool("debug", false, "log incoming requests")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	s, err := server.Serve(server.Config{
		Port:       *port,
		Backlog:    server.DefaultBacklog,
		BufferSize: *bufferSize,
		Gzip:       *gzip,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("couldn't start server")
	}
	defer s.Close()

	logger.Info().Int("port", *port).Bool("gzip", *gzip).Msg("waiting for a client to connect")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("server shutdown")
}
