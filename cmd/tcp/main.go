package main

import (
	"flag"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/junwei890/minihttp/internal/buffer"
	"github.com/junwei890/minihttp/internal/request"
)

// Prints the request line and user agent of every request it receives,
// without answering.
func main() {
	addr := flag.String("addr", ":42069", "address to listen on")
	flag.Parse()

	listener, err := net.Listen("tcp", *addr) // #nosec G102
	if err != nil {
		log.Fatal().Err(err).Msg("couldn't listen")
	}
	defer listener.Close()
	log.Info().Str("addr", *addr).Msg("listening for requests")

	buf := buffer.New(buffer.DefaultSize)
	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Fatal().Err(err).Msg("couldn't accept connection")
		}
		log.Info().Str("remote", conn.RemoteAddr().String()).Msg("connection accepted")

		req, err := request.RequestParser(conn, buf)
		if err != nil {
			log.Error().Err(err).Msg("couldn't parse request")
		} else {
			fmt.Println("Request line:")
			fmt.Printf("- Method: %s\n", req.RequestLine.Method)
			fmt.Printf("- Target: %s\n", req.RequestLine.RequestTarget)
			fmt.Printf("- Version: %s\n", req.RequestLine.HttpVersion)
			fmt.Printf("- User-Agent: %s\n", req.UserAgent())
		}

		if err := conn.Close(); err != nil {
			log.Fatal().Err(err).Msg("couldn't close connection")
		}
	}
}
