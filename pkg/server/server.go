package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

type Server struct {
	*http.Server
	*http.ServeMux
}

func NewServer(port int) *Server {
	mux := http.NewServeMux()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{
		Server:   server,
		ServeMux: mux,
	}
}

func (s *Server) ListenAndServeContext(ctx context.Context, shutdownTimeout time.Duration) error {
	l, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.ServeContext(ctx, l, shutdownTimeout)
}

// ServeContext serves requests on the given listener until the
// context is cancelled. The server is then shut down gracefully
// waiting at most shutdownTimeout for active requests.
func (s *Server) ServeContext(ctx context.Context, l net.Listener, shutdownTimeout time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		// Shutdown causes Serve to return http.ErrServerClosed,
		// which is handled by the select below.
		serverErr <- s.Serve(l)
	}()
	log.Info("serving on {{address}}", "address", l.Addr())

	var err error
	select {
	case <-ctx.Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = s.Shutdown(ctx)
		log.Info("server on {{address}} stopped", "address", l.Addr())
	case err = <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	return err
}
