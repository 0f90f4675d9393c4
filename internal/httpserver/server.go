package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-ozzo/ozzo-validation/v4/is"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrNotListening is returned by Serve when Listen has not bound a socket.
var ErrNotListening = errors.New("httpserver: not listening")

// Server wraps http.Server with address validation, explicit binding and
// graceful shutdown.
type Server struct {
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New creates a new HTTP server with the given address and handler.
// The address is validated before creating the server. Transport level
// errors are reported through logger and never stop the server.
func New(addr string, handler http.Handler, logger *slog.Logger) (*Server, error) {
	if err := validateHost(addr); err != nil {
		return nil, err
	}

	srv := &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
	}

	return srv, nil
}

// Listen binds the listening socket. A bind failure is returned here,
// before any request can be served.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.server.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Serve accepts connections on the bound socket until Shutdown.
// Returns an error unless the server is shut down cleanly.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		return ErrNotListening
	}

	err := s.server.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Close releases a socket bound by Listen that was never served.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.listener
	s.listener = nil
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	return ln.Close()
}

// Shutdown closes the listener and waits up to timeout for in-flight
// requests to complete.
func (s *Server) Shutdown(ctx context.Context, timeout time.Duration) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

func validateHost(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)

	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cant be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
