package management

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
)

var (
	// ErrServerAlreadyRunning is returned when Start is called on an already running server.
	ErrServerAlreadyRunning = errors.New("server is already running")

	// ErrServerNotRunning is returned when Stop is called on a non-running server.
	ErrServerNotRunning = errors.New("server is not running")

	// ErrServerShutdownTimeout is returned when graceful shutdown exceeds the timeout.
	ErrServerShutdownTimeout = errors.New("server shutdown timeout exceeded")
)

const (
	defaultShutdownTimeout   = 5 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
)

// Server is a small HTTP server for operational endpoints (health probes, metrics).
// The port is bound synchronously by Start so bind errors are returned to the caller.
type Server struct {
	name            string
	port            int
	handler         http.Handler
	logger          *logger.Logger
	shutdownTimeout time.Duration

	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
	running  bool
	stopped  chan struct{}
}

// NewServer creates a server named name (used in logs) that will serve handler on port.
// Port 0 picks a free port; see Addr.
func NewServer(name string, port int, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		name:            name,
		port:            port,
		handler:         handler,
		logger:          log.With("server", name),
		shutdownTimeout: defaultShutdownTimeout,
	}
}

// Start binds the port and serves in a background goroutine.
// The server shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrServerAlreadyRunning
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("%s server failed to listen on port %d: %w", s.name, s.port, err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	s.running = true
	s.stopped = make(chan struct{})

	server := s.server
	stopped := s.stopped
	s.logger.Info("starting server", "addr", listener.Addr().String())

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info("context cancelled, shutting down server")
			if err := s.Stop(); err != nil && !errors.Is(err, ErrServerNotRunning) {
				s.logger.Error("error during context-triggered shutdown", "error", err)
			}
		case <-stopped:
		}
	}()

	return nil
}

// Stop gracefully shuts down the server.
// Returns an error if the server is not running or shutdown times out.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrServerNotRunning
	}

	s.logger.Info("stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.running = false
	close(s.stopped)

	if err := s.server.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrServerShutdownTimeout, err)
		}
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// IsRunning returns whether the server is currently serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Port returns the bound port, or 0 before Start.
func (s *Server) Port() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return 0
	}
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
