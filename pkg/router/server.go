package router

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/pkg/metrics"
)

// ErrServerStarted is returned by Start when the server was already started.
// A Server serves at most once.
var ErrServerStarted = errors.New("server already started")

// Server serves a RouteTable over HTTP.
//
// The server is created stopped; Start binds the port, logs readiness and
// blocks until its context is cancelled. Shutdown is graceful and bounded by
// Config.ShutdownTimeout.
type Server struct {
	server       *http.Server
	config       Config
	started      atomic.Bool
	shutdownOnce sync.Once
	listening    chan struct{}
	addr         net.Addr
}

// NewServer creates a server for table. m may be nil. A zero config.Port
// listens on DefaultPort; use AnyPort for a free port.
func NewServer(config Config, table *RouteTable, m metrics.HTTPMetrics) *Server {
	config.ApplyDefaults()

	return &Server{
		server: &http.Server{
			Addr:         listenAddr(config.Port),
			Handler:      NewRouter(table, m),
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		config:    config,
		listening: make(chan struct{}),
	}
}

func listenAddr(port int) string {
	if port == AnyPort {
		port = 0
	}
	return fmt.Sprintf(":%d", port)
}

// Start serves until ctx is cancelled or the listener fails.
//
// Returns nil after a graceful shutdown, and ErrServerStarted if called
// more than once.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrServerStarted
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.config.Port, err)
	}
	s.addr = ln.Addr()
	close(s.listening)

	logger.Info(fmt.Sprintf("Server is running on http://localhost:%d", s.Port()))

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Server shutdown signal received")
		// ctx is already done; shutdown needs a fresh deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

// Stop gracefully shuts the server down. Safe to call more than once and
// concurrently with Start.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("Server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown: %w", err)
			logger.Error("Server shutdown error", logger.KeyError, err)
		} else {
			logger.Info("Server stopped gracefully")
		}
	})
	return shutdownErr
}

// Listening is closed once the port is bound.
func (s *Server) Listening() <-chan struct{} {
	return s.listening
}

// Addr returns the bound address, or nil before Start has bound.
func (s *Server) Addr() net.Addr {
	select {
	case <-s.listening:
		return s.addr
	default:
		return nil
	}
}

// Port returns the bound port once listening, otherwise the configured one.
func (s *Server) Port() int {
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return s.config.Port
}
