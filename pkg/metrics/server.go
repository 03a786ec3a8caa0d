package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/essentials/internal/logger"
)

// ErrServerStarted is returned by Server.Start on a second call.
var ErrServerStarted = errors.New("metrics server already started")

// Server exposes a registry on /metrics.
type Server struct {
	server       *http.Server
	port         int
	started      atomic.Bool
	shutdownOnce sync.Once
	listening    chan struct{}
	addr         net.Addr
}

// NewServer creates a metrics server for reg on port. Port 0 picks a free
// port, which is reported by Addr once Start is listening.
func NewServer(port int, reg *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		port:      port,
		listening: make(chan struct{}),
	}
}

// Start serves until ctx is cancelled, then shuts down. A Server can be
// started once; later calls return ErrServerStarted.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrServerStarted
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("metrics server listen: %w", err)
	}
	s.addr = ln.Addr()
	close(s.listening)
	logger.Info("Metrics server listening", logger.KeyPort, s.port, "path", "/metrics")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("metrics server failed: %w", err)
	}
}

// Stop shuts the server down. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if err = s.server.Shutdown(ctx); err != nil {
			logger.Error("Metrics server shutdown error", logger.KeyError, err)
		}
	})
	return err
}

// Listening is closed once the listener is bound.
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
