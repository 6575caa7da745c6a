package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flightdesk/appctx"
)

// opsServer exposes the health of constructed components and construction metrics while the
// application runs.
type opsServer struct {
	server   *http.Server
	listener net.Listener
	logger   *slog.Logger
	done     chan error
}

func startOpsServer(addr string, c *appctx.Context, gatherer prometheus.Gatherer, logger *slog.Logger) (*opsServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", appctx.HealthHandler(c))
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s := &opsServer{
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: time.Second,
		},
		listener: listener,
		logger:   logger,
		done:     make(chan error, 1),
	}

	go func() {
		err := s.server.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()

	logger.Info("Ops server running", "addr", s.Addr())

	return s, nil
}

func (s *opsServer) Addr() string {
	return s.listener.Addr().String()
}

func (s *opsServer) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	return <-s.done
}
