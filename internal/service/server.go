package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// shutdownGrace bounds how long Stop waits for in-flight requests.
const shutdownGrace = 5 * time.Second

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer wraps the router in an http.Server tuned for the dashboard
// API: a short header timeout against stalled clients and a write timeout
// wide enough for the spreadsheet export endpoints.
func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	if addr == "" {
		addr = ":8080"
	}
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
	return &Server{httpServer: s, logger: logger}
}

func (s *Server) Start() error {
	s.logger.Info("Starting campana-api HTTP server", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests, giving up after the grace period.
func (s *Server) Stop() error {
	s.logger.Info("Stopping campana-api HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
