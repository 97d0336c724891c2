// Package server, http.Server'ı yapılandırır ve context iptal edildiğinde
// devam eden istekleri bekleyerek kapatır.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/intelliview/intelliview-api/internal/config"
)

// Server, graceful shutdown destekli HTTP sunucusudur.
type Server struct {
	httpServer      *http.Server
	logger          logrus.FieldLogger
	shutdownTimeout time.Duration
}

// New, config'e göre sunucuyu oluşturur.
func New(cfg config.ServerConfig, handler http.Handler, logger logrus.FieldLogger) *Server {
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger:          logger.WithField("component", "server"),
		shutdownTimeout: shutdownTimeout,
	}
}

// Run, yapılandırılan adreste dinler ve ctx iptal edilene kadar çalışır.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve, verilen listener üzerinde çalışır. ctx iptal edildiğinde yeni
// bağlantı kabulü durur ve açık istekler shutdown timeout'una kadar
// beklenir.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", ln.Addr().String()).Info("HTTP server listening")
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
