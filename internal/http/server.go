package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	Engine *gin.Engine
	log    *logger.Logger
	srv    *nethttp.Server
	grace  time.Duration
}

func NewServer(cfg RouterConfig, sc ServerConfig) *Server {
	engine := NewRouter(cfg)
	grace := sc.ShutdownTimeout
	if grace <= 0 {
		grace = 10 * time.Second
	}
	return &Server{
		Engine: engine,
		log:    cfg.Log.With("component", "HTTPServer"),
		srv: &nethttp.Server{
			Addr:              sc.Addr,
			Handler:           engine,
			ReadTimeout:       sc.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      sc.WriteTimeout,
		},
		grace: grace,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", s.srv.Addr)
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	s.log.Info("HTTP server shutting down")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
