package app

import (
	apphttp "github.com/nala-edu/ai-grader/internal/http"
	"github.com/nala-edu/ai-grader/internal/observability"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *apphttp.Server {
	otelName := ""
	if cfg.Observability.OtelEnabled {
		otelName = cfg.Observability.OtelServiceName
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		OtelServiceName: otelName,
		APIPrefixes:     cfg.HTTP.APIPrefixes,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		MaxBodyBytes:    cfg.HTTP.MaxBodyBytes,
		GradingHandler:  handlers.Grading,
		JobHandler:      handlers.Job,
		TraceHandler:    handlers.Trace,
		VisionHandler:   handlers.Vision,
		HealthHandler:   handlers.Health,
	}, apphttp.ServerConfig{
		Addr:            cfg.HTTP.Addr(),
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	})
}
