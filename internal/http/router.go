package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/nala-edu/ai-grader/internal/http/handlers"
	httpMW "github.com/nala-edu/ai-grader/internal/http/middleware"
	"github.com/nala-edu/ai-grader/internal/observability"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

const DefaultAPIPrefix = "/api"

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// OtelServiceName enables otelgin spans when set.
	OtelServiceName string
	// APIPrefixes are mounted in addition to /api.
	APIPrefixes  []string
	CORSOrigins  []string
	MaxBodyBytes int64

	GradingHandler *httpH.GradingHandler
	JobHandler     *httpH.JobHandler
	TraceHandler   *httpH.TraceHandler
	VisionHandler  *httpH.VisionHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if strings.TrimSpace(cfg.OtelServiceName) != "" {
		r.Use(otelgin.Middleware(cfg.OtelServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	for _, prefix := range apiPrefixes(cfg.APIPrefixes) {
		api := r.Group(prefix)
		api.Use(httpMW.NoStore())
		api.Use(httpMW.BodyLimit(cfg.MaxBodyBytes))
		registerAPI(api, cfg)
	}
	return r
}

func registerAPI(api *gin.RouterGroup, cfg RouterConfig) {
	if cfg.HealthHandler != nil {
		api.GET("/health", cfg.HealthHandler.Status)
	}

	// Grading jobs
	if cfg.GradingHandler != nil {
		api.POST("/grade", cfg.GradingHandler.Submit)
	}
	if cfg.JobHandler != nil {
		api.GET("/jobs/:jobId", cfg.JobHandler.GetJob)
	}

	// Traces and analytics
	if cfg.TraceHandler != nil {
		api.GET("/traces/:id", cfg.TraceHandler.GetTrace)
		api.GET("/attempts/:courseCode/:userId", cfg.TraceHandler.ListAttempts)
	}

	// Vision
	if cfg.VisionHandler != nil {
		api.POST("/describe-image", cfg.VisionHandler.DescribeImage)
	}
}

// apiPrefixes returns /api followed by each distinct extra prefix.
func apiPrefixes(extra []string) []string {
	out := []string{DefaultAPIPrefix}
	seen := map[string]bool{DefaultAPIPrefix: true}
	for _, p := range extra {
		p = "/" + strings.Trim(strings.TrimSpace(p), "/")
		if p == "/" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
