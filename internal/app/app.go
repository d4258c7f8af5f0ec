package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	apphttp "github.com/nala-edu/ai-grader/internal/http"
	"github.com/nala-edu/ai-grader/internal/observability"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
	"github.com/nala-edu/ai-grader/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *apphttp.Server
	Router   *gin.Engine

	otelShutdown func(context.Context) error
}

// New builds the logger from cfg and wires every component.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.NewWithOptions(logger.Options{
		Mode:     cfg.Log.Mode,
		File:     cfg.Log.File,
		Redact:   true,
		HashSalt: cfg.Log.HashSalt,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return NewWithLogger(ctx, log, cfg)
}

func NewWithLogger(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if cfg.Log.Mode == "prod" || cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.Init(log)
	}
	otelShutdown := observability.InitOTel(ctx, log, cfg.Observability.Otel())

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	reposet, err := wireRepos(log, cfg.Database)
	if err != nil {
		_ = clients.Close()
		log.Sync()
		return nil, err
	}
	serviceset, err := wireServices(log, cfg, clients, reposet)
	if err != nil {
		_ = reposet.Close()
		_ = clients.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset, reposet)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		Router:       server.Engine,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and runs the job reaper until ctx is done or either fails.
// In-flight grading jobs get the server's shutdown grace to finish.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Server.Run(gctx) })
	g.Go(func() error { return a.Services.Jobs.Run(gctx) })
	g.Go(func() error {
		return a.Clients.Bus.StartForwarder(gctx, func(ev bus.JobEvent) {
			a.Log.Debug("job event", "job_id", ev.JobID, "kind", ev.Kind, "status", ev.Status)
		})
	})
	err := g.Wait()

	drainCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if werr := a.Services.Dispatcher.Wait(drainCtx); werr != nil {
		a.Log.Warn("grading jobs still running at shutdown", "error", werr)
	}
	return err
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var result *multierror.Error
	if err := a.Clients.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := a.Repos.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close database: %w", err))
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("otel shutdown: %w", err))
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return result.ErrorOrNil()
}
