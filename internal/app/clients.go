package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/nala-edu/ai-grader/internal/modules/grading/vision"
	"github.com/nala-edu/ai-grader/internal/platform/gcp"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
	"github.com/nala-edu/ai-grader/internal/platform/openai"
	"github.com/nala-edu/ai-grader/internal/realtime/bus"
)

type Clients struct {
	Bus       bus.Bus
	OpenAI    openai.Client
	GCPVision gcp.Vision
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Job events
	var b bus.Bus
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		rb, err := bus.NewRedisBus(log, bus.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis job bus: %w", err)
		}
		b = rb
	} else {
		b = bus.NewLocalBus(log)
	}

	// Generation service
	var oa openai.Client
	c, err := openai.NewClient(log, openai.Config{
		APIKey:     cfg.Gateway.APIKey,
		BaseURL:    cfg.Gateway.BaseURL,
		Model:      cfg.Gateway.Model,
		Timeout:    cfg.Gateway.Timeout,
		MaxRetries: cfg.Gateway.MaxRetries,
	})
	switch {
	case errors.Is(err, openai.ErrMissingAPIKey):
		log.Warn("OPENAI_API_KEY not set, grading runs in fallback mode")
	case err != nil:
		_ = b.Close()
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	default:
		oa = c
	}

	// Cloud Vision, only when asked for or credentials are configured
	var gv gcp.Vision
	mode := strings.ToLower(strings.TrimSpace(cfg.Vision.Provider))
	if mode == vision.ModeGCP || (mode == vision.ModeAuto && strings.TrimSpace(cfg.Vision.GCPCredentials) != "") {
		v, err := gcp.NewVision(ctx, log, cfg.Vision.Timeout, gcp.ClientOptions(cfg.Vision.GCPCredentials)...)
		if err != nil {
			log.Warn("cloud vision unavailable", "error", err)
		} else {
			gv = v
		}
	}

	return Clients{Bus: b, OpenAI: oa, GCPVision: gv}, nil
}

func (c *Clients) Close() error {
	if c == nil {
		return nil
	}
	var result *multierror.Error
	if c.GCPVision != nil {
		if err := c.GCPVision.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close vision: %w", err))
		}
	}
	if c.Bus != nil {
		if err := c.Bus.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close bus: %w", err))
		}
	}
	return result.ErrorOrNil()
}
