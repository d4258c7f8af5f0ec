package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/nala-edu/ai-grader/internal/observability"
)

type Config struct {
	HTTP          HTTPConfig
	Log           LogConfig
	Database      DatabaseConfig
	Gateway       GatewayConfig
	Vision        VisionConfig
	Grading       GradingConfig
	Redis         RedisConfig
	Observability ObservabilityConfig
}

type HTTPConfig struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	APIPrefixes     []string      `env:"API_PREFIXES" envDefault:"/ee2101/api"`
	CORSOrigins     []string      `env:"CORS_ORIGINS"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"10485760"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type LogConfig struct {
	Mode     string `env:"LOG_MODE" envDefault:"development"`
	File     string `env:"LOG_FILE"`
	HashSalt string `env:"LOG_HASH_SALT"`
}

type DatabaseConfig struct {
	// URL empty keeps traces in memory.
	URL           string        `env:"DATABASE_URL"`
	SlowThreshold time.Duration `env:"DATABASE_SLOW_THRESHOLD" envDefault:"1s"`
}

type GatewayConfig struct {
	APIKey     string        `env:"OPENAI_API_KEY"`
	BaseURL    string        `env:"OPENAI_BASE_URL"`
	Model      string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Timeout    time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"30s"`
	MaxRetries int           `env:"GATEWAY_MAX_RETRIES" envDefault:"2"`
}

type VisionConfig struct {
	Provider       string        `env:"VISION_PROVIDER" envDefault:"auto"`
	Timeout        time.Duration `env:"VISION_TIMEOUT" envDefault:"20s"`
	GCPCredentials string        `env:"GCP_CREDENTIALS"`
}

type GradingConfig struct {
	UDISalt            string        `env:"UDI_SALT"`
	JobRetention       time.Duration `env:"JOB_RETENTION" envDefault:"1h"`
	ReapInterval       time.Duration `env:"REAP_INTERVAL" envDefault:"1h"`
	CourseProfilesPath string        `env:"COURSE_PROFILES_PATH"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Channel  string `env:"REDIS_CHANNEL" envDefault:"grading.jobs"`
}

type ObservabilityConfig struct {
	MetricsEnabled  bool    `env:"METRICS_ENABLED" envDefault:"true"`
	OtelEnabled     bool    `env:"OTEL_ENABLED"`
	OtelServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"ai-grader"`
	OtelEnvironment string  `env:"OTEL_ENVIRONMENT" envDefault:"development"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE"`
	OtelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// LoadConfig reads the given .env files when present, then the environment.
// Variables already set in the environment win over .env entries.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return ParseConfig(env.Options{})
}

// ParseConfig parses the process environment, or opts.Environment when set.
func ParseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Grading.JobRetention <= 0 {
		return fmt.Errorf("JOB_RETENTION must be positive")
	}
	if c.Grading.ReapInterval <= 0 {
		return fmt.Errorf("REAP_INTERVAL must be positive")
	}
	if c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("MAX_BODY_BYTES must not be negative")
	}
	return nil
}

func (c HTTPConfig) Addr() string {
	p := strings.TrimSpace(c.Port)
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}

func (c ObservabilityConfig) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.OtelEnabled,
		ServiceName: c.OtelServiceName,
		Environment: c.OtelEnvironment,
		Endpoint:    c.OtelEndpoint,
		Headers:     observability.ParseHeaders(c.OtelHeaders),
		Insecure:    c.OtelInsecure,
		SampleRatio: c.OtelSampleRatio,
	}
}
