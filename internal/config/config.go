package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Item store backends.
const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	AWS    AWSConfig
	Tables TablesConfig
	Events EventsConfig
	Health HealthConfig
	Worker WorkerConfig
}

type AppConfig struct {
	Env string `env:"APP_ENV" env-default:"dev"`
	// RunLocal serves HTTP directly instead of starting the Lambda runtime.
	RunLocal bool `env:"RUN_LOCAL" env-default:"false"`
	// StoreBackend is "dynamodb" or "memory".
	StoreBackend string `env:"STORE_BACKEND" env-default:"dynamodb"`
}

type HTTPConfig struct {
	Port         string        `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	AllowOrigins []string      `env:"CORS_ALLOW_ORIGINS" env-separator:"," env-default:"*"`
}

type AWSConfig struct {
	Region string `env:"AWS_REGION" env-default:"us-east-1"`
	// EndpointOverride targets DynamoDB Local / LocalStack, e.g. http://localhost:4566
	EndpointOverride string `env:"AWS_ENDPOINT_OVERRIDE" env-default:""`
}

type TablesConfig struct {
	Items          string        `env:"ITEMS_TABLE" env-default:"items"`
	Idempotency    string        `env:"IDEMPOTENCY_TABLE" env-default:"idempotency"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" env-default:"48h"`
}

type EventsConfig struct {
	// QueueURL receives catalog change events. Empty disables publishing.
	QueueURL string `env:"CATALOG_EVENTS_QUEUE_URL" env-default:""`
}

type HealthConfig struct {
	Timeout time.Duration `env:"HEALTH_CHECK_TIMEOUT" env-default:"3s"`
}

type WorkerConfig struct {
	MetricsNamespace string `env:"METRICS_NAMESPACE" env-default:"Catalog"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	switch cfg.App.StoreBackend {
	case StoreDynamoDB, StoreMemory:
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreDynamoDB, StoreMemory, cfg.App.StoreBackend)
	}
	if cfg.Tables.Items == "" {
		return Config{}, fmt.Errorf("ITEMS_TABLE is required")
	}
	if cfg.Tables.IdempotencyTTL <= 0 {
		return Config{}, fmt.Errorf("IDEMPOTENCY_TTL must be positive, got %s", cfg.Tables.IdempotencyTTL)
	}
	return cfg, nil
}
