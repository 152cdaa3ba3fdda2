package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	GenerationAPIKey  string `envconfig:"GENERATION_API_KEY"`
	GenerationModel   string `envconfig:"GENERATION_MODEL" default:"gpt-4o"`
	GenerationBaseURL string `envconfig:"GENERATION_BASE_URL"`

	SentryDSN         string  `envconfig:"SENTRY_DSN"`
	SentryEnvironment string  `envconfig:"SENTRY_ENVIRONMENT" default:"development"`
	SentrySampleRate  float64 `envconfig:"SENTRY_SAMPLE_RATE" default:"1.0"`

	TriagePollInterval time.Duration `envconfig:"TRIAGE_POLL_INTERVAL" default:"10s"`

	// Bootstrap: create initial tenant and API key on startup
	InitTenantName string `envconfig:"INIT_TENANT_NAME"`
	InitAPIKey     string `envconfig:"INIT_API_KEY"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("AIDHUB", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasGeneration() bool {
	return c.GenerationAPIKey != ""
}
