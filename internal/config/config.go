// Package config loads service configuration from an optional YAML file,
// a .env file and environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Outbox      OutboxConfig      `yaml:"outbox"`
	Idempotency IdempotencyConfig `yaml:"idempotency"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	Env             string        `yaml:"env" validate:"oneof=development staging production test"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RateLimitRPS is the per-client request rate; 0 disables limiting.
	RateLimitRPS   float64 `yaml:"rate_limit_rps" validate:"min=0"`
	RateLimitBurst int     `yaml:"rate_limit_burst" validate:"min=0"`
}

// DatabaseConfig holds PostgreSQL settings. An empty DSN selects the
// in-memory store.
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns" validate:"min=1"`
	MinConns         int32         `yaml:"min_conns" validate:"min=0,ltefield=MaxConns"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
	MigrateOnStart   bool          `yaml:"migrate_on_start"`
	MigrateAttempts  int           `yaml:"migrate_attempts" validate:"min=1"`

	// DemoItems seeds the in-memory store with the demo catalog.
	DemoItems bool `yaml:"demo_items"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// KafkaConfig holds the settings of the change event topic.
type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic" validate:"required"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// TelemetryConfig holds tracing and metrics settings.
type TelemetryConfig struct {
	ServiceName      string  `yaml:"service_name" validate:"required"`
	Environment      string  `yaml:"environment"`
	OTLPEndpoint     string  `yaml:"otlp_endpoint"`
	OTLPInsecure     bool    `yaml:"otlp_insecure"`
	TracesEnabled    bool    `yaml:"traces_enabled"`
	MetricsEnabled   bool    `yaml:"metrics_enabled"`
	TraceSampleRatio float64 `yaml:"trace_sample_ratio" validate:"gt=0,lte=1"`
	MetricsPath      string  `yaml:"metrics_path" validate:"startswith=/"`
}

// OutboxConfig holds the relay worker settings.
type OutboxConfig struct {
	BatchSize    int           `yaml:"batch_size" validate:"min=1"`
	MaxRetries   int           `yaml:"max_retries" validate:"min=1"`
	PollInterval time.Duration `yaml:"poll_interval"`
	DLQInterval  time.Duration `yaml:"dlq_interval"`
	PurgeAfter   time.Duration `yaml:"purge_after"`
}

// IdempotencyConfig controls X-Idempotency-Key handling.
type IdempotencyConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// LoadConfig loads configuration. The YAML file is read from CONFIG_PATH
// (default config.yaml); a missing file leaves the defaults in place.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return Load(path)
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	normalizeConfig(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Address returns the server address as host:port.
func (s *ServerConfig) Address() string {
	if s.Host == "" {
		return fmt.Sprintf(":%d", s.Port)
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment reports whether the service runs in development mode.
func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			Env:             "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    20,
			RateLimitBurst:  40,
		},
		Database: DatabaseConfig{
			MaxConns:         10,
			MinConns:         1,
			StatementTimeout: 5 * time.Second,
			MigrateOnStart:   true,
			MigrateAttempts:  5,
			DemoItems:        true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Kafka: KafkaConfig{
			Brokers:      []string{"localhost:9092"},
			Topic:        "hobbyshop.items",
			WriteTimeout: 10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:      "hobbyshop",
			Environment:      "local",
			OTLPEndpoint:     "localhost:4318",
			OTLPInsecure:     true,
			TraceSampleRatio: 1.0,
			MetricsPath:      "/metrics",
		},
		Outbox: OutboxConfig{
			BatchSize:    100,
			MaxRetries:   5,
			PollInterval: time.Second,
			DLQInterval:  time.Minute,
			PurgeAfter:   7 * 24 * time.Hour,
		},
		Idempotency: IdempotencyConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
	}
}

// applyEnv overrides file values with environment variables.
func applyEnv(cfg *Config) error {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Server.Host, "APP_HOST")
	setString(&cfg.Server.Env, "APP_ENV")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
	setString(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}

	if err := setInt(&cfg.Server.Port, "APP_PORT"); err != nil {
		return err
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		cfg.Server.RateLimitRPS = rps
	}
	if err := setBool(&cfg.Idempotency.Enabled, "IDEMPOTENCY_ENABLED"); err != nil {
		return err
	}
	if err := setBool(&cfg.Database.DemoItems, "DEMO_ITEMS"); err != nil {
		return err
	}
	if err := setBool(&cfg.Telemetry.TracesEnabled, "TRACES_ENABLED"); err != nil {
		return err
	}
	return setBool(&cfg.Telemetry.MetricsEnabled, "METRICS_ENABLED")
}

func normalizeConfig(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Server.Env == "development" {
		cfg.Log.Development = true
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MinConns > cfg.Database.MaxConns {
		cfg.Database.MinConns = cfg.Database.MaxConns
	}
	if cfg.Database.MigrateAttempts <= 0 {
		cfg.Database.MigrateAttempts = 1
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "hobbyshop"
	}
	if cfg.Telemetry.TraceSampleRatio <= 0 || cfg.Telemetry.TraceSampleRatio > 1 {
		cfg.Telemetry.TraceSampleRatio = 1.0
	}
	if cfg.Telemetry.MetricsPath == "" {
		cfg.Telemetry.MetricsPath = "/metrics"
	}
	if cfg.Outbox.PollInterval <= 0 {
		cfg.Outbox.PollInterval = time.Second
	}
	if cfg.Idempotency.TTL <= 0 {
		cfg.Idempotency.TTL = 24 * time.Hour
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
