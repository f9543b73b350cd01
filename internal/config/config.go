package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Rate limit backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server    ServerConfig    `envconfig:"SERVER"`
	Database  DatabaseConfig  `envconfig:"DATABASE"`
	Auth      AuthConfig      `envconfig:"AUTH"`
	Gateway   GatewayConfig   `envconfig:"GATEWAY"`
	RateLimit RateLimitConfig `envconfig:"RATELIMIT"`
	Redis     RedisConfig     `envconfig:"REDIS"`
	Tracing   TracingConfig   `envconfig:"TRACING"`
	LogLevel  string          `envconfig:"LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	Port            string        `split_words:"true" default:"8080"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	ReadTimeout     time.Duration `split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `split_words:"true" default:"15s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"30s"`
	RequestTimeout  time.Duration `split_words:"true" default:"60s"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	URL             string        `split_words:"true" required:"true"`
	MaxOpenConns    int           `split_words:"true" default:"25"`
	MaxIdleConns    int           `split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"5m"`
	QueryTimeout    time.Duration `split_words:"true" default:"10s"`
}

// AuthConfig locates the managed auth service. With no URL every order is a
// guest order.
type AuthConfig struct {
	URL     string        `split_words:"true"`
	APIKey  string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"5s"`
}

// GatewayConfig lists the apikey values clients must present. Empty disables
// the check.
type GatewayConfig struct {
	APIKeys []string `split_words:"true"`
}

type RateLimitConfig struct {
	Backend      string        `split_words:"true" default:"memory"`
	CouponLimit  int           `split_words:"true" default:"10"`
	CouponWindow time.Duration `split_words:"true" default:"5m"`
	OrderLimit   int           `split_words:"true" default:"5"`
	OrderWindow  time.Duration `split_words:"true" default:"10m"`
}

type RedisConfig struct {
	URL       string `split_words:"true" default:"redis://localhost:6379/1"`
	Namespace string `split_words:"true" default:"storefront:ratelimit"`
}

type TracingConfig struct {
	Exporter    string `split_words:"true" default:"none"`
	ServiceName string `split_words:"true" default:"storefront"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.Gateway.APIKeys = compact(cfg.Gateway.APIKeys)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("SERVER_PORT must be numeric: %s", c.Server.Port)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.RateLimit.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis rate limit backend")
		}
	default:
		return fmt.Errorf("invalid rate limit backend: %s (must be memory or redis)", c.RateLimit.Backend)
	}

	if c.RateLimit.CouponLimit <= 0 || c.RateLimit.OrderLimit <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.RateLimit.CouponWindow <= 0 || c.RateLimit.OrderWindow <= 0 {
		return fmt.Errorf("rate limit windows must be positive")
	}

	return nil
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
