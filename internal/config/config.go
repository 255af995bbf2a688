package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ApplicationConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// BaseURL is the public address embedded in confirmation links,
	// e.g. https://newsletter.example.com
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// IdempotencyTTL bounds how long a publish Idempotency-Key is remembered.
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

type EmailConfig struct {
	BaseURL            string `yaml:"base_url"`
	Sender             string `yaml:"sender"`
	AuthorizationToken string `yaml:"authorization_token"`
	TimeoutMS          int    `yaml:"timeout_ms"`
}

type PublishConfig struct {
	Workers int `yaml:"workers"` // concurrent newsletter sends
}

type Config struct {
	Application ApplicationConfig `yaml:"application"`
	Log         LogConfig         `yaml:"log"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Email       EmailConfig       `yaml:"email"`
	Publish     PublishConfig     `yaml:"publish"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads and validates the YAML config at path. Any failure is
// returned to the caller so the process never reaches a serving state with a
// broken configuration.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Application.Host == "" {
		cfg.Application.Host = "127.0.0.1"
	}
	if cfg.Application.Port == 0 {
		cfg.Application.Port = 8000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Email.TimeoutMS <= 0 {
		cfg.Email.TimeoutMS = 10000
	}
	if cfg.Publish.Workers <= 0 {
		cfg.Publish.Workers = 8
	}
	if cfg.Redis.IdempotencyTTL <= 0 {
		cfg.Redis.IdempotencyTTL = 24 * time.Hour
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Application.BaseURL == "" {
		return nil, errors.New("application.base_url is required")
	}
	if _, err := url.Parse(cfg.Application.BaseURL); err != nil {
		return nil, fmt.Errorf("application.base_url: %w", err)
	}
	if cfg.Email.BaseURL == "" {
		return nil, errors.New("email.base_url is required")
	}
	if cfg.Email.Sender == "" {
		return nil, errors.New("email.sender is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (c *EmailConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
