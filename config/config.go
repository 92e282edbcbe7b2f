// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"net"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// Config holds the server settings.
type Config struct {
	Host    string `env:"HOST" envDefault:"0.0.0.0"`
	Port    string `env:"PORT" envDefault:"8080"`
	DataDir string `env:"DATA_DIR" envDefault:"./data"`
	Backend string `env:"STORE_BACKEND" envDefault:"bolt"`

	// SeedDir, when set, is copied into the store at startup.
	SeedDir string `env:"SEED_DIR"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ServiceName  string `env:"SERVICE_NAME" envDefault:"website-registry"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT: unknown format %q (supported: text, json)", cfg.LogFormat)
	}
	return cfg, nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Logger builds a logrus logger from the log settings.
func (c Config) Logger() *logrus.Logger {
	log := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
